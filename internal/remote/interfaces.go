package remote

import (
	"context"

	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
)

// Service defines the operations the sync controller needs from the remote
// data store: list, insert-one and delete-by-id per collection. All calls
// may fail with a *NetworkError or *APIError; retry policy is the caller's
// concern. The interface enables mocking in controller tests.
type Service interface {
	// ListTransactions returns all stored transactions, newest date first.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// InsertTransaction stores one transaction and returns the stored record
	// with any server-assigned fields (id, timestamps) filled in.
	InsertTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)

	// DeleteTransaction removes a transaction by id.
	DeleteTransaction(ctx context.Context, id string) error

	// ListGoals returns all stored goals, newest first.
	ListGoals(ctx context.Context) ([]domain.Goal, error)

	// InsertGoal stores one goal and returns the stored record.
	InsertGoal(ctx context.Context, g domain.Goal) (domain.Goal, error)

	// DeleteGoal removes a goal by id.
	DeleteGoal(ctx context.Context, id string) error
}
