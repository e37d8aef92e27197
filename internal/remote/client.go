// Package remote talks to the cloud data store: a PostgREST-style
// authenticated HTTPS API (Supabase) with one table per collection. It owns
// the wire format; callers only see domain records.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
)

const (
	tableTransactions = "transactions"
	tableGoals        = "goals"

	requestTimeout = 15 * time.Second
)

// Client is the concrete Service implementation over the Supabase REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given project URL and anon key. The
// client performs no retries; transient failures surface as *NetworkError
// and the caller decides what to do with them.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// ListTransactions implements Service.
func (c *Client) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "date.desc")

	var rows []transactionRow
	if err := c.do(ctx, "ListTransactions", http.MethodGet, tableTransactions, query, nil, &rows); err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, rowToTransaction(row))
	}
	return txs, nil
}

// InsertTransaction implements Service. The response carries the stored row
// with server-assigned fields, which becomes the returned record.
func (c *Client) InsertTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	var rows []transactionRow
	if err := c.do(ctx, "InsertTransaction", http.MethodPost, tableTransactions, nil, transactionToRow(tx), &rows); err != nil {
		return domain.Transaction{}, err
	}
	if len(rows) == 0 {
		return domain.Transaction{}, &APIError{Op: "InsertTransaction", Status: http.StatusOK, Message: "empty representation in insert response"}
	}
	return rowToTransaction(rows[0]), nil
}

// DeleteTransaction implements Service.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)
	return c.do(ctx, "DeleteTransaction", http.MethodDelete, tableTransactions, query, nil, nil)
}

// ListGoals implements Service.
func (c *Client) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")

	var rows []goalRow
	if err := c.do(ctx, "ListGoals", http.MethodGet, tableGoals, query, nil, &rows); err != nil {
		return nil, err
	}

	goals := make([]domain.Goal, 0, len(rows))
	for _, row := range rows {
		goals = append(goals, rowToGoal(row))
	}
	return goals, nil
}

// InsertGoal implements Service.
func (c *Client) InsertGoal(ctx context.Context, g domain.Goal) (domain.Goal, error) {
	var rows []goalRow
	if err := c.do(ctx, "InsertGoal", http.MethodPost, tableGoals, nil, goalToRow(g), &rows); err != nil {
		return domain.Goal{}, err
	}
	if len(rows) == 0 {
		return domain.Goal{}, &APIError{Op: "InsertGoal", Status: http.StatusOK, Message: "empty representation in insert response"}
	}
	return rowToGoal(rows[0]), nil
}

// DeleteGoal implements Service.
func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)
	return c.do(ctx, "DeleteGoal", http.MethodDelete, tableGoals, query, nil, nil)
}

// do performs one REST round trip against /rest/v1/{table} and decodes the
// JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, op, method, table string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		// Ask PostgREST to echo the stored row back, server-assigned fields
		// included.
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{Op: op, Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{Op: op, Status: resp.StatusCode, Message: fmt.Sprintf("undecodable response: %v", err)}
		}
	}

	return nil
}

// readErrorMessage extracts PostgREST's {"message": ...} error body, falling
// back to the raw text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var parsed struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &parsed) == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(data))
}

// Ensure Client implements the Service interface.
var _ Service = (*Client)(nil)
