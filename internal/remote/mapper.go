package remote

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
)

// The remote store exposes snake_case columns while the domain model uses
// camelCase attributes. The row types here own that translation, plus the
// numeric coercion quirk: numeric columns can come back as JSON strings and
// must still parse to float64.

// flexFloat unmarshals from either a JSON number or a quoted numeric string
// and always marshals back as a plain number.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("parse numeric string %q: %w", str, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

func (f flexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

// transactionRow is the wire shape of the transactions table.
type transactionRow struct {
	ID          string    `json:"id,omitempty"`
	Type        string    `json:"type"`
	Date        string    `json:"date"`
	Amount      flexFloat `json:"amount"`
	App         string    `json:"app,omitempty"`
	KMTraveled  flexFloat `json:"km_traveled,omitempty"`
	HoursWorked flexFloat `json:"hours_worked,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
}

// goalRow is the wire shape of the goals table.
type goalRow struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	TargetAmount flexFloat `json:"target_amount"`
	CreatedAt    string    `json:"created_at,omitempty"`
}

func transactionToRow(tx domain.Transaction) transactionRow {
	return transactionRow{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Date:        tx.Date,
		Amount:      flexFloat(tx.Amount),
		App:         string(tx.App),
		KMTraveled:  flexFloat(tx.KMTraveled),
		HoursWorked: flexFloat(tx.HoursWorked),
		Category:    string(tx.Category),
		Description: tx.Description,
	}
}

func rowToTransaction(row transactionRow) domain.Transaction {
	return domain.Transaction{
		ID:          row.ID,
		Type:        domain.TransactionType(row.Type),
		Date:        row.Date,
		Amount:      float64(row.Amount),
		App:         domain.Platform(row.App),
		KMTraveled:  float64(row.KMTraveled),
		HoursWorked: float64(row.HoursWorked),
		Category:    domain.ExpenseCategory(row.Category),
		Description: row.Description,
	}
}

func goalToRow(g domain.Goal) goalRow {
	return goalRow{
		ID:           g.ID,
		Name:         g.Name,
		TargetAmount: flexFloat(g.TargetAmount),
		CreatedAt:    g.CreatedAt,
	}
}

func rowToGoal(row goalRow) domain.Goal {
	return domain.Goal{
		ID:           row.ID,
		Name:         row.Name,
		TargetAmount: float64(row.TargetAmount),
		CreatedAt:    row.CreatedAt,
	}
}
