package domain

import (
	"fmt"
	"strings"
)

// TransactionType discriminates the two transaction variants.
type TransactionType string

const (
	TypeEarning TransactionType = "earning"
	TypeExpense TransactionType = "expense"
)

// Platform identifies the delivery app an earning came from.
type Platform string

const (
	PlatformUber  Platform = "Uber"
	Platform99    Platform = "99"
	PlatformOther Platform = "Outro"
)

// ExpenseCategory classifies an expense.
type ExpenseCategory string

const (
	CategoryFuel        ExpenseCategory = "Combustível"
	CategoryMaintenance ExpenseCategory = "Manutenção"
	CategoryFood        ExpenseCategory = "Alimentação"
	CategoryInsurance   ExpenseCategory = "Seguro"
	CategoryOther       ExpenseCategory = "Outros"
)

// Transaction is one financial event recorded by the driver, either an
// earning or an expense depending on Type. Transactions are immutable once
// created; an edit is a delete followed by a new insert.
//
// Date is an opaque zero-padded ISO calendar day ("2006-01-02") with no time
// component. It is compared lexicographically for range filtering and
// chronological sort; same-day ordering is insertion order.
//
// The JSON shape (camelCase tags) is the on-device snapshot format.
type Transaction struct {
	ID     string          `json:"id"`
	Type   TransactionType `json:"type"`
	Date   string          `json:"date"`
	Amount float64         `json:"amount"`

	// Earning fields.
	App         Platform `json:"app,omitempty"`
	KMTraveled  float64  `json:"kmTraveled,omitempty"`
	HoursWorked float64  `json:"hoursWorked,omitempty"`

	// Expense fields.
	Category    ExpenseCategory `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
}

// IsEarning reports whether the transaction is an earning.
func (t *Transaction) IsEarning() bool {
	return t.Type == TypeEarning
}

// Validate checks the structural invariants of a transaction before it is
// accepted into the canonical set.
func (t *Transaction) Validate() error {
	if t.Amount < 0 {
		return fmt.Errorf("transaction amount must be >= 0, got %v", t.Amount)
	}
	if !validDate(t.Date) {
		return fmt.Errorf("transaction date %q is not a zero-padded YYYY-MM-DD day", t.Date)
	}

	switch t.Type {
	case TypeEarning:
		switch t.App {
		case PlatformUber, Platform99, PlatformOther:
		default:
			return fmt.Errorf("unknown platform %q", t.App)
		}
		if t.KMTraveled < 0 {
			return fmt.Errorf("kmTraveled must be >= 0, got %v", t.KMTraveled)
		}
		if t.HoursWorked < 0 {
			return fmt.Errorf("hoursWorked must be >= 0, got %v", t.HoursWorked)
		}
	case TypeExpense:
		switch t.Category {
		case CategoryFuel, CategoryMaintenance, CategoryFood, CategoryInsurance, CategoryOther:
		default:
			return fmt.Errorf("unknown expense category %q", t.Category)
		}
	default:
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}

	return nil
}

// validDate accepts only zero-padded ISO calendar days. Zero padding is what
// makes lexicographic date comparison equivalent to chronological order.
func validDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return !strings.HasPrefix(s, "0000")
}
