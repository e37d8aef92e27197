package domain

import "testing"

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		tx      Transaction
		wantErr bool
	}{
		{
			name: "valid earning",
			tx:   Transaction{Type: TypeEarning, Date: "2025-03-01", Amount: 120.5, App: PlatformUber, KMTraveled: 80, HoursWorked: 6},
		},
		{
			name: "valid expense",
			tx:   Transaction{Type: TypeExpense, Date: "2025-03-01", Amount: 45, Category: CategoryFuel},
		},
		{
			name: "zero amount is allowed",
			tx:   Transaction{Type: TypeExpense, Date: "2025-03-01", Amount: 0, Category: CategoryOther},
		},
		{
			name:    "negative amount",
			tx:      Transaction{Type: TypeEarning, Date: "2025-03-01", Amount: -1, App: PlatformUber},
			wantErr: true,
		},
		{
			name:    "unpadded date",
			tx:      Transaction{Type: TypeEarning, Date: "2025-3-1", Amount: 10, App: PlatformUber},
			wantErr: true,
		},
		{
			name:    "date with time component",
			tx:      Transaction{Type: TypeEarning, Date: "2025-03-01T10:00:00Z", Amount: 10, App: PlatformUber},
			wantErr: true,
		},
		{
			name:    "unknown type",
			tx:      Transaction{Type: "transfer", Date: "2025-03-01", Amount: 10},
			wantErr: true,
		},
		{
			name:    "earning with unknown platform",
			tx:      Transaction{Type: TypeEarning, Date: "2025-03-01", Amount: 10, App: "iFood"},
			wantErr: true,
		},
		{
			name:    "expense with unknown category",
			tx:      Transaction{Type: TypeExpense, Date: "2025-03-01", Amount: 10, Category: "Pedágio"},
			wantErr: true,
		},
		{
			name:    "earning with negative km",
			tx:      Transaction{Type: TypeEarning, Date: "2025-03-01", Amount: 10, App: Platform99, KMTraveled: -5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoalValidate(t *testing.T) {
	tests := []struct {
		name    string
		goal    Goal
		wantErr bool
	}{
		{name: "valid", goal: Goal{Name: "Pneu novo", TargetAmount: 800}},
		{name: "empty name", goal: Goal{TargetAmount: 800}, wantErr: true},
		{name: "zero target", goal: Goal{Name: "Meta"}, wantErr: true},
		{name: "negative target", goal: Goal{Name: "Meta", TargetAmount: -10}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
