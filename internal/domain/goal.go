package domain

import "fmt"

// Goal is a savings target. Progress is never stored; it is derived at read
// time from whatever transaction set is in scope, so a goal holds no
// reference to the transactions that count toward it.
type Goal struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	TargetAmount float64 `json:"targetAmount"`
	// CreatedAt is an RFC3339 timestamp string.
	CreatedAt string `json:"createdAt"`
}

// Validate checks the structural invariants of a goal.
func (g *Goal) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("goal name is required")
	}
	if g.TargetAmount <= 0 {
		return fmt.Errorf("goal target amount must be > 0, got %v", g.TargetAmount)
	}
	return nil
}

// DashboardStats is the derived summary over a transaction set. It is
// computed on demand and never persisted.
type DashboardStats struct {
	TotalEarnings float64 `json:"totalEarnings"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
	AvgPerHour    float64 `json:"avgPerHour"`
	AvgPerKm      float64 `json:"avgPerKm"`
	TotalKm       float64 `json:"totalKm"`
	TotalHours    float64 `json:"totalHours"`
}
