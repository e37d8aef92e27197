// Package stats derives dashboard figures from a transaction set. Every
// function here is pure and deterministic: same input, same output, no
// stored state. All divisions guard the zero-denominator case by returning
// 0 so callers always get renderable numbers, never NaN or infinity.
package stats

import (
	"fmt"
	"sort"

	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
)

// DailyTotal is one time-series bucket: the summed gains and costs of a
// single calendar day.
type DailyTotal struct {
	Date  string  `json:"date"`
	Gains float64 `json:"gains"`
	Costs float64 `json:"costs"`
}

// FuelEfficiency is the output of the fuel calculator.
type FuelEfficiency struct {
	Liters   float64 `json:"liters"`
	KMPerL   float64 `json:"kmPerLiter"`
	CostPerK float64 `json:"costPerKm"`
}

// ComputeDashboardStats folds a transaction set into the dashboard summary
// in a single linear pass.
func ComputeDashboardStats(txs []domain.Transaction) domain.DashboardStats {
	var s domain.DashboardStats

	for i := range txs {
		t := &txs[i]
		if t.IsEarning() {
			s.TotalEarnings += t.Amount
			s.TotalKm += t.KMTraveled
			s.TotalHours += t.HoursWorked
		} else {
			s.TotalExpenses += t.Amount
		}
	}

	s.NetProfit = s.TotalEarnings - s.TotalExpenses
	if s.TotalHours > 0 {
		s.AvgPerHour = s.TotalEarnings / s.TotalHours
	}
	if s.TotalKm > 0 {
		s.AvgPerKm = s.TotalEarnings / s.TotalKm
	}

	return s
}

// NetProfit sums earnings minus expenses over a transaction set.
func NetProfit(txs []domain.Transaction) float64 {
	var net float64
	for i := range txs {
		if txs[i].IsEarning() {
			net += txs[i].Amount
		} else {
			net -= txs[i].Amount
		}
	}
	return net
}

// ComputeTimeSeries groups transactions by calendar day, ascending by date
// string, and sums gains and costs per day. Dates are opaque zero-padded ISO
// strings, so lexicographic order is chronological order; no timezone
// normalization happens here.
func ComputeTimeSeries(txs []domain.Transaction) []DailyTotal {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	index := make(map[string]int, len(sorted))
	series := make([]DailyTotal, 0, len(sorted))

	for i := range sorted {
		t := &sorted[i]
		pos, ok := index[t.Date]
		if !ok {
			pos = len(series)
			index[t.Date] = pos
			series = append(series, DailyTotal{Date: t.Date})
		}
		if t.IsEarning() {
			series[pos].Gains += t.Amount
		} else {
			series[pos].Costs += t.Amount
		}
	}

	return series
}

// ComputeGoalProgress returns the completion percentage of a goal, in
// [0, 100], against whatever transaction set the caller passes. A caller
// holding a date-filtered set gets progress for that window only, not
// lifetime profit; that window coupling is intentional and is pinned down
// in the tests.
func ComputeGoalProgress(goal domain.Goal, txs []domain.Transaction) float64 {
	if goal.TargetAmount <= 0 {
		return 0
	}

	pct := NetProfit(txs) / goal.TargetAmount * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ComputeFuelEfficiency derives fuel figures from one refuel: money spent,
// pump price per liter and the distance covered since the last refuel. It is
// a standalone calculator, not tied to stored transactions.
func ComputeFuelEfficiency(amountSpent, pricePerLiter, distance float64) FuelEfficiency {
	var out FuelEfficiency

	if pricePerLiter > 0 {
		out.Liters = amountSpent / pricePerLiter
	}
	if out.Liters > 0 {
		out.KMPerL = distance / out.Liters
	}
	if distance > 0 {
		out.CostPerK = amountSpent / distance
	}

	return out
}

// AsExpense turns a calculator result into a fuel expense dated on the given
// calendar day, ready to commit through the controller's normal write path.
func (f FuelEfficiency) AsExpense(date string, amountSpent, distance float64) domain.Transaction {
	return domain.Transaction{
		Type:        domain.TypeExpense,
		Date:        date,
		Category:    domain.CategoryFuel,
		Amount:      amountSpent,
		Description: fmt.Sprintf("Abastecimento: %.2f km/L (%gkm)", f.KMPerL, distance),
	}
}

// FilterByDateRange selects the inclusive [start, end] subsequence by
// lexicographic comparison on the ISO day strings. An empty bound leaves
// that side open.
func FilterByDateRange(txs []domain.Transaction, start, end string) []domain.Transaction {
	if start == "" && end == "" {
		out := make([]domain.Transaction, len(txs))
		copy(out, txs)
		return out
	}

	out := make([]domain.Transaction, 0, len(txs))
	for i := range txs {
		d := txs[i].Date
		if start != "" && d < start {
			continue
		}
		if end != "" && d > end {
			continue
		}
		out = append(out, txs[i])
	}
	return out
}
