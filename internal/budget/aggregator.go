// Package budget reduces transaction or projection sets over a window
// into income/expense/balance summaries with category breakdowns.
package budget

import (
	"math"
	"sort"
	"time"

	"github.com/lhalloway/ledgerflow/internal/model"
)

// Line is the minimal dated-amount shape the aggregator consumes, so
// historical transactions and projected entries reduce through the same
// path.
type Line struct {
	Date     time.Time
	Category string
	Amount   float64
}

// LinesFromTransactions adapts historical transactions for aggregation.
func LinesFromTransactions(transactions []model.Transaction) []Line {
	lines := make([]Line, len(transactions))
	for i, txn := range transactions {
		lines[i] = Line{Date: txn.BookingDate, Category: txn.Category, Amount: txn.Amount}
	}
	return lines
}

// LinesFromProjections adapts projected entries for aggregation.
func LinesFromProjections(entries []model.ProjectedEntry) []Line {
	lines := make([]Line, len(entries))
	for i, entry := range entries {
		lines[i] = Line{Date: entry.Date, Category: entry.Category, Amount: entry.Amount}
	}
	return lines
}

// CategoryTotal is one row of the expense breakdown. Percentage is the
// category's share of total expenses.
type CategoryTotal struct {
	Category   string
	Amount     float64
	Percentage float64
}

// Summary is the reduced view of a set of lines over a period. Monthly
// figures divide the totals by the number of calendar months spanned.
type Summary struct {
	Categories      []CategoryTotal
	TotalIncome     float64
	TotalExpenses   float64
	Balance         float64
	SavingsRate     float64
	MonthlyIncome   float64
	MonthlyExpenses float64
	MonthsInPeriod  int
}

// Summarize reduces lines over an optional window. Empty input yields an
// explicit zero summary; no path divides by zero.
func Summarize(lines []Line, windowStart, windowEnd *time.Time) Summary {
	filtered := make([]Line, 0, len(lines))
	for _, line := range lines {
		if windowStart != nil && line.Date.Before(*windowStart) {
			continue
		}
		if windowEnd != nil && line.Date.After(*windowEnd) {
			continue
		}
		filtered = append(filtered, line)
	}

	if len(filtered) == 0 {
		return Summary{Categories: []CategoryTotal{}, MonthsInPeriod: 1}
	}

	var income, expenses float64
	byCategory := make(map[string]float64)
	minDate, maxDate := filtered[0].Date, filtered[0].Date

	for _, line := range filtered {
		if line.Date.Before(minDate) {
			minDate = line.Date
		}
		if line.Date.After(maxDate) {
			maxDate = line.Date
		}
		// Zero-amount lines move the window but contribute to neither side.
		if line.Amount > 0 {
			income += line.Amount
		} else if line.Amount < 0 {
			expense := -line.Amount
			expenses += expense
			byCategory[line.Category] += expense
		}
	}

	balance := income - expenses
	savingsRate := 0.0
	if income > 0 {
		savingsRate = round2(balance / income * 100)
	}

	categories := make([]CategoryTotal, 0, len(byCategory))
	for category, amount := range byCategory {
		percentage := 0.0
		if expenses > 0 {
			percentage = round2(amount / expenses * 100)
		}
		categories = append(categories, CategoryTotal{
			Category:   category,
			Amount:     amount,
			Percentage: percentage,
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Amount != categories[j].Amount {
			return categories[i].Amount > categories[j].Amount
		}
		return categories[i].Category < categories[j].Category
	})

	months := monthCount(minDate, maxDate)
	if months < 1 {
		months = 1
	}

	return Summary{
		TotalIncome:     income,
		TotalExpenses:   expenses,
		Balance:         balance,
		SavingsRate:     savingsRate,
		MonthsInPeriod:  months,
		MonthlyIncome:   income / float64(months),
		MonthlyExpenses: expenses / float64(months),
		Categories:      categories,
	}
}

// monthCount returns the number of calendar months touched by the
// inclusive range, e.g. Jan 30 through Feb 2 spans two months.
func monthCount(min, max time.Time) int {
	return (max.Year()-min.Year())*12 + int(max.Month()) - int(min.Month()) + 1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
