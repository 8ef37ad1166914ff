package model

import "time"

// MonthKeyLayout is the year-month key format used for per-period
// overrides and derived projection ids.
const MonthKeyLayout = "2006-01"

// MonthKey returns the year-month override key for a date.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// RecurringItem is a declared periodic cash flow owned by the projection
// engine. Amount is signed; IsIncome is explicit but must agree with the
// sign (validated at the mutation boundary, never silently reconciled).
type RecurringItem struct {
	StartDate time.Time `json:"startDate"`
	// EndDate nil means the series is open-ended.
	EndDate *time.Time `json:"endDate,omitempty"`
	// MonthlyOverrides maps a year-month key (e.g. "2026-03") to a
	// substitute amount for that period. An override of exactly zero
	// suppresses the occurrence.
	MonthlyOverrides map[string]float64 `json:"monthlyOverrides"`
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Category         string             `json:"category"`
	Frequency        Frequency          `json:"frequency"`
	Amount           float64            `json:"amount"`
	IsIncome         bool               `json:"isIncome"`
}

// OneTimeItem is a declared single future cash flow. It appears in a
// projection only when its date falls inside the requested window.
type OneTimeItem struct {
	Date     time.Time `json:"date"`
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	IsIncome bool      `json:"isIncome"`
}

// ProjectedEntryType distinguishes expanded recurring occurrences from
// one-time items.
type ProjectedEntryType string

// Projected entry types.
const (
	EntryTypeRecurring ProjectedEntryType = "recurring"
	EntryTypeOneTime   ProjectedEntryType = "one-time"
)

// ProjectedEntry is one dated line of a cash-flow forecast. Entries are
// ephemeral expansion output and are never stored.
type ProjectedEntry struct {
	Date     time.Time          `json:"date"`
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Category string             `json:"category"`
	Type     ProjectedEntryType `json:"type"`
	SourceID string             `json:"sourceId"`
	Amount   float64            `json:"amount"`
	IsIncome bool               `json:"isIncome"`
}
