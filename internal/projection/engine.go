// Package projection owns declared recurring and one-time cash-flow
// items and expands them into dated forecast entries.
package projection

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lhalloway/ledgerflow/internal/common"
	"github.com/lhalloway/ledgerflow/internal/model"
)

// Engine holds the declared item collections. It is the only stateful
// component of the core: CRUD calls mutate the collections in place, and
// callers that mutate from multiple goroutines must serialize externally.
// Expansion itself is pure over the current item state.
type Engine struct {
	recurring []model.RecurringItem
	oneTime   []model.OneTimeItem
}

// NewEngine creates an empty projection engine.
func NewEngine() *Engine {
	return &Engine{}
}

// validateSign rejects items whose explicit income flag disagrees with
// the amount sign. The engine never silently reconciles the two.
func validateSign(amount float64, isIncome bool) error {
	if amount == 0 {
		return nil
	}
	if isIncome != (amount > 0) {
		return fmt.Errorf("%w: amount %.2f with isIncome=%t", common.ErrSignMismatch, amount, isIncome)
	}
	return nil
}

// AddRecurringItem validates and stores a new recurring item, assigning
// it a unique id. EndDate defaults to open-ended and the override map to
// empty.
func (e *Engine) AddRecurringItem(item model.RecurringItem) (model.RecurringItem, error) {
	if err := item.Frequency.Validate(); err != nil {
		return model.RecurringItem{}, err
	}
	if err := validateSign(item.Amount, item.IsIncome); err != nil {
		return model.RecurringItem{}, err
	}

	item.ID = uuid.NewString()
	if item.MonthlyOverrides == nil {
		item.MonthlyOverrides = make(map[string]float64)
	}

	e.recurring = append(e.recurring, item)
	return copyRecurring(item), nil
}

// RecurringItemUpdate carries the fields of a partial update; nil fields
// are left unchanged. ClearEndDate resets the series to open-ended.
type RecurringItemUpdate struct {
	Name         *string
	Amount       *float64
	Category     *string
	Frequency    *model.Frequency
	StartDate    *time.Time
	EndDate      *time.Time
	IsIncome     *bool
	ClearEndDate bool
}

// UpdateRecurringItem merges the given fields into an existing item.
// Unknown ids report common.ErrNotFound.
func (e *Engine) UpdateRecurringItem(id string, update RecurringItemUpdate) (model.RecurringItem, error) {
	idx := e.findRecurring(id)
	if idx < 0 {
		return model.RecurringItem{}, fmt.Errorf("recurring item %q: %w", id, common.ErrNotFound)
	}

	merged := e.recurring[idx]
	if update.Name != nil {
		merged.Name = *update.Name
	}
	if update.Amount != nil {
		merged.Amount = *update.Amount
	}
	if update.Category != nil {
		merged.Category = *update.Category
	}
	if update.Frequency != nil {
		merged.Frequency = *update.Frequency
	}
	if update.StartDate != nil {
		merged.StartDate = *update.StartDate
	}
	if update.ClearEndDate {
		merged.EndDate = nil
	} else if update.EndDate != nil {
		end := *update.EndDate
		merged.EndDate = &end
	}
	if update.IsIncome != nil {
		merged.IsIncome = *update.IsIncome
	}

	if err := merged.Frequency.Validate(); err != nil {
		return model.RecurringItem{}, err
	}
	if err := validateSign(merged.Amount, merged.IsIncome); err != nil {
		return model.RecurringItem{}, err
	}

	e.recurring[idx] = merged
	return copyRecurring(merged), nil
}

// SetMonthlyOverride inserts or replaces the substitute amount for one
// year-month period. An override of exactly zero suppresses that
// period's occurrence.
func (e *Engine) SetMonthlyOverride(id, monthKey string, amount float64) error {
	if _, err := time.Parse(model.MonthKeyLayout, monthKey); err != nil {
		return fmt.Errorf("invalid month key %q: %w", monthKey, err)
	}

	idx := e.findRecurring(id)
	if idx < 0 {
		return fmt.Errorf("recurring item %q: %w", id, common.ErrNotFound)
	}

	if e.recurring[idx].MonthlyOverrides == nil {
		e.recurring[idx].MonthlyOverrides = make(map[string]float64)
	}
	e.recurring[idx].MonthlyOverrides[monthKey] = amount
	return nil
}

// RemoveRecurringItem deletes an item by id. Unknown ids report
// common.ErrNotFound.
func (e *Engine) RemoveRecurringItem(id string) error {
	idx := e.findRecurring(id)
	if idx < 0 {
		return fmt.Errorf("recurring item %q: %w", id, common.ErrNotFound)
	}
	e.recurring = append(e.recurring[:idx], e.recurring[idx+1:]...)
	return nil
}

// AddOneTimeItem validates and stores a new one-time item.
func (e *Engine) AddOneTimeItem(item model.OneTimeItem) (model.OneTimeItem, error) {
	if err := validateSign(item.Amount, item.IsIncome); err != nil {
		return model.OneTimeItem{}, err
	}

	item.ID = uuid.NewString()
	e.oneTime = append(e.oneTime, item)
	return item, nil
}

// RemoveOneTimeItem deletes a one-time item by id. Unknown ids report
// common.ErrNotFound.
func (e *Engine) RemoveOneTimeItem(id string) error {
	for i, item := range e.oneTime {
		if item.ID == id {
			e.oneTime = append(e.oneTime[:i], e.oneTime[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("one-time item %q: %w", id, common.ErrNotFound)
}

// RecurringItems returns a copy of all recurring items in insertion order.
func (e *Engine) RecurringItems() []model.RecurringItem {
	items := make([]model.RecurringItem, 0, len(e.recurring))
	for _, item := range e.recurring {
		items = append(items, copyRecurring(item))
	}
	return items
}

// OneTimeItems returns a copy of all one-time items in insertion order.
func (e *Engine) OneTimeItems() []model.OneTimeItem {
	items := make([]model.OneTimeItem, len(e.oneTime))
	copy(items, e.oneTime)
	return items
}

// RecurringByDirection splits the recurring items into income and
// expense sets.
func (e *Engine) RecurringByDirection() (income, expenses []model.RecurringItem) {
	for _, item := range e.recurring {
		if item.IsIncome {
			income = append(income, copyRecurring(item))
		} else {
			expenses = append(expenses, copyRecurring(item))
		}
	}
	return income, expenses
}

// GenerateProjections expands every item into dated entries inside the
// window. An inverted window yields an empty result. The expansion is
// pure: calling twice with unchanged item state produces identical
// output.
func (e *Engine) GenerateProjections(start, end time.Time) []model.ProjectedEntry {
	entries := make([]model.ProjectedEntry, 0)
	if start.After(end) {
		return entries
	}

	for _, item := range e.recurring {
		entries = append(entries, expandRecurring(item, start, end)...)
	}

	for _, item := range e.oneTime {
		if item.Date.Before(start) || item.Date.After(end) {
			continue
		}
		entries = append(entries, model.ProjectedEntry{
			ID:       item.ID,
			Name:     item.Name,
			Amount:   item.Amount,
			Category: item.Category,
			Date:     item.Date,
			IsIncome: item.IsIncome,
			Type:     model.EntryTypeOneTime,
			SourceID: item.ID,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ID < entries[j].ID
	})

	return entries
}

// expandRecurring walks one recurring series through the window.
// Month-granular frequencies step in whole months from the first day of
// the effective start month; weekly series step in exact 7-day
// increments to avoid the drift of fractional month arithmetic.
func expandRecurring(item model.RecurringItem, start, end time.Time) []model.ProjectedEntry {
	effectiveStart := start
	if item.StartDate.After(effectiveStart) {
		effectiveStart = item.StartDate
	}
	effectiveStart = firstOfMonth(effectiveStart)

	effectiveEnd := end
	if item.EndDate != nil && item.EndDate.Before(effectiveEnd) {
		effectiveEnd = *item.EndDate
	}

	var entries []model.ProjectedEntry
	for current := effectiveStart; !current.After(effectiveEnd); current = step(current, item.Frequency) {
		key := model.MonthKey(current)
		amount := item.Amount
		if override, ok := item.MonthlyOverrides[key]; ok {
			if override == 0 {
				continue
			}
			amount = override
		}

		entries = append(entries, model.ProjectedEntry{
			ID:       entryID(item, current),
			Name:     item.Name,
			Amount:   amount,
			Category: item.Category,
			Date:     current,
			IsIncome: item.IsIncome,
			Type:     model.EntryTypeRecurring,
			SourceID: item.ID,
		})
	}
	return entries
}

// entryID derives a stable id for one occurrence. Weekly series can
// emit several entries per calendar month, so their ids carry the full
// date; month-granular series use the year-month key.
func entryID(item model.RecurringItem, date time.Time) string {
	if item.Frequency == model.FrequencyWeekly {
		return item.ID + "-" + date.Format("2006-01-02")
	}
	return item.ID + "-" + model.MonthKey(date)
}

func step(current time.Time, frequency model.Frequency) time.Time {
	if frequency == model.FrequencyWeekly {
		return current.AddDate(0, 0, 7)
	}
	months := frequency.StepMonths()
	if months <= 0 {
		months = 1
	}
	return current.AddDate(0, months, 0)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func (e *Engine) findRecurring(id string) int {
	for i, item := range e.recurring {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func copyRecurring(item model.RecurringItem) model.RecurringItem {
	overrides := make(map[string]float64, len(item.MonthlyOverrides))
	for k, v := range item.MonthlyOverrides {
		overrides[k] = v
	}
	item.MonthlyOverrides = overrides
	if item.EndDate != nil {
		end := *item.EndDate
		item.EndDate = &end
	}
	return item
}
