package projection

import (
	"fmt"
	"time"

	"github.com/lhalloway/ledgerflow/internal/common"
	"github.com/lhalloway/ledgerflow/internal/model"
)

// StateVersion tags exported snapshots so future readers can migrate
// older shapes.
const StateVersion = 1

// State is the engine's full serializable item state. Export followed by
// Import is lossless for every item field.
type State struct {
	LastModified   time.Time             `json:"lastModified"`
	RecurringItems []model.RecurringItem `json:"recurringItems"`
	OneTimeItems   []model.OneTimeItem   `json:"oneTimeItems"`
	Version        int                   `json:"version"`
}

// ExportState snapshots the current item collections. The returned
// structure shares no memory with the engine.
func (e *Engine) ExportState() State {
	return State{
		Version:        StateVersion,
		LastModified:   time.Now().UTC(),
		RecurringItems: e.RecurringItems(),
		OneTimeItems:   e.OneTimeItems(),
	}
}

// ImportState replaces the engine's collections with the snapshot's
// contents. Items keep their ids so overrides and references survive the
// round-trip; a snapshot carrying the same id twice is rejected.
func (e *Engine) ImportState(state State) error {
	if state.Version > StateVersion {
		return fmt.Errorf("unsupported state version %d (latest known: %d)", state.Version, StateVersion)
	}

	seen := make(map[string]struct{}, len(state.RecurringItems)+len(state.OneTimeItems))
	recurring := make([]model.RecurringItem, 0, len(state.RecurringItems))
	for _, item := range state.RecurringItems {
		if err := item.Frequency.Validate(); err != nil {
			return fmt.Errorf("recurring item %q: %w", item.ID, err)
		}
		if item.ID != "" {
			if _, ok := seen[item.ID]; ok {
				return fmt.Errorf("recurring item %q: %w", item.ID, common.ErrDuplicateEntry)
			}
			seen[item.ID] = struct{}{}
		}
		if item.MonthlyOverrides == nil {
			item.MonthlyOverrides = make(map[string]float64)
		}
		recurring = append(recurring, copyRecurring(item))
	}

	oneTime := make([]model.OneTimeItem, 0, len(state.OneTimeItems))
	for _, item := range state.OneTimeItems {
		if item.ID != "" {
			if _, ok := seen[item.ID]; ok {
				return fmt.Errorf("one-time item %q: %w", item.ID, common.ErrDuplicateEntry)
			}
			seen[item.ID] = struct{}{}
		}
		oneTime = append(oneTime, item)
	}

	e.recurring = recurring
	e.oneTime = oneTime
	return nil
}

// RecurringItemFromPattern converts a detected pattern into a declared
// recurring item, restoring the sign from the requested direction. The
// series starts at the pattern's predicted next occurrence.
func RecurringItemFromPattern(p model.RecurringPattern, isIncome bool) model.RecurringItem {
	amount := p.MostRecentAmount
	if !isIncome {
		amount = -amount
	}
	return model.RecurringItem{
		Name:             p.Merchant,
		Amount:           amount,
		Category:         p.Category,
		Frequency:        p.Frequency,
		StartDate:        p.NextDate,
		IsIncome:         isIncome,
		MonthlyOverrides: make(map[string]float64),
	}
}
