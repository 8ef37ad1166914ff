package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhalloway/ledgerflow/internal/common"
	"github.com/lhalloway/ledgerflow/internal/model"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date
}

func addMonthlyExpense(t *testing.T, e *Engine, name string, amount float64, start string) model.RecurringItem {
	t.Helper()
	item, err := e.AddRecurringItem(model.RecurringItem{
		Name:      name,
		Amount:    amount,
		Category:  "Subscriptions",
		Frequency: model.FrequencyMonthly,
		StartDate: mustDate(t, start),
	})
	require.NoError(t, err)
	return item
}

func TestEngine_AddRecurringItem(t *testing.T) {
	e := NewEngine()

	item := addMonthlyExpense(t, e, "Netflix", -12.99, "2026-01-01")

	assert.NotEmpty(t, item.ID)
	assert.Nil(t, item.EndDate)
	assert.NotNil(t, item.MonthlyOverrides)

	other := addMonthlyExpense(t, e, "Spotify", -9.99, "2026-01-01")
	assert.NotEqual(t, item.ID, other.ID)
	assert.Len(t, e.RecurringItems(), 2)
}

func TestEngine_AddRejectsInvalidItems(t *testing.T) {
	e := NewEngine()

	_, err := e.AddRecurringItem(model.RecurringItem{
		Name:      "Bad frequency",
		Amount:    -5,
		Frequency: "fortnightly",
		StartDate: mustDate(t, "2026-01-01"),
	})
	assert.Error(t, err)

	_, err = e.AddRecurringItem(model.RecurringItem{
		Name:      "Flag disagrees with sign",
		Amount:    -5,
		IsIncome:  true,
		Frequency: model.FrequencyMonthly,
		StartDate: mustDate(t, "2026-01-01"),
	})
	assert.ErrorIs(t, err, common.ErrSignMismatch)

	_, err = e.AddOneTimeItem(model.OneTimeItem{
		Name:     "Refund flagged as expense",
		Amount:   250,
		IsIncome: false,
		Date:     mustDate(t, "2026-05-01"),
	})
	assert.ErrorIs(t, err, common.ErrSignMismatch)
}

func TestEngine_UpdateRecurringItem(t *testing.T) {
	e := NewEngine()
	item := addMonthlyExpense(t, e, "Gym", -29.90, "2026-01-01")

	newAmount := -34.90
	end := mustDate(t, "2026-12-31")
	updated, err := e.UpdateRecurringItem(item.ID, RecurringItemUpdate{
		Amount:  &newAmount,
		EndDate: &end,
	})
	require.NoError(t, err)
	assert.InDelta(t, -34.90, updated.Amount, 0.001)
	require.NotNil(t, updated.EndDate)
	assert.Equal(t, end, *updated.EndDate)
	assert.Equal(t, "Gym", updated.Name, "unset fields stay unchanged")

	cleared, err := e.UpdateRecurringItem(item.ID, RecurringItemUpdate{ClearEndDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.EndDate)

	_, err = e.UpdateRecurringItem("no-such-id", RecurringItemUpdate{Amount: &newAmount})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEngine_UpdateRejectsSignMismatch(t *testing.T) {
	e := NewEngine()
	item := addMonthlyExpense(t, e, "Gym", -29.90, "2026-01-01")

	isIncome := true
	_, err := e.UpdateRecurringItem(item.ID, RecurringItemUpdate{IsIncome: &isIncome})
	assert.ErrorIs(t, err, common.ErrSignMismatch)

	// The failed update must not have been applied.
	items := e.RecurringItems()
	require.Len(t, items, 1)
	assert.False(t, items[0].IsIncome)
}

func TestEngine_SetMonthlyOverride(t *testing.T) {
	e := NewEngine()
	item := addMonthlyExpense(t, e, "Power", -80, "2026-01-01")

	require.NoError(t, e.SetMonthlyOverride(item.ID, "2026-03", -120))

	items := e.RecurringItems()
	require.Len(t, items, 1)
	assert.InDelta(t, -120, items[0].MonthlyOverrides["2026-03"], 0.001)

	err := e.SetMonthlyOverride("no-such-id", "2026-03", -120)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = e.SetMonthlyOverride(item.ID, "March 2026", -120)
	assert.Error(t, err)
}

func TestEngine_RemoveItems(t *testing.T) {
	e := NewEngine()
	item := addMonthlyExpense(t, e, "Gym", -29.90, "2026-01-01")

	oneTime, err := e.AddOneTimeItem(model.OneTimeItem{
		Name:   "Dentist",
		Amount: -300,
		Date:   mustDate(t, "2026-05-10"),
	})
	require.NoError(t, err)

	require.NoError(t, e.RemoveRecurringItem(item.ID))
	assert.Empty(t, e.RecurringItems())
	assert.ErrorIs(t, e.RemoveRecurringItem(item.ID), common.ErrNotFound)

	require.NoError(t, e.RemoveOneTimeItem(oneTime.ID))
	assert.Empty(t, e.OneTimeItems())
	assert.ErrorIs(t, e.RemoveOneTimeItem(oneTime.ID), common.ErrNotFound)
}

func TestEngine_RecurringByDirection(t *testing.T) {
	e := NewEngine()
	addMonthlyExpense(t, e, "Rent", -900, "2026-01-01")

	_, err := e.AddRecurringItem(model.RecurringItem{
		Name:      "Salary",
		Amount:    3200,
		IsIncome:  true,
		Frequency: model.FrequencyMonthly,
		StartDate: mustDate(t, "2026-01-01"),
	})
	require.NoError(t, err)

	income, expenses := e.RecurringByDirection()
	require.Len(t, income, 1)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Salary", income[0].Name)
	assert.Equal(t, "Rent", expenses[0].Name)
}

func TestEngine_GenerateProjections_Monthly(t *testing.T) {
	e := NewEngine()
	item := addMonthlyExpense(t, e, "Netflix", -15, "2026-01-01")

	entries := e.GenerateProjections(mustDate(t, "2026-01-01"), mustDate(t, "2026-04-30"))
	require.Len(t, entries, 4)

	for i, entry := range entries {
		assert.Equal(t, model.EntryTypeRecurring, entry.Type)
		assert.Equal(t, item.ID, entry.SourceID)
		assert.Equal(t, item.ID+"-"+entry.Date.Format("2006-01"), entry.ID)
		assert.Equal(t, time.Month(i+1), entry.Date.Month())
		assert.Equal(t, 1, entry.Date.Day())
		assert.InDelta(t, -15, entry.Amount, 0.001)
	}
}

func TestEngine_GenerateProjections_OverrideSkipsOneMonth(t *testing.T) {
	e := NewEngine()
	item := addMonthlyExpense(t, e, "Netflix", -15, "2026-01-01")
	require.NoError(t, e.SetMonthlyOverride(item.ID, "2026-03", 0))

	entries := e.GenerateProjections(mustDate(t, "2026-01-01"), mustDate(t, "2026-04-30"))
	require.Len(t, entries, 3)

	months := make([]time.Month, 0, len(entries))
	for _, entry := range entries {
		months = append(months, entry.Date.Month())
	}
	assert.Equal(t, []time.Month{time.January, time.February, time.April}, months)
}

func TestEngine_GenerateProjections_OverrideReplacesAmount(t *testing.T) {
	e := NewEngine()
	item := addMonthlyExpense(t, e, "Power", -80, "2026-01-01")
	require.NoError(t, e.SetMonthlyOverride(item.ID, "2026-02", -140))

	entries := e.GenerateProjections(mustDate(t, "2026-01-01"), mustDate(t, "2026-03-31"))
	require.Len(t, entries, 3)
	assert.InDelta(t, -80, entries[0].Amount, 0.001)
	assert.InDelta(t, -140, entries[1].Amount, 0.001)
	assert.InDelta(t, -80, entries[2].Amount, 0.001)
}

func TestEngine_GenerateProjections_Weekly(t *testing.T) {
	e := NewEngine()
	item, err := e.AddRecurringItem(model.RecurringItem{
		Name:      "Cleaning",
		Amount:    -35,
		Frequency: model.FrequencyWeekly,
		StartDate: mustDate(t, "2026-01-01"),
	})
	require.NoError(t, err)

	entries := e.GenerateProjections(mustDate(t, "2026-01-01"), mustDate(t, "2026-01-31"))
	require.Len(t, entries, 5)

	// Exact 7-day stepping, no fractional-month drift.
	for i, entry := range entries {
		want := mustDate(t, "2026-01-01").AddDate(0, 0, 7*i)
		assert.Equal(t, want, entry.Date)
		assert.Equal(t, item.ID+"-"+want.Format("2006-01-02"), entry.ID)
	}
}

func TestEngine_GenerateProjections_WindowEdges(t *testing.T) {
	e := NewEngine()

	item := addMonthlyExpense(t, e, "Netflix", -15, "2026-03-15")
	end := mustDate(t, "2026-05-31")
	_, err := e.UpdateRecurringItem(item.ID, RecurringItemUpdate{EndDate: &end})
	require.NoError(t, err)

	// Item start caps the window start; its month is included whole.
	entries := e.GenerateProjections(mustDate(t, "2026-01-01"), mustDate(t, "2026-12-31"))
	require.Len(t, entries, 3)
	assert.Equal(t, mustDate(t, "2026-03-01"), entries[0].Date)
	assert.Equal(t, mustDate(t, "2026-05-01"), entries[2].Date)
}

func TestEngine_GenerateProjections_OneTimeItems(t *testing.T) {
	e := NewEngine()

	inWindow, err := e.AddOneTimeItem(model.OneTimeItem{
		Name:   "Car repair",
		Amount: -600,
		Date:   mustDate(t, "2026-02-14"),
	})
	require.NoError(t, err)

	_, err = e.AddOneTimeItem(model.OneTimeItem{
		Name:   "Tax refund",
		Amount: 900, IsIncome: true,
		Date: mustDate(t, "2026-08-01"),
	})
	require.NoError(t, err)

	entries := e.GenerateProjections(mustDate(t, "2026-01-01"), mustDate(t, "2026-06-30"))
	require.Len(t, entries, 1)
	assert.Equal(t, model.EntryTypeOneTime, entries[0].Type)
	assert.Equal(t, inWindow.ID, entries[0].ID)
	assert.Equal(t, inWindow.ID, entries[0].SourceID)
}

func TestEngine_GenerateProjections_InvertedWindow(t *testing.T) {
	e := NewEngine()
	addMonthlyExpense(t, e, "Netflix", -15, "2026-01-01")

	entries := e.GenerateProjections(mustDate(t, "2026-06-01"), mustDate(t, "2026-01-01"))
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestEngine_GenerateProjections_Idempotent(t *testing.T) {
	e := NewEngine()
	item := addMonthlyExpense(t, e, "Netflix", -15, "2026-01-01")
	require.NoError(t, e.SetMonthlyOverride(item.ID, "2026-02", 0))

	_, err := e.AddRecurringItem(model.RecurringItem{
		Name:      "Salary",
		Amount:    3200,
		IsIncome:  true,
		Frequency: model.FrequencyMonthly,
		StartDate: mustDate(t, "2026-01-01"),
	})
	require.NoError(t, err)

	start, end := mustDate(t, "2026-01-01"), mustDate(t, "2026-06-30")
	first := e.GenerateProjections(start, end)
	second := e.GenerateProjections(start, end)
	assert.Equal(t, first, second)
}

func TestEngine_AccessorsReturnCopies(t *testing.T) {
	e := NewEngine()
	item := addMonthlyExpense(t, e, "Netflix", -15, "2026-01-01")

	leaked := e.RecurringItems()
	leaked[0].MonthlyOverrides["2026-02"] = 0
	leaked[0].Name = "tampered"

	items := e.RecurringItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Netflix", items[0].Name)
	assert.Empty(t, items[0].MonthlyOverrides)

	// The engine's own expansion must be unaffected too.
	entries := e.GenerateProjections(mustDate(t, "2026-01-01"), mustDate(t, "2026-02-28"))
	require.Len(t, entries, 2)
	assert.Equal(t, item.ID, entries[0].SourceID)
}
