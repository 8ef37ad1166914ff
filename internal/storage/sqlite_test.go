package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhalloway/ledgerflow/internal/common"
	"github.com/lhalloway/ledgerflow/internal/model"
	"github.com/lhalloway/ledgerflow/internal/projection"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "ledgerflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestSaveTransactions_DeduplicatesByHash(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		{
			BookingDate:        mustDate(t, "2026-01-05"),
			Payee:              "REWE SAGT DANKE",
			NormalizedMerchant: "REWE",
			Category:           "Groceries",
			Amount:             -45,
		},
	}

	saved, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	saved, err = store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Zero(t, saved, "identical rows must be ignored on re-import")

	count, err := store.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetTransactions_Filters(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, []model.Transaction{
		{BookingDate: mustDate(t, "2026-01-05"), Payee: "REWE", NormalizedMerchant: "REWE", Category: "Groceries", Amount: -45},
		{BookingDate: mustDate(t, "2026-02-04"), Payee: "REWE", NormalizedMerchant: "REWE", Category: "Groceries", Amount: -48},
		{BookingDate: mustDate(t, "2026-02-10"), Payee: "NETFLIX", NormalizedMerchant: "Netflix", Category: "Subscriptions", Amount: -12.99},
	})
	require.NoError(t, err)

	all, err := store.GetTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, mustDate(t, "2026-01-05"), all[0].BookingDate.UTC())

	start := mustDate(t, "2026-02-01")
	inFebruary, err := store.GetTransactions(ctx, TransactionFilter{StartDate: &start})
	require.NoError(t, err)
	assert.Len(t, inFebruary, 2)

	rewe, err := store.GetTransactions(ctx, TransactionFilter{Merchant: "REWE"})
	require.NoError(t, err)
	assert.Len(t, rewe, 2)

	subs, err := store.GetTransactions(ctx, TransactionFilter{Category: "Subscriptions"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Netflix", subs[0].NormalizedMerchant)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	assert.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndLoadState_RoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	engine := projection.NewEngine()
	item, err := engine.AddRecurringItem(model.RecurringItem{
		Name:      "Rent",
		Amount:    -900,
		Category:  "Housing",
		Frequency: model.FrequencyMonthly,
		StartDate: mustDate(t, "2025-09-01"),
	})
	require.NoError(t, err)
	require.NoError(t, engine.SetMonthlyOverride(item.ID, "2026-01", 0))

	_, err = engine.AddOneTimeItem(model.OneTimeItem{
		Name:     "Bonus",
		Amount:   1500,
		IsIncome: true,
		Category: "Salary",
		Date:     mustDate(t, "2026-07-01"),
	})
	require.NoError(t, err)

	state := engine.ExportState()
	require.NoError(t, store.SaveState(ctx, state))

	loaded, err := store.LoadState(ctx)
	require.NoError(t, err)

	restored := projection.NewEngine()
	require.NoError(t, restored.ImportState(loaded))

	got := restored.RecurringItems()
	require.Len(t, got, 1)
	assert.Equal(t, item.ID, got[0].ID)
	assert.InDelta(t, -900, got[0].Amount, 0.001)
	assert.InDelta(t, 0, got[0].MonthlyOverrides["2026-01"], 0.001)
	assert.Nil(t, got[0].EndDate)

	oneTime := restored.OneTimeItems()
	require.Len(t, oneTime, 1)
	assert.Equal(t, "Bonus", oneTime[0].Name)
	assert.True(t, oneTime[0].IsIncome)
}

func TestSaveState_ReplacesPreviousState(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	engine := projection.NewEngine()
	_, err := engine.AddRecurringItem(model.RecurringItem{
		Name:      "Old item",
		Amount:    -10,
		Frequency: model.FrequencyMonthly,
		StartDate: mustDate(t, "2026-01-01"),
	})
	require.NoError(t, err)
	require.NoError(t, store.SaveState(ctx, engine.ExportState()))

	empty := projection.NewEngine()
	require.NoError(t, store.SaveState(ctx, empty.ExportState()))

	loaded, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.RecurringItems)
	assert.Empty(t, loaded.OneTimeItems)
}

func TestLoadState_EmptyDatabase(t *testing.T) {
	store := newTestStorage(t)

	state, err := store.LoadState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, projection.StateVersion, state.Version)
	assert.Empty(t, state.RecurringItems)
	assert.Empty(t, state.OneTimeItems)
}
