package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/lhalloway/ledgerflow/internal/common"
	"github.com/lhalloway/ledgerflow/internal/config"
	"github.com/lhalloway/ledgerflow/internal/projection"
	"github.com/lhalloway/ledgerflow/internal/storage"
)

const flagDateLayout = "2006-01-02"

// initStorage opens the configured database and brings its schema up to
// date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}

	return store, nil
}

// loadEngine restores the projection engine from persisted item state.
func loadEngine(ctx context.Context, store *storage.SQLiteStorage) (*projection.Engine, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load item state: %w", err)
	}

	engine := projection.NewEngine()
	if err := engine.ImportState(state); err != nil {
		return nil, fmt.Errorf("failed to restore item state: %w", err)
	}

	common.LogDebug("restored item state", common.Fields{
		"recurring": len(state.RecurringItems),
		"one_time":  len(state.OneTimeItems),
	})
	return engine, nil
}

// saveEngine persists the engine's current item state.
func saveEngine(ctx context.Context, store *storage.SQLiteStorage, engine *projection.Engine) error {
	if err := store.SaveState(ctx, engine.ExportState()); err != nil {
		return fmt.Errorf("failed to save item state: %w", err)
	}
	return nil
}

func parseDateFlag(value, name string) (time.Time, error) {
	date, err := time.Parse(flagDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD: %w", name, value, err)
	}
	return date, nil
}

func parseOptionalDateFlag(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := parseDateFlag(value, name)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
