package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application
// expects. Failure to migrate to it is fatal.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					booking_date DATETIME NOT NULL,
					payee TEXT NOT NULL,
					normalized_merchant TEXT,
					category TEXT,
					amount REAL NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_booking_date ON transactions(booking_date)`,
				`CREATE INDEX idx_transactions_merchant ON transactions(normalized_merchant)`,
				`CREATE INDEX idx_transactions_hash ON transactions(hash)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Projection item state",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS recurring_items (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					amount REAL NOT NULL,
					category TEXT,
					frequency TEXT NOT NULL,
					start_date DATETIME NOT NULL,
					end_date DATETIME,
					is_income INTEGER NOT NULL DEFAULT 0,
					monthly_overrides TEXT NOT NULL DEFAULT '{}'
				)`,
				`CREATE TABLE IF NOT EXISTS one_time_items (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					amount REAL NOT NULL,
					category TEXT,
					date DATETIME NOT NULL,
					is_income INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE TABLE IF NOT EXISTS item_state_meta (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					version INTEGER NOT NULL,
					last_modified DATETIME NOT NULL
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate runs all pending migrations inside transactions, recording the
// schema version in PRAGMA user_version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		slog.Info("applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		current = migration.Version
	}

	if current != ExpectedSchemaVersion {
		return fmt.Errorf("schema version %d after migration, expected %d", current, ExpectedSchemaVersion)
	}

	return nil
}
