package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lhalloway/ledgerflow/internal/model"
	"github.com/lhalloway/ledgerflow/internal/projection"
)

// SaveState replaces the persisted projection item state with the given
// snapshot. The whole write happens in one database transaction.
func (s *SQLiteStorage) SaveState(ctx context.Context, state projection.State) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, query := range []string{"DELETE FROM recurring_items", "DELETE FROM one_time_items"} {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to clear item state: %w", err)
		}
	}

	for _, item := range state.RecurringItems {
		overrides, err := json.Marshal(item.MonthlyOverrides)
		if err != nil {
			return fmt.Errorf("failed to marshal overrides for %s: %w", item.ID, err)
		}

		var endDate any
		if item.EndDate != nil {
			endDate = *item.EndDate
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO recurring_items (
				id, name, amount, category, frequency, start_date, end_date, is_income, monthly_overrides
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, item.ID, item.Name, item.Amount, item.Category, string(item.Frequency),
			item.StartDate, endDate, item.IsIncome, string(overrides))
		if err != nil {
			return fmt.Errorf("failed to save recurring item %s: %w", item.ID, err)
		}
	}

	for _, item := range state.OneTimeItems {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO one_time_items (id, name, amount, category, date, is_income)
			VALUES (?, ?, ?, ?, ?, ?)
		`, item.ID, item.Name, item.Amount, item.Category, item.Date, item.IsIncome)
		if err != nil {
			return fmt.Errorf("failed to save one-time item %s: %w", item.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO item_state_meta (id, version, last_modified) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET version = excluded.version, last_modified = excluded.last_modified
	`, state.Version, state.LastModified)
	if err != nil {
		return fmt.Errorf("failed to save state metadata: %w", err)
	}

	return tx.Commit()
}

// LoadState reads the persisted projection item state. A database with
// no saved state yields an empty, current-version snapshot.
func (s *SQLiteStorage) LoadState(ctx context.Context) (projection.State, error) {
	if err := validateContext(ctx); err != nil {
		return projection.State{}, err
	}

	state := projection.State{
		Version:        projection.StateVersion,
		RecurringItems: []model.RecurringItem{},
		OneTimeItems:   []model.OneTimeItem{},
	}

	err := s.db.QueryRowContext(ctx,
		"SELECT version, last_modified FROM item_state_meta WHERE id = 1",
	).Scan(&state.Version, &state.LastModified)
	if err != nil && err != sql.ErrNoRows {
		return projection.State{}, fmt.Errorf("failed to read state metadata: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, amount, category, frequency, start_date, end_date, is_income, monthly_overrides
		FROM recurring_items ORDER BY rowid
	`)
	if err != nil {
		return projection.State{}, fmt.Errorf("failed to query recurring items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item model.RecurringItem
		var frequency, overridesJSON string
		var category sql.NullString
		var endDate sql.NullTime
		if err := rows.Scan(&item.ID, &item.Name, &item.Amount, &category, &frequency,
			&item.StartDate, &endDate, &item.IsIncome, &overridesJSON); err != nil {
			return projection.State{}, fmt.Errorf("failed to scan recurring item: %w", err)
		}

		item.Category = category.String
		item.Frequency = model.Frequency(frequency)
		if endDate.Valid {
			end := endDate.Time
			item.EndDate = &end
		}
		if err := json.Unmarshal([]byte(overridesJSON), &item.MonthlyOverrides); err != nil {
			return projection.State{}, fmt.Errorf("failed to decode overrides for %s: %w", item.ID, err)
		}
		if item.MonthlyOverrides == nil {
			item.MonthlyOverrides = make(map[string]float64)
		}

		state.RecurringItems = append(state.RecurringItems, item)
	}
	if err := rows.Err(); err != nil {
		return projection.State{}, fmt.Errorf("failed to iterate recurring items: %w", err)
	}

	oneTimeRows, err := s.db.QueryContext(ctx, `
		SELECT id, name, amount, category, date, is_income FROM one_time_items ORDER BY rowid
	`)
	if err != nil {
		return projection.State{}, fmt.Errorf("failed to query one-time items: %w", err)
	}
	defer func() { _ = oneTimeRows.Close() }()

	for oneTimeRows.Next() {
		var item model.OneTimeItem
		var category sql.NullString
		if err := oneTimeRows.Scan(&item.ID, &item.Name, &item.Amount, &category, &item.Date, &item.IsIncome); err != nil {
			return projection.State{}, fmt.Errorf("failed to scan one-time item: %w", err)
		}
		item.Category = category.String
		state.OneTimeItems = append(state.OneTimeItems, item)
	}
	if err := oneTimeRows.Err(); err != nil {
		return projection.State{}, fmt.Errorf("failed to iterate one-time items: %w", err)
	}

	if state.LastModified.IsZero() {
		state.LastModified = time.Now().UTC()
	}

	return state, nil
}
