package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lhalloway/ledgerflow/internal/model"
)

// TransactionFilter defines filtering options for ledger queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Merchant  string
	Category  string
}

// SaveTransactions inserts transactions into the ledger, skipping rows
// whose content hash is already present.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, booking_date, payee, normalized_merchant, category, amount
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	saved := 0
	for _, txn := range transactions {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		if txn.ID == "" {
			txn.ID = txn.Hash
		}

		result, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.BookingDate,
			txn.Payee,
			txn.NormalizedMerchant,
			txn.Category,
			txn.Amount,
		)
		if err != nil {
			return saved, fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
		if rows, err := result.RowsAffected(); err == nil {
			saved += int(rows)
		}
	}

	if err := tx.Commit(); err != nil {
		return saved, fmt.Errorf("failed to commit: %w", err)
	}
	return saved, nil
}

// GetTransactions returns ledger rows matching the filter, ordered by
// booking date.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, hash, booking_date, payee, normalized_merchant, category, amount
		FROM transactions
		WHERE 1=1`
	args := make([]any, 0, 4)

	if filter.StartDate != nil {
		query += " AND booking_date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND booking_date <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.Merchant != "" {
		query += " AND normalized_merchant = ?"
		args = append(args, filter.Merchant)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	query += " ORDER BY booking_date, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var merchant, category sql.NullString
		if err := rows.Scan(&txn.ID, &txn.Hash, &txn.BookingDate, &txn.Payee, &merchant, &category, &txn.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.NormalizedMerchant = merchant.String
		txn.Category = category.String
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

// CountTransactions returns the total number of ledger rows.
func (s *SQLiteStorage) CountTransactions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
