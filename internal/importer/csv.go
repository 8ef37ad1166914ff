// Package importer reads transaction ledgers from CSV files into the
// domain model.
package importer

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/lhalloway/ledgerflow/internal/model"
)

// Result reports what a CSV parse produced.
type Result struct {
	Transactions []model.Transaction
	Skipped      int
}

var dateLayouts = []string{"2006-01-02", "02.01.2006", "2006-01-02T15:04:05Z07:00"}

// ParseFile reads a CSV ledger. The header row names the columns; date,
// amount and payee are required, merchant and category optional.
// Malformed rows are skipped and counted, never fatal.
func ParseFile(path string, showProgress bool) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	// Ragged rows must not abort the file; field-count mismatches are
	// counted as malformed in the row loop instead.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return Result{}, fmt.Errorf("%s is empty", path)
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return Result{}, err
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(len(records)-1), "importing")
	}

	result := Result{Transactions: make([]model.Transaction, 0, len(records)-1)}
	for _, record := range records[1:] {
		if bar != nil {
			_ = bar.Add(1)
		}

		if len(record) != len(records[0]) {
			slog.Debug("skipping row with wrong field count", "got", len(record), "want", len(records[0]))
			result.Skipped++
			continue
		}

		txn, ok := parseRow(record, columns)
		if !ok {
			result.Skipped++
			continue
		}
		txn.Hash = txn.GenerateHash()
		txn.ID = txn.Hash
		result.Transactions = append(result.Transactions, txn)
	}

	return result, nil
}

type columnMap struct {
	date     int
	amount   int
	payee    int
	merchant int
	category int
}

func mapColumns(header []string) (columnMap, error) {
	columns := columnMap{date: -1, amount: -1, payee: -1, merchant: -1, category: -1}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "booking_date", "bookingdate":
			columns.date = i
		case "amount":
			columns.amount = i
		case "payee", "counterparty":
			columns.payee = i
		case "merchant", "normalized_merchant", "normalizedmerchant":
			columns.merchant = i
		case "category":
			columns.category = i
		}
	}

	if columns.date < 0 || columns.amount < 0 || columns.payee < 0 {
		return columns, fmt.Errorf("header must name date, amount and payee columns, got %v", header)
	}
	return columns, nil
}

func parseRow(record []string, columns columnMap) (model.Transaction, bool) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, ok := parseDate(field(columns.date))
	if !ok {
		slog.Debug("skipping row with unparseable date", "value", field(columns.date))
		return model.Transaction{}, false
	}

	amount, err := parseAmount(field(columns.amount))
	if err != nil {
		slog.Debug("skipping row with unparseable amount", "value", field(columns.amount))
		return model.Transaction{}, false
	}

	payee := field(columns.payee)
	if payee == "" {
		slog.Debug("skipping row without payee")
		return model.Transaction{}, false
	}

	return model.Transaction{
		BookingDate:        date,
		Payee:              payee,
		NormalizedMerchant: field(columns.merchant),
		Category:           field(columns.category),
		Amount:             amount,
	}, true
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

// parseAmount accepts both decimal-point and decimal-comma notation.
// When both separators appear, the rightmost one is taken as the
// decimal mark.
func parseAmount(value string) (float64, error) {
	normalized := strings.ReplaceAll(value, " ", "")
	lastComma := strings.LastIndex(normalized, ",")
	lastDot := strings.LastIndex(normalized, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			normalized = strings.ReplaceAll(normalized, ".", "")
			normalized = strings.Replace(normalized, ",", ".", 1)
		} else {
			normalized = strings.ReplaceAll(normalized, ",", "")
		}
	case lastComma >= 0:
		normalized = strings.ReplaceAll(normalized, ",", ".")
	}

	return strconv.ParseFloat(normalized, 64)
}
