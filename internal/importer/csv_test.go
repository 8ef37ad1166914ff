package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseFile(t *testing.T) {
	path := writeCSV(t, `date,amount,payee,merchant,category
2026-01-05,-45.00,REWE SAGT DANKE,REWE,Groceries
2026-01-15,3200.00,EMPLOYER GMBH,Employer,Salary
`)

	result, err := ParseFile(path, false)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Zero(t, result.Skipped)

	first := result.Transactions[0]
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), first.BookingDate)
	assert.InDelta(t, -45.00, first.Amount, 0.001)
	assert.Equal(t, "REWE", first.NormalizedMerchant)
	assert.Equal(t, "Groceries", first.Category)
	assert.NotEmpty(t, first.Hash)
	assert.Equal(t, first.Hash, first.ID)
}

func TestParseFile_SkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, `date,amount,payee
2026-01-05,-45.00,REWE
not-a-date,-45.00,REWE
2026-01-06,not-a-number,REWE
2026-01-07,-12.00,
2026-01-08,-9.99,NETFLIX
`)

	result, err := ParseFile(path, false)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, 3, result.Skipped)
}

func TestParseFile_SkipsRaggedRows(t *testing.T) {
	path := writeCSV(t, `date,amount,payee
2026-01-05,-45.00,REWE
2026-01-06,-9.99,NETFLIX,extra-field
2026-01-07,-12.00
2026-01-08,-15.00,SPOTIFY
`)

	result, err := ParseFile(path, false)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, 2, result.Skipped)
}

func TestParseFile_AlternateFormats(t *testing.T) {
	path := writeCSV(t, `booking_date,amount,counterparty,category
05.01.2026,"-1.234,56",VERMIETER,Housing
`)

	result, err := ParseFile(path, false)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), result.Transactions[0].BookingDate)
	assert.InDelta(t, -1234.56, result.Transactions[0].Amount, 0.001)
}

func TestParseFile_MissingRequiredColumns(t *testing.T) {
	path := writeCSV(t, `amount,payee
-45.00,REWE
`)

	_, err := ParseFile(path, false)
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "-45.00", want: -45},
		{in: "-45,00", want: -45},
		{in: "1,234.56", want: 1234.56},
		{in: "-1.234,56", want: -1234.56},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}
