// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single booked financial fact from any source.
// Amounts are signed: positive is income, negative is an expense.
type Transaction struct {
	BookingDate        time.Time
	ID                 string
	Payee              string // Raw counterparty string
	NormalizedMerchant string // Canonicalized counterparty, may be empty
	Category           string
	Hash               string
	Amount             float64
}

// IsExpense reports whether the transaction moves money out.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}

// IsIncome reports whether the transaction moves money in.
func (t *Transaction) IsIncome() bool {
	return t.Amount > 0
}

// GenerateHash creates a content hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.BookingDate.Format("2006-01-02"),
		t.Amount,
		t.Payee,
		t.NormalizedMerchant)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
