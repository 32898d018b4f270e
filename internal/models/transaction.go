// Package models defines the data structures shared across the application.
package models

import (
	"fmt"
	"time"
)

// DateLayoutISO is the canonical date layout used for storage and interchange.
const DateLayoutISO = "2006-01-02"

// Transaction represents a single normalized statement transaction.
// Dates carry no time component and are kept in ISO YYYY-MM-DD form so the
// same value flows unchanged through storage, CSV export, and the JSON API.
// Amounts follow the sign convention enforced by the loaders: expenses are
// positive, refunds and payments are negative.
type Transaction struct {
	Date        string  `json:"date" yaml:"date" csv:"date"`
	Description string  `json:"description" yaml:"description" csv:"description"`
	Merchant    string  `json:"merchant" yaml:"merchant" csv:"merchant"`
	Amount      float64 `json:"amount" yaml:"amount" csv:"amount"`
	Category    string  `json:"category" yaml:"category,omitempty" csv:"category"`
	Provider    string  `json:"provider" yaml:"provider,omitempty" csv:"provider"`
}

// NaturalKey returns the deduplication identity of the transaction.
// Two transactions with the same key are the same logical transaction no
// matter how many times they are ingested.
func (t Transaction) NaturalKey() string {
	return fmt.Sprintf("%s|%s|%s|%.2f", t.Date, t.Description, t.Merchant, t.Amount)
}

// DateTime parses the transaction date into a time.Time.
func (t Transaction) DateTime() (time.Time, error) {
	return time.Parse(DateLayoutISO, t.Date)
}

// Dedupe removes duplicate transactions by natural key, preserving the order
// of first occurrence.
func Dedupe(txs []Transaction) []Transaction {
	seen := make(map[string]bool, len(txs))
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		key := tx.NaturalKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tx)
	}
	return out
}

// FilterByMonth returns only the transactions whose date falls in the given
// YYYY-MM month.
func FilterByMonth(txs []Transaction, month string) ([]Transaction, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", month, err)
	}
	var out []Transaction
	for _, tx := range txs {
		if len(tx.Date) >= 7 && tx.Date[:7] == month {
			out = append(out, tx)
		}
	}
	return out, nil
}
