package store

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/budgify/internal/categorizer"
	"fjacquet/budgify/internal/models"
)

// The upsert carries two deliberately asymmetric merge rules, composed into
// one statement below:
//
//   - category is last-write-wins: rule sets evolve, and re-running ingestion
//     must retroactively re-categorize existing rows;
//   - provider is first-write-wins: provenance must not be clobbered by a
//     later pass that carries no provider (e.g. a bulk re-categorization).
const (
	categoryMergeRule = "category = excluded.category"
	providerMergeRule = `provider = CASE
		WHEN transactions.provider IS NULL OR transactions.provider = ''
		THEN excluded.provider
		ELSE transactions.provider
	END`
)

var upsertTransaction = fmt.Sprintf(`
INSERT INTO transactions (date, description, merchant, amount, category, provider)
VALUES (?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''))
ON CONFLICT(date, description, merchant, amount) DO UPDATE SET
	%s,
	%s`, categoryMergeRule, providerMergeRule)

// Append categorizes and persists transactions into the store at dbPath with
// upsert semantics keyed on (date, description, merchant, amount). An empty
// input is a no-op and does not create the store file. The whole batch runs
// inside a single transaction, so readers never observe a partial append.
//
// Re-running Append with the same input is safe: each distinct natural key
// keeps exactly one row, converging to the category assignment of the latest
// rule set.
func Append(txs []models.Transaction, dbPath string, rules models.CategoryRules) error {
	if len(txs) == 0 {
		return nil
	}

	db, err := openDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	sqlTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer sqlTx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	stmt, err := sqlTx.Prepare(upsertTransaction)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		row := normalize(tx)
		category, _ := categorizer.Categorize(row, rules)
		if _, err := stmt.Exec(row.Date, row.Description, row.Merchant, row.Amount, category, row.Provider); err != nil {
			return fmt.Errorf("upsert transaction %s: %w", row.NaturalKey(), err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}

	log.WithField("count", len(txs)).Debug("Appended transactions to store")
	return nil
}

// normalize trims free-text fields and rounds the amount to the canonical
// two-decimal representation so that natural keys compare stably.
func normalize(tx models.Transaction) models.Transaction {
	tx.Description = strings.TrimSpace(tx.Description)
	tx.Merchant = strings.TrimSpace(tx.Merchant)
	if tx.Merchant == "" {
		tx.Merchant = tx.Description
	}
	tx.Provider = strings.TrimSpace(tx.Provider)
	tx.Amount = decimal.NewFromFloat(tx.Amount).Round(2).InexactFloat64()
	return tx
}
