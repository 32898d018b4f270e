// Package export writes the transaction set to external sinks: a master CSV
// file per year and a Google Sheets budget spreadsheet.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fjacquet/budgify/internal/config"
	"fjacquet/budgify/internal/models"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// csvRow is the master CSV layout. Amounts are rendered with exactly two
// decimals so re-imports hash to the same natural key.
type csvRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Merchant    string `csv:"merchant"`
	Category    string `csv:"category"`
	Amount      string `csv:"amount"`
}

// WriteMasterCSV writes the transactions to a single Budget<Year>.csv in
// outputDir, de-duplicated by natural key and sorted by date ascending. The
// year comes from the earliest transaction. Returns the written path.
func WriteMasterCSV(txs []models.Transaction, outputDir string) (string, error) {
	if len(txs) == 0 {
		return "", fmt.Errorf("no transactions to write")
	}

	unique := models.Dedupe(txs)
	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Date < unique[j].Date })

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	year := "0000"
	if len(unique[0].Date) >= 4 {
		year = unique[0].Date[:4]
	}
	outPath := filepath.Join(outputDir, fmt.Sprintf("Budget%s.csv", year))

	rows := make([]csvRow, 0, len(unique))
	for _, tx := range unique {
		rows = append(rows, csvRow{
			Date:        tx.Date,
			Description: tx.Description,
			Merchant:    tx.Merchant,
			Category:    tx.Category,
			Amount:      decimal.NewFromFloat(tx.Amount).StringFixed(2),
		})
	}

	file, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	writer := gocsv.NewSafeCSVWriter(csv.NewWriter(file))
	if err := gocsv.MarshalCSV(&rows, writer); err != nil {
		return "", fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":  outPath,
		"count": len(rows),
	}).Info("Successfully wrote transactions to master CSV")
	return outPath, nil
}
