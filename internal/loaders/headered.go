package loaders

import (
	"encoding/csv"
	"io"
	"strings"

	"fjacquet/budgify/internal/models"
)

// Several card issuers export CSVs with a preamble (account holder, statement
// period, disclaimers) above the real header row. loadHeadered scans for the
// first row carrying date, description, and amount columns and reads the
// table from there. Column lookup is by lowercase fragment, so "Transaction
// Date" satisfies "date".

func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable number of fields
	return reader.ReadAll()
}

func isHeaderRow(row []string) bool {
	var hasDate, hasDesc, hasAmount bool
	for _, cell := range row {
		v := strings.ToLower(strings.TrimSpace(cell))
		hasDate = hasDate || strings.Contains(v, "date")
		hasDesc = hasDesc || strings.Contains(v, "description")
		hasAmount = hasAmount || strings.Contains(v, "amount")
	}
	return hasDate && hasDesc && hasAmount
}

// columnIndex finds the column whose header matches frag, preferring an exact
// (case-insensitive) match over a substring one. Returns -1 when absent.
func columnIndex(header []string, frag string) int {
	frag = strings.ToLower(frag)
	for i, cell := range header {
		if strings.ToLower(strings.TrimSpace(cell)) == frag {
			return i
		}
	}
	for i, cell := range header {
		if strings.Contains(strings.ToLower(cell), frag) {
			return i
		}
	}
	return -1
}

func loadHeadered(loaderName string, r io.Reader) ([]models.Transaction, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, &ParseError{Loader: loaderName, Field: "csv", Value: "input", Err: err}
	}

	headerIdx := -1
	for i, row := range rows {
		if isHeaderRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, &InvalidFormatError{
			Loader:         loaderName,
			ExpectedFormat: "CSV with date, description, and amount columns",
			Msg:            "could not locate header row",
		}
	}

	header := rows[headerIdx]
	dateCol := columnIndex(header, "date")
	descCol := columnIndex(header, "description")
	amountCol := columnIndex(header, "amount")
	merchantCol := columnIndex(header, "merchant")
	if merchantCol == -1 {
		merchantCol = descCol
	}

	txs := []models.Transaction{}
	for _, row := range rows[headerIdx+1:] {
		if len(row) <= dateCol || len(row) <= descCol || len(row) <= amountCol {
			continue // short trailer rows
		}
		if strings.TrimSpace(row[dateCol]) == "" {
			continue
		}

		date, err := parseStatementDate(row[dateCol])
		if err != nil {
			return nil, &ParseError{Loader: loaderName, Field: "date", Value: row[dateCol], Err: err}
		}
		amount, err := cleanAmount(row[amountCol])
		if err != nil {
			return nil, &ParseError{Loader: loaderName, Field: "amount", Value: row[amountCol], Err: err}
		}

		mCol := merchantCol
		if mCol >= len(row) {
			mCol = descCol
		}
		txs = append(txs, models.Transaction{
			Date:        date,
			Description: strings.TrimSpace(row[descCol]),
			Merchant:    strings.TrimSpace(row[mCol]),
			Amount:      amount,
		})
	}
	return txs, nil
}
