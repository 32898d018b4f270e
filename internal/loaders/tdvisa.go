package loaders

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"fjacquet/budgify/internal/models"
)

const tdPaymentDescription = "payment - thank you"

// TDVisaLoader reads TD Visa CSV statements, which have no header row.
//
// Expected columns:
//
//	0: date in MM/DD/YYYY
//	1: transaction description
//	2: amount
//	3: fallback amount for payment rows when column 2 is empty
//	4: running balance (ignored)
//
// Payment rows ("PAYMENT - THANK YOU") are excluded unless IncludePayments
// is set; included payments must carry a negative amount.
type TDVisaLoader struct {
	IncludePayments bool
}

// Load implements Loader.
func (l *TDVisaLoader) Load(r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	txs := []models.Transaction{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Loader: "tdvisa", Field: "csv", Value: "row", Err: err}
		}
		if len(row) < 3 {
			continue // skip empty or malformed lines
		}

		date, err := parseStatementDate(row[0])
		if err != nil {
			return nil, &ParseError{Loader: "tdvisa", Field: "date", Value: row[0], Err: err}
		}

		desc := strings.TrimSpace(row[1])
		isPayment := strings.EqualFold(desc, tdPaymentDescription)

		// Payment rows leave the debit column empty and put the amount in
		// the credit column; those always book as negative.
		amountRaw := strings.TrimSpace(row[2])
		fromFallback := false
		if amountRaw == "" && len(row) >= 4 && strings.TrimSpace(row[3]) != "" {
			amountRaw = strings.TrimSpace(row[3])
			fromFallback = true
		}

		amount, err := cleanAmount(amountRaw)
		if err != nil {
			return nil, &ParseError{Loader: "tdvisa", Field: "amount", Value: amountRaw, Err: err}
		}
		if fromFallback && amount > 0 {
			amount = -amount
		}

		if isPayment {
			if !l.IncludePayments {
				continue
			}
			if amount >= 0 {
				return nil, &InvalidFormatError{
					Loader:         "tdvisa",
					ExpectedFormat: "negative payment amounts",
					Msg:            fmt.Sprintf("payment on %s is not negative", date),
				}
			}
		}

		txs = append(txs, models.Transaction{
			Date:        date,
			Description: desc,
			Merchant:    desc,
			Amount:      amount,
		})
	}
	return txs, nil
}
