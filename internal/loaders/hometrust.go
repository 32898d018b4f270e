package loaders

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"fjacquet/budgify/internal/models"
)

// hometrustRow maps the headered Home Trust CSV export. Columns not listed
// here (posting date, merchant city/state, card type) are ignored.
type hometrustRow struct {
	TransDate    string `csv:"Trans Date"`
	MerchantName string `csv:"Merchant Name"`
	Amount       string `csv:"Amount"`
}

var hometrustPaymentKeywords = []string{"scotiabank payment", "payment"}

// HomeTrustLoader reads Home Trust credit card CSV statements. Amounts wrap
// credits in parentheses ("($45.67)"); payment rows are excluded unless
// IncludePayments is set.
type HomeTrustLoader struct {
	IncludePayments bool
}

// Load implements Loader.
func (l *HomeTrustLoader) Load(r io.Reader) ([]models.Transaction, error) {
	var rows []hometrustRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, &InvalidFormatError{
			Loader:         "hometrust",
			ExpectedFormat: "CSV with Trans Date, Merchant Name, and Amount columns",
			Msg:            err.Error(),
		}
	}

	txs := []models.Transaction{}
	for _, row := range rows {
		date, err := parseStatementDate(row.TransDate)
		if err != nil {
			return nil, &ParseError{Loader: "hometrust", Field: "Trans Date", Value: row.TransDate, Err: err}
		}

		desc := strings.TrimSpace(row.MerchantName)
		if l.isPayment(desc) && !l.IncludePayments {
			continue
		}

		raw := strings.TrimSpace(row.Amount)
		amount, err := cleanAmount(raw)
		if err != nil {
			return nil, &ParseError{Loader: "hometrust", Field: "Amount", Value: raw, Err: err}
		}
		// Credits come through as "($45.67)".
		if strings.Contains(raw, "(") && strings.Contains(raw, ")") && amount > 0 {
			amount = -amount
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

func (l *HomeTrustLoader) isPayment(desc string) bool {
	lower := strings.ToLower(desc)
	for _, kw := range hometrustPaymentKeywords {
		if lower == kw {
			return true
		}
	}
	return false
}
