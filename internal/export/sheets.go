package export

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"fjacquet/budgify/internal/models"
)

// allDataTab aggregates every month tab with a leading month column.
const allDataTab = "AllData"

// monthTabLayout names month tabs like "January 2024".
const monthTabLayout = "January 2006"

// SheetsWriter mirrors the transaction set into a Google Sheets budget
// spreadsheet: one tab per month plus an AllData tab. Only cell values are
// written; formatting and pivots stay under the user's control.
type SheetsWriter struct {
	SpreadsheetID   string
	CredentialsFile string

	svc *sheets.Service
}

// NewSheetsWriter builds a writer for the given spreadsheet using a service
// account credentials file.
func NewSheetsWriter(credentialsFile, spreadsheetID string) *SheetsWriter {
	return &SheetsWriter{
		SpreadsheetID:   spreadsheetID,
		CredentialsFile: credentialsFile,
	}
}

func (w *SheetsWriter) service(ctx context.Context) (*sheets.Service, error) {
	if w.svc != nil {
		return w.svc, nil
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(w.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	w.svc = svc
	return svc, nil
}

// Write replaces the month tabs covered by the transactions and rebuilds the
// AllData tab. Transactions are de-duplicated and sorted by date first.
func (w *SheetsWriter) Write(ctx context.Context, txs []models.Transaction) error {
	if w.SpreadsheetID == "" {
		return fmt.Errorf("no spreadsheet id configured")
	}
	if len(txs) == 0 {
		return fmt.Errorf("no transactions to write")
	}

	svc, err := w.service(ctx)
	if err != nil {
		return err
	}

	unique := models.Dedupe(txs)
	sort.SliceStable(unique, func(i, j int) bool { return unique[i].Date < unique[j].Date })

	byMonth := map[string][]models.Transaction{}
	monthOrder := []string{}
	for _, tx := range unique {
		label, err := monthTabName(tx.Date)
		if err != nil {
			return err
		}
		if _, ok := byMonth[label]; !ok {
			monthOrder = append(monthOrder, label)
		}
		byMonth[label] = append(byMonth[label], tx)
	}

	tabs := append([]string{allDataTab}, monthOrder...)
	if err := w.ensureTabs(ctx, svc, tabs); err != nil {
		return err
	}

	for _, label := range monthOrder {
		values := [][]interface{}{{"date", "description", "merchant", "category", "amount"}}
		for _, tx := range byMonth[label] {
			values = append(values, txRow(tx))
		}
		if err := w.writeTab(ctx, svc, label, values); err != nil {
			return err
		}
	}

	all := [][]interface{}{{"month", "date", "description", "merchant", "category", "amount"}}
	for _, label := range monthOrder {
		for _, tx := range byMonth[label] {
			all = append(all, append([]interface{}{label}, txRow(tx)...))
		}
	}
	if err := w.writeTab(ctx, svc, allDataTab, all); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"spreadsheet": w.SpreadsheetID,
		"months":      len(monthOrder),
		"count":       len(unique),
	}).Info("Wrote transactions to Google Sheets")
	return nil
}

func txRow(tx models.Transaction) []interface{} {
	return []interface{}{
		tx.Date,
		tx.Description,
		tx.Merchant,
		tx.Category,
		decimal.NewFromFloat(tx.Amount).StringFixed(2),
	}
}

func monthTabName(date string) (string, error) {
	d, err := time.Parse(models.DateLayoutISO, date)
	if err != nil {
		return "", fmt.Errorf("invalid transaction date %q: %w", date, err)
	}
	return d.Format(monthTabLayout), nil
}

// ensureTabs creates any tabs that do not yet exist in the spreadsheet.
func (w *SheetsWriter) ensureTabs(ctx context.Context, svc *sheets.Service, titles []string) error {
	ss, err := svc.Spreadsheets.Get(w.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}

	existing := map[string]bool{}
	for _, sheet := range ss.Sheets {
		existing[sheet.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, title := range titles {
		if existing[title] {
			continue
		}
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}

	_, err = svc.Spreadsheets.BatchUpdate(w.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet tabs: %w", err)
	}
	return nil
}

// writeTab clears the tab and writes the values starting at A1.
func (w *SheetsWriter) writeTab(ctx context.Context, svc *sheets.Service, title string, values [][]interface{}) error {
	rangeName := fmt.Sprintf("'%s'", title)
	if _, err := svc.Spreadsheets.Values.Clear(w.SpreadsheetID, rangeName, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear tab %s: %w", title, err)
	}

	_, err := svc.Spreadsheets.Values.Update(w.SpreadsheetID, rangeName+"!A1", &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write tab %s: %w", title, err)
	}
	return nil
}
