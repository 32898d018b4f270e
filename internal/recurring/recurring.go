// Package recurring expands scheduled expense definitions (rent,
// subscriptions, insurance) into concrete transactions so they can be
// ingested alongside bank statements.
package recurring

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fjacquet/budgify/internal/models"
)

// ProviderRecurring tags transactions generated from a schedule.
const ProviderRecurring = "recurring"

// Supported cadences.
const (
	CadenceDaily   = "daily"
	CadenceWeekly  = "weekly"
	CadenceMonthly = "monthly"
)

// Entry is one scheduled expense. The schedule runs from StartDate until
// EndDate (inclusive) or for Count occurrences, whichever is given; one of
// the two is required.
type Entry struct {
	Cadence     string  `yaml:"cadence"`
	StartDate   string  `yaml:"start_date"`
	EndDate     string  `yaml:"end_date,omitempty"`
	Count       int     `yaml:"count,omitempty"`
	Description string  `yaml:"description"`
	Merchant    string  `yaml:"merchant"`
	Amount      float64 `yaml:"amount"`
}

// LoadFile reads schedule entries from a YAML list and expands them.
func LoadFile(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recurring entries: %w", err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse recurring entries: %w", err)
	}
	return Expand(entries)
}

// Expand turns schedule entries into dated transactions tagged with the
// recurring provider.
func Expand(entries []Entry) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for i, entry := range entries {
		txs, err := expandEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("recurring entry %d: %w", i+1, err)
		}
		out = append(out, txs...)
	}
	return out, nil
}

func expandEntry(entry Entry) ([]models.Transaction, error) {
	switch entry.Cadence {
	case CadenceDaily, CadenceWeekly, CadenceMonthly:
	case "":
		return nil, fmt.Errorf("missing cadence")
	default:
		return nil, fmt.Errorf("unsupported cadence %q", entry.Cadence)
	}

	if entry.StartDate == "" {
		return nil, fmt.Errorf("missing start_date")
	}
	start, err := time.Parse(models.DateLayoutISO, entry.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date %q is not a valid ISO date", entry.StartDate)
	}

	var end time.Time
	hasEnd := entry.EndDate != ""
	if hasEnd {
		if end, err = time.Parse(models.DateLayoutISO, entry.EndDate); err != nil {
			return nil, fmt.Errorf("end_date %q is not a valid ISO date", entry.EndDate)
		}
	}
	if !hasEnd && entry.Count == 0 {
		return nil, fmt.Errorf("either end_date or count is required")
	}
	if entry.Count < 0 {
		return nil, fmt.Errorf("count must be greater than 0")
	}

	txs := []models.Transaction{}
	current := start
	for generated := 0; ; generated++ {
		if hasEnd && current.After(end) {
			break
		}
		if entry.Count > 0 && generated >= entry.Count {
			break
		}
		txs = append(txs, models.Transaction{
			Date:        current.Format(models.DateLayoutISO),
			Description: entry.Description,
			Merchant:    entry.Merchant,
			Amount:      entry.Amount,
			Provider:    ProviderRecurring,
		})

		// Monthly schedules step from the start date each time, not from the
		// previous occurrence: a Jan 31 schedule yields Feb 29 then Mar 31,
		// not Feb 29 then Mar 29.
		switch entry.Cadence {
		case CadenceDaily:
			current = current.AddDate(0, 0, 1)
		case CadenceWeekly:
			current = current.AddDate(0, 0, 7)
		case CadenceMonthly:
			current = addMonths(start, generated+1)
		}
	}
	return txs, nil
}

// addMonths advances by whole months, clamping the day to the target month's
// length instead of letting it roll over.
func addMonths(d time.Time, months int) time.Time {
	monthIndex := int(d.Month()) - 1 + months
	year := d.Year() + monthIndex/12
	month := time.Month(monthIndex%12 + 1)
	day := d.Day()
	if max := daysInMonth(year, month); day > max {
		day = max
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
