package loaders

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fjacquet/budgify/internal/models"
)

// ProviderManual tags transactions entered by hand rather than loaded from a
// bank export.
const ProviderManual = "manual"

// manualEntry is one item of the manual transactions YAML file.
type manualEntry struct {
	Date        string  `yaml:"date"`
	Description string  `yaml:"description"`
	Merchant    string  `yaml:"merchant"`
	Amount      float64 `yaml:"amount"`
}

// LoadManual reads hand-entered transactions from a YAML list. Every entry
// must carry an ISO date; description, merchant, and amount default to their
// zero values.
func LoadManual(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manual entries: %w", err)
	}

	var entries []manualEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse manual entries: %w", err)
	}

	txs := []models.Transaction{}
	for i, entry := range entries {
		if entry.Date == "" {
			return nil, fmt.Errorf("manual entry %d: missing date", i+1)
		}
		if _, err := time.Parse(models.DateLayoutISO, entry.Date); err != nil {
			return nil, fmt.Errorf("manual entry %d: %q is not a valid ISO date", i+1, entry.Date)
		}
		txs = append(txs, models.Transaction{
			Date:        entry.Date,
			Description: entry.Description,
			Merchant:    entry.Merchant,
			Amount:      entry.Amount,
			Provider:    ProviderManual,
		})
	}

	log.WithField("count", len(txs)).Debug("Loaded manual transactions")
	return txs, nil
}
