package recurring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandMonthlyClampsToMonthLength(t *testing.T) {
	txs, err := Expand([]Entry{{
		Cadence:     CadenceMonthly,
		StartDate:   "2024-01-31",
		Count:       4,
		Description: "Rent",
		Merchant:    "Landlord Inc",
		Amount:      1800,
	}})
	require.NoError(t, err)
	require.Len(t, txs, 4)

	// Stepping is anchored to the start date, so the day springs back to 31
	// after the short month.
	assert.Equal(t, "2024-01-31", txs[0].Date)
	assert.Equal(t, "2024-02-29", txs[1].Date)
	assert.Equal(t, "2024-03-31", txs[2].Date)
	assert.Equal(t, "2024-04-30", txs[3].Date)

	for _, tx := range txs {
		assert.Equal(t, ProviderRecurring, tx.Provider)
		assert.Equal(t, "Landlord Inc", tx.Merchant)
	}
}

func TestExpandDailyWithEndDate(t *testing.T) {
	txs, err := Expand([]Entry{{
		Cadence:   CadenceDaily,
		StartDate: "2024-01-01",
		EndDate:   "2024-01-03",
		Amount:    2.50,
	}})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "2024-01-03", txs[2].Date)
}

func TestExpandWeekly(t *testing.T) {
	txs, err := Expand([]Entry{{
		Cadence:   CadenceWeekly,
		StartDate: "2024-01-01",
		Count:     3,
	}})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "2024-01-08", txs[1].Date)
	assert.Equal(t, "2024-01-15", txs[2].Date)
}

func TestExpandEndDateBeforeStart(t *testing.T) {
	txs, err := Expand([]Entry{{
		Cadence:   CadenceMonthly,
		StartDate: "2024-05-01",
		EndDate:   "2024-04-01",
	}})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestExpandValidation(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		msg   string
	}{
		{"missing cadence", Entry{StartDate: "2024-01-01", Count: 1}, "missing cadence"},
		{"bad cadence", Entry{Cadence: "fortnightly", StartDate: "2024-01-01", Count: 1}, "unsupported cadence"},
		{"missing start", Entry{Cadence: CadenceDaily, Count: 1}, "missing start_date"},
		{"bad start", Entry{Cadence: CadenceDaily, StartDate: "01/05/2024", Count: 1}, "not a valid ISO date"},
		{"no bound", Entry{Cadence: CadenceDaily, StartDate: "2024-01-01"}, "either end_date or count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand([]Entry{tt.entry})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recurring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- cadence: monthly
  start_date: "2024-01-01"
  count: 2
  description: Gym membership
  merchant: FitLife
  amount: 45.00
`), 0o644))

	txs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "2024-02-01", txs[1].Date)
	assert.Equal(t, "FitLife", txs[1].Merchant)
}
