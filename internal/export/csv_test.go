package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/budgify/internal/models"
)

func TestWriteMasterCSV(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteMasterCSV([]models.Transaction{
		{Date: "2024-02-03", Description: "Loblaws", Merchant: "Loblaws", Amount: 91.2, Category: "groceries"},
		{Date: "2024-01-05", Description: "Corner Pizza", Merchant: "Corner Pizza", Amount: 21, Category: "dining"},
		{Date: "2024-01-05", Description: "Corner Pizza", Merchant: "Corner Pizza", Amount: 21, Category: "dining"},
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Budget2024.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	require.Len(t, lines, 3, "duplicates collapse to one row")
	assert.Equal(t, "date,description,merchant,category,amount", lines[0])
	assert.Equal(t, "2024-01-05,Corner Pizza,Corner Pizza,dining,21.00", lines[1], "rows sort by date and amounts carry two decimals")
	assert.Equal(t, "2024-02-03,Loblaws,Loblaws,groceries,91.20", lines[2])
}

func TestWriteMasterCSVCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "exports")

	_, err := WriteMasterCSV([]models.Transaction{
		{Date: "2023-12-31", Description: "NYE Dinner", Merchant: "Bistro", Amount: 120},
	}, dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "Budget2023.csv"))
	require.NoError(t, err)
}

func TestWriteMasterCSVEmptyInput(t *testing.T) {
	_, err := WriteMasterCSV(nil, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transactions")
}

func TestMonthTabName(t *testing.T) {
	label, err := monthTabName("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, "January 2024", label)

	_, err = monthTabName("01/05/2024")
	require.Error(t, err)
}
