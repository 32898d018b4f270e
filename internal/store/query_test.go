package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/budgify/internal/models"
)

// fixture covers three months, three categories, two providers, and one
// uncategorized row.
func seedFixture(t *testing.T) string {
	t.Helper()
	dbPath := testDBPath(t)
	seedStore(t, dbPath, []models.Transaction{
		{Date: "2024-01-05", Description: "Loblaws Queen St", Amount: 82.50, Provider: "amex"},
		{Date: "2024-01-12", Description: "Metro Front St", Amount: 34.10, Provider: "amex"},
		{Date: "2024-01-20", Description: "Corner Pizza", Amount: 21.00, Provider: "tdvisa"},
		{Date: "2024-02-03", Description: "Loblaws Queen St", Amount: 91.20, Provider: "amex"},
		{Date: "2024-02-14", Description: "Dark Horse Coffee", Amount: 4.75, Provider: "tdvisa"},
		{Date: "2024-03-01", Description: "Uber Trip 8841", Amount: 14.25, Provider: "tdvisa"},
		{Date: "2024-03-09", Description: "Mystery Shop", Amount: 9.99},
	})
	return dbPath
}

func TestEmptyStoreContract(t *testing.T) {
	dbPath := testDBPath(t)

	txs, err := QueryTransactions(dbPath, Filters{}, QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, txs)

	cats, err := SummarizeByCategory(dbPath, Filters{})
	require.NoError(t, err)
	assert.Empty(t, cats)

	periods, err := SummarizeByPeriod(dbPath, PeriodMonth, Filters{})
	require.NoError(t, err)
	assert.Empty(t, periods)

	merchants, err := SummarizeByMerchant(dbPath, Filters{})
	require.NoError(t, err)
	assert.Empty(t, merchants)

	names, err := ListCategories(dbPath)
	require.NoError(t, err)
	assert.Empty(t, names)

	o, err := OverviewMetrics(dbPath, Filters{})
	require.NoError(t, err)
	assert.Equal(t, 0, o.TransactionCount)
	assert.Zero(t, o.Total)
	assert.Zero(t, o.Average)
	assert.Nil(t, o.FirstDate)
	assert.Nil(t, o.LastDate)
}

func TestFiltersCombineWithAnd(t *testing.T) {
	dbPath := seedFixture(t)
	min := 30.0

	txs, err := QueryTransactions(dbPath, Filters{
		StartDate: "2024-01-01",
		EndDate:   "2024-02-28",
		Category:  "groceries",
		MinAmount: &min,
	}, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, txs, 3)
	for _, tx := range txs {
		assert.Equal(t, "groceries", tx.Category)
		assert.GreaterOrEqual(t, tx.Amount, min)
	}
}

func TestFilterByUncategorizedSentinel(t *testing.T) {
	dbPath := seedFixture(t)

	txs, err := QueryTransactions(dbPath, Filters{Category: models.CategoryUncategorized}, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Mystery Shop", txs[0].Description)
}

func TestExcludeCategoryIgnoresCase(t *testing.T) {
	dbPath := seedFixture(t)

	txs, err := QueryTransactions(dbPath, Filters{ExcludeCategory: "  GROCERIES "}, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, txs, 4)
	for _, tx := range txs {
		assert.NotEqual(t, "groceries", tx.Category)
	}
}

func TestFilterByProviderAndMerchantSubstring(t *testing.T) {
	dbPath := seedFixture(t)

	txs, err := QueryTransactions(dbPath, Filters{Provider: "tdvisa", Merchant: "Coffee"}, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Dark Horse Coffee", txs[0].Merchant)
}

func TestFilterValidation(t *testing.T) {
	dbPath := seedFixture(t)

	tests := []struct {
		name    string
		filters Filters
		field   string
	}{
		{"bad start date", Filters{StartDate: "01/05/2024"}, "start_date"},
		{"bad end date", Filters{EndDate: "2024-13-40"}, "end_date"},
		{"inverted range", Filters{StartDate: "2024-03-01", EndDate: "2024-01-01"}, "start_date"},
		{"bad regex", Filters{MerchantRegex: "("}, "merchant_regex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := QueryTransactions(dbPath, tt.filters, QueryOptions{})
			var usage *UsageError
			require.ErrorAs(t, err, &usage)
			assert.Equal(t, tt.field, usage.Field)
		})
	}
}

func TestSortingAndGrouping(t *testing.T) {
	dbPath := seedFixture(t)

	txs, err := QueryTransactions(dbPath, Filters{}, QueryOptions{SortBy: "amount", SortDir: "desc"})
	require.NoError(t, err)
	require.Len(t, txs, 7)
	assert.InDelta(t, 91.20, txs[0].Amount, 0.001)
	assert.InDelta(t, 4.75, txs[6].Amount, 0.001)

	// group_by becomes the primary ascending key; amounts descend inside
	// each category bucket.
	grouped, err := QueryTransactions(dbPath, Filters{}, QueryOptions{
		SortBy:  "amount",
		SortDir: "desc",
		GroupBy: "category",
	})
	require.NoError(t, err)
	require.Len(t, grouped, 7)
	assert.Equal(t, "dining", grouped[0].Category)
	assert.InDelta(t, 21.00, grouped[0].Amount, 0.001)
	assert.InDelta(t, 4.75, grouped[1].Amount, 0.001)
	assert.Equal(t, "groceries", grouped[2].Category)
	assert.InDelta(t, 91.20, grouped[2].Amount, 0.001)

	_, err = QueryTransactions(dbPath, Filters{}, QueryOptions{SortBy: "amount; DROP TABLE"})
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, "sort_by", usage.Field)

	_, err = QueryTransactions(dbPath, Filters{}, QueryOptions{GroupBy: "nope"})
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, "group_by", usage.Field)

	_, err = QueryTransactions(dbPath, Filters{}, QueryOptions{SortDir: "sideways"})
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, "sort_dir", usage.Field)
}

func TestPagination(t *testing.T) {
	dbPath := seedFixture(t)

	page, err := QueryTransactions(dbPath, Filters{}, QueryOptions{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "2024-01-05", page[0].Date)

	page, err = QueryTransactions(dbPath, Filters{}, QueryOptions{Limit: 3, Offset: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "2024-02-03", page[0].Date)

	page, err = QueryTransactions(dbPath, Filters{}, QueryOptions{Limit: 3, Offset: 100})
	require.NoError(t, err)
	assert.Empty(t, page)

	page, err = QueryTransactions(dbPath, Filters{}, QueryOptions{Offset: -5})
	require.NoError(t, err)
	assert.Len(t, page, 7, "negative offset is treated as zero")
}

func TestMerchantRegexFiltersBeforePagination(t *testing.T) {
	dbPath := seedFixture(t)

	// The anchor only matches with the case-insensitive flag the store adds.
	txs, err := QueryTransactions(dbPath, Filters{MerchantRegex: "^loblaws"}, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// Pagination applies to the post-regex rows, not the raw table.
	page, err := QueryTransactions(dbPath, Filters{MerchantRegex: "^loblaws"}, QueryOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "2024-02-03", page[0].Date)
}

func TestSummarizeByCategory(t *testing.T) {
	dbPath := seedFixture(t)

	cats, err := SummarizeByCategory(dbPath, Filters{})
	require.NoError(t, err)
	require.Len(t, cats, 4)

	// Ordered by total descending, uncategorized mapped to the sentinel.
	assert.Equal(t, "groceries", cats[0].Category)
	assert.InDelta(t, 207.80, cats[0].Total, 0.001)
	assert.Equal(t, 3, cats[0].TransactionCount)

	labels := []string{cats[0].Category, cats[1].Category, cats[2].Category, cats[3].Category}
	assert.Contains(t, labels, models.CategoryUncategorized)
}

func TestSummarizeByPeriod(t *testing.T) {
	dbPath := seedFixture(t)

	months, err := SummarizeByPeriod(dbPath, PeriodMonth, Filters{})
	require.NoError(t, err)
	require.Len(t, months, 3)
	assert.Equal(t, "2024-01", months[0].Period)
	assert.InDelta(t, 137.60, months[0].Total, 0.001)
	assert.Equal(t, 3, months[0].TransactionCount)
	assert.Equal(t, "2024-03", months[2].Period)

	quarters, err := SummarizeByPeriod(dbPath, PeriodQuarter, Filters{})
	require.NoError(t, err)
	require.Len(t, quarters, 1)
	assert.Equal(t, "2024-Q1", quarters[0].Period)
	assert.Equal(t, 7, quarters[0].TransactionCount)

	years, err := SummarizeByPeriod(dbPath, PeriodYear, Filters{})
	require.NoError(t, err)
	require.Len(t, years, 1)
	assert.Equal(t, "2024", years[0].Period)

	_, err = SummarizeByPeriod(dbPath, Period("decade"), Filters{})
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, "period", usage.Field)
}

func TestSummarizeByMerchant(t *testing.T) {
	dbPath := seedFixture(t)

	merchants, err := SummarizeByMerchant(dbPath, Filters{Category: "groceries"})
	require.NoError(t, err)
	require.Len(t, merchants, 2)
	assert.Equal(t, "Loblaws Queen St", merchants[0].Merchant)
	assert.InDelta(t, 173.70, merchants[0].Total, 0.001)
	assert.Equal(t, 2, merchants[0].TransactionCount)
	assert.Equal(t, "Metro Front St", merchants[1].Merchant)
}

func TestSummariesWithMerchantRegexFallback(t *testing.T) {
	dbPath := seedFixture(t)
	f := Filters{MerchantRegex: "loblaws|metro"}

	cats, err := SummarizeByCategory(dbPath, f)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "groceries", cats[0].Category)
	assert.Equal(t, 3, cats[0].TransactionCount)

	months, err := SummarizeByPeriod(dbPath, PeriodMonth, f)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, "2024-01", months[0].Period)

	o, err := OverviewMetrics(dbPath, f)
	require.NoError(t, err)
	assert.Equal(t, 3, o.TransactionCount)
	require.NotNil(t, o.FirstDate)
	assert.Equal(t, "2024-01-05", *o.FirstDate)
	require.NotNil(t, o.LastDate)
	assert.Equal(t, "2024-02-03", *o.LastDate)
}

func TestListCategoriesAndProviders(t *testing.T) {
	dbPath := seedFixture(t)

	cats, err := ListCategories(dbPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"dining", "groceries", "transport", models.CategoryUncategorized}, cats)

	providers, err := ListProviders(dbPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"amex", "tdvisa"}, providers)
}

func TestListUniqueMerchants(t *testing.T) {
	dbPath := seedFixture(t)

	// The same merchant filed under two categories after a rule change.
	require.NoError(t, Append([]models.Transaction{
		{Date: "2024-04-01", Description: "Dark Horse Coffee", Amount: 5.25},
	}, dbPath, models.CategoryRules{
		{Name: "office", Keywords: []string{"coffee"}},
	}))

	merchants, err := ListUniqueMerchants(dbPath)
	require.NoError(t, err)

	var horse *MerchantCategories
	for i := range merchants {
		if merchants[i].Merchant == "Dark Horse Coffee" {
			horse = &merchants[i]
		}
	}
	require.NotNil(t, horse)
	assert.Equal(t, []string{"dining", "office"}, horse.Categories)
}

func TestOverviewMetrics(t *testing.T) {
	dbPath := seedFixture(t)

	o, err := OverviewMetrics(dbPath, Filters{})
	require.NoError(t, err)
	assert.Equal(t, 7, o.TransactionCount)
	assert.InDelta(t, 257.79, o.Total, 0.001)
	assert.InDelta(t, 257.79/7, o.Average, 0.001)
	require.NotNil(t, o.FirstDate)
	assert.Equal(t, "2024-01-05", *o.FirstDate)
	require.NotNil(t, o.LastDate)
	assert.Equal(t, "2024-03-09", *o.LastDate)
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "2024-02", periodLabel("2024-02-14", PeriodMonth))
	assert.Equal(t, "2024-Q1", periodLabel("2024-03-31", PeriodQuarter))
	assert.Equal(t, "2024-Q2", periodLabel("2024-04-01", PeriodQuarter))
	assert.Equal(t, "2024-Q4", periodLabel("2024-12-31", PeriodQuarter))
	assert.Equal(t, "2024", periodLabel("2024-02-14", PeriodYear))
}
