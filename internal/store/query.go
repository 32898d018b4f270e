package store

import (
	"database/sql"
	"fmt"
	"sort"

	"fjacquet/budgify/internal/models"
)

// Period selects the bucket size for SummarizeByPeriod.
type Period string

// Supported summary periods.
const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// periodLabelExpr returns the SQL expression producing the period label:
// YYYY-MM for months, YYYY-Qn for quarters, YYYY for years. The labels sort
// lexically in chronological order, so ordering by label is ordering by time.
func periodLabelExpr(period Period) (string, error) {
	switch period {
	case PeriodMonth:
		return "strftime('%Y-%m', date)", nil
	case PeriodQuarter:
		return "strftime('%Y', date) || '-Q' || CAST((CAST(strftime('%m', date) AS INTEGER) + 2) / 3 AS TEXT)", nil
	case PeriodYear:
		return "strftime('%Y', date)", nil
	default:
		return "", usageErrorf("period", "%q is not one of month, quarter, year", string(period))
	}
}

// CategorySummary is one row of a by-category aggregation.
type CategorySummary struct {
	Category         string  `json:"category"`
	Total            float64 `json:"total"`
	TransactionCount int     `json:"transactions"`
}

// PeriodSummary is one row of a by-period aggregation.
type PeriodSummary struct {
	Period           string  `json:"period"`
	Total            float64 `json:"total"`
	TransactionCount int     `json:"transactions"`
}

// MerchantSummary is one row of a by-merchant aggregation.
type MerchantSummary struct {
	Merchant         string  `json:"merchant"`
	Total            float64 `json:"total"`
	TransactionCount int     `json:"transactions"`
}

// MerchantCategories pairs a merchant with every category it has appeared
// under.
type MerchantCategories struct {
	Merchant   string   `json:"merchant"`
	Categories []string `json:"categories"`
}

// Overview holds aggregate scalar statistics over a filtered set. The empty
// store yields the zero counts and nil dates; callers rely on that shape.
type Overview struct {
	TransactionCount int     `json:"transactions"`
	Total            float64 `json:"total"`
	Average          float64 `json:"average"`
	FirstDate        *string `json:"first_date"`
	LastDate         *string `json:"last_date"`
}

// QueryOptions controls sorting and pagination for QueryTransactions.
type QueryOptions struct {
	SortBy  string // date, amount, merchant, category, description, provider
	SortDir string // asc or desc
	GroupBy string // optional primary ascending sort key
	Limit   int    // defaults to 200, capped at 1000
	Offset  int    // negative values are treated as 0
}

const (
	defaultQueryLimit = 200
	maxQueryLimit     = 1000
)

// sortColumns whitelists sortable columns and maps them to SQL expressions.
// Category sorts by its sentinel-mapped value so uncategorized rows group
// together instead of interleaving NULLs.
var sortColumns = map[string]string{
	"date":        "date",
	"amount":      "amount",
	"merchant":    "merchant",
	"category":    categoryExpr,
	"description": "description",
	"provider":    "COALESCE(provider, '')",
}

const selectColumns = "date, description, merchant, amount, COALESCE(category, ''), COALESCE(provider, '')"

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.Date, &tx.Description, &tx.Merchant, &tx.Amount, &tx.Category, &tx.Provider); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// Fetch returns the full records matching the filters, ordered by date
// ascending with insertion order as a stable tiebreak.
func Fetch(dbPath string, f Filters) ([]models.Transaction, error) {
	where, args, err := f.where()
	if err != nil {
		return nil, err
	}

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT "+selectColumns+" FROM transactions"+where+" ORDER BY date ASC, id ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}
	return applyRegex(txs, f.merchantPattern()), nil
}

// QueryTransactions is the general-purpose search: any filter combination,
// whitelisted sorting, optional grouping, and pagination.
//
// When GroupBy is set and differs from SortBy it becomes the primary
// ascending sort key, producing rows sorted within each group (for example
// amounts descending inside each category bucket). When it equals SortBy the
// grouping key is dropped rather than duplicated.
func QueryTransactions(dbPath string, f Filters, opts QueryOptions) ([]models.Transaction, error) {
	where, args, err := f.where()
	if err != nil {
		return nil, err
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "date"
	}
	sortCol, ok := sortColumns[sortBy]
	if !ok {
		return nil, usageErrorf("sort_by", "%q is not a sortable column", opts.SortBy)
	}

	dir := opts.SortDir
	if dir == "" {
		dir = "asc"
	}
	if dir != "asc" && dir != "desc" {
		return nil, usageErrorf("sort_dir", "%q is not asc or desc", opts.SortDir)
	}

	orderBy := fmt.Sprintf(" ORDER BY %s %s, id ASC", sortCol, dir)
	if opts.GroupBy != "" && opts.GroupBy != sortBy {
		groupCol, ok := sortColumns[opts.GroupBy]
		if !ok {
			return nil, usageErrorf("group_by", "%q is not a groupable column", opts.GroupBy)
		}
		orderBy = fmt.Sprintf(" ORDER BY %s ASC, %s %s, id ASC", groupCol, sortCol, dir)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	pattern := f.merchantPattern()
	query := "SELECT " + selectColumns + " FROM transactions" + where + orderBy
	if pattern == nil {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}
	if pattern == nil {
		return txs, nil
	}

	// The regex prunes rows the database already counted, so pagination has
	// to happen here, after filtering, or pages would come back short.
	txs = applyRegex(txs, pattern)
	if offset >= len(txs) {
		return []models.Transaction{}, nil
	}
	txs = txs[offset:]
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// SummarizeByCategory groups the filtered set by category (NULL mapped to the
// uncategorized sentinel), ordered by total descending.
func SummarizeByCategory(dbPath string, f Filters) ([]CategorySummary, error) {
	if f.MerchantRegex != "" {
		txs, err := Fetch(dbPath, f)
		if err != nil {
			return nil, err
		}
		return summarizeCategoriesInMemory(txs), nil
	}

	where, args, err := f.where()
	if err != nil {
		return nil, err
	}

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(
		"SELECT "+categoryExpr+" AS cat, SUM(amount), COUNT(*) FROM transactions"+where+
			" GROUP BY cat ORDER BY SUM(amount) DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("summarize by category: %w", err)
	}
	defer rows.Close()

	out := []CategorySummary{}
	for rows.Next() {
		var s CategorySummary
		if err := rows.Scan(&s.Category, &s.Total, &s.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan category summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SummarizeByPeriod groups the filtered set into month, quarter, or year
// buckets, ordered chronologically.
func SummarizeByPeriod(dbPath string, period Period, f Filters) ([]PeriodSummary, error) {
	labelExpr, err := periodLabelExpr(period)
	if err != nil {
		return nil, err
	}

	if f.MerchantRegex != "" {
		txs, err := Fetch(dbPath, f)
		if err != nil {
			return nil, err
		}
		return summarizePeriodsInMemory(txs, period), nil
	}

	where, args, err := f.where()
	if err != nil {
		return nil, err
	}

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(
		"SELECT "+labelExpr+" AS period, SUM(amount), COUNT(*) FROM transactions"+where+
			" GROUP BY period ORDER BY period ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("summarize by period: %w", err)
	}
	defer rows.Close()

	out := []PeriodSummary{}
	for rows.Next() {
		var s PeriodSummary
		if err := rows.Scan(&s.Period, &s.Total, &s.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan period summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SummarizeByMerchant groups the filtered set by exact merchant string,
// ordered by total descending.
func SummarizeByMerchant(dbPath string, f Filters) ([]MerchantSummary, error) {
	if f.MerchantRegex != "" {
		txs, err := Fetch(dbPath, f)
		if err != nil {
			return nil, err
		}
		return summarizeMerchantsInMemory(txs), nil
	}

	where, args, err := f.where()
	if err != nil {
		return nil, err
	}

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(
		"SELECT merchant, SUM(amount), COUNT(*) FROM transactions"+where+
			" GROUP BY merchant ORDER BY SUM(amount) DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("summarize by merchant: %w", err)
	}
	defer rows.Close()

	out := []MerchantSummary{}
	for rows.Next() {
		var s MerchantSummary
		if err := rows.Scan(&s.Merchant, &s.Total, &s.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan merchant summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListCategories returns the sorted distinct category labels present in the
// store, including the uncategorized sentinel when null categories exist.
func ListCategories(dbPath string) ([]string, error) {
	return listDistinct(dbPath, "SELECT DISTINCT "+categoryExpr+" AS cat FROM transactions ORDER BY cat ASC")
}

// ListProviders returns the sorted distinct provider tags present in the
// store. Rows without provenance are omitted.
func ListProviders(dbPath string) ([]string, error) {
	return listDistinct(dbPath,
		"SELECT DISTINCT provider FROM transactions WHERE provider IS NOT NULL AND provider <> '' ORDER BY provider ASC")
}

func listDistinct(dbPath, query string) ([]string, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list distinct values: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListUniqueMerchants returns every merchant ever seen, each paired with the
// sorted distinct categories it has appeared under.
func ListUniqueMerchants(dbPath string) ([]MerchantCategories, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(
		"SELECT DISTINCT merchant, " + categoryExpr + " AS cat FROM transactions ORDER BY merchant ASC, cat ASC")
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	defer rows.Close()

	out := []MerchantCategories{}
	for rows.Next() {
		var merchant, category string
		if err := rows.Scan(&merchant, &category); err != nil {
			return nil, fmt.Errorf("scan merchant: %w", err)
		}
		if n := len(out); n > 0 && out[n-1].Merchant == merchant {
			out[n-1].Categories = append(out[n-1].Categories, category)
			continue
		}
		out = append(out, MerchantCategories{Merchant: merchant, Categories: []string{category}})
	}
	return out, rows.Err()
}

// OverviewMetrics computes aggregate scalar statistics over the filtered set.
func OverviewMetrics(dbPath string, f Filters) (Overview, error) {
	if f.MerchantRegex != "" {
		txs, err := Fetch(dbPath, f)
		if err != nil {
			return Overview{}, err
		}
		return overviewFromRows(txs), nil
	}

	where, args, err := f.where()
	if err != nil {
		return Overview{}, err
	}

	db, err := openDB(dbPath)
	if err != nil {
		return Overview{}, err
	}
	defer db.Close()

	var o Overview
	var first, last sql.NullString
	err = db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(amount), 0), COALESCE(AVG(amount), 0), MIN(date), MAX(date) FROM transactions"+where,
		args...,
	).Scan(&o.TransactionCount, &o.Total, &o.Average, &first, &last)
	if err != nil {
		return Overview{}, fmt.Errorf("overview metrics: %w", err)
	}
	if first.Valid {
		o.FirstDate = &first.String
	}
	if last.Valid {
		o.LastDate = &last.String
	}
	return o, nil
}

// ---------------------------------------------------------------------------
// In-memory aggregation fallbacks
//
// Used when the merchant regex post-filter is active: the regex prunes rows
// the database cannot see, so grouping has to happen over the filtered rows.
// ---------------------------------------------------------------------------

func summarizeCategoriesInMemory(txs []models.Transaction) []CategorySummary {
	totals := map[string]*CategorySummary{}
	for _, tx := range txs {
		cat := tx.Category
		if cat == "" {
			cat = models.CategoryUncategorized
		}
		s, ok := totals[cat]
		if !ok {
			s = &CategorySummary{Category: cat}
			totals[cat] = s
		}
		s.Total += tx.Amount
		s.TransactionCount++
	}
	out := make([]CategorySummary, 0, len(totals))
	for _, s := range totals {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

func summarizePeriodsInMemory(txs []models.Transaction, period Period) []PeriodSummary {
	totals := map[string]*PeriodSummary{}
	for _, tx := range txs {
		label := periodLabel(tx.Date, period)
		s, ok := totals[label]
		if !ok {
			s = &PeriodSummary{Period: label}
			totals[label] = s
		}
		s.Total += tx.Amount
		s.TransactionCount++
	}
	out := make([]PeriodSummary, 0, len(totals))
	for _, s := range totals {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

func summarizeMerchantsInMemory(txs []models.Transaction) []MerchantSummary {
	totals := map[string]*MerchantSummary{}
	for _, tx := range txs {
		s, ok := totals[tx.Merchant]
		if !ok {
			s = &MerchantSummary{Merchant: tx.Merchant}
			totals[tx.Merchant] = s
		}
		s.Total += tx.Amount
		s.TransactionCount++
	}
	out := make([]MerchantSummary, 0, len(totals))
	for _, s := range totals {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// periodLabel mirrors periodLabelExpr for ISO dates already in memory.
func periodLabel(date string, period Period) string {
	switch period {
	case PeriodMonth:
		if len(date) >= 7 {
			return date[:7]
		}
	case PeriodQuarter:
		if len(date) >= 7 {
			month := int(date[5]-'0')*10 + int(date[6]-'0')
			return fmt.Sprintf("%s-Q%d", date[:4], (month-1)/3+1)
		}
	case PeriodYear:
		if len(date) >= 4 {
			return date[:4]
		}
	}
	return date
}

func overviewFromRows(txs []models.Transaction) Overview {
	o := Overview{TransactionCount: len(txs)}
	if len(txs) == 0 {
		return o
	}
	first, last := txs[0].Date, txs[0].Date
	for _, tx := range txs {
		o.Total += tx.Amount
		if tx.Date < first {
			first = tx.Date
		}
		if tx.Date > last {
			last = tx.Date
		}
	}
	o.Average = o.Total / float64(len(txs))
	o.FirstDate = &first
	o.LastDate = &last
	return o
}
