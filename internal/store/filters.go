package store

import (
	"fmt"
	"regexp"
	"time"

	"fjacquet/budgify/internal/models"
)

// categoryExpr maps NULL/empty categories to the sentinel label so that
// filtering and grouping see one consistent value.
const categoryExpr = "COALESCE(NULLIF(category, ''), '" + models.CategoryUncategorized + "')"

// Filters is the shared filter vocabulary accepted by every read operation.
// All provided filters combine with logical AND; zero values impose no
// constraint. Dates are inclusive ISO YYYY-MM-DD strings.
//
// MerchantRegex is the one filter the storage engine does not evaluate: it is
// compiled case-insensitively and applied as a post-filter over fetched rows,
// before any pagination, so a page is never short because rows were pruned
// after a database-level LIMIT.
type Filters struct {
	StartDate       string
	EndDate         string
	Category        string
	ExcludeCategory string
	Provider        string
	Merchant        string
	MerchantRegex   string
	MinAmount       *float64
	MaxAmount       *float64
}

// validate checks the date fields and the regex without touching the store.
func (f Filters) validate() error {
	var start, end time.Time
	var err error
	if f.StartDate != "" {
		if start, err = time.Parse(models.DateLayoutISO, f.StartDate); err != nil {
			return usageErrorf("start_date", "%q is not a valid ISO date", f.StartDate)
		}
	}
	if f.EndDate != "" {
		if end, err = time.Parse(models.DateLayoutISO, f.EndDate); err != nil {
			return usageErrorf("end_date", "%q is not a valid ISO date", f.EndDate)
		}
	}
	if f.StartDate != "" && f.EndDate != "" && start.After(end) {
		return usageErrorf("start_date", "must be on or before end_date")
	}
	if f.MerchantRegex != "" {
		if _, err := regexp.Compile("(?i)" + f.MerchantRegex); err != nil {
			return usageErrorf("merchant_regex", "%v", err)
		}
	}
	return nil
}

// where builds the SQL predicate for everything except the regex post-filter.
func (f Filters) where() (string, []interface{}, error) {
	if err := f.validate(); err != nil {
		return "", nil, err
	}

	var clauses []string
	var args []interface{}

	if f.StartDate != "" {
		clauses = append(clauses, "date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		clauses = append(clauses, "date <= ?")
		args = append(args, f.EndDate)
	}
	if f.Category != "" {
		clauses = append(clauses, categoryExpr+" = ?")
		args = append(args, f.Category)
	}
	if f.ExcludeCategory != "" {
		// Operators should not need to know the stored casing, so the
		// negation ignores case and surrounding whitespace.
		clauses = append(clauses, "LOWER(TRIM("+categoryExpr+")) <> LOWER(TRIM(?))")
		args = append(args, f.ExcludeCategory)
	}
	if f.Provider != "" {
		clauses = append(clauses, "provider = ?")
		args = append(args, f.Provider)
	}
	if f.Merchant != "" {
		clauses = append(clauses, "merchant LIKE '%' || ? || '%'")
		args = append(args, f.Merchant)
	}
	if f.MinAmount != nil {
		clauses = append(clauses, "amount >= ?")
		args = append(args, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		clauses = append(clauses, "amount <= ?")
		args = append(args, *f.MaxAmount)
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args, nil
}

// merchantPattern returns the compiled regex post-filter, or nil when unset.
// validate must have been called first.
func (f Filters) merchantPattern() *regexp.Regexp {
	if f.MerchantRegex == "" {
		return nil
	}
	return regexp.MustCompile("(?i)" + f.MerchantRegex)
}

// applyRegex filters already-fetched rows by merchant regex.
func applyRegex(txs []models.Transaction, pattern *regexp.Regexp) []models.Transaction {
	if pattern == nil {
		return txs
	}
	out := txs[:0:0]
	for _, tx := range txs {
		if pattern.MatchString(tx.Merchant) {
			out = append(out, tx)
		}
	}
	return out
}

// DateRange is an inclusive pair of ISO dates used by period comparison.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) validate(label string) error {
	start, err := time.Parse(models.DateLayoutISO, r.Start)
	if err != nil {
		return usageErrorf(label+".start", "%q is not a valid ISO date", r.Start)
	}
	end, err := time.Parse(models.DateLayoutISO, r.End)
	if err != nil {
		return usageErrorf(label+".end", "%q is not a valid ISO date", r.End)
	}
	if start.After(end) {
		return usageErrorf(label, "start must be on or before end")
	}
	return nil
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
