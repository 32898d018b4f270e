package store

import (
	"fmt"
	"strings"
)

// PeriodSpend is the aggregate for one side of a period comparison.
type PeriodSpend struct {
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Total            float64 `json:"total"`
	TransactionCount int     `json:"transactions"`
}

// PeriodComparison reports spend across two arbitrary date ranges. The
// ranges may be non-adjacent or overlapping; PercentChange is nil when the
// first period total is zero, never a division by zero.
type PeriodComparison struct {
	FirstPeriod   PeriodSpend `json:"first_period"`
	SecondPeriod  PeriodSpend `json:"second_period"`
	Difference    float64     `json:"difference"`
	PercentChange *float64    `json:"percent_change"`
}

// ComparePeriods computes total and count independently for two date ranges,
// optionally restricted to one category.
func ComparePeriods(dbPath string, first, second DateRange, category string) (PeriodComparison, error) {
	if err := first.validate("first_period"); err != nil {
		return PeriodComparison{}, err
	}
	if err := second.validate("second_period"); err != nil {
		return PeriodComparison{}, err
	}

	spend := func(r DateRange) (PeriodSpend, error) {
		o, err := OverviewMetrics(dbPath, Filters{StartDate: r.Start, EndDate: r.End, Category: category})
		if err != nil {
			return PeriodSpend{}, err
		}
		return PeriodSpend{
			StartDate:        r.Start,
			EndDate:          r.End,
			Total:            o.Total,
			TransactionCount: o.TransactionCount,
		}, nil
	}

	firstSpend, err := spend(first)
	if err != nil {
		return PeriodComparison{}, err
	}
	secondSpend, err := spend(second)
	if err != nil {
		return PeriodComparison{}, err
	}

	cmp := PeriodComparison{
		FirstPeriod:  firstSpend,
		SecondPeriod: secondSpend,
		Difference:   secondSpend.Total - firstSpend.Total,
	}
	if firstSpend.Total != 0 {
		change := cmp.Difference / firstSpend.Total
		cmp.PercentChange = &change
	}
	return cmp, nil
}

// MerchantStat is one merchant inside a category deep-dive. SpendShare is
// the merchant total divided by the category total (0 when the category
// total is 0).
type MerchantStat struct {
	Merchant         string  `json:"merchant"`
	Total            float64 `json:"total"`
	TransactionCount int     `json:"transactions"`
	SpendShare       float64 `json:"spend_share"`
}

// TransactionBrief is a top-transaction entry in a category deep-dive.
type TransactionBrief struct {
	Date     string  `json:"date"`
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
}

// Opportunity types emitted by AnalyzeCategory.
const (
	OpportunityMerchantConcentration = "merchant_concentration"
	OpportunityHighFrequencyMerchant = "high_frequency_merchant"
	OpportunityRecentSpike           = "recent_spike"
)

// Opportunity is a rule-derived saving suggestion. The Type tag and numeric
// fields are the contract; Message is a convenience rendering of them.
type Opportunity struct {
	Type             string  `json:"type"`
	Merchant         string  `json:"merchant,omitempty"`
	SpendShare       float64 `json:"spend_share,omitempty"`
	TransactionCount int     `json:"transactions,omitempty"`
	Month            string  `json:"month,omitempty"`
	Total            float64 `json:"total,omitempty"`
	MonthlyAverage   float64 `json:"monthly_average,omitempty"`
	Message          string  `json:"message"`
}

// CategoryInsights is the deep-dive payload for one category.
type CategoryInsights struct {
	Category         string             `json:"category"`
	Total            float64            `json:"total"`
	TransactionCount int                `json:"transactions"`
	Average          float64            `json:"average"`
	TopMerchants     []MerchantStat     `json:"top_merchants"`
	MonthlyTrend     []PeriodSummary    `json:"monthly_trend"`
	TopTransactions  []TransactionBrief `json:"top_transactions"`
	Opportunities    []Opportunity      `json:"optimization_opportunities"`
}

// InsightOptions bounds the size of an AnalyzeCategory payload. Zero values
// take the defaults.
type InsightOptions struct {
	TopMerchants     int // default 5
	TopTransactions  int // default 5
	MaxPeriods       int // default 12, most recent months
	MaxOpportunities int // default 3
}

func (o InsightOptions) withDefaults() InsightOptions {
	if o.TopMerchants <= 0 {
		o.TopMerchants = 5
	}
	if o.TopTransactions <= 0 {
		o.TopTransactions = 5
	}
	if o.MaxPeriods <= 0 {
		o.MaxPeriods = 12
	}
	if o.MaxOpportunities <= 0 {
		o.MaxOpportunities = 3
	}
	return o
}

// AnalyzeCategory builds the deep-dive for one category: aggregate totals,
// top merchants with spend share, the recent monthly trend, the largest
// transactions, and rule-derived optimization opportunities. The category
// argument is required; all other filters compose as usual.
func AnalyzeCategory(dbPath, category string, f Filters, opts InsightOptions) (*CategoryInsights, error) {
	if strings.TrimSpace(category) == "" {
		return nil, usageErrorf("category", "a category is required")
	}
	opts = opts.withDefaults()
	f.Category = category

	overview, err := OverviewMetrics(dbPath, f)
	if err != nil {
		return nil, err
	}

	insights := &CategoryInsights{
		Category:         category,
		Total:            overview.Total,
		TransactionCount: overview.TransactionCount,
		Average:          overview.Average,
		TopMerchants:     []MerchantStat{},
		MonthlyTrend:     []PeriodSummary{},
		TopTransactions:  []TransactionBrief{},
		Opportunities:    []Opportunity{},
	}
	if overview.TransactionCount == 0 {
		return insights, nil
	}

	merchants, err := SummarizeByMerchant(dbPath, f)
	if err != nil {
		return nil, err
	}
	for i, m := range merchants {
		if i >= opts.TopMerchants {
			break
		}
		stat := MerchantStat{Merchant: m.Merchant, Total: m.Total, TransactionCount: m.TransactionCount}
		if insights.Total != 0 {
			stat.SpendShare = m.Total / insights.Total
		}
		insights.TopMerchants = append(insights.TopMerchants, stat)
	}

	trend, err := SummarizeByPeriod(dbPath, PeriodMonth, f)
	if err != nil {
		return nil, err
	}
	if len(trend) > opts.MaxPeriods {
		trend = trend[len(trend)-opts.MaxPeriods:]
	}
	insights.MonthlyTrend = trend

	top, err := QueryTransactions(dbPath, f, QueryOptions{
		SortBy:  "amount",
		SortDir: "desc",
		Limit:   opts.TopTransactions,
	})
	if err != nil {
		return nil, err
	}
	for _, tx := range top {
		insights.TopTransactions = append(insights.TopTransactions, TransactionBrief{
			Date:     tx.Date,
			Merchant: tx.Merchant,
			Amount:   tx.Amount,
		})
	}

	insights.Opportunities = deriveOpportunities(insights, merchants, opts.MaxOpportunities)
	return insights, nil
}

// deriveOpportunities applies the fixed opportunity rules, in a stable order,
// capped at maxOpportunities.
func deriveOpportunities(in *CategoryInsights, merchants []MerchantSummary, maxOpportunities int) []Opportunity {
	opportunities := []Opportunity{}

	// merchant_concentration: one merchant holds 30% or more of the spend.
	if len(in.TopMerchants) > 0 {
		top := in.TopMerchants[0]
		if top.SpendShare >= 0.30 {
			opportunities = append(opportunities, Opportunity{
				Type:       OpportunityMerchantConcentration,
				Merchant:   top.Merchant,
				SpendShare: top.SpendShare,
				Total:      top.Total,
				Message: fmt.Sprintf("%s accounts for %.0f%% of %s spending (%.2f)",
					top.Merchant, top.SpendShare*100, in.Category, top.Total),
			})
		}
	}

	// high_frequency_merchant: the most visited merchant has at least 3
	// transactions and at least 40% of the category's transactions.
	var frequent *MerchantSummary
	for i := range merchants {
		if frequent == nil || merchants[i].TransactionCount > frequent.TransactionCount {
			frequent = &merchants[i]
		}
	}
	if frequent != nil {
		threshold := (in.TransactionCount * 4) / 10
		if threshold < 1 {
			threshold = 1
		}
		if frequent.TransactionCount >= 3 && frequent.TransactionCount >= threshold {
			opportunities = append(opportunities, Opportunity{
				Type:             OpportunityHighFrequencyMerchant,
				Merchant:         frequent.Merchant,
				TransactionCount: frequent.TransactionCount,
				Total:            frequent.Total,
				Message: fmt.Sprintf("%s appears %d times in %s; consider a cheaper routine",
					frequent.Merchant, frequent.TransactionCount, in.Category),
			})
		}
	}

	// recent_spike: the latest month exceeds 1.2x the mean of the included
	// monthly totals.
	if len(in.MonthlyTrend) >= 2 {
		var sum float64
		for _, p := range in.MonthlyTrend {
			sum += p.Total
		}
		mean := sum / float64(len(in.MonthlyTrend))
		latest := in.MonthlyTrend[len(in.MonthlyTrend)-1]
		if latest.Total > 1.2*mean {
			opportunities = append(opportunities, Opportunity{
				Type:           OpportunityRecentSpike,
				Month:          latest.Period,
				Total:          latest.Total,
				MonthlyAverage: mean,
				Message: fmt.Sprintf("%s spending in %s (%.2f) is above the monthly average (%.2f)",
					in.Category, latest.Period, latest.Total, mean),
			})
		}
	}

	if len(opportunities) > maxOpportunities {
		opportunities = opportunities[:maxOpportunities]
	}
	return opportunities
}
