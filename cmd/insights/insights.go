// Package insights produces the category deep-dive analysis.
package insights

import (
	"github.com/spf13/cobra"

	"fjacquet/budgify/cmd/common"
	"fjacquet/budgify/cmd/root"
	"fjacquet/budgify/internal/store"
)

var (
	filterFlags     common.FilterFlags
	category        string
	topMerchants    int
	topTransactions int
	maxPeriods      int
)

// Cmd represents the insights command
var Cmd = &cobra.Command{
	Use:   "insights",
	Short: "Deep-dive into one category: top merchants, monthly trend, opportunities",
	RunE:  insightsFunc,
}

func init() {
	filterFlags.Register(Cmd)
	Cmd.Flags().StringVar(&category, "for", "", "Category to analyze (required)")
	Cmd.Flags().IntVar(&topMerchants, "top-merchants", 0, "Merchants to include (default 5)")
	Cmd.Flags().IntVar(&topTransactions, "top-transactions", 0, "Largest transactions to include (default 5)")
	Cmd.Flags().IntVar(&maxPeriods, "max-periods", 0, "Most recent months in the trend (default 12)")
}

func insightsFunc(cmd *cobra.Command, args []string) error {
	f := filterFlags.Filters(cmd)
	f.Category = ""

	in, err := store.AnalyzeCategory(root.SharedFlags.DBPath, category, f, store.InsightOptions{
		TopMerchants:    topMerchants,
		TopTransactions: topTransactions,
		MaxPeriods:      maxPeriods,
	})
	if err != nil {
		return err
	}
	return common.PrintJSON(in)
}
