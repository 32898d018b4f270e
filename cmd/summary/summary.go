// Package summary aggregates spending by category, period, or merchant.
package summary

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/budgify/cmd/common"
	"fjacquet/budgify/cmd/root"
	"fjacquet/budgify/internal/store"
)

var (
	filterFlags common.FilterFlags
	by          string
	period      string
	limit       int
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Aggregate spending by category, period, or merchant",
	RunE:  summaryFunc,
}

func init() {
	filterFlags.Register(Cmd)
	Cmd.Flags().StringVar(&by, "by", "category", "Aggregation axis (category, period, merchant)")
	Cmd.Flags().StringVar(&period, "period", "month", "Bucket size for --by period (month, quarter, year)")
	Cmd.Flags().IntVar(&limit, "limit", 0, "Keep only the top N rows (merchant summaries default to 15)")
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	dbPath := root.SharedFlags.DBPath
	f := filterFlags.Filters(cmd)

	switch by {
	case "category":
		rows, err := store.SummarizeByCategory(dbPath, f)
		if err != nil {
			return err
		}
		return common.PrintJSON(rows)
	case "period":
		rows, err := store.SummarizeByPeriod(dbPath, store.Period(period), f)
		if err != nil {
			return err
		}
		return common.PrintJSON(rows)
	case "merchant":
		rows, err := store.SummarizeByMerchant(dbPath, f)
		if err != nil {
			return err
		}
		top := limit
		if top <= 0 {
			top = 15
		}
		if len(rows) > top {
			rows = rows[:top]
		}
		return common.PrintJSON(rows)
	default:
		return fmt.Errorf("--by must be category, period, or merchant (got %q)", by)
	}
}
