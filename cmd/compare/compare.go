// Package compare contrasts spending across two date ranges.
package compare

import (
	"github.com/spf13/cobra"

	"fjacquet/budgify/cmd/common"
	"fjacquet/budgify/cmd/root"
	"fjacquet/budgify/internal/store"
)

var (
	firstStart  string
	firstEnd    string
	secondStart string
	secondEnd   string
	category    string
)

// Cmd represents the compare command
var Cmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare total spend across two date ranges",
	Long: `Compare computes total and count for two inclusive date ranges and the
difference between them. The ranges may overlap or sit apart; the percent
change is omitted when the first range has no spend.`,
	RunE: compareFunc,
}

func init() {
	Cmd.Flags().StringVar(&firstStart, "first-start", "", "First range start date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&firstEnd, "first-end", "", "First range end date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&secondStart, "second-start", "", "Second range start date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&secondEnd, "second-end", "", "Second range end date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&category, "category", "", "Restrict both ranges to one category")
}

func compareFunc(cmd *cobra.Command, args []string) error {
	cmp, err := store.ComparePeriods(root.SharedFlags.DBPath,
		store.DateRange{Start: firstStart, End: firstEnd},
		store.DateRange{Start: secondStart, End: secondEnd},
		category)
	if err != nil {
		return err
	}
	return common.PrintJSON(cmp)
}
