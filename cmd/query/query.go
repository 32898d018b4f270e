// Package query searches stored transactions with filters, sorting, and
// pagination.
package query

import (
	"github.com/spf13/cobra"

	"fjacquet/budgify/cmd/common"
	"fjacquet/budgify/cmd/root"
	"fjacquet/budgify/internal/store"
)

var (
	filterFlags common.FilterFlags
	sortBy      string
	sortDir     string
	groupBy     string
	limit       int
	offset      int
)

// Cmd represents the query command
var Cmd = &cobra.Command{
	Use:   "query",
	Short: "Search stored transactions",
	RunE:  queryFunc,
}

func init() {
	filterFlags.Register(Cmd)
	Cmd.Flags().StringVar(&sortBy, "sort-by", "date", "Sort column (date, amount, merchant, category, description, provider)")
	Cmd.Flags().StringVar(&sortDir, "sort-dir", "asc", "Sort direction (asc or desc)")
	Cmd.Flags().StringVar(&groupBy, "group-by", "", "Group rows by this column before sorting")
	Cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to return (default 200, capped at 1000)")
	Cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
}

func queryFunc(cmd *cobra.Command, args []string) error {
	txs, err := store.QueryTransactions(root.SharedFlags.DBPath, filterFlags.Filters(cmd), store.QueryOptions{
		SortBy:  sortBy,
		SortDir: sortDir,
		GroupBy: groupBy,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return err
	}
	return common.PrintJSON(txs)
}
