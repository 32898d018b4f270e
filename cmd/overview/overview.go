// Package overview prints aggregate statistics for the filtered store.
package overview

import (
	"github.com/spf13/cobra"

	"fjacquet/budgify/cmd/common"
	"fjacquet/budgify/cmd/root"
	"fjacquet/budgify/internal/store"
)

var filterFlags common.FilterFlags

// Cmd represents the overview command
var Cmd = &cobra.Command{
	Use:   "overview",
	Short: "Show count, total, average, and date span of the filtered store",
	RunE:  overviewFunc,
}

func init() {
	filterFlags.Register(Cmd)
}

func overviewFunc(cmd *cobra.Command, args []string) error {
	o, err := store.OverviewMetrics(root.SharedFlags.DBPath, filterFlags.Filters(cmd))
	if err != nil {
		return err
	}
	return common.PrintJSON(o)
}
