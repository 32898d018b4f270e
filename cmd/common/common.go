// Package common holds helpers shared by the query-style subcommands.
package common

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/budgify/internal/store"
)

// FilterFlags binds the shared filter vocabulary to cobra flags.
type FilterFlags struct {
	StartDate       string
	EndDate         string
	Category        string
	ExcludeCategory string
	Provider        string
	Merchant        string
	MerchantRegex   string
	MinAmount       float64
	MaxAmount       float64
}

// Register adds the filter flags to the command.
func (f *FilterFlags) Register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.StartDate, "start-date", "", "Earliest date to include (YYYY-MM-DD, inclusive)")
	fl.StringVar(&f.EndDate, "end-date", "", "Latest date to include (YYYY-MM-DD, inclusive)")
	fl.StringVar(&f.Category, "category", "", "Only this category (use 'uncategorized' for unmatched rows)")
	fl.StringVar(&f.ExcludeCategory, "exclude-category", "", "Drop this category (case-insensitive)")
	fl.StringVar(&f.Provider, "provider", "", "Only rows ingested from this provider")
	fl.StringVar(&f.Merchant, "merchant", "", "Merchant substring match")
	fl.StringVar(&f.MerchantRegex, "merchant-regex", "", "Merchant regular expression (case-insensitive)")
	fl.Float64Var(&f.MinAmount, "min-amount", 0, "Minimum amount (inclusive)")
	fl.Float64Var(&f.MaxAmount, "max-amount", 0, "Maximum amount (inclusive)")
}

// Filters converts the flag values into store filters. Amount bounds apply
// only when the flag was given, so a zero bound still constrains.
func (f *FilterFlags) Filters(cmd *cobra.Command) store.Filters {
	out := store.Filters{
		StartDate:       f.StartDate,
		EndDate:         f.EndDate,
		Category:        f.Category,
		ExcludeCategory: f.ExcludeCategory,
		Provider:        f.Provider,
		Merchant:        f.Merchant,
		MerchantRegex:   f.MerchantRegex,
	}
	if cmd.Flags().Changed("min-amount") {
		v := f.MinAmount
		out.MinAmount = &v
	}
	if cmd.Flags().Changed("max-amount") {
		v := f.MaxAmount
		out.MaxAmount = &v
	}
	return out
}

// PrintJSON renders a query result as indented JSON on stdout.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
