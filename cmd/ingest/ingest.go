// Package ingest loads statement files into the transaction store.
package ingest

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/budgify/cmd/root"
	"fjacquet/budgify/internal/loaders"
	"fjacquet/budgify/internal/models"
	"fjacquet/budgify/internal/recurring"
	"fjacquet/budgify/internal/store"
)

var (
	bank          string
	files         []string
	month         string
	provider      string
	manualFile    string
	recurringFile string
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load bank statements, manual entries, and recurring expenses into the store",
	Long: `Ingest reads statement exports through a bank loader, optionally merges
manual and recurring entries, categorizes every transaction against the
rule file, and upserts the batch into the SQLite store. Re-running an
ingest with the same files is safe.`,
	RunE: ingestFunc,
}

func init() {
	Cmd.Flags().StringVar(&bank, "bank", "", fmt.Sprintf("Bank loader to use (%s)", strings.Join(loaders.Names(), ", ")))
	Cmd.Flags().StringSliceVar(&files, "file", nil, "Statement file to load (repeatable)")
	Cmd.Flags().StringVar(&month, "month", "", "Only keep transactions in this month (YYYY-MM)")
	Cmd.Flags().StringVar(&provider, "provider", "", "Provider tag override (defaults to the bank loader name)")
	Cmd.Flags().StringVar(&manualFile, "manual", "", "YAML file of manual transactions")
	Cmd.Flags().StringVar(&recurringFile, "recurring", "", "YAML file of recurring expense schedules")
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	var batch []models.Transaction

	if bank != "" && len(files) == 0 {
		return fmt.Errorf("--bank requires at least one --file")
	}
	if bank == "" && len(files) > 0 {
		return fmt.Errorf("--file requires --bank")
	}

	for _, file := range files {
		txs, err := loaders.LoadFile(bank, file)
		if err != nil {
			return err
		}
		tag := provider
		if tag == "" {
			tag = bank
		}
		for i := range txs {
			if txs[i].Provider == "" {
				txs[i].Provider = tag
			}
		}
		batch = append(batch, txs...)
	}

	if manualFile != "" {
		txs, err := loaders.LoadManual(manualFile)
		if err != nil {
			return err
		}
		batch = append(batch, txs...)
	}

	if recurringFile != "" {
		txs, err := recurring.LoadFile(recurringFile)
		if err != nil {
			return err
		}
		batch = append(batch, txs...)
	}

	if month != "" {
		filtered, err := models.FilterByMonth(batch, month)
		if err != nil {
			return err
		}
		root.Log.Infof("Month filter %s kept %d of %d transactions", month, len(filtered), len(batch))
		batch = filtered
	}

	if len(batch) == 0 {
		root.Log.Warn("Nothing to ingest")
		return nil
	}

	ruleSet, err := root.LoadRules()
	if err != nil {
		return err
	}

	if err := store.Append(batch, root.SharedFlags.DBPath, ruleSet); err != nil {
		return err
	}
	root.Log.Infof("Ingested %d transactions into %s", len(batch), root.SharedFlags.DBPath)
	return nil
}
