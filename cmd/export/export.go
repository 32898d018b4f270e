// Package export writes the stored transactions to a CSV file or Google
// Sheets.
package export

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/budgify/cmd/common"
	"fjacquet/budgify/cmd/root"
	"fjacquet/budgify/internal/config"
	"fjacquet/budgify/internal/export"
	"fjacquet/budgify/internal/store"
)

var (
	filterFlags common.FilterFlags
	format      string
	outputDir   string
	credentials string
	spreadsheet string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored transactions to a master CSV or Google Sheets",
	RunE:  exportFunc,
}

func init() {
	filterFlags.Register(Cmd)
	Cmd.Flags().StringVar(&format, "format", "csv", "Output format (csv or sheets)")
	Cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the master CSV (default from config)")
	Cmd.Flags().StringVar(&credentials, "credentials", "", "Service account credentials file for Sheets")
	Cmd.Flags().StringVar(&spreadsheet, "spreadsheet", "", "Target spreadsheet id for Sheets")
}

func exportFunc(cmd *cobra.Command, args []string) error {
	txs, err := store.Fetch(root.SharedFlags.DBPath, filterFlags.Filters(cmd))
	if err != nil {
		return err
	}

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		dir := outputDir
		if dir == "" {
			dir = cfg.Export.Directory
		}
		path, err := export.WriteMasterCSV(txs, dir)
		if err != nil {
			return err
		}
		root.Log.Infof("Wrote %d transactions to %s", len(txs), path)
		return nil
	case "sheets":
		creds := credentials
		if creds == "" {
			creds = cfg.Sheets.CredentialsFile
		}
		id := spreadsheet
		if id == "" {
			id = cfg.Sheets.SpreadsheetID
		}
		writer := export.NewSheetsWriter(creds, id)
		return writer.Write(context.Background(), txs)
	default:
		return fmt.Errorf("--format must be csv or sheets (got %q)", format)
	}
}
