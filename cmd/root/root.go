// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fjacquet/budgify/internal/config"
	"fjacquet/budgify/internal/export"
	"fjacquet/budgify/internal/loaders"
	"fjacquet/budgify/internal/models"
	"fjacquet/budgify/internal/rules"
	"fjacquet/budgify/internal/store"
	"fjacquet/budgify/internal/web"
)

// CommonFlags represents the flags shared by every command.
type CommonFlags struct {
	DBPath         string
	CategoriesFile string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budgify",
		Short: "Track, categorize, and analyze personal spending.",
		Long: `budgify ingests bank statement exports into a local SQLite store,
categorizes transactions with keyword rules, and answers analytical
questions about spending over the CLI or a JSON API.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to budgify!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()
			Log = config.ConfigureLogging()

			// Set the configured logger for all packages
			store.SetLogger(Log)
			rules.SetLogger(Log)
			loaders.SetLogger(Log)
			export.SetLogger(Log)
			web.SetLogger(Log)
		},
	}
)

// Init initializes the root command and all persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVar(&SharedFlags.DBPath, "db", "budgify.db", "Path to the SQLite transaction store")
	Cmd.PersistentFlags().StringVar(&SharedFlags.CategoriesFile, "categories", "", "Path to the category rules YAML file")
}

// LoadRules loads the category rule set named by the --categories flag.
func LoadRules() (models.CategoryRules, error) {
	return rules.NewStore(SharedFlags.CategoriesFile).Load()
}
