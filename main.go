package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"fjacquet/budgify/cmd/compare"
	"fjacquet/budgify/cmd/export"
	"fjacquet/budgify/cmd/ingest"
	"fjacquet/budgify/cmd/insights"
	"fjacquet/budgify/cmd/overview"
	"fjacquet/budgify/cmd/query"
	"fjacquet/budgify/cmd/root"
	"fjacquet/budgify/cmd/serve"
	"fjacquet/budgify/cmd/summary"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Configure global log level before any logging happens
	configureLogLevelDirectly()

	// 3. Initialize root command and flags
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(query.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(overview.Cmd)
	root.Cmd.AddCommand(compare.Cmd)
	root.Cmd.AddCommand(insights.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level for all logrus instances
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
