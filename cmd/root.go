package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lead-intel",
	Short: "Lead intelligence engine for pipeline spreadsheets",
	Long: `lead-intel turns raw lead exports into a prioritized call sheet.

It ingests CSV or XLSX exports, scores each lead on priority, heat, value
and relationship, builds a tiered action queue, and pushes the results to
Salesforce tasks and a Notion call sheet. Snapshots and computed reports
can be persisted to SQLite or Postgres and served over HTTP.`,
	PersistentPreRunE: initRuntime,
	PersistentPostRun: flushLogs,
}

// initRuntime loads configuration and installs the process-wide logger
// before any subcommand runs.
func initRuntime(*cobra.Command, []string) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c

	if err := config.InitLogger(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

func flushLogs(*cobra.Command, []string) {
	_ = zap.L().Sync()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
