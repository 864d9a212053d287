package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-intel/internal/export"
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Write the daily outreach briefing",
	Long: `Compute intelligence for the selected input and turn the action
queue into a short natural-language briefing for the sales team.

The briefing is composed by the Anthropic API; --offline renders a
deterministic plain-text version instead, with no API call.

Examples:
  # Briefing for the latest snapshot
  brief --store

  # Briefing for a fresh export on a specific model
  brief --csv leads.csv --model claude-opus-4-6

  # No API key around
  brief --store --offline`,
	RunE: runBrief,
}

func init() {
	f := briefCmd.Flags()
	f.String("csv", "", "path to a CSV lead export")
	f.String("xlsx", "", "path to an XLSX lead export")
	f.String("sheet", "", "XLSX sheet name (default from config, else first sheet)")
	f.Bool("store", false, "compute from the latest stored snapshot")
	f.Bool("notion", false, "compute from the configured Notion lead database")
	f.Bool("offline", false, "render the briefing locally without calling the API")
	f.String("model", "", "model ID (overrides config)")

	rootCmd.AddCommand(briefCmd)
}

func runBrief(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	offline, _ := cmd.Flags().GetBool("offline")

	if !offline {
		if err := cfg.Validate("brief"); err != nil {
			return err
		}
	}

	payload, _, err := buildPayload(ctx, cmd, cfg.Engine)
	if err != nil {
		return err
	}
	if payload.Meta.Error != "" {
		return eris.Errorf("brief: %s", payload.Meta.Error)
	}

	if offline {
		fmt.Println(export.RenderBrief(payload))
		return nil
	}

	modelID, _ := cmd.Flags().GetString("model")
	if modelID == "" {
		modelID = cfg.Anthropic.Model
	}

	client, err := initAnthropic()
	if err != nil {
		return err
	}

	text, usage, err := export.GenerateBrief(ctx, client, modelID, int64(cfg.Anthropic.MaxTokens), payload)
	if err != nil {
		return err
	}
	usage.LogCost(modelID, "brief")

	fmt.Println(text)
	return nil
}
