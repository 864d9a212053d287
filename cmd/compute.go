package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/ingest"
	"github.com/sells-group/lead-intel/internal/intel"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/pkg/notion"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Run the intelligence engine over a lead dataset",
	Long: `Compute scores, adaptive thresholds, distribution stats, and the
tiered action queue for a lead export.

The input is a CSV file, an XLSX file, the latest snapshot in the
store, or the configured Notion lead database. Dataset-level failures
(missing file, no rows, unresolved required columns) produce the
uniform empty payload with the failure recorded in meta; malformed
cells never fail a run.

Examples:
  # Score a CSV export and print the lead table
  compute --csv leads.csv

  # Full payload as JSON, written to a file
  compute --csv leads.csv --format json --output intel.json

  # Recompute from the latest imported snapshot and persist the report
  compute --store --save

  # Tighten the hot tier to the top 5
  compute --csv leads.csv --hot-top-n 5`,
	RunE: runCompute,
}

func init() {
	f := computeCmd.Flags()
	f.String("csv", "", "path to a CSV lead export")
	f.String("xlsx", "", "path to an XLSX lead export")
	f.String("sheet", "", "XLSX sheet name (default from config, else first sheet)")
	f.Bool("store", false, "recompute from the latest stored snapshot")
	f.Bool("notion", false, "compute from the configured Notion lead database")
	f.String("format", "table", "output format: table or json")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("save", false, "save the computed report to the store")
	f.Int("hot-top-n", 0, "rank that sets the hot priority cutoff (overrides config)")
	f.Int("value-top-n", 0, "rank that sets the value cutoff (overrides config)")
	f.Float64("hot-priority-floor", 0, "lowest allowed hot cutoff (overrides config)")
	f.Float64("value-floor", 0, "lowest allowed value cutoff (overrides config)")
	f.Int("intent-min-signals", 0, "signals required for high intent (overrides config)")
	f.Int("active-days", 0, "recent-activity window in days (overrides config)")

	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "compute"))

	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")

	if format != "table" && format != "json" {
		return eris.Errorf("compute: --format must be table or json (got %q)", format)
	}

	engineCfg := applyEngineOverrides(cmd, cfg.Engine)

	payload, snapshotID, err := buildPayload(ctx, cmd, engineCfg)
	if err != nil {
		return err
	}

	if payload.Meta.Error != "" {
		log.Warn("computed empty payload", zap.String("reason", payload.Meta.Error))
	} else {
		log.Info("computation complete",
			zap.Int("leads", payload.Metrics.TotalLeads),
			zap.Int("queue", len(payload.ActionQueue)),
		)
	}

	if err := outputIntelligence(payload, format, outputPath); err != nil {
		return err
	}

	if save {
		if err := cfg.Validate("store"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		id, err := st.SaveReport(ctx, snapshotID, payload)
		if err != nil {
			return eris.Wrap(err, "compute: save report")
		}
		fmt.Printf("Saved report %s\n", id)
	}

	if format == "table" && outputPath == "" {
		printComputeSummary(payload)
	}

	return nil
}

// buildPayload runs the engine over the source selected by the --csv,
// --xlsx, --store, or --notion flag. The snapshot ID is non-empty only
// on the stored-snapshot path, so saved reports link back to their
// snapshot. Shared by the compute, queue, sync, and brief commands,
// which register the same source flags.
func buildPayload(ctx context.Context, cmd *cobra.Command, engineCfg intel.Config) (*model.Intelligence, string, error) {
	csvPath, _ := cmd.Flags().GetString("csv")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")
	fromStore, _ := cmd.Flags().GetBool("store")
	fromNotion, _ := cmd.Flags().GetBool("notion")

	now := time.Now()

	aliases, err := loadAliases()
	if err != nil {
		return nil, "", err
	}

	switch {
	case csvPath != "":
		return ingest.Build(ctx, ingest.CSVSource{Path: csvPath}, engineCfg, aliases, now), "", nil

	case xlsxPath != "":
		sheet, _ := cmd.Flags().GetString("sheet")
		if sheet == "" {
			sheet = cfg.Ingest.Sheet
		}
		src := ingest.XLSXSource{Path: xlsxPath, SheetName: sheet}
		return ingest.Build(ctx, src, engineCfg, aliases, now), "", nil

	case fromStore:
		if err := cfg.Validate("store"); err != nil {
			return nil, "", err
		}
		st, err := initStore(ctx)
		if err != nil {
			return nil, "", err
		}
		defer st.Close() //nolint:errcheck

		snap, err := st.LatestSnapshot(ctx)
		if err != nil {
			return nil, "", err
		}
		if snap == nil {
			return nil, "", eris.New("store has no snapshots; run 'lead-intel import' first")
		}
		return ingest.BuildFromLeads(snap.Leads, engineCfg, now), snap.ID, nil

	case fromNotion:
		records, err := fetchNotionRecords(ctx)
		if err != nil {
			return nil, "", err
		}
		return ingest.BuildFromRecords(ctx, records, engineCfg, aliases, now), "", nil

	default:
		return nil, "", eris.New("one of --csv, --xlsx, --store or --notion is required")
	}
}

// fetchNotionRecords pulls every row of the configured lead database as
// pre-resolved records for the engine.
func fetchNotionRecords(ctx context.Context) ([]map[string]string, error) {
	if cfg.Notion.LeadDB == "" {
		return nil, eris.New("notion lead database is required (LEADINTEL_NOTION_LEAD_DB)")
	}
	client, err := initNotion()
	if err != nil {
		return nil, err
	}
	return notion.FetchLeadRecords(ctx, client, cfg.Notion.LeadDB)
}

func applyEngineOverrides(cmd *cobra.Command, base intel.Config) intel.Config {
	c := base

	if v, _ := cmd.Flags().GetInt("hot-top-n"); v > 0 {
		c.HotTopN = v
	}
	if v, _ := cmd.Flags().GetInt("value-top-n"); v > 0 {
		c.ValueTopN = v
	}
	if v, _ := cmd.Flags().GetFloat64("hot-priority-floor"); v > 0 {
		c.HotPriorityFloor = v
	}
	if v, _ := cmd.Flags().GetFloat64("value-floor"); v > 0 {
		c.ValueFloor = v
	}
	if v, _ := cmd.Flags().GetInt("intent-min-signals"); v > 0 {
		c.IntentMinSignals = v
	}
	if v, _ := cmd.Flags().GetInt("active-days"); v > 0 {
		c.ActiveDays = v
	}

	return c
}

func outputIntelligence(payload *model.Intelligence, format, outputPath string) error {
	var w *os.File
	if outputPath != "" {
		var err error
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "compute: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch format {
	case "json":
		return writeIntelligenceJSON(w, payload)
	case "table":
		return writeLeadTable(w, payload.Leads)
	default:
		return eris.Errorf("compute: unsupported format %q", format)
	}
}

func writeIntelligenceJSON(w *os.File, payload *model.Intelligence) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return eris.Wrap(err, "compute: encode payload")
	}
	return nil
}

func writeLeadTable(w *os.File, leads []model.Lead) error {
	header := fmt.Sprintf("%-30s %-16s %8s %8s %8s %8s %6s %7s\n",
		"Name", "Stage", "Priority", "Heat", "Value", "Rel", "Days", "Intent")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "compute: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 96)); err != nil {
		return eris.Wrap(err, "compute: write table separator")
	}

	for _, l := range leads {
		name := l.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		line := fmt.Sprintf("%-30s %-16s %8.1f %8.1f %8.1f %8.1f %6s %7d\n",
			name, l.Stage, l.Priority, l.Heat, l.Value, l.Relationship,
			formatDays(l.DaysSinceActivity), l.IntentCount)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "compute: write table row")
		}
	}
	return nil
}

// formatDays renders an activity age, showing the no-activity sentinel
// as a dash instead of its numeric value.
func formatDays(days int) string {
	if days >= intel.DaysUnknown {
		return "-"
	}
	return fmt.Sprintf("%d", days)
}

func printComputeSummary(payload *model.Intelligence) {
	fmt.Printf("\n--- Summary ---\n")
	if payload.Meta.Error != "" {
		fmt.Printf("Dataset error: %s\n", payload.Meta.Error)
		if len(payload.Meta.Missing) > 0 {
			fmt.Printf("Missing columns: %s\n", strings.Join(payload.Meta.Missing, ", "))
		}
		return
	}

	m := payload.Metrics
	fmt.Printf("Total leads:    %d\n", m.TotalLeads)
	fmt.Printf("Active (%dd):    %d\n", payload.Thresholds.ActiveDays, m.Active7d)
	fmt.Printf("High intent:    %d\n", m.HighIntent)
	fmt.Printf("Avg priority:   %.1f\n", m.AvgPriority)
	fmt.Printf("Hot cutoff:     %.1f (%d leads)\n", payload.Thresholds.HotPriorityCutoff, payload.Counts.Hot)
	fmt.Printf("Value cutoff:   %.1f (%d leads)\n", payload.Thresholds.ValueCutoff, payload.Counts.HighValue)
	fmt.Printf("Action queue:   %d entries\n", len(payload.ActionQueue))
}
