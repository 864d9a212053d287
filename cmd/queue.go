package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/export"
	"github.com/sells-group/lead-intel/internal/model"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Print the daily action queue",
	Long: `Compute intelligence for the selected input and print only the
tiered action queue, the day's call sheet. With --out the queue is
written as CSV instead.

Examples:
  # Today's call sheet from the latest snapshot
  queue --store

  # Call sheet for a fresh export, written as CSV
  queue --csv leads.csv --out callsheet.csv`,
	RunE: runQueue,
}

func init() {
	f := queueCmd.Flags()
	f.String("csv", "", "path to a CSV lead export")
	f.String("xlsx", "", "path to an XLSX lead export")
	f.String("sheet", "", "XLSX sheet name (default from config, else first sheet)")
	f.Bool("store", false, "compute from the latest stored snapshot")
	f.Bool("notion", false, "compute from the configured Notion lead database")
	f.String("out", "", "write the queue as CSV to this path")

	rootCmd.AddCommand(queueCmd)
}

func runQueue(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outPath, _ := cmd.Flags().GetString("out")

	payload, _, err := buildPayload(ctx, cmd, cfg.Engine)
	if err != nil {
		return err
	}
	if payload.Meta.Error != "" {
		return eris.Errorf("queue: %s", payload.Meta.Error)
	}

	zap.L().Info("action queue computed",
		zap.Int("entries", len(payload.ActionQueue)),
		zap.Int("leads", payload.Metrics.TotalLeads),
	)

	if outPath != "" {
		if err := export.ExportQueueCSV(payload.ActionQueue, outPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %d queue entries to %s\n", len(payload.ActionQueue), outPath)
		return nil
	}

	return writeQueueTable(os.Stdout, payload.ActionQueue)
}

func writeQueueTable(w *os.File, entries []model.ActionQueueEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "Action queue is empty.")
		return eris.Wrap(err, "queue: write")
	}

	header := fmt.Sprintf("%-4s %-30s %-24s %-16s %8s %6s\n",
		"Tier", "Name", "Reason", "Stage", "Priority", "Days")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "queue: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 94)); err != nil {
		return eris.Wrap(err, "queue: write table separator")
	}

	for _, e := range entries {
		name := e.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		reason := e.Reason
		if len(reason) > 24 {
			reason = reason[:21] + "..."
		}
		line := fmt.Sprintf("%-4d %-30s %-24s %-16s %8.1f %6s\n",
			e.Tier, name, reason, e.Stage, e.Priority, formatDays(e.DaysSinceActivity))
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "queue: write table row")
		}
	}
	return nil
}
