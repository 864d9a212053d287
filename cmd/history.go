package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-intel/internal/model"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect imported snapshots and saved reports",
	Long:  "Commands for listing stored lead snapshots and saved intelligence reports.",
}

// -- history snapshots --

var historySnapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List imported lead snapshots",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("store"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		snaps, err := st.ListSnapshots(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "history snapshots")
		}

		if len(snaps) == 0 {
			fmt.Fprintln(os.Stderr, "No snapshots found.")
			return nil
		}

		formatSnapshotsList(os.Stdout, snaps)
		return nil
	},
}

// -- history reports --

var historyReportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List saved intelligence reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("store"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		reports, err := st.ListReports(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "history reports")
		}

		if len(reports) == 0 {
			fmt.Fprintln(os.Stderr, "No reports found.")
			return nil
		}

		formatReportsList(os.Stdout, reports)
		return nil
	},
}

// -- history show --

var historyShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Print a saved report's full payload as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("store"); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		report, err := st.GetReport(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "history show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	historySnapshotsCmd.Flags().Int("limit", 50, "max number of snapshots to display")
	historyReportsCmd.Flags().Int("limit", 50, "max number of reports to display")

	historyCmd.AddCommand(historySnapshotsCmd)
	historyCmd.AddCommand(historyReportsCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

// formatSnapshotsList writes a tabular list of snapshots to w.
func formatSnapshotsList(out io.Writer, snaps []model.Snapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tLABEL\tSOURCE\tLEADS\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-----\t------\t-----\t-------")

	for _, s := range snaps {
		label := s.Label
		if len(label) > 30 {
			label = label[:27] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			truncateID(s.ID),
			label,
			s.Source,
			s.LeadCount,
			s.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// formatReportsList writes a tabular list of reports to w. The STATUS
// column carries meta.error for empty-payload runs.
func formatReportsList(out io.Writer, reports []model.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSNAPSHOT\tLEADS\tQUEUE\tSTATUS\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t--------\t-----\t-----\t------\t-------")

	for _, r := range reports {
		leads, queue := 0, 0
		status := "ok"
		if r.Payload != nil {
			leads = r.Payload.Metrics.TotalLeads
			queue = len(r.Payload.ActionQueue)
			if r.Payload.Meta.Error != "" {
				status = r.Payload.Meta.Error
			}
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			truncateID(r.ID),
			truncateID(r.SnapshotID),
			leads,
			queue,
			status,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
