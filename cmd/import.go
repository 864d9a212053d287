package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/ingest"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a lead export into the store as a snapshot",
	Long: `Load a CSV or XLSX lead export, or the configured Notion lead
database, normalize every row, and persist the result as a snapshot.
Later compute runs can use --store to score the latest snapshot without
re-reading the source.`,
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.String("csv", "", "path to a CSV lead export")
	f.String("xlsx", "", "path to an XLSX lead export")
	f.String("sheet", "", "XLSX sheet name (default from config, else first sheet)")
	f.Bool("notion", false, "import from the configured Notion lead database")
	f.String("label", "", "snapshot label (default: source name)")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := cfg.Validate("store"); err != nil {
		return err
	}

	csvPath, _ := cmd.Flags().GetString("csv")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")
	fromNotion, _ := cmd.Flags().GetBool("notion")
	label, _ := cmd.Flags().GetString("label")

	var src ingest.Source
	switch {
	case csvPath != "" && xlsxPath != "":
		return eris.New("import: --csv and --xlsx are mutually exclusive")
	case csvPath != "":
		src = ingest.CSVSource{Path: csvPath}
	case xlsxPath != "":
		sheet, _ := cmd.Flags().GetString("sheet")
		if sheet == "" {
			sheet = cfg.Ingest.Sheet
		}
		src = ingest.XLSXSource{Path: xlsxPath, SheetName: sheet}
	case fromNotion:
		records, err := fetchNotionRecords(ctx)
		if err != nil {
			return err
		}
		tbl := ingest.RecordsTable(records)
		tbl.Label = "notion:" + cfg.Notion.LeadDB
		src = tbl
	default:
		return eris.New("import: --csv, --xlsx or --notion is required")
	}

	aliases, err := loadAliases()
	if err != nil {
		return err
	}

	// Build normalizes every row; the computed payload's lead collection
	// is exactly what a snapshot stores.
	payload := ingest.Build(ctx, src, cfg.Engine, aliases, time.Now())
	if payload.Meta.Error != "" {
		if len(payload.Meta.Missing) > 0 {
			return eris.Errorf("import: %s: %s", payload.Meta.Error, strings.Join(payload.Meta.Missing, ", "))
		}
		return eris.Errorf("import: %s", payload.Meta.Error)
	}

	if label == "" {
		label = src.Name()
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	id, err := st.SaveSnapshot(ctx, label, src.Name(), payload.Leads)
	if err != nil {
		return eris.Wrap(err, "import: save snapshot")
	}

	zap.L().Info("import complete",
		zap.String("snapshot", id),
		zap.String("label", label),
		zap.Int("leads", len(payload.Leads)),
	)
	fmt.Printf("Imported %d leads into snapshot %s (%s)\n", len(payload.Leads), id, label)

	return nil
}
