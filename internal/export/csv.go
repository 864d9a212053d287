// Package export pushes the computed action queue to its downstream
// consumers: a CSV call sheet, Salesforce Tasks, and a Notion database.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/internal/model"
)

// queueColumns defines the ordered call-sheet CSV output columns.
var queueColumns = []string{
	"Tier",
	"Reason",
	"Name",
	"Stage",
	"Email",
	"Phone",
	"Priority",
	"Heat",
	"Value",
	"Relationship",
	"Days Since Activity",
	"Intent Count",
}

// ExportQueueCSV writes the action queue as a call-sheet CSV file.
func ExportQueueCSV(entries []model.ActionQueueEntry, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrap(err, "export: create csv file")
	}
	defer f.Close()

	return WriteQueueCSV(f, entries)
}

// WriteQueueCSV writes the action queue as CSV rows to w. Entries are
// written in queue order, one row per entry.
func WriteQueueCSV(w io.Writer, entries []model.ActionQueueEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(queueColumns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, e := range entries {
		if err := cw.Write(buildQueueRow(e)); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// buildQueueRow maps an ActionQueueEntry to a call-sheet CSV row.
func buildQueueRow(e model.ActionQueueEntry) []string {
	return []string{
		strconv.Itoa(e.Tier),              // Tier
		e.Reason,                          // Reason
		e.Name,                            // Name
		e.Stage,                           // Stage
		e.Email,                           // Email
		e.Phone,                           // Phone
		formatScore(e.Priority),           // Priority
		formatScore(e.Heat),               // Heat
		formatScore(e.Value),              // Value
		formatScore(e.Relationship),       // Relationship
		strconv.Itoa(e.DaysSinceActivity), // Days Since Activity
		strconv.Itoa(e.IntentCount),       // Intent Count
	}
}

// formatScore renders a score without trailing zeros ("88", "72.25").
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
