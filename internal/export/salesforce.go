package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/pkg/salesforce"
)

// Result summarizes an export push.
type Result struct {
	Created int
	Updated int
	Failed  int
}

// tierDueDays maps a queue tier to the Task due date offset in days.
// Tier 1 is due tomorrow; lower tiers get progressively longer windows.
var tierDueDays = map[int]int{1: 1, 2: 3, 3: 7, 4: 14}

// taskPriority maps a queue tier to the standard Task Priority picklist.
func taskPriority(tier int) string {
	switch tier {
	case 1:
		return "High"
	case 4:
		return "Low"
	default:
		return "Normal"
	}
}

// TaskFields maps a queue entry to Salesforce Task fields. The due date is
// derived from the tier relative to now.
func TaskFields(e model.ActionQueueEntry, now time.Time) map[string]any {
	due := now.AddDate(0, 0, tierDueDays[e.Tier])

	return map[string]any{
		"Subject":      fmt.Sprintf("%s: %s", e.Reason, e.Name),
		"Description":  taskDescription(e),
		"Status":       "Not Started",
		"Priority":     taskPriority(e.Tier),
		"ActivityDate": due.Format("2006-01-02"),
	}
}

// taskDescription renders the scoring snapshot for the Task body.
func taskDescription(e model.ActionQueueEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Outreach tier %d: %s\n", e.Tier, e.Reason)
	fmt.Fprintf(&b, "Stage: %s\n", e.Stage)
	fmt.Fprintf(&b, "Priority %s | Heat %s | Value %s | Relationship %s\n",
		formatScore(e.Priority), formatScore(e.Heat),
		formatScore(e.Value), formatScore(e.Relationship))
	fmt.Fprintf(&b, "Days since last activity: %d\n", e.DaysSinceActivity)
	fmt.Fprintf(&b, "Intent signals: %d\n", e.IntentCount)

	return b.String()
}

// PushTasks creates one Salesforce Task per queue entry via the Collections
// API. When linkContacts is set, entries with an email are linked to the
// matching Contact through WhoId; lookup failures are logged and the task is
// created unlinked.
func PushTasks(ctx context.Context, c salesforce.Client, entries []model.ActionQueueEntry, linkContacts bool, now time.Time) (*Result, error) {
	res := &Result{}
	if len(entries) == 0 {
		return res, nil
	}

	records := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		fields := TaskFields(e, now)

		if linkContacts && e.Email != "" {
			contact, err := salesforce.FindContactByEmail(ctx, c, e.Email)
			if err != nil {
				zap.L().Warn("export: contact lookup failed",
					zap.String("lead", e.ID),
					zap.String("email", e.Email),
					zap.Error(err),
				)
			} else if contact != nil {
				fields["WhoId"] = contact.ID
			}
		}

		records = append(records, fields)
	}

	results, err := salesforce.BulkInsertTasks(ctx, c, records)
	if err != nil {
		// Partial batches may have landed before the failure.
		for _, r := range results {
			if r.Success {
				res.Created++
			} else {
				res.Failed++
			}
		}
		return res, eris.Wrap(err, "export: push tasks")
	}

	for _, r := range results {
		if r.Success {
			res.Created++
		} else {
			res.Failed++
			zap.L().Warn("export: task insert rejected",
				zap.String("id", r.ID),
				zap.Strings("errors", r.Errors),
			)
		}
	}

	zap.L().Info("export: salesforce tasks pushed",
		zap.Int("created", res.Created),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
