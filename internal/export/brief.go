package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/internal/intel"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/pkg/anthropic"
)

const briefSystemPrompt = `You are a sales operations assistant writing the daily outreach briefing.
You are given the prioritized action queue and headline funnel metrics for a lead pipeline.
Write a short briefing for the sales team: open with one paragraph on pipeline health, then
walk the queue tier by tier, calling out who to contact first and why. Reference leads by
name. Keep it under 400 words. Plain text only, no markdown.`

// GenerateBrief composes the daily briefing via the Anthropic API. A
// non-positive maxTokens falls back to 1024. The returned usage lets the
// caller attribute cost to the briefing phase.
func GenerateBrief(ctx context.Context, c anthropic.Client, modelID string, maxTokens int64, report *model.Intelligence) (string, anthropic.TokenUsage, error) {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	resp, err := c.Complete(ctx, anthropic.Request{
		Model:     modelID,
		MaxTokens: maxTokens,
		System:    briefSystemPrompt,
		Prompt:    BriefPrompt(report),
	})
	if err != nil {
		return "", anthropic.TokenUsage{}, eris.Wrap(err, "export: generate brief")
	}
	if resp.Text == "" {
		return "", resp.Usage, eris.New("export: empty briefing response")
	}
	return resp.Text, resp.Usage, nil
}

// BriefPrompt renders the queue and metrics as the briefing user message.
func BriefPrompt(report *model.Intelligence) string {
	var b strings.Builder

	m := report.Metrics
	fmt.Fprintf(&b, "Date: %s\n", report.Meta.UpdatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Pipeline: %d leads, %d active in the last 7 days, %d high intent, average priority %.1f\n",
		m.TotalLeads, m.Active7d, m.HighIntent, m.AvgPriority)
	if report.Counts != nil {
		fmt.Fprintf(&b, "Hot leads: %d, high value leads: %d\n", report.Counts.Hot, report.Counts.HighValue)
	}
	if report.Thresholds != nil {
		fmt.Fprintf(&b, "Adaptive cutoffs: priority %.1f (hot), value %.1f (high value)\n",
			report.Thresholds.HotPriorityCutoff, report.Thresholds.ValueCutoff)
	}

	b.WriteString("\nAction queue:\n")
	if len(report.ActionQueue) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, e := range report.ActionQueue {
		fmt.Fprintf(&b, "- Tier %d (%s): %s, stage %s, priority %s, value %s, heat %s, %s\n",
			e.Tier, e.Reason, e.Name, e.Stage,
			formatScore(e.Priority), formatScore(e.Value), formatScore(e.Heat),
			activityPhrase(e.DaysSinceActivity))
	}

	return b.String()
}

// RenderBrief produces a deterministic plain-text briefing without any API
// call, used by offline mode.
func RenderBrief(report *model.Intelligence) string {
	var b strings.Builder

	m := report.Metrics
	fmt.Fprintf(&b, "Daily Outreach Briefing: %s\n\n", report.Meta.UpdatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Pipeline: %d leads, %d active in the last 7 days, %d high intent, average priority %.1f.\n",
		m.TotalLeads, m.Active7d, m.HighIntent, m.AvgPriority)
	if report.Counts != nil {
		fmt.Fprintf(&b, "%d hot leads and %d high value leads clear the adaptive cutoffs.\n",
			report.Counts.Hot, report.Counts.HighValue)
	}

	if len(report.ActionQueue) == 0 {
		b.WriteString("\nNo leads qualified for the action queue today.\n")
		return b.String()
	}

	tier := 0
	for _, e := range report.ActionQueue {
		if e.Tier != tier {
			tier = e.Tier
			fmt.Fprintf(&b, "\nTier %d (%s):\n", e.Tier, e.Reason)
		}
		fmt.Fprintf(&b, "- %s (stage %s): priority %s, value %s, heat %s, %s\n",
			e.Name, e.Stage,
			formatScore(e.Priority), formatScore(e.Value), formatScore(e.Heat),
			activityPhrase(e.DaysSinceActivity))
	}

	return b.String()
}

// activityPhrase renders DaysSinceActivity, honoring the unknown sentinel.
func activityPhrase(days int) string {
	switch {
	case days >= intel.DaysUnknown:
		return "no recorded activity"
	case days == 0:
		return "active today"
	case days == 1:
		return "active yesterday"
	default:
		return fmt.Sprintf("last activity %d days ago", days)
	}
}
