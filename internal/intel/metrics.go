package intel

import "github.com/sells-group/lead-intel/internal/model"

// ComputeMetrics aggregates the headline funnel numbers. TotalLeads always
// equals len(leads); HotLeads and HighValue stay zero here because the
// dashboard reads the real counts from Counts (kept for shape stability,
// flagged with stakeholders rather than removed).
func ComputeMetrics(leads []model.Lead, cfg Config) model.Metrics {
	m := model.Metrics{TotalLeads: len(leads)}
	if len(leads) == 0 {
		return m
	}

	var prioritySum float64
	for _, lead := range leads {
		prioritySum += lead.Priority
		if lead.DaysSinceActivity <= cfg.ActiveDays {
			m.Active7d++
		}
		if lead.IntentCount >= cfg.IntentMinSignals {
			m.HighIntent++
		}
	}
	m.AvgPriority = round1(prioritySum / float64(len(leads)))

	return m
}
