// Package intel computes lead intelligence from a snapshot of normalized
// leads: adaptive scoring thresholds, distribution statistics, headline
// metrics, and the tiered daily action queue. Everything here is a pure,
// synchronous, in-memory transform; ingestion, persistence, and delivery
// live elsewhere and hand the engine one immutable collection per call.
package intel

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/model"
)

// Config holds the engine's tuning knobs. Callers pass a value, not a
// pointer; each computation owns its own copy so concurrent runs with
// different settings never interfere.
type Config struct {
	HotTopN          int     `json:"hot_top_n"          mapstructure:"hot_top_n"          yaml:"hot_top_n"`
	ValueTopN        int     `json:"value_top_n"        mapstructure:"value_top_n"        yaml:"value_top_n"`
	HotPriorityFloor float64 `json:"hot_priority_floor" mapstructure:"hot_priority_floor" yaml:"hot_priority_floor"`
	ValueFloor       float64 `json:"value_floor"        mapstructure:"value_floor"        yaml:"value_floor"`
	IntentMinSignals int     `json:"intent_min_signals" mapstructure:"intent_min_signals" yaml:"intent_min_signals"`
	ActiveDays       int     `json:"active_days"        mapstructure:"active_days"        yaml:"active_days"`
}

// DefaultConfig returns the standard engine tuning.
func DefaultConfig() Config {
	return Config{
		HotTopN:          12,
		ValueTopN:        20,
		HotPriorityFloor: 10,
		ValueFloor:       10,
		IntentMinSignals: 2,
		ActiveDays:       7,
	}
}

// Compute runs the full engine over one lead collection: thresholds,
// counts, stats, metrics, and the action queue. The input is not mutated.
// An empty collection is valid and produces zeroed aggregates, not an
// error; dataset-level failures are the ingest layer's concern.
func Compute(leads []model.Lead, cfg Config, now time.Time) *model.Intelligence {
	if leads == nil {
		leads = []model.Lead{}
	}
	th := ComputeThresholds(leads, cfg)
	counts := ComputeCounts(leads, th)
	stats := SummarizeStats(leads)
	queue := BuildActionQueue(leads)

	zap.L().Debug("intel: computation complete",
		zap.Int("leads", len(leads)),
		zap.Int("queued", len(queue)),
		zap.Float64("hot_cutoff", th.HotPriorityCutoff),
		zap.Float64("value_cutoff", th.ValueCutoff),
	)

	return &model.Intelligence{
		Leads:       leads,
		ActionQueue: queue,
		Thresholds:  &th,
		Counts:      &counts,
		Stats:       &stats,
		Metrics:     ComputeMetrics(leads, cfg),
		Meta: model.Meta{
			RowCount:  len(leads),
			UpdatedAt: now.UTC(),
		},
	}
}

// Empty returns the uniform failure payload: same shape as a successful
// computation, with empty collections, nil derived sections, zeroed
// metrics, and the error recorded in meta. Consumers render this without
// any special casing.
func Empty(errMsg string, missing []string, now time.Time) *model.Intelligence {
	return &model.Intelligence{
		Leads:       []model.Lead{},
		ActionQueue: []model.ActionQueueEntry{},
		Meta: model.Meta{
			Error:     errMsg,
			Missing:   missing,
			UpdatedAt: now.UTC(),
		},
	}
}

// round1 rounds to one decimal place, the payload-wide convention for
// derived values.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
