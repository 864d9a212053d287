package intel

import (
	"sort"

	"github.com/sells-group/lead-intel/internal/model"
)

// ScoreKey extracts one scoring dimension from a lead.
type ScoreKey func(model.Lead) float64

// Score key accessors for the four dimensions.
var (
	ByPriority     ScoreKey = func(l model.Lead) float64 { return l.Priority }
	ByHeat         ScoreKey = func(l model.Lead) float64 { return l.Heat }
	ByValue        ScoreKey = func(l model.Lead) float64 { return l.Value }
	ByRelationship ScoreKey = func(l model.Lead) float64 { return l.Relationship }
)

// AdaptiveThreshold picks the cutoff that admits approximately the top N
// leads by the given key, never dropping below floor. Ties at the cutoff
// value may admit more than N leads; that is intended, not a bug to fix
// with strict truncation. The result is always >= floor.
func AdaptiveThreshold(leads []model.Lead, key ScoreKey, topN int, floor float64) float64 {
	n := topN
	if n < 0 {
		n = 0
	}
	if n > len(leads) {
		n = len(leads)
	}

	var raw float64
	if n > 0 {
		vals := make([]float64, len(leads))
		for i, lead := range leads {
			vals[i] = key(lead)
		}
		sort.SliceStable(vals, func(i, j int) bool { return vals[i] > vals[j] })
		raw = vals[n-1]
	}

	if raw < floor {
		return floor
	}
	return raw
}

// ComputeThresholds derives both adaptive cutoffs for the dataset and
// carries the related config values through for consumers.
func ComputeThresholds(leads []model.Lead, cfg Config) model.Thresholds {
	return model.Thresholds{
		HotTopN:           cfg.HotTopN,
		HotPriorityCutoff: AdaptiveThreshold(leads, ByPriority, cfg.HotTopN, cfg.HotPriorityFloor),
		ValueTopN:         cfg.ValueTopN,
		ValueCutoff:       AdaptiveThreshold(leads, ByValue, cfg.ValueTopN, cfg.ValueFloor),
		IntentMinSignals:  cfg.IntentMinSignals,
		ActiveDays:        cfg.ActiveDays,
	}
}

// ComputeCounts reports how many leads clear each adaptive cutoff. These
// are the real hot and high-value counts; the zeroed placeholders in
// Metrics are kept only for payload compatibility.
func ComputeCounts(leads []model.Lead, th model.Thresholds) model.Counts {
	var c model.Counts
	for _, lead := range leads {
		if lead.Priority >= th.HotPriorityCutoff {
			c.Hot++
		}
		if lead.Value >= th.ValueCutoff {
			c.HighValue++
		}
	}
	return c
}
