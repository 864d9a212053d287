package intel

import (
	"math"
	"sort"

	"github.com/sells-group/lead-intel/internal/model"
)

// SummarizeStats computes the distribution summary for each score
// dimension independently. An empty collection yields all-zero tuples.
func SummarizeStats(leads []model.Lead) model.Stats {
	return model.Stats{
		Priority:     summarizeDimension(leads, ByPriority),
		Heat:         summarizeDimension(leads, ByHeat),
		Value:        summarizeDimension(leads, ByValue),
		Relationship: summarizeDimension(leads, ByRelationship),
	}
}

func summarizeDimension(leads []model.Lead, key ScoreKey) model.DimensionStats {
	if len(leads) == 0 {
		return model.DimensionStats{}
	}

	vals := make([]float64, len(leads))
	for i, lead := range leads {
		vals[i] = key(lead)
	}
	sort.Float64s(vals)

	return model.DimensionStats{
		Min: round1(vals[0]),
		P25: round1(Percentile(vals, 0.25)),
		P50: round1(Percentile(vals, 0.50)),
		P75: round1(Percentile(vals, 0.75)),
		P90: round1(Percentile(vals, 0.90)),
		Max: round1(vals[len(vals)-1]),
	}
}

// Percentile returns the p-th percentile (p in [0,1]) of an ascending
// sorted slice using linear interpolation between closest ranks: the
// target index is (len-1)*p, and a fractional index interpolates between
// the two neighboring values. p=0 is the minimum, p=1 the maximum.
// Panics on an empty slice; callers guard.
func Percentile(sorted []float64, p float64) float64 {
	idx := float64(len(sorted)-1) * p
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
