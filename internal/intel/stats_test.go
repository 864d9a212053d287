package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-intel/internal/model"
)

func TestPercentile_Endpoints(t *testing.T) {
	sorted := []float64{3, 8, 15, 42, 99}

	assert.InDelta(t, 3, Percentile(sorted, 0), 0.001)
	assert.InDelta(t, 99, Percentile(sorted, 1), 0.001)
}

func TestPercentile_Interpolation(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"single value", []float64{7}, 0.5, 7},
		{"exact index", []float64{10, 20, 30, 40, 50}, 0.25, 20},
		{"midpoint of two", []float64{10, 20}, 0.5, 15},
		// idx = 3*0.9 = 2.7: 30 + 0.7*(40-30) = 37
		{"fractional", []float64{10, 20, 30, 40}, 0.9, 37},
		// idx = 4*0.9 = 3.6: 40 + 0.6*(50-40) = 46
		{"p90 of five", []float64{10, 20, 30, 40, 50}, 0.9, 46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(tt.sorted, tt.p), 0.001)
		})
	}
}

func TestPercentile_NonDecreasingInP(t *testing.T) {
	sorted := []float64{1, 2, 2, 3, 5, 8, 13, 21}

	prev := Percentile(sorted, 0)
	for p := 0.05; p <= 1.0; p += 0.05 {
		cur := Percentile(sorted, p)
		assert.GreaterOrEqual(t, cur, prev, "p=%v", p)
		prev = cur
	}
}

func TestSummarizeStats(t *testing.T) {
	leads := []model.Lead{
		{Priority: 10, Heat: 5, Value: 100, Relationship: 1},
		{Priority: 20, Heat: 5, Value: 200, Relationship: 2},
		{Priority: 30, Heat: 5, Value: 300, Relationship: 3},
		{Priority: 40, Heat: 5, Value: 400, Relationship: 4},
		{Priority: 50, Heat: 5, Value: 500, Relationship: 5},
	}

	stats := SummarizeStats(leads)

	assert.Equal(t, model.DimensionStats{Min: 10, P25: 20, P50: 30, P75: 40, P90: 46, Max: 50}, stats.Priority)
	assert.Equal(t, model.DimensionStats{Min: 5, P25: 5, P50: 5, P75: 5, P90: 5, Max: 5}, stats.Heat)
	assert.Equal(t, model.DimensionStats{Min: 100, P25: 200, P50: 300, P75: 400, P90: 460, Max: 500}, stats.Value)
	assert.Equal(t, model.DimensionStats{Min: 1, P25: 2, P50: 3, P75: 4, P90: 4.6, Max: 5}, stats.Relationship)
}

func TestSummarizeStats_RoundsToOneDecimal(t *testing.T) {
	leads := []model.Lead{
		{Priority: 10.24},
		{Priority: 10.28},
	}

	stats := SummarizeStats(leads)

	assert.InDelta(t, 10.2, stats.Priority.Min, 0.0001)
	assert.InDelta(t, 10.3, stats.Priority.Max, 0.0001)
	// P50 interpolates to 10.26 before rounding.
	assert.InDelta(t, 10.3, stats.Priority.P50, 0.0001)
}

func TestSummarizeStats_Empty(t *testing.T) {
	stats := SummarizeStats(nil)

	assert.Equal(t, model.DimensionStats{}, stats.Priority)
	assert.Equal(t, model.DimensionStats{}, stats.Heat)
	assert.Equal(t, model.DimensionStats{}, stats.Value)
	assert.Equal(t, model.DimensionStats{}, stats.Relationship)
}

func TestSummarizeStats_UnsortedInput(t *testing.T) {
	leads := []model.Lead{
		{Priority: 50},
		{Priority: 10},
		{Priority: 30},
	}

	stats := SummarizeStats(leads)

	assert.InDelta(t, 10, stats.Priority.Min, 0.001)
	assert.InDelta(t, 30, stats.Priority.P50, 0.001)
	assert.InDelta(t, 50, stats.Priority.Max, 0.001)
}
