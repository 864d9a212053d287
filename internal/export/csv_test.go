package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intel/internal/model"
)

func sampleQueue() []model.ActionQueueEntry {
	return []model.ActionQueueEntry{
		{
			ID: "amy@acme.com", Name: "Amy Adams", Email: "amy@acme.com",
			Phone: "555-0100", Stage: "Negotiating",
			Tier: 1, Reason: "Immediate contact",
			Priority: 91.5, Heat: 88, Value: 72.25, Relationship: 40,
			IntentCount: 2, DaysSinceActivity: 3,
		},
		{
			ID: "lead-2", Name: "Bob Birch", Stage: "N/A",
			Tier: 4, Reason: "Re-engage",
			Priority: 55, Heat: 20, Value: 60, Relationship: 10,
			IntentCount: 0, DaysSinceActivity: 45,
		},
	}
}

func TestWriteQueueCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteQueueCSV(&buf, sampleQueue())
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, queueColumns, records[0])
	assert.Equal(t, []string{
		"1", "Immediate contact", "Amy Adams", "Negotiating",
		"amy@acme.com", "555-0100",
		"91.5", "88", "72.25", "40", "3", "2",
	}, records[1])
	assert.Equal(t, []string{
		"4", "Re-engage", "Bob Birch", "N/A", "", "",
		"55", "20", "60", "10", "45", "0",
	}, records[2])
}

func TestWriteQueueCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteQueueCSV(&buf, nil)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
	assert.Equal(t, queueColumns, records[0])
}

func TestExportQueueCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.csv")
	err := ExportQueueCSV(sampleQueue(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Tier,Reason,Name")
	assert.Contains(t, string(data), "Amy Adams")
	assert.Contains(t, string(data), "Bob Birch")
}

func TestExportQueueCSV_BadPath(t *testing.T) {
	err := ExportQueueCSV(sampleQueue(), filepath.Join(t.TempDir(), "missing", "queue.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export: create csv file")
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{88, "88"},
		{91.5, "91.5"},
		{72.25, "72.25"},
		{0, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatScore(tt.in))
	}
}
