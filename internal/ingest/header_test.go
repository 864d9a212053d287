package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullHeader returns a header row covering every required field using the
// canonical names.
func fullHeader() []string {
	return append([]string(nil), RequiredFields...)
}

func TestResolveHeader_CanonicalNames(t *testing.T) {
	idx, missing := ResolveHeader(fullHeader(), nil)

	assert.Empty(t, missing)
	require.Len(t, idx, len(RequiredFields))
	for i, field := range RequiredFields {
		assert.Equal(t, i, idx[field], "field %s", field)
	}
}

func TestResolveHeader_ForgivingSpellings(t *testing.T) {
	headers := []string{
		"ID",
		"First Name",
		"LAST_NAME",
		"Stage",
		"Primary Email",
		"primary-phone",
		"Last Activity",
		"Priority Score",
		"heat score",
		"VALUE SCORE",
		"Relationship  Score",
		"Intent: Repeat Views",
		"intent_high_favorites",
		"Intent Activity Burst",
		"Intent (Sharing)",
	}

	idx, missing := ResolveHeader(headers, nil)

	assert.Empty(t, missing)
	assert.Equal(t, 0, idx[FieldID])
	assert.Equal(t, 7, idx[FieldPriority])
	assert.Equal(t, 11, idx[FieldRepeatViews])
	assert.Equal(t, 14, idx[FieldSharing])
}

func TestResolveHeader_ShortAliases(t *testing.T) {
	headers := []string{
		"uid", "fname", "surname", "deal stage", "e-mail", "mobile",
		"last touch", "priority", "heat", "value", "relationship",
		"repeat views", "high favorites", "activity burst", "sharing",
	}

	idx, missing := ResolveHeader(headers, nil)

	assert.Empty(t, missing)
	assert.Equal(t, 0, idx[FieldID])
	assert.Equal(t, 4, idx[FieldPrimaryEmail])
	assert.Equal(t, 6, idx[FieldLastActivity])
}

func TestResolveHeader_AccentFolding(t *testing.T) {
	headers := fullHeader()
	headers[8] = "Heät_Scöre"

	idx, missing := ResolveHeader(headers, nil)

	assert.Empty(t, missing)
	assert.Equal(t, 8, idx[FieldHeat])
}

func TestResolveHeader_LeftmostColumnWins(t *testing.T) {
	headers := append(fullHeader(), "priority score")

	idx, missing := ResolveHeader(headers, nil)

	assert.Empty(t, missing)
	assert.Equal(t, 7, idx[FieldPriority])
}

func TestResolveHeader_MissingInReportingOrder(t *testing.T) {
	headers := []string{"id", "firstName", "lastName"}

	_, missing := ResolveHeader(headers, nil)

	require.NotEmpty(t, missing)
	assert.Equal(t, []string{
		FieldStage,
		FieldPrimaryEmail,
		FieldPrimaryPhone,
		FieldLastActivity,
		FieldPriority,
		FieldHeat,
		FieldValue,
		FieldRelationship,
		FieldRepeatViews,
		FieldHighFavorites,
		FieldActivityBurst,
		FieldSharing,
	}, missing)
}

func TestResolveHeader_ExtraAliases(t *testing.T) {
	headers := fullHeader()
	headers[9] = "Deal Size"

	_, missing := ResolveHeader(headers, nil)
	assert.Contains(t, missing, FieldValue)

	idx, missing := ResolveHeader(headers, Aliases{FieldValue: {"deal size"}})
	assert.Empty(t, missing)
	assert.Equal(t, 9, idx[FieldValue])
}

func TestResolveHeader_UnknownColumnsIgnored(t *testing.T) {
	headers := append([]string{"Internal Notes", ""}, fullHeader()...)

	idx, missing := ResolveHeader(headers, nil)

	assert.Empty(t, missing)
	assert.Equal(t, 2, idx[FieldID])
}

func TestNormalizeHeaderKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"priority_score", "priorityscore"},
		{"Priority Score", "priorityscore"},
		{"PRIORITYSCORE", "priorityscore"},
		{"  Priority-Score!  ", "priorityscore"},
		{"Priorité Scöre", "prioritescore"},
		{"e-mail", "email"},
		{"", ""},
		{"###", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeHeaderKey(tt.in), "input %q", tt.in)
	}
}

func TestRawLeadFromRow_ShortRow(t *testing.T) {
	idx, missing := ResolveHeader(fullHeader(), nil)
	require.Empty(t, missing)

	raw := rawLeadFromRow([]string{"L-1", "Amy"}, idx)

	assert.Equal(t, "L-1", raw.ID)
	assert.Equal(t, "Amy", raw.FirstName)
	assert.Empty(t, raw.LastName)
	assert.Empty(t, raw.Priority)
	assert.Empty(t, raw.Sharing)
}
