// Package ingest loads raw lead tables from CSV, XLSX, or in-memory
// sources, resolves their headers against the canonical field set, and
// hands normalized leads to the intel engine. All dataset-level failures
// are absorbed here and converted into the uniform empty payload; nothing
// past this boundary returns an error for bad data.
package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/lead-intel/internal/intel"
)

// Canonical logical field names. These exact strings appear in
// meta.missing when a dataset cannot be resolved.
const (
	FieldID            = "id"
	FieldFirstName     = "firstName"
	FieldLastName      = "lastName"
	FieldStage         = "stage"
	FieldPrimaryEmail  = "primaryEmail"
	FieldPrimaryPhone  = "primaryPhone"
	FieldLastActivity  = "lastActivity"
	FieldPriority      = "priority_score"
	FieldHeat          = "heat_score"
	FieldValue         = "value_score"
	FieldRelationship  = "relationship_score"
	FieldRepeatViews   = "intent_repeat_views"
	FieldHighFavorites = "intent_high_favorites"
	FieldActivityBurst = "intent_activity_burst"
	FieldSharing       = "intent_sharing"
)

// RequiredFields lists every canonical field a dataset must resolve,
// in reporting order.
var RequiredFields = []string{
	FieldID,
	FieldFirstName,
	FieldLastName,
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
}

// builtinAliases maps each canonical field to the header spellings seen in
// the wild. Matching is case-insensitive with whitespace, punctuation, and
// accents stripped, so "Priority Score", "priority_score", and
// "PRIORITYSCORE" all resolve identically without separate entries.
var builtinAliases = map[string][]string{
	FieldID:            {"lead id", "record id", "uid", "contact id"},
	FieldFirstName:     {"first", "given name", "fname"},
	FieldLastName:      {"last", "surname", "family name", "lname"},
	FieldStage:         {"pipeline stage", "lead stage", "deal stage"},
	FieldPrimaryEmail:  {"email", "email address", "e-mail"},
	FieldPrimaryPhone:  {"phone", "phone number", "mobile", "cell"},
	FieldLastActivity:  {"last activity date", "last touch", "last contacted", "last activity at"},
	FieldPriority:      {"priority"},
	FieldHeat:          {"heat"},
	FieldValue:         {"value"},
	FieldRelationship:  {"relationship"},
	FieldRepeatViews:   {"repeat views"},
	FieldHighFavorites: {"high favorites"},
	FieldActivityBurst: {"activity burst"},
	FieldSharing:       {"sharing"},
}

// ColumnIndex maps canonical field names to column positions in a
// resolved header row.
type ColumnIndex map[string]int

// ResolveHeader matches a raw header row against the alias table and
// reports which required fields could not be resolved, in RequiredFields
// order. When two columns resolve to the same field, the leftmost wins.
// Extra operator-supplied aliases take effect alongside the builtin set.
func ResolveHeader(headers []string, extra Aliases) (ColumnIndex, []string) {
	lookup := aliasLookup(extra)

	idx := make(ColumnIndex, len(RequiredFields))
	for col, header := range headers {
		key := normalizeHeaderKey(header)
		if key == "" {
			continue
		}
		field, ok := lookup[key]
		if !ok {
			continue
		}
		if _, taken := idx[field]; taken {
			continue
		}
		idx[field] = col
	}

	var missing []string
	for _, field := range RequiredFields {
		if _, ok := idx[field]; !ok {
			missing = append(missing, field)
		}
	}
	return idx, missing
}

// aliasLookup builds the normalized-spelling to canonical-field map from
// the builtin table plus any operator overrides. Canonical names resolve
// to themselves.
func aliasLookup(extra Aliases) map[string]string {
	lookup := make(map[string]string, 4*len(RequiredFields))
	for _, field := range RequiredFields {
		lookup[normalizeHeaderKey(field)] = field
		for _, alias := range builtinAliases[field] {
			lookup[normalizeHeaderKey(alias)] = field
		}
	}
	for field, spellings := range extra {
		for _, alias := range spellings {
			if key := normalizeHeaderKey(alias); key != "" {
				lookup[key] = field
			}
		}
	}
	return lookup
}

// normalizeHeaderKey reduces a header cell to its comparable core:
// accents folded, lowercased, everything but letters and digits dropped.
func normalizeHeaderKey(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// rawLeadFromRow plucks the resolved columns out of one row. Short rows
// are fine; out-of-range cells read as empty and normalize to defaults.
func rawLeadFromRow(row []string, idx ColumnIndex) intel.RawLead {
	cell := func(field string) string {
		col, ok := idx[field]
		if !ok || col >= len(row) {
			return ""
		}
		return row[col]
	}

	return intel.RawLead{
		ID:            cell(FieldID),
		FirstName:     cell(FieldFirstName),
		LastName:      cell(FieldLastName),
		Stage:         cell(FieldStage),
		Email:         cell(FieldPrimaryEmail),
		Phone:         cell(FieldPrimaryPhone),
		LastActivity:  cell(FieldLastActivity),
		Priority:      cell(FieldPriority),
		Heat:          cell(FieldHeat),
		Value:         cell(FieldValue),
		Relationship:  cell(FieldRelationship),
		RepeatViews:   cell(FieldRepeatViews),
		HighFavorites: cell(FieldHighFavorites),
		ActivityBurst: cell(FieldActivityBurst),
		Sharing:       cell(FieldSharing),
	}
}
