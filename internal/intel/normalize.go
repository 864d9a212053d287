package intel

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/lead-intel/internal/model"
)

// DaysUnknown marks a lead whose activity date is missing or unparseable.
// Such leads sort as least-recently-active without null handling anywhere
// downstream.
const DaysUnknown = 999

// Intent signal names, in accumulation order.
const (
	SignalRepeatViews   = "repeat_views"
	SignalHighFavorites = "high_favorites"
	SignalActivityBurst = "activity_burst"
	SignalSharing       = "sharing"
)

// RawLead is one source row after header resolution: the raw cell text for
// each canonical field, before any coercion. Ingest builds these; the
// normalizer turns them into Leads and never fails doing so.
type RawLead struct {
	ID            string
	FirstName     string
	LastName      string
	Stage         string
	Email         string
	Phone         string
	LastActivity  string
	Priority      string
	Heat          string
	Value         string
	Relationship  string
	RepeatViews   string
	HighFavorites string
	ActivityBurst string
	Sharing       string
}

// activityLayouts are tried in order when parsing the last-activity cell.
// All are interpreted as UTC.
var activityLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
}

// NormalizeLeads normalizes a batch of raw rows. Row order is preserved.
func NormalizeLeads(raws []RawLead, now time.Time) []model.Lead {
	leads := make([]model.Lead, len(raws))
	for i, raw := range raws {
		leads[i] = NormalizeLead(raw, now)
	}
	return leads
}

// NormalizeLead maps one raw row into a canonical Lead. Malformed values
// degrade to defaults (0, "", or the DaysUnknown sentinel) rather than
// erroring; the returned Lead is always safe to score.
func NormalizeLead(raw RawLead, now time.Time) model.Lead {
	lead := model.Lead{
		FirstName:    strings.TrimSpace(raw.FirstName),
		LastName:     strings.TrimSpace(raw.LastName),
		Email:        strings.TrimSpace(raw.Email),
		Phone:        strings.TrimSpace(raw.Phone),
		Stage:        strings.TrimSpace(raw.Stage),
		Priority:     parseScore(raw.Priority),
		Heat:         parseScore(raw.Heat),
		Value:        parseScore(raw.Value),
		Relationship: parseScore(raw.Relationship),
	}

	lead.Name = strings.TrimSpace(lead.FirstName + " " + lead.LastName)
	if lead.Name == "" {
		lead.Name = "Unknown"
	}
	if lead.Stage == "" {
		lead.Stage = "N/A"
	}

	// id: email, else source id, else a fresh token so two blank rows
	// never collide.
	switch {
	case lead.Email != "":
		lead.ID = lead.Email
	case strings.TrimSpace(raw.ID) != "":
		lead.ID = strings.TrimSpace(raw.ID)
	default:
		lead.ID = uuid.New().String()
	}

	if t, ok := parseActivity(raw.LastActivity); ok {
		lead.LastActivity = t.Format(time.RFC3339)
		lead.DaysSinceActivity = daysBetween(t, now)
	} else {
		lead.LastActivity = ""
		lead.DaysSinceActivity = DaysUnknown
	}

	lead.IntentSignals = make([]string, 0, 4)
	for _, sig := range []struct {
		cell string
		name string
	}{
		{raw.RepeatViews, SignalRepeatViews},
		{raw.HighFavorites, SignalHighFavorites},
		{raw.ActivityBurst, SignalActivityBurst},
		{raw.Sharing, SignalSharing},
	} {
		if isTruthy(sig.cell) {
			lead.IntentSignals = append(lead.IntentSignals, sig.name)
		}
	}
	lead.IntentCount = len(lead.IntentSignals)

	return lead
}

// DaysSince recomputes the activity age of a stored lead against the
// current clock. The stored LastActivity is the RFC3339 string the
// normalizer produced; blank or unparseable yields the sentinel.
func DaysSince(lastActivity string, now time.Time) int {
	t, ok := parseActivity(lastActivity)
	if !ok {
		return DaysUnknown
	}
	return daysBetween(t, now)
}

// daysBetween returns ceil((now-t)/24h), floored at zero for future dates.
func daysBetween(t, now time.Time) int {
	delta := now.Sub(t)
	if delta <= 0 {
		return 0
	}
	return int(math.Ceil(delta.Hours() / 24))
}

func parseActivity(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range activityLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseScore coerces a score cell to a number. Anything unparseable is 0;
// valid values pass through unclamped.
func parseScore(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// isTruthy reports whether a boolean-ish cell marks its flag as set.
func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
