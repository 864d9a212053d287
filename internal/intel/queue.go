package intel

import (
	"sort"

	"github.com/sells-group/lead-intel/internal/model"
)

// Tier reason strings, stable because the dashboard and CRM sync key off
// them.
const (
	ReasonImmediate = "Immediate contact"
	ReasonHighValue = "High value warm"
	ReasonNurture   = "Nurture"
	ReasonReEngage  = "Re-engage"
)

// tierRule is one bucket of the action queue: who qualifies, how they are
// ordered inside the bucket, and the rationale shown to the agent.
type tierRule struct {
	tier   int
	reason string
	match  func(model.Lead) bool
	less   func(a, b model.Lead) bool
}

// tierRules are evaluated in order; a lead placed by an earlier tier never
// reappears in a later one.
var tierRules = []tierRule{
	{
		tier:   1,
		reason: ReasonImmediate,
		match: func(l model.Lead) bool {
			return l.Priority >= 80 && l.DaysSinceActivity <= 7
		},
		less: func(a, b model.Lead) bool {
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
			return a.DaysSinceActivity < b.DaysSinceActivity
		},
	},
	{
		tier:   2,
		reason: ReasonHighValue,
		match: func(l model.Lead) bool {
			return l.Value >= 70 && l.Heat >= 50 && l.Priority < 80
		},
		less: func(a, b model.Lead) bool {
			if a.Value != b.Value {
				return a.Value > b.Value
			}
			return a.Heat > b.Heat
		},
	},
	{
		tier:   3,
		reason: ReasonNurture,
		match: func(l model.Lead) bool {
			return l.Relationship >= 60 && l.Priority >= 50 && l.Priority < 75
		},
		less: func(a, b model.Lead) bool {
			if a.Relationship != b.Relationship {
				return a.Relationship > b.Relationship
			}
			return a.Priority > b.Priority
		},
	},
	{
		tier:   4,
		reason: ReasonReEngage,
		match: func(l model.Lead) bool {
			return l.DaysSinceActivity > 30 && l.Value >= 50
		},
		less: func(a, b model.Lead) bool {
			if a.Value != b.Value {
				return a.Value > b.Value
			}
			return a.DaysSinceActivity > b.DaysSinceActivity
		},
	},
}

// BuildActionQueue produces the ordered, deduplicated daily call list.
// Each tier filters its candidates, sorts them with a stable sort so tie
// order is reproducible, then appends any lead whose dedup key has not
// been seen, recording the key on append. The seen set is local to this
// call; nothing is shared between invocations. A lead matching no tier is
// simply absent.
func BuildActionQueue(leads []model.Lead) []model.ActionQueueEntry {
	queue := make([]model.ActionQueueEntry, 0, len(leads))
	seen := make(map[string]struct{}, len(leads))

	for _, rule := range tierRules {
		var matched []model.Lead
		for _, lead := range leads {
			if rule.match(lead) {
				matched = append(matched, lead)
			}
		}
		sort.SliceStable(matched, func(i, j int) bool {
			return rule.less(matched[i], matched[j])
		})
		for _, lead := range matched {
			key := DedupKey(lead)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			queue = append(queue, model.ActionQueueEntry{
				ID:                lead.ID,
				Name:              lead.Name,
				Email:             lead.Email,
				Phone:             lead.Phone,
				Stage:             lead.Stage,
				Tier:              rule.tier,
				Reason:            rule.reason,
				Priority:          lead.Priority,
				Heat:              lead.Heat,
				Value:             lead.Value,
				Relationship:      lead.Relationship,
				IntentCount:       lead.IntentCount,
				DaysSinceActivity: lead.DaysSinceActivity,
			})
		}
	}

	return queue
}

// DedupKey is the identity under which a lead occupies at most one queue
// slot: email, else id, else name.
func DedupKey(l model.Lead) string {
	if l.Email != "" {
		return l.Email
	}
	if l.ID != "" {
		return l.ID
	}
	return l.Name
}
