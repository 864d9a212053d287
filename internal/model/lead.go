package model

import "time"

// Lead is a fully normalized lead record. Every field is safe to read:
// numeric scores default to 0, Stage to "N/A", Name to "Unknown", and a
// missing or unparseable activity date is marked by the 999 sentinel in
// DaysSinceActivity.
type Lead struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Stage             string   `json:"stage"`
	Priority          float64  `json:"priority"`
	Heat              float64  `json:"heat"`
	Value             float64  `json:"value"`
	Relationship      float64  `json:"relationship"`
	LastActivity      string   `json:"lastActivity"`
	DaysSinceActivity int      `json:"daysSinceActivity"`
	IntentSignals     []string `json:"intentSignals"`
	IntentCount       int      `json:"intentCount"`
}

// Thresholds holds the adaptive cutoffs derived from the current dataset,
// plus the config values consumers need to render badges without re-reading
// config. Recomputed fresh on every run, never persisted or mutated.
type Thresholds struct {
	HotTopN           int     `json:"hotTopN"`
	HotPriorityCutoff float64 `json:"hotPriorityCutoff"`
	ValueTopN         int     `json:"valueTopN"`
	ValueCutoff       float64 `json:"valueCutoff"`
	IntentMinSignals  int     `json:"intentMinSignals"`
	ActiveDays        int     `json:"activeDays"`
}

// Counts reports how many leads clear each adaptive cutoff.
type Counts struct {
	Hot       int `json:"hot"`
	HighValue int `json:"highValue"`
}

// DimensionStats is the distribution summary for one score dimension.
// All values are rounded to one decimal place.
type DimensionStats struct {
	Min float64 `json:"min"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	Max float64 `json:"max"`
}

// Stats summarizes the four score dimensions across the dataset.
type Stats struct {
	Priority     DimensionStats `json:"priority"`
	Heat         DimensionStats `json:"heat"`
	Value        DimensionStats `json:"value"`
	Relationship DimensionStats `json:"relationship"`
}

// Metrics holds headline funnel numbers.
//
// HotLeads and HighValue are always 0 here; the dashboard reads the real
// counts from Counts instead. Kept so the payload shape stays stable for
// existing consumers.
type Metrics struct {
	TotalLeads  int     `json:"totalLeads"`
	HotLeads    int     `json:"hotLeads"`
	HighValue   int     `json:"highValue"`
	Active7d    int     `json:"active7d"`
	AvgPriority float64 `json:"avgPriority"`
	HighIntent  int     `json:"highIntent"`
}

// ActionQueueEntry is one lead placed in a prioritized outreach tier. It
// snapshots the scoring fields at computation time so the queue renders
// without joining back to the lead collection.
type ActionQueueEntry struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Stage             string  `json:"stage"`
	Tier              int     `json:"tier"`
	Reason            string  `json:"reason"`
	Priority          float64 `json:"priority"`
	Heat              float64 `json:"heat"`
	Value             float64 `json:"value"`
	Relationship      float64 `json:"relationship"`
	IntentCount       int     `json:"intentCount"`
	DaysSinceActivity int     `json:"daysSinceActivity"`
}

// Meta carries provenance and error state for a payload. Error and Missing
// are only set on the empty shape produced for dataset-level failures.
type Meta struct {
	Error     string    `json:"error,omitempty"`
	Missing   []string  `json:"missing,omitempty"`
	RowCount  int       `json:"rowCount,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Intelligence is the complete computed payload consumed by the listing
// dashboard. Dataset-level failures produce the same shape with empty
// collections and Meta.Error set; the structure never varies.
type Intelligence struct {
	Leads       []Lead             `json:"leads"`
	ActionQueue []ActionQueueEntry `json:"actionQueue"`
	Thresholds  *Thresholds        `json:"thresholds"`
	Counts      *Counts            `json:"counts"`
	Stats       *Stats             `json:"stats"`
	Metrics     Metrics            `json:"metrics"`
	Meta        Meta               `json:"meta"`
}
