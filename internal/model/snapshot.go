package model

import "time"

// Snapshot is a set of normalized leads imported from one source at one
// point in time. Listing queries return metadata only; Leads is
// populated when a full snapshot is loaded.
type Snapshot struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Source    string    `json:"source"`
	LeadCount int       `json:"leadCount"`
	CreatedAt time.Time `json:"createdAt"`
	Leads     []Lead    `json:"leads,omitempty"`
}

// Report is a persisted intelligence payload. SnapshotID is empty when
// the report was computed directly from a file rather than a stored
// snapshot.
type Report struct {
	ID         string        `json:"id"`
	SnapshotID string        `json:"snapshotId,omitempty"`
	Payload    *Intelligence `json:"payload"`
	CreatedAt  time.Time     `json:"createdAt"`
}
