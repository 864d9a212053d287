// Package store persists imported lead snapshots and computed
// intelligence reports.
package store

import (
	"context"

	"github.com/sells-group/lead-intel/internal/model"
)

// defaultListLimit applies when a list call passes limit <= 0.
const defaultListLimit = 100

// Store defines the persistence interface for snapshots and reports.
// List methods return newest-first metadata; LatestSnapshot returns
// (nil, nil) when the store is empty.
type Store interface {
	// Snapshots
	SaveSnapshot(ctx context.Context, label, source string, leads []model.Lead) (string, error)
	LatestSnapshot(ctx context.Context) (*model.Snapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error)

	// Reports
	SaveReport(ctx context.Context, snapshotID string, payload *model.Intelligence) (string, error)
	GetReport(ctx context.Context, id string) (*model.Report, error)
	ListReports(ctx context.Context, limit int) ([]model.Report, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
