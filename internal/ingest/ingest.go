package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/intel"
	"github.com/sells-group/lead-intel/internal/model"
)

// Dataset-level failure messages recorded in meta.error. The dashboard
// branches on these, so they are part of the payload contract.
const (
	ErrMissingDataSource      = "missing data source"
	ErrEmptyDataset           = "empty dataset"
	ErrMissingRequiredColumns = "missing required columns"
)

// Build loads one snapshot from src and runs the full intelligence
// computation over it. Every dataset-level failure (unreadable source,
// no data rows, unresolved required columns) is converted into the
// uniform empty payload with meta.error set; Build never returns an
// error. Row-level malformation is not a failure at all: the normalizer
// degrades bad cells to defaults.
func Build(ctx context.Context, src Source, cfg intel.Config, aliases Aliases, now time.Time) *model.Intelligence {
	headers, rows, err := src.Rows(ctx)
	if err != nil {
		zap.L().Warn("ingest: data source unavailable",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
		return intel.Empty(ErrMissingDataSource, nil, now)
	}

	if len(rows) == 0 {
		zap.L().Warn("ingest: dataset has no data rows", zap.String("source", src.Name()))
		return intel.Empty(ErrEmptyDataset, nil, now)
	}

	idx, missing := ResolveHeader(headers, aliases)
	if len(missing) > 0 {
		zap.L().Warn("ingest: required columns unresolved",
			zap.String("source", src.Name()),
			zap.Strings("missing", missing),
		)
		return intel.Empty(ErrMissingRequiredColumns, missing, now)
	}

	raws := make([]intel.RawLead, len(rows))
	for i, row := range rows {
		raws[i] = rawLeadFromRow(row, idx)
	}
	leads := intel.NormalizeLeads(raws, now)

	zap.L().Info("ingest: dataset loaded",
		zap.String("source", src.Name()),
		zap.Int("rows", len(rows)),
	)

	return intel.Compute(leads, cfg, now)
}

// BuildFromRecords runs the computation over pre-resolved named records,
// the second input form: field names (canonical or aliased) mapped to raw
// cell text. Semantics match Build on the equivalent table.
func BuildFromRecords(ctx context.Context, records []map[string]string, cfg intel.Config, aliases Aliases, now time.Time) *model.Intelligence {
	return Build(ctx, RecordsTable(records), cfg, aliases, now)
}

// BuildFromLeads recomputes intelligence over already normalized leads,
// the stored-snapshot path. Activity ages are refreshed against now since
// DaysSinceActivity goes stale the moment a snapshot is persisted.
func BuildFromLeads(leads []model.Lead, cfg intel.Config, now time.Time) *model.Intelligence {
	if len(leads) == 0 {
		return intel.Empty(ErrEmptyDataset, nil, now)
	}

	refreshed := make([]model.Lead, len(leads))
	for i, lead := range leads {
		lead.DaysSinceActivity = intel.DaysSince(lead.LastActivity, now)
		refreshed[i] = lead
	}

	return intel.Compute(refreshed, cfg, now)
}
