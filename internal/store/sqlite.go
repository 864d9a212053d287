package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/lead-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Snapshot
// leads are stored as a JSON blob on the snapshot row.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	source     TEXT NOT NULL,
	lead_count INTEGER NOT NULL DEFAULT 0,
	leads      TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	snapshot_id TEXT,
	payload     TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
CREATE INDEX IF NOT EXISTS idx_reports_snapshot_id ON reports(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, label, source string, leads []model.Lead) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	if leads == nil {
		leads = []model.Lead{}
	}

	leadsJSON, err := json.Marshal(leads)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal leads")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, label, source, lead_count, leads, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, label, source, len(leads), string(leadsJSON), now,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert snapshot")
	}
	return id, nil
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (*model.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, label, source, lead_count, leads, created_at FROM snapshots
		 ORDER BY created_at DESC LIMIT 1`,
	)

	var snap model.Snapshot
	var leadsJSON string
	err := row.Scan(&snap.ID, &snap.Label, &snap.Source, &snap.LeadCount, &leadsJSON, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest snapshot")
	}
	if err := json.Unmarshal([]byte(leadsJSON), &snap.Leads); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal leads")
	}
	return &snap, nil
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, source, lead_count, created_at FROM snapshots
		 ORDER BY created_at DESC LIMIT ?`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close()

	var snaps []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Label, &snap.Source, &snap.LeadCount, &snap.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "sqlite: list snapshots iterate")
}

func (s *SQLiteStore) SaveReport(ctx context.Context, snapshotID string, payload *model.Intelligence) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal report")
	}

	var sid any
	if snapshotID != "" {
		sid = snapshotID
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, snapshot_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		id, sid, string(payloadJSON), now,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert report")
	}
	return id, nil
}

func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*model.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, snapshot_id, payload, created_at FROM reports WHERE id = ?`,
		id,
	)
	return scanReport(row)
}

func (s *SQLiteStore) ListReports(ctx context.Context, limit int) ([]model.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, snapshot_id, payload, created_at FROM reports
		 ORDER BY created_at DESC LIMIT ?`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, eris.Wrap(rows.Err(), "sqlite: list reports iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanReport(row scannable) (*model.Report, error) {
	var r model.Report
	var snapshotID sql.NullString
	var payloadJSON string

	err := row.Scan(&r.ID, &snapshotID, &payloadJSON, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("report not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan report")
	}

	r.SnapshotID = snapshotID.String
	r.Payload = &model.Intelligence{}
	if err := json.Unmarshal([]byte(payloadJSON), r.Payload); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal report payload")
	}
	return &r, nil
}
