package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/internal/db"
	"github.com/sells-group/lead-intel/internal/model"
)

// PostgresStore implements Store using pgxpool. Snapshot leads are
// stored one row per lead, and a current-view leads table is upserted
// on every import so downstream SQL consumers can query the latest
// state of each lead directly.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_snapshot": `INSERT INTO snapshots (id, label, source, lead_count, created_at) VALUES ($1, $2, $3, $4, $5)`,
	"latest_snapshot": `SELECT id, label, source, lead_count, created_at FROM snapshots ORDER BY created_at DESC LIMIT 1`,
	"snapshot_leads":  `SELECT data FROM snapshot_leads WHERE snapshot_id = $1 ORDER BY position`,
	"insert_report":   `INSERT INTO reports (id, snapshot_id, payload, created_at) VALUES ($1, $2, $3, $4)`,
	"get_report":      `SELECT id, snapshot_id, payload, created_at FROM reports WHERE id = $1`,
}

var (
	snapshotLeadColumns = []string{"snapshot_id", "position", "lead_id", "data"}
	currentLeadColumns  = []string{"lead_id", "email", "name", "stage", "data", "snapshot_id", "updated_at"}
)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	source     TEXT NOT NULL,
	lead_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshot_leads (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
	position    INTEGER NOT NULL,
	lead_id     TEXT NOT NULL,
	data        JSONB NOT NULL,
	PRIMARY KEY (snapshot_id, position)
);

CREATE TABLE IF NOT EXISTS leads (
	lead_id     TEXT PRIMARY KEY,
	email       TEXT NOT NULL DEFAULT '',
	name        TEXT NOT NULL DEFAULT '',
	stage       TEXT NOT NULL DEFAULT '',
	data        JSONB NOT NULL,
	snapshot_id TEXT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	snapshot_id TEXT,
	payload     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_snapshot_leads_snapshot_id ON snapshot_leads(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);
CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(stage);
CREATE INDEX IF NOT EXISTS idx_reports_snapshot_id ON reports(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, label, source string, leads []model.Lead) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO snapshots (id, label, source, lead_count, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, label, source, len(leads), now,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert snapshot")
	}

	snapRows, current, err := buildLeadRows(id, leads, now)
	if err != nil {
		return "", err
	}

	if _, err := db.CopyFrom(ctx, s.pool, "snapshot_leads", snapshotLeadColumns, snapRows); err != nil {
		return "", err
	}
	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "leads",
		Columns:      currentLeadColumns,
		ConflictKeys: []string{"lead_id"},
	}, current); err != nil {
		return "", err
	}
	return id, nil
}

// buildLeadRows prepares the COPY rows for snapshot_leads and the
// upsert rows for the current-view leads table. The current view keeps
// one row per lead id; the last occurrence in the snapshot wins.
func buildLeadRows(snapshotID string, leads []model.Lead, now time.Time) (snapRows, current [][]any, err error) {
	snapRows = make([][]any, 0, len(leads))
	current = make([][]any, 0, len(leads))
	currentIdx := make(map[string]int, len(leads))
	for i, lead := range leads {
		data, err := json.Marshal(lead)
		if err != nil {
			return nil, nil, eris.Wrap(err, "postgres: marshal lead")
		}
		snapRows = append(snapRows, []any{snapshotID, i, lead.ID, data})

		row := []any{lead.ID, lead.Email, lead.Name, lead.Stage, data, snapshotID, now}
		if j, ok := currentIdx[lead.ID]; ok {
			current[j] = row
			continue
		}
		currentIdx[lead.ID] = len(current)
		current = append(current, row)
	}
	return snapRows, current, nil
}

func (s *PostgresStore) LatestSnapshot(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT id, label, source, lead_count, created_at FROM snapshots ORDER BY created_at DESC LIMIT 1`,
	).Scan(&snap.ID, &snap.Label, &snap.Source, &snap.LeadCount, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: latest snapshot")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT data FROM snapshot_leads WHERE snapshot_id = $1 ORDER BY position`,
		snap.ID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load snapshot leads")
	}
	defer rows.Close()

	snap.Leads = make([]model.Lead, 0, snap.LeadCount)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot lead")
		}
		var lead model.Lead
		if err := json.Unmarshal(data, &lead); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal snapshot lead")
		}
		snap.Leads = append(snap.Leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: snapshot leads iterate")
	}
	return &snap, nil
}

func (s *PostgresStore) ListSnapshots(ctx context.Context, limit int) ([]model.Snapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, label, source, lead_count, created_at FROM snapshots ORDER BY created_at DESC LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list snapshots")
	}
	defer rows.Close()

	var snaps []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Label, &snap.Source, &snap.LeadCount, &snap.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot")
		}
		snaps = append(snaps, snap)
	}
	return snaps, eris.Wrap(rows.Err(), "postgres: list snapshots iterate")
}

func (s *PostgresStore) SaveReport(ctx context.Context, snapshotID string, payload *model.Intelligence) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal report")
	}

	var sid *string
	if snapshotID != "" {
		sid = &snapshotID
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (id, snapshot_id, payload, created_at) VALUES ($1, $2, $3, $4)`,
		id, sid, payloadJSON, now,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert report")
	}
	return id, nil
}

func (s *PostgresStore) GetReport(ctx context.Context, id string) (*model.Report, error) {
	var r model.Report
	var sid *string
	var payloadJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, snapshot_id, payload, created_at FROM reports WHERE id = $1`,
		id,
	).Scan(&r.ID, &sid, &payloadJSON, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("report not found: %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get report %s", id)
	}

	if sid != nil {
		r.SnapshotID = *sid
	}
	r.Payload = &model.Intelligence{}
	if err := json.Unmarshal(payloadJSON, r.Payload); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal report payload")
	}
	return &r, nil
}

func (s *PostgresStore) ListReports(ctx context.Context, limit int) ([]model.Report, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, snapshot_id, payload, created_at FROM reports ORDER BY created_at DESC LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var r model.Report
		var sid *string
		var payloadJSON []byte
		if err := rows.Scan(&r.ID, &sid, &payloadJSON, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report")
		}
		if sid != nil {
			r.SnapshotID = *sid
		}
		r.Payload = &model.Intelligence{}
		if err := json.Unmarshal(payloadJSON, r.Payload); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal report payload")
		}
		reports = append(reports, r)
	}
	return reports, eris.Wrap(rows.Err(), "postgres: list reports iterate")
}
