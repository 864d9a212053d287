package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// CopyFrom streams rows into a table over the PostgreSQL COPY protocol.
// COPY has no conflict handling; use BulkUpsert when rows may collide with
// an existing unique key.
func CopyFrom(ctx context.Context, pool Pool, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "db: COPY INTO %s", table)
	}
	return n, nil
}

// UpsertConfig describes one bulk merge into a keyed table.
type UpsertConfig struct {
	Table        string   // target table, may be schema-qualified
	Columns      []string // columns present in every row
	ConflictKeys []string // unique key the merge deduplicates on
	UpdateCols   []string // columns rewritten on conflict; nil means every non-key column
}

func (c UpsertConfig) validate() error {
	if c.Table == "" {
		return eris.New("db: upsert: no table specified")
	}
	if len(c.Columns) == 0 {
		return eris.New("db: upsert: no columns specified")
	}
	if len(c.ConflictKeys) == 0 {
		return eris.New("db: upsert: no conflict keys specified")
	}
	return nil
}

// updateColumns resolves which columns the ON CONFLICT branch rewrites.
func (c UpsertConfig) updateColumns() []string {
	if c.UpdateCols != nil {
		return c.UpdateCols
	}
	keys := make(map[string]bool, len(c.ConflictKeys))
	for _, k := range c.ConflictKeys {
		keys[k] = true
	}
	var cols []string
	for _, col := range c.Columns {
		if !keys[col] {
			cols = append(cols, col)
		}
	}
	return cols
}

// BulkUpsert merges rows into cfg.Table through a session-local staging
// table: COPY the rows in, then INSERT ... ON CONFLICT DO UPDATE from the
// staging table into the target. The whole merge runs in one transaction
// and the staging table drops with it.
//
// Rows must not repeat a conflict key; Postgres rejects an upsert that
// touches the same row twice.
func BulkUpsert(ctx context.Context, pool Pool, cfg UpsertConfig, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := cfg.validate(); err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert: begin tx")
	}
	defer tx.Rollback(ctx)

	stage := stagingTable(cfg.Table)
	createSQL := fmt.Sprintf(
		"CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		pgx.Identifier{stage}.Sanitize(),
		tableIdent(cfg.Table),
	)
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: create staging table for %s", cfg.Table)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{stage}, cfg.Columns, pgx.CopyFromRows(rows)); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: COPY into staging table for %s", cfg.Table)
	}

	tag, err := tx.Exec(ctx, mergeSQL(cfg, stage))
	if err != nil {
		return 0, eris.Wrapf(err, "db: upsert: merge into %s", cfg.Table)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: upsert: commit tx")
	}
	return tag.RowsAffected(), nil
}

// stagingTable derives the staging table name for a target. Dots from
// schema-qualified names flatten to underscores.
func stagingTable(table string) string {
	return "_stage_" + strings.ReplaceAll(table, ".", "_")
}

// tableIdent sanitizes a possibly schema-qualified table name.
func tableIdent(table string) string {
	if schema, name, ok := strings.Cut(table, "."); ok {
		return pgx.Identifier{schema, name}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

// identList sanitizes each column name and joins them into a column list.
func identList(cols []string) string {
	idents := make([]string, len(cols))
	for i, c := range cols {
		idents[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(idents, ", ")
}

// mergeSQL renders the INSERT ... ON CONFLICT statement that moves staged
// rows into the target table.
func mergeSQL(cfg UpsertConfig, stage string) string {
	cols := identList(cfg.Columns)

	assigns := make([]string, 0, len(cfg.Columns))
	for _, col := range cfg.updateColumns() {
		ident := pgx.Identifier{col}.Sanitize()
		assigns = append(assigns, ident+" = EXCLUDED."+ident)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (%s) DO UPDATE SET %s",
		tableIdent(cfg.Table),
		cols,
		cols,
		pgx.Identifier{stage}.Sanitize(),
		identList(cfg.ConflictKeys),
		strings.Join(assigns, ", "),
	)
}
