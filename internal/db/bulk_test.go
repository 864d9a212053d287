package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRowsSkipsPool(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "snapshot_leads", []string{"snapshot_id", "position"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"snapshot_id", "position", "data"}
	mock.ExpectCopyFrom(pgx.Identifier{"snapshot_leads"}, cols).WillReturnResult(3)

	rows := [][]any{
		{"snap-1", 0, []byte(`{}`)},
		{"snap-1", 1, []byte(`{}`)},
		{"snap-1", 2, []byte(`{}`)},
	}
	n, err := CopyFrom(context.Background(), mock, "snapshot_leads", cols, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"snapshot_id", "position"}
	mock.ExpectCopyFrom(pgx.Identifier{"snapshot_leads"}, cols).
		WillReturnError(fmt.Errorf("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "snapshot_leads", cols, [][]any{{"snap-1", 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO snapshot_leads")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     UpsertConfig
		wantErr string
	}{
		{
			name:    "missing table",
			cfg:     UpsertConfig{Columns: []string{"lead_id"}, ConflictKeys: []string{"lead_id"}},
			wantErr: "no table specified",
		},
		{
			name:    "missing columns",
			cfg:     UpsertConfig{Table: "leads", ConflictKeys: []string{"lead_id"}},
			wantErr: "no columns specified",
		},
		{
			name:    "missing conflict keys",
			cfg:     UpsertConfig{Table: "leads", Columns: []string{"lead_id", "email"}},
			wantErr: "no conflict keys specified",
		},
		{
			name: "complete",
			cfg:  UpsertConfig{Table: "leads", Columns: []string{"lead_id", "email"}, ConflictKeys: []string{"lead_id"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUpsertConfig_UpdateColumns(t *testing.T) {
	t.Run("nil derives every non-key column", func(t *testing.T) {
		cfg := UpsertConfig{
			Table:        "leads",
			Columns:      []string{"lead_id", "email", "score"},
			ConflictKeys: []string{"lead_id"},
		}
		assert.Equal(t, []string{"email", "score"}, cfg.updateColumns())
	})

	t.Run("explicit subset wins", func(t *testing.T) {
		cfg := UpsertConfig{
			Table:        "leads",
			Columns:      []string{"lead_id", "email", "score"},
			ConflictKeys: []string{"lead_id"},
			UpdateCols:   []string{"score"},
		}
		assert.Equal(t, []string{"score"}, cfg.updateColumns())
	})
}

func TestStagingTable(t *testing.T) {
	assert.Equal(t, "_stage_leads", stagingTable("leads"))
	assert.Equal(t, "_stage_crm_leads", stagingTable("crm.leads"))
}

func TestTableIdent(t *testing.T) {
	assert.Equal(t, `"leads"`, tableIdent("leads"))
	assert.Equal(t, `"crm"."leads"`, tableIdent("crm.leads"))
}

func TestIdentList(t *testing.T) {
	assert.Equal(t, `"lead_id", "email", "data"`, identList([]string{"lead_id", "email", "data"}))
}

func TestMergeSQL(t *testing.T) {
	cfg := UpsertConfig{
		Table:        "leads",
		Columns:      []string{"lead_id", "email", "score"},
		ConflictKeys: []string{"lead_id"},
	}

	want := `INSERT INTO "leads" ("lead_id", "email", "score")` +
		` SELECT "lead_id", "email", "score" FROM "_stage_leads"` +
		` ON CONFLICT ("lead_id") DO UPDATE SET "email" = EXCLUDED."email", "score" = EXCLUDED."score"`
	assert.Equal(t, want, mergeSQL(cfg, "_stage_leads"))
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "leads",
		Columns:      []string{"lead_id", "email"},
		ConflictKeys: []string{"lead_id"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_stage_leads"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_leads"}, []string{"lead_id", "email", "data"}).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "leads" .+ ON CONFLICT \("lead_id"\) DO UPDATE SET`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	rows := [][]any{
		{"l-1", "dana@meridianfreight.com", []byte(`{}`)},
		{"l-2", "victor@meridianfreight.com", []byte(`{}`)},
	}
	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "leads",
		Columns:      []string{"lead_id", "email", "data"},
		ConflictKeys: []string{"lead_id"},
	}, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_CopyError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_leads"}, []string{"lead_id", "email"}).
		WillReturnError(fmt.Errorf("copy failed"))
	mock.ExpectRollback()

	_, err = BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "leads",
		Columns:      []string{"lead_id", "email"},
		ConflictKeys: []string{"lead_id"},
	}, [][]any{{"l-1", "dana@meridianfreight.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into staging table")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_MergeError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_leads"}, []string{"lead_id", "email"}).
		WillReturnResult(1)
	mock.ExpectExec(`INSERT INTO "leads"`).
		WillReturnError(fmt.Errorf("deadlock detected"))
	mock.ExpectRollback()

	_, err = BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "leads",
		Columns:      []string{"lead_id", "email"},
		ConflictKeys: []string{"lead_id"},
	}, [][]any{{"l-1", "dana@meridianfreight.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merge into leads")
	assert.NoError(t, mock.ExpectationsWereMet())
}
