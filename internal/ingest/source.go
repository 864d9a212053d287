package ingest

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
)

// Source supplies one raw tabular snapshot: a header row plus data rows.
// A Source error means the underlying table, file, or sheet could not be
// read at all; row contents are never validated here.
type Source interface {
	// Name identifies the source in logs and stored snapshots.
	Name() string
	// Rows returns the header row and all data rows.
	Rows(ctx context.Context) (headers []string, rows [][]string, err error)
}

// Table is an in-memory Source, used for request bodies and tests.
type Table struct {
	Label   string
	Headers []string
	Data    [][]string
}

func (t Table) Name() string {
	if t.Label != "" {
		return t.Label
	}
	return "table"
}

func (t Table) Rows(ctx context.Context) ([]string, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "ingest: context done")
	}
	return t.Headers, t.Data, nil
}

// RecordsTable converts pre-resolved named records (canonical or aliased
// keys mapped to raw cell text) into a Table. The header is the union of
// keys across all records, so record sets with uneven keys still resolve
// as one dataset. Map iteration order is randomized, so keys are taken
// sorted per record to keep the derived header deterministic.
func RecordsTable(records []map[string]string) Table {
	var headers []string
	cols := make(map[string]int)
	for _, rec := range records {
		for _, k := range sortedKeys(rec) {
			if _, ok := cols[k]; !ok {
				cols[k] = len(headers)
				headers = append(headers, k)
			}
		}
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(headers))
		for k, v := range rec {
			row[cols[k]] = v
		}
		rows[i] = row
	}

	return Table{Label: "records", Headers: headers, Data: rows}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
