package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// CSVSource reads a lead export in CSV form. The first row is the header;
// ragged rows are tolerated since missing cells normalize to defaults.
type CSVSource struct {
	Path string
}

func (s CSVSource) Name() string {
	return filepath.Base(s.Path)
}

func (s CSVSource) Rows(ctx context.Context) ([]string, [][]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "ingest: open csv %s", s.Path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	var (
		headers []string
		rows    [][]string
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, eris.Wrap(err, "ingest: context done reading csv")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrapf(err, "ingest: read csv %s", s.Path)
		}

		if headers == nil {
			headers = record
			continue
		}
		rows = append(rows, record)
	}

	return headers, rows, nil
}
