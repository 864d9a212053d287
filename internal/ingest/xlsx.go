package ingest

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXSource reads a lead export in XLSX form. SheetName selects a sheet
// by name; when empty the first sheet is used.
type XLSXSource struct {
	Path      string
	SheetName string
}

func (s XLSXSource) Name() string {
	return filepath.Base(s.Path)
}

func (s XLSXSource) Rows(ctx context.Context) ([]string, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "ingest: context done reading xlsx")
	}

	f, err := xlsx.OpenFile(s.Path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "ingest: open xlsx %s", s.Path)
	}

	sheet, err := s.sheet(f)
	if err != nil {
		return nil, nil, err
	}

	var (
		headers []string
		rows    [][]string
	)
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}

		if headers == nil {
			headers = cells
			continue
		}
		rows = append(rows, cells)
	}

	return headers, rows, nil
}

func (s XLSXSource) sheet(f *xlsx.File) (*xlsx.Sheet, error) {
	if s.SheetName != "" {
		sheet, ok := f.Sheet[s.SheetName]
		if !ok {
			return nil, eris.Errorf("ingest: sheet %q not found in %s", s.SheetName, s.Path)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: no sheets in %s", s.Path)
	}
	return f.Sheets[0], nil
}
