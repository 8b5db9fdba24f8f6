// Package workbook turns generator and import payloads into sheet snapshots.
package workbook

import (
	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
)

// Options control naming and row strictness for the builders.
type Options struct {
	SheetName    string
	WorkbookName string
	// SkipMalformedRows drops rows that are not arrays instead of failing.
	// A dropped row still occupies its index.
	SkipMalformedRows bool
}

// DefaultOptions returns the standard names and strict rows.
func DefaultOptions() Options {
	return Options{
		SheetName:    sheet.DefaultSheetName,
		WorkbookName: sheet.DefaultWorkbookName,
	}
}

func (o Options) withDefaults() Options {
	if o.SheetName == "" {
		o.SheetName = sheet.DefaultSheetName
	}
	if o.WorkbookName == "" {
		o.WorkbookName = sheet.DefaultWorkbookName
	}
	return o
}

// BuildFromGrid builds a single-sheet snapshot from typed rows.
func BuildFromGrid(grid [][]any, opts Options) *sheet.Snapshot {
	opts = opts.withDefaults()
	cells := make(sheet.CellTable)
	width := 0
	for r, row := range grid {
		width = max(width, len(row))
		for c, value := range row {
			if cell, ok := sheet.Coerce(value); ok {
				cells.Set(r, c, cell)
			}
		}
	}
	return newSnapshot(cells, len(grid), width, opts)
}

// BuildFromValue builds a snapshot from a decoded 2D array. The outer value
// must be an array; each row must be an array unless SkipMalformedRows is set.
func BuildFromValue(value any, opts Options) (*sheet.Snapshot, error) {
	rows, ok := asList(value)
	if !ok {
		return nil, errors.InvalidShape("grid must be an array of rows")
	}
	grid := make([][]any, len(rows))
	for i, r := range rows {
		row, ok := asList(r)
		if !ok {
			if opts.SkipMalformedRows {
				continue
			}
			return nil, errors.InvalidShape("grid row must be an array").WithIndex(i)
		}
		grid[i] = row
	}
	return BuildFromGrid(grid, opts), nil
}

func newSnapshot(cells sheet.CellTable, rows, cols int, opts Options) *sheet.Snapshot {
	sh := &sheet.Sheet{
		ID:          sheet.DefaultSheetID,
		Name:        opts.SheetName,
		Cells:       cells,
		RowCount:    sheet.RowCapacity(rows),
		ColumnCount: sheet.ColumnCapacity(cols),
	}
	return &sheet.Snapshot{
		ID:         sheet.DefaultWorkbookID,
		Name:       opts.WorkbookName,
		SheetOrder: []string{sh.ID},
		Sheets:     map[string]*sheet.Sheet{sh.ID: sh},
	}
}

// asList accepts the array shapes a caller may hand in: decoded JSON arrays
// and typed Go slices of rows or records.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case [][]any:
		out := make([]any, len(l))
		for i, row := range l {
			out[i] = row
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, rec := range l {
			out[i] = rec
		}
		return out, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
