package inspect

import (
	"fmt"
	"strconv"

	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
)

// Table is a sheet viewed as named columns and data rows.
type Table struct {
	SheetID string   `json:"sheet_id"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) {
	return len(t.Rows), len(t.Columns)
}

// Column returns the values of column i.
func (t *Table) Column(i int) []any {
	out := make([]any, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// ToTable projects one sheet into a table. sheetID selects the sheet when it
// exists; otherwise the first sheet with data is used. With hasHeaders the
// first row names the columns; otherwise columns are named "0", "1", ...
func ToTable(snap *sheet.Snapshot, sheetID string, hasHeaders bool) (*Table, error) {
	grids, err := ExtractCells(snap)
	if err != nil {
		return nil, err
	}
	if len(grids) == 0 {
		return nil, errors.NotFound("sheet data")
	}

	grid := grids[0]
	for _, g := range grids {
		if sheetID != "" && g.SheetID == sheetID {
			grid = g
			break
		}
	}
	if len(grid.Rows) == 0 {
		return nil, errors.NotFound("sheet data")
	}

	t := &Table{SheetID: grid.SheetID}
	body := grid.Rows
	if hasHeaders {
		t.Columns = headerNames(grid.Rows[0])
		body = grid.Rows[1:]
	} else {
		t.Columns = make([]string, grid.Width())
		for i := range t.Columns {
			t.Columns[i] = strconv.Itoa(i)
		}
	}
	t.Rows = make([][]any, len(body))
	copy(t.Rows, body)
	return t, nil
}

// TableOrNil is ToTable that reports failures as nil.
func TableOrNil(snap *sheet.Snapshot, sheetID string, hasHeaders bool) *Table {
	t, err := ToTable(snap, sheetID, hasHeaders)
	if err != nil {
		return nil
	}
	return t
}

func headerNames(row []any) []string {
	names := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			names[i] = fmt.Sprintf("Unnamed: %d", i)
			continue
		}
		names[i] = sheet.FormatValue(v)
	}
	return names
}
