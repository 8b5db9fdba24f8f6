// Package inspect derives read-only views from sheet snapshots: dense cell
// grids, tables, summaries and column statistics.
//
// Every view has a strict form returning (value, error) and an *OrEmpty form
// that never fails, for display code that should degrade to "no data".
package inspect

import (
	"fmt"

	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
)

// PreviewRows is how many rows a preview shows per sheet.
const PreviewRows = 50

// MaxDenseCells caps the rows x columns area of one dense grid. Index keys in
// an uploaded snapshot are caller controlled, so a single far-away cell must
// not size the grid.
const MaxDenseCells = 2_000_000

// SheetGrid is the dense rendering of one sheet.
type SheetGrid struct {
	SheetID string  `json:"sheet_id"`
	Name    string  `json:"name"`
	Rows    [][]any `json:"rows"`
}

// Width is the number of columns in the grid.
func (g SheetGrid) Width() int {
	if len(g.Rows) == 0 {
		return 0
	}
	return len(g.Rows[0])
}

var errNoSnapshot = errors.InvalidInput("no snapshot loaded")

// ExtractCells returns one null-filled grid per sheet in sheet order. Sheets
// without any occupied column are left out. A sheet whose grid would exceed
// MaxDenseCells fails the whole extraction with INVALID_SHAPE.
func ExtractCells(snap *sheet.Snapshot) ([]SheetGrid, error) {
	if snap == nil {
		return nil, errNoSnapshot
	}
	grids := make([]SheetGrid, 0, len(snap.Sheets))
	for _, id := range snap.Order() {
		sh := snap.Sheets[id]
		maxRow, maxCol := sh.Cells.Bounds()
		if maxRow < 0 || maxCol < 0 {
			continue
		}
		if !denseAreaFits(maxRow+1, maxCol+1) {
			return nil, errors.InvalidShape(fmt.Sprintf("sheet %q spans %d rows x %d columns, more than %d cells",
				id, maxRow+1, maxCol+1, MaxDenseCells)).WithField("cellData")
		}
		rows := make([][]any, maxRow+1)
		for r := range rows {
			rows[r] = make([]any, maxCol+1)
		}
		for r, cols := range sh.Cells {
			for c, cell := range cols {
				rows[r][c] = cell.Value()
			}
		}
		grids = append(grids, SheetGrid{SheetID: id, Name: sh.DisplayName(), Rows: rows})
	}
	return grids, nil
}

func denseAreaFits(rows, cols int) bool {
	if rows <= 0 || cols <= 0 || rows > MaxDenseCells || cols > MaxDenseCells {
		return false
	}
	return rows <= MaxDenseCells/cols
}

// ExtractCellsOrEmpty is ExtractCells that reports failures as no grids.
func ExtractCellsOrEmpty(snap *sheet.Snapshot) []SheetGrid {
	grids, err := ExtractCells(snap)
	if err != nil {
		return []SheetGrid{}
	}
	return grids
}

// Preview is the display form of a grid: at most PreviewRows rows, every
// value stringified and nulls shown as "".
type Preview struct {
	SheetID   string     `json:"sheet_id"`
	Name      string     `json:"name"`
	TotalRows int        `json:"total_rows"`
	Rows      [][]string `json:"rows"`
}

// Truncated reports whether rows were cut off.
func (p Preview) Truncated() bool {
	return p.TotalRows > len(p.Rows)
}

// PreviewGrid renders the first limit rows of g. A non-positive limit means
// PreviewRows.
func PreviewGrid(g SheetGrid, limit int) Preview {
	if limit <= 0 {
		limit = PreviewRows
	}
	n := min(limit, len(g.Rows))
	p := Preview{SheetID: g.SheetID, Name: g.Name, TotalRows: len(g.Rows), Rows: make([][]string, n)}
	for i := 0; i < n; i++ {
		row := make([]string, len(g.Rows[i]))
		for j, v := range g.Rows[i] {
			row[j] = sheet.FormatValue(v)
		}
		p.Rows[i] = row
	}
	return p
}

// Previews renders every sheet of snap; it never fails.
func Previews(snap *sheet.Snapshot, limit int) []Preview {
	grids := ExtractCellsOrEmpty(snap)
	out := make([]Preview, len(grids))
	for i, g := range grids {
		out[i] = PreviewGrid(g, limit)
	}
	return out
}
