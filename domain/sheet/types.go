package sheet

import (
	"fmt"
	"sort"
)

// Fixed identities and defaults used when a snapshot is built from a payload
const (
	DefaultSheetID      = "sheet1"
	DefaultWorkbookID   = "workbook1"
	DefaultSheetName    = "Generated Data"
	DefaultWorkbookName = "GenMentor Sheet"
)

// Reserved growth room on top of the occupied area
const (
	MinRowCapacity    = 1000
	RowSlack          = 20
	MinColumnCapacity = 20
	ColumnSlack       = 5
)

// CellType is the snapshot type tag. Only CellTypeNumber is produced here;
// other tags survive an import/export round trip untouched.
type CellType int

const CellTypeNumber CellType = 2

// Cell is one materialized cell. V is the value, F a formula fallback.
type Cell struct {
	V any
	T CellType
	F any
}

// Value returns V, falling back to F when V is absent.
func (c Cell) Value() any {
	if c.V != nil {
		return c.V
	}
	return c.F
}

// IsNumeric reports whether the cell carries the numeric tag.
func (c Cell) IsNumeric() bool {
	return c.T == CellTypeNumber
}

// CellTable is a sparse row -> column -> Cell map with integer indices.
// A row may exist without cells when it came from an imported snapshot.
type CellTable map[int]map[int]Cell

// Set stores c at (row, col).
func (t CellTable) Set(row, col int, c Cell) {
	cols, ok := t[row]
	if !ok {
		cols = make(map[int]Cell)
		t[row] = cols
	}
	cols[col] = c
}

// Get returns the cell at (row, col).
func (t CellTable) Get(row, col int) (Cell, bool) {
	c, ok := t[row][col]
	return c, ok
}

// Bounds returns the highest occupied row and column index, -1 when none.
func (t CellTable) Bounds() (maxRow, maxCol int) {
	maxRow, maxCol = -1, -1
	for r, cols := range t {
		if r > maxRow {
			maxRow = r
		}
		for c := range cols {
			if c > maxCol {
				maxCol = c
			}
		}
	}
	return maxRow, maxCol
}

// RowCount is the number of occupied row keys.
func (t CellTable) RowCount() int {
	return len(t)
}

// CellCount is the number of occupied column entries across all rows.
func (t CellTable) CellCount() int {
	n := 0
	for _, cols := range t {
		n += len(cols)
	}
	return n
}

// Rows returns occupied row indices in ascending order.
func (t CellTable) Rows() []int {
	rows := make([]int, 0, len(t))
	for r := range t {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}

// Sheet is a single worksheet.
type Sheet struct {
	ID          string
	Name        string
	Cells       CellTable
	RowCount    int
	ColumnCount int
}

// DisplayName falls back to "Sheet <id>" when the sheet has no name.
func (s *Sheet) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return "Sheet " + s.ID
}

// Snapshot is the full serializable state of a workbook.
type Snapshot struct {
	ID         string
	Name       string
	SheetOrder []string
	Sheets     map[string]*Sheet
}

// Order returns sheet ids in display order: SheetOrder entries that exist,
// then any remaining sheets sorted by id.
func (s *Snapshot) Order() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]bool, len(s.Sheets))
	out := make([]string, 0, len(s.Sheets))
	for _, id := range s.SheetOrder {
		if _, ok := s.Sheets[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	var rest []string
	for id := range s.Sheets {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Sheet returns the sheet with id.
func (s *Snapshot) Sheet(id string) (*Sheet, bool) {
	if s == nil {
		return nil, false
	}
	sh, ok := s.Sheets[id]
	return sh, ok
}

// Validate checks the snapshot invariants: sheetOrder lists every sheet once,
// indices are non-negative and capacities cover the occupied area.
func (s *Snapshot) Validate() error {
	if len(s.SheetOrder) != len(s.Sheets) {
		return fmt.Errorf("sheetOrder has %d entries for %d sheets", len(s.SheetOrder), len(s.Sheets))
	}
	seen := make(map[string]bool, len(s.SheetOrder))
	for _, id := range s.SheetOrder {
		if seen[id] {
			return fmt.Errorf("sheet %q listed twice in sheetOrder", id)
		}
		seen[id] = true
		sh, ok := s.Sheets[id]
		if !ok {
			return fmt.Errorf("sheetOrder references unknown sheet %q", id)
		}
		for r, cols := range sh.Cells {
			if r < 0 {
				return fmt.Errorf("sheet %q has negative row %d", id, r)
			}
			for c := range cols {
				if c < 0 {
					return fmt.Errorf("sheet %q row %d has negative column %d", id, r, c)
				}
			}
		}
		maxRow, maxCol := sh.Cells.Bounds()
		if sh.RowCount < maxRow+1 || sh.ColumnCount < maxCol+1 {
			return fmt.Errorf("sheet %q capacity %dx%d smaller than occupied %dx%d",
				id, sh.RowCount, sh.ColumnCount, maxRow+1, maxCol+1)
		}
	}
	return nil
}

// RowCapacity is the declared row count for a sheet using rows rows.
func RowCapacity(rows int) int {
	return max(MinRowCapacity, rows+RowSlack)
}

// ColumnCapacity is the declared column count for a sheet using cols columns.
func ColumnCapacity(cols int) int {
	return max(MinColumnCapacity, cols+ColumnSlack)
}
