package sheet

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"sheetgen/internal/errors"
	"sheetgen/internal/jsonval"
)

// Wire shapes. Row and column indices become decimal string keys here and
// nowhere else.
type wireCell struct {
	V any      `json:"v,omitempty"`
	T CellType `json:"t,omitempty"`
	F any      `json:"f,omitempty"`
}

type wireSheet struct {
	ID          string                         `json:"id"`
	Name        string                         `json:"name"`
	CellData    map[string]map[string]wireCell `json:"cellData"`
	RowCount    int                            `json:"rowCount"`
	ColumnCount int                            `json:"columnCount"`
}

type wireSnapshot struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	SheetOrder []string              `json:"sheetOrder"`
	Sheets     map[string]*wireSheet `json:"sheets"`
}

// IndexKey is the canonical wire key for a row or column index.
func IndexKey(i int) string {
	return strconv.Itoa(i)
}

// MaxIndex is the largest row or column index accepted from a wire key.
const MaxIndex = math.MaxInt32

// ParseIndexKey parses a wire key; it rejects anything that is not an integer
// in 0..MaxIndex. Keys are read as numbers, so "1", "01" and " 1" all name
// index 1: when a document spells one index several ways the entries merge
// and the last one read wins for each cell.
func ParseIndexKey(key string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || i < 0 || i > MaxIndex {
		return 0, false
	}
	return i, true
}

// MarshalJSON encodes the snapshot in the spreadsheet widget's format.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := wireSnapshot{
		ID:         s.ID,
		Name:       s.Name,
		SheetOrder: s.Order(),
		Sheets:     make(map[string]*wireSheet, len(s.Sheets)),
	}
	for id, sh := range s.Sheets {
		ws := &wireSheet{
			ID:          sh.ID,
			Name:        sh.Name,
			CellData:    make(map[string]map[string]wireCell, len(sh.Cells)),
			RowCount:    sh.RowCount,
			ColumnCount: sh.ColumnCount,
		}
		for r, cols := range sh.Cells {
			row := make(map[string]wireCell, len(cols))
			for c, cell := range cols {
				row[IndexKey(c)] = wireCell{V: cell.V, T: cell.T, F: cell.F}
			}
			ws.CellData[IndexKey(r)] = row
		}
		out.Sheets[id] = ws
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes leniently through FromDocument.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	doc, err := jsonval.Parse(data)
	if err != nil {
		return errors.InvalidInput("snapshot is not valid JSON")
	}
	decoded, err := FromDocument(doc)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

// FromDocument converts a decoded JSON document into a Snapshot.
//
// Only a non-object document is an error. Everything below the top level is
// tolerated: a missing or malformed "sheets" yields no sheets, malformed
// sheets are skipped, non-integer row/column keys are ignored, and a cell
// entry that is not an object is kept as an empty cell so it still counts as
// occupied.
func FromDocument(doc any) (*Snapshot, error) {
	if !jsonval.IsObject(doc) {
		return nil, errors.InvalidInput("snapshot must be a JSON object")
	}

	snap := &Snapshot{
		ID:     stringField(doc, "id"),
		Name:   stringField(doc, "name"),
		Sheets: make(map[string]*Sheet),
	}

	sheets, _ := jsonval.Lookup(doc, "sheets")
	entries, _ := jsonval.Entries(sheets)
	for _, e := range entries {
		if !jsonval.IsObject(e.Value) {
			continue
		}
		snap.Sheets[e.Key] = sheetFromDocument(e.Key, e.Value)
	}

	if order, ok := jsonval.Lookup(doc, "sheetOrder"); ok {
		if ids, ok := order.([]any); ok {
			for _, id := range ids {
				if s, ok := id.(string); ok {
					snap.SheetOrder = append(snap.SheetOrder, s)
				}
			}
		}
	}
	snap.SheetOrder = snap.Order()
	return snap, nil
}

func sheetFromDocument(id string, doc any) *Sheet {
	sh := &Sheet{
		ID:    id,
		Name:  stringField(doc, "name"),
		Cells: make(CellTable),
	}

	cellData, _ := jsonval.Lookup(doc, "cellData")
	rows, _ := jsonval.Entries(cellData)
	for _, row := range rows {
		r, ok := ParseIndexKey(row.Key)
		if !ok {
			continue
		}
		if _, exists := sh.Cells[r]; !exists {
			sh.Cells[r] = make(map[int]Cell)
		}
		cols, _ := jsonval.Entries(row.Value)
		for _, col := range cols {
			c, ok := ParseIndexKey(col.Key)
			if !ok {
				continue
			}
			sh.Cells[r][c] = cellFromDocument(col.Value)
		}
	}

	// declared capacities may grow but never drop below what the cells need
	maxRow, maxCol := sh.Cells.Bounds()
	rowCap, colCap := RowCapacity(maxRow+1), ColumnCapacity(maxCol+1)
	sh.RowCount = max(intField(doc, "rowCount", rowCap), rowCap)
	sh.ColumnCount = max(intField(doc, "columnCount", colCap), colCap)
	return sh
}

func cellFromDocument(doc any) Cell {
	if !jsonval.IsObject(doc) {
		return Cell{}
	}
	var c Cell
	c.V, _ = jsonval.Lookup(doc, "v")
	c.F, _ = jsonval.Lookup(doc, "f")
	if t, ok := jsonval.Lookup(doc, "t"); ok {
		if f, ok := ToFloat(t); ok {
			c.T = CellType(f)
		}
	}
	return c
}

func stringField(doc any, key string) string {
	v, ok := jsonval.Lookup(doc, key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}

func intField(doc any, key string, fallback int) int {
	v, ok := jsonval.Lookup(doc, key)
	if !ok {
		return fallback
	}
	f, ok := ToFloat(v)
	if !ok || f < 0 {
		return fallback
	}
	return int(f)
}
