package sheet

import (
	"encoding/json"
	"testing"

	"sheetgen/internal/errors"
	"sheetgen/internal/jsonval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *Snapshot {
	cells := make(CellTable)
	cells.Set(0, 0, Cell{V: "Name"})
	cells.Set(0, 1, Cell{V: "Age"})
	cells.Set(1, 0, Cell{V: "Ana"})
	cells.Set(1, 1, Cell{V: json.Number("31"), T: CellTypeNumber})
	return &Snapshot{
		ID:         DefaultWorkbookID,
		Name:       DefaultWorkbookName,
		SheetOrder: []string{DefaultSheetID},
		Sheets: map[string]*Sheet{
			DefaultSheetID: {
				ID: DefaultSheetID, Name: DefaultSheetName, Cells: cells,
				RowCount: RowCapacity(2), ColumnCount: ColumnCapacity(2),
			},
		},
	}
}

func TestMarshalUsesStringIndexKeys(t *testing.T) {
	data, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))

	sheets := generic["sheets"].(map[string]any)
	cellData := sheets["sheet1"].(map[string]any)["cellData"].(map[string]any)
	assert.Equal(t, map[string]any{"v": "Ana"}, cellData["1"].(map[string]any)["0"])
	assert.Equal(t, map[string]any{"v": float64(31), "t": float64(2)}, cellData["1"].(map[string]any)["1"])
	assert.Equal(t, []any{"sheet1"}, generic["sheetOrder"])
	assert.Equal(t, float64(1000), sheets["sheet1"].(map[string]any)["rowCount"])
}

func TestJSONRoundTrip(t *testing.T) {
	orig := sampleSnapshot()
	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	require.NoError(t, back.Validate())

	sh, ok := back.Sheet(DefaultSheetID)
	require.True(t, ok)
	assert.Equal(t, DefaultSheetName, sh.Name)
	assert.Equal(t, 4, sh.Cells.CellCount())
	c, _ := sh.Cells.Get(1, 1)
	assert.Equal(t, json.Number("31"), c.V)
	assert.True(t, c.IsNumeric())
}

func TestFromDocumentRejectsNonObject(t *testing.T) {
	_, err := FromDocument([]any{})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestFromDocumentWithoutSheets(t *testing.T) {
	snap, err := FromDocument(jsonval.NewObject().Set("name", "Book"))
	require.NoError(t, err)
	assert.Empty(t, snap.Sheets)
	assert.Empty(t, snap.Order())
	assert.Equal(t, "Book", snap.Name)
}

func TestFromDocumentIsLenient(t *testing.T) {
	doc, err := jsonval.ParseString(`{
		"sheets": {
			"bad": 7,
			"s2": {"cellData": {"0": {"0": {"v": 1}}}},
			"s1": {
				"name": "First",
				"cellData": {
					"0": {"0": {"v": "a"}, "x": {"v": "ignored"}, "2": "not-a-cell"},
					"abc": {"0": {"v": "ignored"}},
					"-1": {"0": {"v": "ignored"}},
					"3": "not-a-row",
					"4": {"1": {"f": "=SUM(A1:A3)"}}
				},
				"rowCount": "many"
			}
		},
		"sheetOrder": ["s1", "missing", 5]
	}`)
	require.NoError(t, err)

	snap, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, snap.SheetOrder)
	assert.Len(t, snap.Sheets, 2)

	s1 := snap.Sheets["s1"]
	assert.Equal(t, 3, s1.Cells.RowCount())
	assert.Equal(t, 3, s1.Cells.CellCount())
	maxRow, maxCol := s1.Cells.Bounds()
	assert.Equal(t, 4, maxRow)
	assert.Equal(t, 2, maxCol)
	assert.Equal(t, RowCapacity(5), s1.RowCount)

	empty, ok := s1.Cells.Get(0, 2)
	assert.True(t, ok)
	assert.Nil(t, empty.Value())

	formula, _ := s1.Cells.Get(4, 1)
	assert.Equal(t, "=SUM(A1:A3)", formula.Value())

	assert.Equal(t, "Sheet s2", snap.Sheets["s2"].DisplayName())
}

func TestValidateCatchesBrokenOrder(t *testing.T) {
	snap := sampleSnapshot()
	snap.SheetOrder = append(snap.SheetOrder, DefaultSheetID)
	assert.Error(t, snap.Validate())

	snap = sampleSnapshot()
	snap.Sheets[DefaultSheetID].ColumnCount = 1
	assert.Error(t, snap.Validate())
}

func TestParseIndexKey(t *testing.T) {
	i, ok := ParseIndexKey(" 12 ")
	assert.True(t, ok)
	assert.Equal(t, 12, i)

	i, ok = ParseIndexKey("0007")
	assert.True(t, ok)
	assert.Equal(t, 7, i)

	for _, bad := range []string{"", "a", "-3", "1.5", "2147483648", "99999999999999999999"} {
		_, ok := ParseIndexKey(bad)
		assert.False(t, ok, bad)
	}
}

func TestImportedCapacitiesCoverOccupiedArea(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		rows, cols int
	}{
		{"too small", `{"cellData": {"1500": {"30": {"v": 1}}}, "rowCount": 10, "columnCount": 2}`, RowCapacity(1501), ColumnCapacity(31)},
		{"larger kept", `{"cellData": {"0": {"0": {"v": 1}}}, "rowCount": 5000, "columnCount": 40}`, 5000, 40},
		{"missing", `{"cellData": {"2": {"3": {"v": 1}}}}`, RowCapacity(3), ColumnCapacity(4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := jsonval.ParseString(`{"sheets": {"s": ` + tt.doc + `}}`)
			require.NoError(t, err)
			snap, err := FromDocument(doc)
			require.NoError(t, err)

			sh := snap.Sheets["s"]
			assert.Equal(t, tt.rows, sh.RowCount)
			assert.Equal(t, tt.cols, sh.ColumnCount)
			assert.NoError(t, snap.Validate())
		})
	}
}

func TestDuplicateSpelledKeysMerge(t *testing.T) {
	doc, err := jsonval.ParseString(`{"sheets": {"s": {"cellData": {
		"1": {"0": {"v": "a"}},
		"01": {"0": {"v": "b"}, "1": {"v": "c"}},
		" 1": {"01": {"v": "d"}}
	}}}}`)
	require.NoError(t, err)
	snap, err := FromDocument(doc)
	require.NoError(t, err)

	cells := snap.Sheets["s"].Cells
	assert.Equal(t, 1, cells.RowCount())
	assert.Equal(t, 2, cells.CellCount())
	first, _ := cells.Get(1, 0)
	assert.Equal(t, "b", first.Value())
	second, _ := cells.Get(1, 1)
	assert.Equal(t, "d", second.Value())
}
