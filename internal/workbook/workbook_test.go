package workbook

import (
	"encoding/json"
	"testing"

	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
	"sheetgen/internal/jsonval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cellValue(t *testing.T, snap *sheet.Snapshot, r, c int) any {
	t.Helper()
	sh, ok := snap.Sheet(sheet.DefaultSheetID)
	require.True(t, ok)
	cell, ok := sh.Cells.Get(r, c)
	if !ok {
		return nil
	}
	return cell.V
}

func TestBuildFromGrid(t *testing.T) {
	snap := BuildFromGrid([][]any{{"Name", "Score"}, {"Ana", 9.5}, {nil, true}}, DefaultOptions())
	require.NoError(t, snap.Validate())

	assert.Equal(t, sheet.DefaultWorkbookID, snap.ID)
	assert.Equal(t, sheet.DefaultWorkbookName, snap.Name)
	assert.Equal(t, []string{sheet.DefaultSheetID}, snap.SheetOrder)

	sh := snap.Sheets[sheet.DefaultSheetID]
	assert.Equal(t, sheet.DefaultSheetName, sh.Name)
	assert.Equal(t, 1000, sh.RowCount)
	assert.Equal(t, 20, sh.ColumnCount)
	assert.Equal(t, 5, sh.Cells.CellCount())

	score, _ := sh.Cells.Get(1, 1)
	assert.True(t, score.IsNumeric())
	flag, _ := sh.Cells.Get(2, 1)
	assert.False(t, flag.IsNumeric())
	_, ok := sh.Cells.Get(2, 0)
	assert.False(t, ok, "null cells are not materialized")
}

func TestBuildFromGridCapacities(t *testing.T) {
	grid := make([][]any, 1200)
	grid[0] = make([]any, 30)
	grid[0][29] = "x"
	sh := BuildFromGrid(grid, Options{}).Sheets[sheet.DefaultSheetID]
	assert.Equal(t, 1220, sh.RowCount)
	assert.Equal(t, 35, sh.ColumnCount)
}

func TestBuildFromGridCustomNames(t *testing.T) {
	snap := BuildFromGrid([][]any{{1}}, Options{SheetName: "People", WorkbookName: "Book"})
	assert.Equal(t, "Book", snap.Name)
	assert.Equal(t, "People", snap.Sheets[sheet.DefaultSheetID].Name)
}

func TestBuildFromValueShapes(t *testing.T) {
	_, err := BuildFromValue("nope", DefaultOptions())
	assert.True(t, errors.HasCode(err, errors.CodeInvalidShape))

	_, err = BuildFromValue([]any{[]any{1}, "bad", []any{2}}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidShape))
	assert.Equal(t, 1, *err.(*errors.AppError).Index)

	opts := DefaultOptions()
	opts.SkipMalformedRows = true
	snap, err := BuildFromValue([]any{[]any{1}, "bad", []any{2}}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, cellValue(t, snap, 2, 0), "skipped rows keep their index")
	assert.Nil(t, cellValue(t, snap, 1, 0))
}

func TestRecordsHeaderUnion(t *testing.T) {
	payload, err := jsonval.ParseString(`[{"a":1,"b":2},{"b":3,"c":4}]`)
	require.NoError(t, err)

	grid, err := RecordsToGrid(payload.([]any))
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{"a", "b", "c"},
		{json.Number("1"), json.Number("2"), nil},
		{nil, json.Number("3"), json.Number("4")},
	}, grid)
}

func TestRecordsKeepFirstSeenOrder(t *testing.T) {
	payload, err := jsonval.ParseString(`[{"zeta":1,"alpha":2},{"mid":3,"zeta":4}]`)
	require.NoError(t, err)
	headers, err := Headers(payload.([]any))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, headers)
}

func TestRecordsRejectNonObject(t *testing.T) {
	_, err := BuildFromRecords([]any{map[string]any{"a": 1}, []any{1}}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidShape))
	assert.Equal(t, 1, *err.(*errors.AppError).Index)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		json string
		kind PayloadKind
		code string
	}{
		{`[]`, KindEmpty, ""},
		{`[{"a":1}]`, KindRecords, ""},
		{`[{"a":1}, [1]]`, KindRecords, ""},
		{`[[1,2]]`, KindRows, ""},
		{`{"headers":["a"],"rows":[]}`, KindHeaderRows, ""},
		{`[1,2]`, "", errors.CodeUnsupportedPayload},
		{`["a"]`, "", errors.CodeUnsupportedPayload},
		{`{"headers":["a"]}`, "", errors.CodeUnsupportedPayload},
		{`{"headers":"a","rows":[]}`, "", errors.CodeUnsupportedPayload},
		{`"text"`, "", errors.CodeUnsupportedPayload},
		{`42`, "", errors.CodeUnsupportedPayload},
		{`null`, "", errors.CodeUnsupportedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			payload, err := jsonval.ParseString(tt.json)
			require.NoError(t, err)
			kind, err := Classify(payload)
			if tt.code != "" {
				assert.True(t, errors.HasCode(err, tt.code))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestFromPayloadEmptyList(t *testing.T) {
	snap, err := FromJSON([]byte(`[]`), DefaultOptions())
	require.NoError(t, err)
	sh := snap.Sheets[sheet.DefaultSheetID]
	assert.Equal(t, 0, sh.Cells.CellCount())
	assert.Equal(t, 1000, sh.RowCount)
	assert.Equal(t, 20, sh.ColumnCount)
}

func TestFromPayloadHeadersRowsMatchesRows(t *testing.T) {
	a, err := FromJSON([]byte(`{"headers":["x","y"],"rows":[[1,2],[3,4]]}`), DefaultOptions())
	require.NoError(t, err)
	b, err := FromJSON([]byte(`[["x","y"],[1,2],[3,4]]`), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFromPayloadMixedListReportsBuilderError(t *testing.T) {
	_, err := FromJSON([]byte(`[[1], {"a":2}]`), DefaultOptions())
	assert.True(t, errors.HasCode(err, errors.CodeInvalidShape))

	_, err = FromJSON([]byte(`[{"a":1}, 2]`), DefaultOptions())
	assert.True(t, errors.HasCode(err, errors.CodeInvalidShape))
}

func TestFromPayloadTypedGoValues(t *testing.T) {
	snap, err := FromPayload([]map[string]any{{"a": 1}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "a", cellValue(t, snap, 0, 0))
	assert.Equal(t, 1, cellValue(t, snap, 1, 0))
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"headers":`), DefaultOptions())
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}
