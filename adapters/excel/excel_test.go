package excel

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
	"sheetgen/internal/workbook"
)

func TestDetectFormat(t *testing.T) {
	for name, want := range map[string]Format{"a.CSV": FormatCSV, "b.xlsx": FormatXLSX, "c.json": FormatJSON} {
		got, err := DetectFormat(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := DetectFormat("notes.txt")
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestInferValue(t *testing.T) {
	assert.Nil(t, InferValue("  "))
	assert.Equal(t, json.Number("42"), InferValue("42"))
	assert.Equal(t, json.Number("-3.5e2"), InferValue(" -3.5e2 "))
	assert.Equal(t, "007", InferValue("007"))
	assert.Equal(t, "1_000", InferValue("1_000"))
	assert.Equal(t, "NaN", InferValue("NaN"))
	assert.Equal(t, true, InferValue("TRUE"))
	assert.Equal(t, true, InferValue(" True "))
	assert.Equal(t, false, InferValue("false"))
	assert.Equal(t, false, InferValue("FALSE"))
	assert.Equal(t, "tRuE", InferValue("tRuE"))
	assert.Equal(t, "yes", InferValue("yes"))
}

func TestReadCSVBooleanColumn(t *testing.T) {
	src := "Name,Active\nAna,TRUE\nBo,false\n"
	grid, err := NewDataReader(nil).ReadGrid(strings.NewReader(src), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{"Name", "Active"},
		{"Ana", true},
		{"Bo", false},
	}, grid)
}

func TestReadCSV(t *testing.T) {
	src := "\xef\xbb\xbfName,Age\nAna,31\n\"Smith, Bo\",\n"
	grid, err := NewDataReader(nil).ReadGrid(strings.NewReader(src), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{"Name", "Age"},
		{"Ana", json.Number("31")},
		{"Smith, Bo", nil},
	}, grid)
}

func TestReadCSVRaggedRows(t *testing.T) {
	grid, err := NewDataReader(nil).ReadGrid(strings.NewReader("a,b,c\n1\n"), FormatCSV)
	require.NoError(t, err)
	assert.Len(t, grid[1], 1)
}

func TestCSVExportQuotesAndBlanks(t *testing.T) {
	snap := workbook.BuildFromGrid([][]any{{"Name", "Note"}, {"Ana", "a,b"}, {nil, `say "hi"`}}, workbook.Options{})
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, snap))
	assert.Equal(t, "Name,Note\nAna,\"a,b\"\n,\"say \"\"hi\"\"\"\n", buf.String())
}

func TestXLSXRoundTrip(t *testing.T) {
	snap := workbook.BuildFromGrid([][]any{{"Name", "Score", "Active"}, {"Ana", json.Number("9.5"), true}, {"Bo", 7, false}}, workbook.Options{})
	snap.Sheets["extra"] = &sheet.Sheet{ID: "extra", Name: "Generated Data", Cells: sheet.CellTable{0: {0: {V: "x"}}}, RowCount: 1000, ColumnCount: 20}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, snap))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Generated Data", "Generated Data (2)"}, f.GetSheetList())

	typ, err := f.GetCellType("Generated Data", "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)

	grid, err := NewDataReader(nil).ReadGrid(bytes.NewReader(buf.Bytes()), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "Name", grid[0][0])
	assert.Equal(t, json.Number("9.5"), grid[1][1])
	assert.Equal(t, json.Number("7"), grid[2][1])
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "a_b", uniqueSheetName("a/b", used))
	assert.Equal(t, "A_B (2)", uniqueSheetName("A_B", used))
	long := strings.Repeat("x", 40)
	assert.Len(t, uniqueSheetName(long, used), maxSheetNameLen)
	assert.Len(t, uniqueSheetName(long, used), maxSheetNameLen)
}
