package generation

import (
	"encoding/json"
	"math/rand"
	"strconv"
	"testing"

	"sheetgen/internal/errors"
	"sheetgen/internal/jsonval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	req, err := Request{UserRequest: " students ", Columns: []string{" ", ""}}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "students", req.UserRequest)
	assert.Equal(t, DefaultRowCount, req.RowCount)
	assert.Nil(t, req.Columns)
	assert.Equal(t, "", req.Constraints)
}

func TestRowCountFromJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		rows int
		ok   bool
	}{
		{"absent uses default", `{"user_request":"x"}`, DefaultRowCount, true},
		{"explicit value", `{"user_request":"x","row_count":7}`, 7, true},
		{"explicit zero", `{"user_request":"x","row_count":0}`, 0, false},
		{"explicit negative", `{"user_request":"x","row_count":-2}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req Request
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			got, err := req.Normalize()
			if !tt.ok {
				assert.True(t, errors.HasCode(err, errors.CodeValidationError))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, got.RowCount)
		})
	}
}

func TestWithRowCountZeroIsRejected(t *testing.T) {
	req := Request{UserRequest: "x"}
	assert.False(t, req.HasRowCount())

	req = req.WithRowCount(0)
	assert.True(t, req.HasRowCount())
	_, err := req.Normalize()
	assert.True(t, errors.HasCode(err, errors.CodeValidationError))
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"empty request", Request{UserRequest: "  "}, "user_request"},
		{"negative rows", Request{UserRequest: "x", RowCount: -1}, "row_count"},
		{"too many rows", Request{UserRequest: "x", RowCount: 501}, "row_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Normalize()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeValidationError))
			appErr := err.(*errors.AppError)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestNormalizeColumns(t *testing.T) {
	assert.Equal(t, []string{"Name", "Age"}, NormalizeColumns([]string{" Name ", "", "  ", "Age"}))
	assert.Nil(t, NormalizeColumns(nil))
	assert.Equal(t, []string{"a", "b"}, ParseColumnList("a, ,b,"))
}

func parseDoc(t *testing.T, s string) any {
	t.Helper()
	doc, err := jsonval.ParseString(s)
	require.NoError(t, err)
	return doc
}

func TestResultFromDocument(t *testing.T) {
	res, err := ResultFromDocument(parseDoc(t, `{"headers":[" Name ","Age"],"rows":[["Ana",31],["Bo",null]]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age"}, res.Headers)
	assert.Len(t, res.Rows, 2)
	assert.Nil(t, res.Rows[1][1])
}

func TestResultFromDocumentMissingRowsIsEmpty(t *testing.T) {
	res, err := ResultFromDocument(parseDoc(t, `{"headers":["A"]}`))
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestResultFromDocumentRejectsShape(t *testing.T) {
	for _, doc := range []string{
		`[]`,
		`{"rows":[]}`,
		`{"headers":"A"}`,
		`{"headers":[1]}`,
		`{"headers":[" ",""]}`,
		`{"headers":["A"],"rows":{}}`,
		`{"headers":["A"],"rows":["x"]}`,
		`{"headers":["A","B"],"rows":[["only one"]]}`,
	} {
		_, err := ResultFromDocument(parseDoc(t, doc))
		assert.True(t, errors.HasCode(err, errors.CodeValidationError), doc)
	}
}

func TestRowWidthAlwaysMatchesHeaders(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		width := 1 + rng.Intn(6)
		headers := make([]string, width)
		for i := range headers {
			headers[i] = "h" + strconv.Itoa(i)
		}
		var rows [][]any
		for r := rng.Intn(5); r > 0; r-- {
			w := width
			if rng.Intn(4) == 0 {
				w = rng.Intn(width + 2)
			}
			rows = append(rows, make([]any, w))
		}

		res := &Result{Headers: headers, Rows: rows}
		if err := res.Validate(); err != nil {
			continue
		}
		for _, row := range res.Rows {
			assert.Len(t, row, len(res.Headers))
		}
	}
}

func TestCheckContractRowCount(t *testing.T) {
	req := Request{UserRequest: "x", RowCount: 20}
	res := &Result{Headers: []string{"A"}, Rows: make([][]any, 19)}
	err := CheckContract(req, res)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeRowCountMismatch))
	assert.Contains(t, err.Error(), "expected 20 rows, got 19")
}

func TestCheckContractColumns(t *testing.T) {
	req := Request{UserRequest: "x", RowCount: 1, Columns: []string{"Name", "Age"}}
	res := &Result{Headers: []string{"Name", "Country"}, Rows: [][]any{{"a", "b"}}}
	assert.True(t, errors.HasCode(CheckContract(req, res), errors.CodeColumnMismatch))

	res.Headers = []string{"Age", "Name"}
	assert.True(t, errors.HasCode(CheckContract(req, res), errors.CodeColumnMismatch))

	res.Headers = []string{"Name", "Age"}
	assert.NoError(t, CheckContract(req, res))

	req.Columns = nil
	res.Headers = []string{"Anything"}
	res.Rows = [][]any{{1}}
	assert.NoError(t, CheckContract(req, res))
}

func TestDocumentFeedsHeadersRowsShape(t *testing.T) {
	res := &Result{Headers: []string{"A", "B"}, Rows: [][]any{{1, "x"}}}
	doc := res.Document()
	assert.Equal(t, []string{"headers", "rows"}, doc.Keys())
	rows, _ := doc.Get("rows")
	assert.Equal(t, []any{[]any{1, "x"}}, rows)
}
