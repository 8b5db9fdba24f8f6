package generation

import (
	"fmt"
	"slices"
	"strings"

	"sheetgen/internal/errors"
	"sheetgen/internal/jsonval"
)

// Result is the validated generator output.
type Result struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

// ResultFromDocument checks a decoded model response against the result
// shape: an object with a string array "headers" and an optional array of
// array "rows". Headers are cleaned before the row width check.
func ResultFromDocument(doc any) (*Result, error) {
	if !jsonval.IsObject(doc) {
		return nil, errors.ValidationError("model output must be a JSON object")
	}

	rawHeaders, ok := jsonval.Lookup(doc, "headers")
	if !ok {
		return nil, errors.ValidationError("model output is missing headers").WithField("headers")
	}
	headerList, ok := rawHeaders.([]any)
	if !ok {
		return nil, errors.ValidationError("headers must be an array").WithField("headers")
	}
	headers := make([]string, 0, len(headerList))
	for i, h := range headerList {
		s, ok := h.(string)
		if !ok {
			return nil, errors.ValidationError("headers must be strings").WithField("headers").WithIndex(i)
		}
		headers = append(headers, s)
	}

	res := &Result{Headers: headers, Rows: [][]any{}}
	if rawRows, ok := jsonval.Lookup(doc, "rows"); ok && rawRows != nil {
		rowList, ok := rawRows.([]any)
		if !ok {
			return nil, errors.ValidationError("rows must be an array").WithField("rows")
		}
		for i, r := range rowList {
			row, ok := r.([]any)
			if !ok {
				return nil, errors.ValidationError("each row must be an array").WithField("rows").WithIndex(i)
			}
			res.Rows = append(res.Rows, row)
		}
	}

	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// Validate cleans headers in place and checks that at least one remains and
// that every row is exactly as wide as the header list.
func (r *Result) Validate() error {
	r.Headers = NormalizeColumns(r.Headers)
	if len(r.Headers) == 0 {
		return errors.ValidationError("at least one non-empty header is required").WithField("headers")
	}
	width := len(r.Headers)
	for i, row := range r.Rows {
		if len(row) != width {
			return errors.ValidationError(fmt.Sprintf("row at index %d has %d values, expected %d", i, len(row), width)).
				WithField("rows").
				WithIndex(i).
				WithMismatch(width, len(row))
		}
	}
	return nil
}

// CheckContract compares a validated result with the normalized request that
// produced it.
func CheckContract(req Request, res *Result) error {
	if len(res.Rows) != req.RowCount {
		return errors.RowCountMismatch(req.RowCount, len(res.Rows))
	}
	if len(req.Columns) > 0 {
		expected := NormalizeColumns(req.Columns)
		if !slices.Equal(expected, res.Headers) {
			return errors.ColumnMismatch(expected, res.Headers)
		}
	}
	return nil
}

// Document returns the result as a headers/rows payload for the dispatcher.
func (r *Result) Document() *jsonval.Object {
	headers := make([]any, len(r.Headers))
	for i, h := range r.Headers {
		headers[i] = h
	}
	rows := make([]any, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row
	}
	return jsonval.NewObject().Set("headers", headers).Set("rows", rows)
}

// String is a one-line description used in logs.
func (r *Result) String() string {
	return fmt.Sprintf("%d rows x [%s]", len(r.Rows), strings.Join(r.Headers, ", "))
}
