package generation

import (
	"encoding/json"
	"strings"

	"sheetgen/internal/errors"
)

// Row count bounds for a single generation
const (
	DefaultRowCount = 20
	MinRowCount     = 1
	MaxRowCount     = 500
)

// Request is what the caller asks the generator for. A zero RowCount built in
// Go means "use the default"; a row_count present in JSON is always checked,
// so an explicit 0 is rejected.
type Request struct {
	UserRequest string   `json:"user_request"`
	RowCount    int      `json:"row_count"`
	Columns     []string `json:"columns"`
	Constraints string   `json:"constraints"`

	rowCountSet bool
}

// UnmarshalJSON records whether row_count was present.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	var w struct {
		plain
		RowCount *int `json:"row_count"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Request(w.plain)
	if w.RowCount != nil {
		r.RowCount = *w.RowCount
		r.rowCountSet = true
	}
	return nil
}

// WithRowCount sets an explicit row count; Normalize checks it even when 0.
func (r Request) WithRowCount(n int) Request {
	r.RowCount = n
	r.rowCountSet = true
	return r
}

// HasRowCount reports whether a row count was given, so defaults must not
// replace it.
func (r Request) HasRowCount() bool {
	return r.rowCountSet || r.RowCount != 0
}

// Normalize validates the request and returns the canonical form: a missing
// RowCount becomes DefaultRowCount and Columns are cleaned by NormalizeColumns.
func (r Request) Normalize() (Request, error) {
	out := Request{
		UserRequest: strings.TrimSpace(r.UserRequest),
		RowCount:    r.RowCount,
		Columns:     NormalizeColumns(r.Columns),
		Constraints: strings.TrimSpace(r.Constraints),
	}
	if out.UserRequest == "" {
		return Request{}, errors.ValidationError("user_request must not be empty").WithField("user_request")
	}
	if !r.HasRowCount() {
		out.RowCount = DefaultRowCount
	}
	if out.RowCount < MinRowCount || out.RowCount > MaxRowCount {
		return Request{}, errors.ValidationError("row_count must be between 1 and 500").
			WithField("row_count").
			WithMismatch("1..500", out.RowCount)
	}
	return out, nil
}

// NormalizeColumns trims column names and drops blanks. An empty result is
// nil, meaning "let the generator choose".
func NormalizeColumns(columns []string) []string {
	var cleaned []string
	for _, c := range columns {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return cleaned
}

// ParseColumnList splits a comma-separated column list as typed by a user.
func ParseColumnList(s string) []string {
	return NormalizeColumns(strings.Split(s, ","))
}

// ColumnsText renders the column list for a prompt.
func (r Request) ColumnsText() string {
	if len(r.Columns) == 0 {
		return "null"
	}
	return strings.Join(r.Columns, ", ")
}
