package ai

import (
	"fmt"
	"strconv"
	"strings"

	"sheetgen/domain/generation"
)

// CompileContractFragments turns the hard parts of a request into short,
// high-salience directives appended to the user's constraints. Models follow
// explicit counts far better than prose.
func CompileContractFragments(req generation.Request) []string {
	var out []string

	out = append(out, fmt.Sprintf("ROWS: Return exactly %d rows in \"rows\".", req.RowCount))

	if n := len(req.Columns); n > 0 {
		out = append(out, fmt.Sprintf("COLUMNS: \"headers\" must be exactly these %d names in this order: %s.",
			n, strings.Join(quoteAll(req.Columns), ", ")))
		out = append(out, fmt.Sprintf("WIDTH: Every row must contain exactly %d values.", n))
	} else {
		out = append(out, "WIDTH: Every row must contain exactly one value per header.")
	}

	for _, line := range strings.Split(req.Constraints, "\n") {
		out = append(out, line)
	}

	seen := make(map[string]struct{}, len(out))
	dedup := out[:0]
	for _, s := range out {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dedup = append(dedup, s)
	}
	return dedup
}

// CompileGenerationReplacements builds the placeholder values for the
// synthetic data task template.
func CompileGenerationReplacements(req generation.Request) map[string]string {
	constraints := req.Constraints
	if strings.TrimSpace(constraints) == "" {
		constraints = "none"
	}
	return map[string]string{
		"user_request": req.UserRequest,
		"row_count":    strconv.Itoa(req.RowCount),
		"columns":      req.ColumnsText(),
		"constraints":  constraints + "\n\n" + strings.Join(CompileContractFragments(req), "\n"),
	}
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strconv.Quote(s)
	}
	return out
}
