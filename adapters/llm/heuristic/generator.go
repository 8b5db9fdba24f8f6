package heuristic

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"sheetgen/domain/generation"
	"sheetgen/ports"
)

// Generator creates fictional rows from column names alone. It needs no model
// and is deterministic for a given request.
type Generator struct{}

// NewGenerator creates a new heuristic data generator
func NewGenerator() *Generator {
	return &Generator{}
}

// DefaultColumns are used when the request names none.
var DefaultColumns = []string{"Name", "Country", "Category", "Score"}

var (
	firstNames = []string{"Amara", "Bilal", "Chen", "Dalia", "Emeka", "Freya", "Goran", "Hana", "Ines", "Jonas", "Kemi", "Luca", "Mei", "Nadia", "Omar", "Priya"}
	lastNames  = []string{"Okafor", "Lindqvist", "Tanaka", "Morales", "Novak", "Haddad", "Kaur", "Silva", "Mensah", "Rossi", "Petrov", "Nguyen"}
	countries  = []string{"Brazil", "Canada", "Egypt", "Finland", "India", "Japan", "Kenya", "Mexico", "Poland", "Vietnam"}
	levels     = []string{"Beginner", "Intermediate", "Advanced"}
	skills     = []string{"Data Analysis", "Go", "Public Speaking", "UX Research", "Statistics", "Writing"}
	categories = []string{"Alpha", "Beta", "Gamma", "Delta"}
)

// GenerateSheetData fills every requested column with plausible values.
func (g *Generator) GenerateSheetData(ctx context.Context, req generation.Request) (*ports.SheetGeneration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	headers := req.Columns
	if len(headers) == 0 {
		headers = DefaultColumns
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%s|%s", req.UserRequest, req.RowCount, strings.Join(headers, ","), req.Constraints)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	rows := make([][]any, req.RowCount)
	for r := range rows {
		row := make([]any, len(headers))
		for c, header := range headers {
			row[c] = valueFor(header, r, rng)
		}
		rows[r] = row
	}

	return &ports.SheetGeneration{
		Result: &generation.Result{Headers: append([]string(nil), headers...), Rows: rows},
		Audit:  ports.GenerationAudit{GeneratorType: "heuristic"},
	}, nil
}

func valueFor(header string, row int, rng *rand.Rand) any {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "email"):
		return fmt.Sprintf("%s.%d@example.com", strings.ToLower(pick(firstNames, rng)), row+1)
	case strings.Contains(h, "name"):
		return pick(firstNames, rng) + " " + pick(lastNames, rng)
	case strings.Contains(h, "country"), strings.Contains(h, "region"):
		return pick(countries, rng)
	case strings.Contains(h, "level"), strings.Contains(h, "experience"):
		return pick(levels, rng)
	case strings.Contains(h, "skill"):
		return pick(skills, rng)
	case strings.Contains(h, "hrs"), strings.Contains(h, "hour"), strings.Contains(h, "availability"):
		return 1 + rng.Intn(20)
	case strings.Contains(h, "age"):
		return 18 + rng.Intn(50)
	case strings.Contains(h, "score"), strings.Contains(h, "rating"):
		return float64(rng.Intn(1000)) / 10
	case strings.Contains(h, "active"), strings.HasPrefix(h, "is "):
		return rng.Intn(2) == 1
	case strings.Contains(h, "id"):
		return row + 1
	case strings.Contains(h, "date"):
		return fmt.Sprintf("2025-%02d-%02d", 1+rng.Intn(12), 1+rng.Intn(28))
	case strings.Contains(h, "category"), strings.Contains(h, "type"):
		return pick(categories, rng)
	}
	return fmt.Sprintf("%s %d", header, row+1)
}

func pick(list []string, rng *rand.Rand) string {
	return list[rng.Intn(len(list))]
}
