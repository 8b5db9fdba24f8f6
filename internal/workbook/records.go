package workbook

import (
	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
	"sheetgen/internal/jsonval"
)

// Headers returns the union of record keys in first-seen order.
func Headers(records []any) ([]string, error) {
	seen := make(map[string]bool)
	var headers []string
	for i, rec := range records {
		entries, ok := jsonval.Entries(rec)
		if !ok {
			return nil, errors.InvalidShape("record must be an object").WithIndex(i)
		}
		for _, e := range entries {
			if !seen[e.Key] {
				seen[e.Key] = true
				headers = append(headers, e.Key)
			}
		}
	}
	return headers, nil
}

// RecordsToGrid projects records onto their header union. The first row is the
// header row; a key missing from a record becomes nil.
func RecordsToGrid(records []any) ([][]any, error) {
	headers, err := Headers(records)
	if err != nil {
		return nil, err
	}
	grid := make([][]any, 0, len(records)+1)
	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	grid = append(grid, head)
	for _, rec := range records {
		row := make([]any, len(headers))
		for i, h := range headers {
			row[i], _ = jsonval.Lookup(rec, h)
		}
		grid = append(grid, row)
	}
	return grid, nil
}

// BuildFromRecords builds a snapshot from a list of objects.
func BuildFromRecords(records []any, opts Options) (*sheet.Snapshot, error) {
	grid, err := RecordsToGrid(records)
	if err != nil {
		return nil, err
	}
	return BuildFromGrid(grid, opts), nil
}
