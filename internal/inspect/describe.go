package inspect

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	gstat "gonum.org/v1/gonum/stat"

	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
)

// ColumnStats is the describe() row for one numeric column. Std is nil when
// fewer than two values exist.
type ColumnStats struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Std    *float64 `json:"std"`
	Min    float64  `json:"min"`
	P25    float64  `json:"p25"`
	P50    float64  `json:"p50"`
	P75    float64  `json:"p75"`
	Max    float64  `json:"max"`
}

// NumericColumns returns the indices of columns whose non-null values are all
// numbers, with at least one value present. Booleans disqualify a column.
func NumericColumns(t *Table) []int {
	var out []int
	for i := range t.Columns {
		seen := false
		numeric := true
		for _, v := range t.Column(i) {
			if v == nil {
				continue
			}
			if !sheet.IsNumber(v) {
				numeric = false
				break
			}
			seen = true
		}
		if numeric && seen {
			out = append(out, i)
		}
	}
	return out
}

// Describe computes summary statistics for every numeric column of t.
func Describe(t *Table) ([]ColumnStats, error) {
	if t == nil {
		return nil, errors.NotFound("sheet data")
	}
	cols := NumericColumns(t)
	out := make([]ColumnStats, 0, len(cols))
	for _, i := range cols {
		var data []float64
		for _, v := range t.Column(i) {
			if f, ok := sheet.ToFloat(v); ok {
				data = append(data, f)
			}
		}
		cs, err := describeColumn(t.Columns[i], data)
		if err != nil {
			return nil, errors.Wrapf(err, "describe column %q", t.Columns[i])
		}
		out = append(out, cs)
	}
	return out, nil
}

// DescribeOrEmpty is Describe that reports failures as no statistics.
func DescribeOrEmpty(t *Table) []ColumnStats {
	out, err := Describe(t)
	if err != nil {
		return []ColumnStats{}
	}
	return out
}

func describeColumn(name string, data []float64) (ColumnStats, error) {
	cs := ColumnStats{Column: name, Count: len(data)}

	minV, err := stats.Min(data)
	if err != nil {
		return cs, err
	}
	maxV, err := stats.Max(data)
	if err != nil {
		return cs, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return cs, err
	}

	mean, std := gstat.MeanStdDev(data, nil)
	cs.Mean = mean
	if len(data) > 1 && !math.IsNaN(std) {
		cs.Std = &std
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	cs.Min = minV
	cs.P25 = linearQuantile(sorted, 0.25)
	cs.P50 = median
	cs.P75 = linearQuantile(sorted, 0.75)
	cs.Max = maxV
	return cs, nil
}

// linearQuantile interpolates between the closest ranks at position
// (n-1)*p of sorted data.
func linearQuantile(sorted []float64, p float64) float64 {
	pos := float64(len(sorted)-1) * p
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (pos-lo)*(sorted[int(hi)]-sorted[int(lo)])
}
