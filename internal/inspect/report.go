package inspect

import (
	"fmt"
	"strings"

	"sheetgen/domain/sheet"
)

// Markdown renders the summary, a preview of every sheet and the numeric
// statistics of the first sheet's table as a markdown document.
func Markdown(snap *sheet.Snapshot, previewLimit int) string {
	summary := SummaryOrEmpty(snap)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", summary.WorkbookName)
	fmt.Fprintf(&b, "- **Sheets:** %d\n", summary.NumSheets)
	fmt.Fprintf(&b, "- **Total cells with data:** %d\n\n", summary.TotalCells)

	for _, s := range summary.Sheets {
		fmt.Fprintf(&b, "## Sheet: %s\n\n", escape(s.Name))
		fmt.Fprintf(&b, "- **Sheet ID:** %s\n", escape(s.ID))
		fmt.Fprintf(&b, "- **Rows with data:** %d\n", s.Rows)
		fmt.Fprintf(&b, "- **Non-empty cells:** %d\n\n", s.Cells)
	}

	previews := Previews(snap, previewLimit)
	if len(previews) == 0 {
		b.WriteString("_No cell data found._\n")
		return b.String()
	}
	for _, p := range previews {
		fmt.Fprintf(&b, "### Cells: %s\n\n", escape(p.SheetID))
		if p.Truncated() {
			fmt.Fprintf(&b, "_Showing first %d of %d rows_\n\n", len(p.Rows), p.TotalRows)
		}
		writePreviewTable(&b, p)
		b.WriteString("\n")
	}

	if t := TableOrNil(snap, "", true); t != nil {
		if described := DescribeOrEmpty(t); len(described) > 0 {
			b.WriteString("### Numeric column statistics\n\n")
			writeStatsTable(&b, described)
		}
	}
	return b.String()
}

func writePreviewTable(b *strings.Builder, p Preview) {
	width := 0
	if len(p.Rows) > 0 {
		width = len(p.Rows[0])
	}
	b.WriteString("| Row |")
	for j := 0; j < width; j++ {
		fmt.Fprintf(b, " Col %d |", j)
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---|", width))
	b.WriteString("\n")
	for i, row := range p.Rows {
		fmt.Fprintf(b, "| %d |", i)
		for _, v := range row {
			fmt.Fprintf(b, " %s |", escape(v))
		}
		b.WriteString("\n")
	}
}

func writeStatsTable(b *strings.Builder, cols []ColumnStats) {
	b.WriteString("| Column | count | mean | std | min | 25% | 50% | 75% | max |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, c := range cols {
		std := "NaN"
		if c.Std != nil {
			std = fmt.Sprintf("%.4g", *c.Std)
		}
		fmt.Fprintf(b, "| %s | %d | %.4g | %s | %.4g | %.4g | %.4g | %.4g | %.4g |\n",
			escape(c.Column), c.Count, c.Mean, std, c.Min, c.P25, c.P50, c.P75, c.Max)
	}
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
