package inspect

import (
	"sheetgen/domain/sheet"
)

// UnnamedWorkbook is shown when a snapshot has no name.
const UnnamedWorkbook = "Unnamed"

// SheetSummary counts what one sheet holds.
type SheetSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Rows  int    `json:"num_rows"`
	Cells int    `json:"num_cells"`
}

// Summary describes a whole snapshot.
type Summary struct {
	WorkbookName string         `json:"workbook_name"`
	NumSheets    int            `json:"num_sheets"`
	Sheets       []SheetSummary `json:"sheets"`
	TotalCells   int            `json:"total_cells"`
}

// Summarize counts occupied rows and cells per sheet.
func Summarize(snap *sheet.Snapshot) (*Summary, error) {
	if snap == nil {
		return nil, errNoSnapshot
	}
	s := &Summary{
		WorkbookName: snap.Name,
		NumSheets:    len(snap.Sheets),
		Sheets:       make([]SheetSummary, 0, len(snap.Sheets)),
	}
	if s.WorkbookName == "" {
		s.WorkbookName = UnnamedWorkbook
	}
	for _, id := range snap.Order() {
		sh := snap.Sheets[id]
		ss := SheetSummary{
			ID:    id,
			Name:  sh.DisplayName(),
			Rows:  sh.Cells.RowCount(),
			Cells: sh.Cells.CellCount(),
		}
		s.TotalCells += ss.Cells
		s.Sheets = append(s.Sheets, ss)
	}
	return s, nil
}

// SummaryOrEmpty is Summarize that reports failures as an empty summary.
func SummaryOrEmpty(snap *sheet.Snapshot) *Summary {
	s, err := Summarize(snap)
	if err != nil {
		return &Summary{WorkbookName: UnnamedWorkbook, Sheets: []SheetSummary{}}
	}
	return s
}
