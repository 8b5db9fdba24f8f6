package excel

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
	"sheetgen/internal/inspect"
)

const maxSheetNameLen = 31

// WriteCSV writes the first sheet of snap as CSV. Nulls become empty fields.
func WriteCSV(w io.Writer, snap *sheet.Snapshot) error {
	grids := inspect.ExtractCellsOrEmpty(snap)
	cw := csv.NewWriter(w)
	if len(grids) > 0 {
		for _, row := range grids[0].Rows {
			record := make([]string, len(row))
			for i, v := range row {
				record[i] = sheet.FormatValue(v)
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes every sheet of snap as a worksheet, keeping numbers and
// booleans typed.
func WriteXLSX(w io.Writer, snap *sheet.Snapshot) error {
	if snap == nil {
		return errors.InvalidInput("no snapshot loaded")
	}
	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool)
	for i, id := range snap.Order() {
		sh := snap.Sheets[id]
		name := uniqueSheetName(sh.DisplayName(), used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		for r, cols := range sh.Cells {
			for c, cell := range cols {
				v := cellValue(cell)
				if v == nil {
					continue
				}
				ref, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(name, ref, v); err != nil {
					return err
				}
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func cellValue(c sheet.Cell) any {
	v := c.Value()
	switch val := v.(type) {
	case nil, string, bool:
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	}
	if sheet.IsNumber(v) {
		return v
	}
	return sheet.FormatValue(v)
}

// uniqueSheetName applies Excel's sheet name rules: no []:*?/\ characters, at
// most 31 characters, unique ignoring case.
func uniqueSheetName(name string, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "Sheet"
	}
	if len([]rune(name)) > maxSheetNameLen {
		name = string([]rune(name)[:maxSheetNameLen])
	}

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := []rune(name)
		if len(base)+len(suffix) > maxSheetNameLen {
			base = base[:maxSheetNameLen-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
