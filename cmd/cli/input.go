package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sheetgen/adapters/excel"
	"sheetgen/app"
	"sheetgen/domain/sheet"
	"sheetgen/internal"
	"sheetgen/internal/workbook"
)

// inputFlags select how the positional input is read
type inputFlags struct {
	snapshot     bool
	sheetName    string
	workbookName string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.snapshot, "snapshot", false, "treat JSON input as a snapshot document instead of a payload")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", sheet.DefaultSheetName, "name of the built sheet")
	cmd.Flags().StringVar(&f.workbookName, "workbook-name", sheet.DefaultWorkbookName, "name of the built workbook")
}

func (f *inputFlags) options() workbook.Options {
	return workbook.Options{SheetName: f.sheetName, WorkbookName: f.workbookName}
}

// load reads a file (or stdin for "-" or no argument) into a snapshot.
// CSV and XLSX files become a single grid; JSON is a payload unless
// --snapshot is set.
func (f *inputFlags) load(cmd *cobra.Command, args []string) (*sheet.Snapshot, error) {
	name := "-"
	if len(args) > 0 {
		name = args[0]
	}

	var src io.Reader = cmd.InOrStdin()
	format := excel.FormatJSON
	if name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		src = file
		if filepath.Ext(name) != "" {
			if format, err = excel.DetectFormat(name); err != nil {
				return nil, err
			}
		}
	}

	if format != excel.FormatJSON {
		grid, err := excel.NewDataReader(internal.NewNopLogger()).ReadGrid(src, format)
		if err != nil {
			return nil, err
		}
		return workbook.BuildFromGrid(grid, f.options()), nil
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if f.snapshot {
		return app.DecodeSnapshot(data)
	}
	return workbook.FromJSON(data, f.options())
}

func writeJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// output opens path for writing, or returns stdout for "" and "-"
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}
