package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"sheetgen/adapters/excel"
	"sheetgen/app"
	"sheetgen/domain/generation"
	"sheetgen/domain/sheet"
	"sheetgen/internal"
	"sheetgen/internal/config"
	"sheetgen/internal/container"
	"sheetgen/internal/inspect"
)

func newNormalizeCmd() *cobra.Command {
	var in inputFlags
	var out string

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Convert a payload, CSV or XLSX file into a snapshot document",
		Long: `Convert a JSON payload (records, rows or a headers/rows object) or a
CSV/XLSX file into a snapshot document. Reads stdin when no file is given.

Example: echo '[{"a":1},{"b":2}]' | sheetgen normalize`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := in.load(cmd, args)
			if err != nil {
				return err
			}
			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := writeJSON(w, snap); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var in inputFlags
	var plain bool
	var previewRows int

	cmd := &cobra.Command{
		Use:   "summary [file]",
		Short: "Print the markdown summary report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := in.load(cmd, args)
			if err != nil {
				return err
			}
			md := inspect.Markdown(snap, previewRows)
			if plain {
				_, err = fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(120),
			)
			if err != nil {
				return err
			}
			rendered, err := renderer.Render(md)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown")
	cmd.Flags().IntVar(&previewRows, "preview-rows", inspect.PreviewRows, "rows shown per sheet")
	return cmd
}

func newCellsCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "cells [file]",
		Short: "Print the dense cell grid of every non-empty sheet as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := in.load(cmd, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), inspect.ExtractCellsOrEmpty(snap))
		},
	}
	in.register(cmd)
	return cmd
}

func newTableCmd() *cobra.Command {
	var in inputFlags
	var sheetID string
	var headers bool

	cmd := &cobra.Command{
		Use:   "table [file]",
		Short: "Print one sheet as a bordered table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := in.load(cmd, args)
			if err != nil {
				return err
			}
			t, err := inspect.ToTable(snap, sheetID, headers)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderTable(t))
			return err
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&sheetID, "sheet", "", "sheet id (default first sheet)")
	cmd.Flags().BoolVar(&headers, "headers", true, "treat the first row as column names")
	return cmd
}

func renderTable(t *inspect.Table) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]string, len(t.Columns))
		for j := range t.Columns {
			if j < len(row) {
				rows[i][j] = sheet.FormatValue(row[j])
			}
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}

func newStatsCmd() *cobra.Command {
	var in inputFlags
	var sheetID string

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Describe the numeric columns of one sheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := in.load(cmd, args)
			if err != nil {
				return err
			}
			t, err := inspect.ToTable(snap, sheetID, true)
			if err != nil {
				return err
			}
			described, err := inspect.Describe(t)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), described)
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&sheetID, "sheet", "", "sheet id (default first sheet)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var in inputFlags
	var format, out string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the snapshot as JSON, CSV or XLSX",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := excel.Format(strings.ToLower(format))
			if f == excel.FormatXLSX && (out == "" || out == "-") {
				return fmt.Errorf("xlsx export needs --out")
			}
			snap, err := in.load(cmd, args)
			if err != nil {
				return err
			}
			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := app.ExportSnapshot(snap, f, w); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(excel.FormatCSV), "json, csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var rows int
	var columns, constraints, out string
	var example bool

	cmd := &cobra.Command{
		Use:   "generate [request]",
		Short: "Generate a snapshot with the configured LLM provider",
		Long: `Generate fictional tabular data from a natural-language request and
print the snapshot document. Provider settings come from the environment
(LLM_PROVIDER, OPENAI_API_KEY, ...); LLM_PROVIDER=mock needs no key.

Example: sheetgen generate "team roster" --rows 5 --columns "Name, Role, Country"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := generation.Request{Columns: generation.ParseColumnList(columns), Constraints: constraints}
			if cmd.Flags().Changed("rows") {
				req = req.WithRowCount(rows)
			}
			if example {
				req = generation.ExampleRequest()
			} else if len(args) > 0 {
				req.UserRequest = args[0]
			}

			outcome, err := generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := writeJSON(w, outcome.Snapshot); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "number of rows (default from config)")
	cmd.Flags().StringVar(&columns, "columns", "", "comma-separated column names")
	cmd.Flags().StringVar(&constraints, "constraints", "", "free-text constraints for the model")
	cmd.Flags().BoolVar(&example, "example", false, "use the built-in example request")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func generate(ctx context.Context, req generation.Request) (*app.GenerationOutcome, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.Store.Driver = "memory"

	logger := internal.NewDefaultLogger()
	defer logger.Sync()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer c.Shutdown(ctx)
	return c.Generation.Generate(ctx, req)
}
