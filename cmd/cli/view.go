package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"sheetgen/domain/sheet"
	"sheetgen/internal/inspect"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 30
)

func newViewCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse the sheets of a snapshot interactively",
		Long:  "Browse the sheets of a snapshot. Arrow keys scroll, tab switches sheet, q quits.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := in.load(cmd, args)
			if err != nil {
				return err
			}
			grids := inspect.ExtractCellsOrEmpty(snap)
			if len(grids) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No cell data found.")
				return err
			}
			_, err = tea.NewProgram(newViewerModel(grids), tea.WithAltScreen()).Run()
			return err
		},
	}
	in.register(cmd)
	return cmd
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	frameStyle = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

// viewerModel shows one sheet at a time as a scrollable table
type viewerModel struct {
	grids  []inspect.SheetGrid
	active int
	table  table.Model
	width  int
	height int
}

func newViewerModel(grids []inspect.SheetGrid) viewerModel {
	m := viewerModel{grids: grids, height: 24}
	m.table = buildTable(grids[0], m.height-6)
	return m
}

// buildTable renders a grid with spreadsheet-style column letters and
// row numbers, since the first row may or may not be a header.
func buildTable(g inspect.SheetGrid, height int) table.Model {
	width := g.Width()
	cols := make([]table.Column, width+1)
	cols[0] = table.Column{Title: "#", Width: len(fmt.Sprint(len(g.Rows))) + 1}
	for c := 0; c < width; c++ {
		cols[c+1] = table.Column{Title: columnLetter(c), Width: minColumnWidth}
	}

	rows := make([]table.Row, len(g.Rows))
	for r, gridRow := range g.Rows {
		row := make(table.Row, width+1)
		row[0] = fmt.Sprint(r + 1)
		for c, v := range gridRow {
			s := sheet.FormatValue(v)
			row[c+1] = s
			if w := lipgloss.Width(s); w > cols[c+1].Width {
				cols[c+1].Width = min(w, maxColumnWidth)
			}
		}
		rows[r] = row
	}

	if height < 3 {
		height = 3
	}
	return table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
}

// columnLetter converts a zero-based index to A, B, ..., Z, AA, AB, ...
func columnLetter(i int) string {
	s := ""
	for i >= 0 {
		s = string(rune('A'+i%26)) + s
		i = i/26 - 1
	}
	return s
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetHeight(max(m.height-6, 3))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.switchSheet(1)
			return m, nil
		case "shift+tab":
			m.switchSheet(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *viewerModel) switchSheet(delta int) {
	if len(m.grids) < 2 {
		return
	}
	m.active = (m.active + delta + len(m.grids)) % len(m.grids)
	m.table = buildTable(m.grids[m.active], m.height-6)
}

func (m viewerModel) View() string {
	g := m.grids[m.active]
	title := titleStyle.Render(fmt.Sprintf("%s (%d/%d) %d×%d", g.Name, m.active+1, len(m.grids), len(g.Rows), g.Width()))
	help := helpStyle.Render("↑/↓ scroll • tab next sheet • q quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, frameStyle.Render(m.table.View()), help)
}
