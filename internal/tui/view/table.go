package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Grid holds the cells of one calendar page and their styles.
// CellStyles is parallel to Rows.
type Grid struct {
	Headers      []string
	HeaderStyles []lipgloss.Style
	Rows         [][]string
	CellStyles   [][]lipgloss.Style
}

// GridViewState holds what is needed to render the calendar grid.
type GridViewState struct {
	InnerW      int
	GridH       int
	Grid        Grid
	BorderStyle lipgloss.Style
	Bg          lipgloss.Color
}

// RenderGrid renders the grid as a bordered lipgloss table.
func RenderGrid(state GridViewState) string {
	if state.GridH <= 0 || state.InnerW <= 0 {
		return ""
	}
	g := state.Grid

	t := table.New().
		Headers(g.Headers...).
		Width(max(state.InnerW-2, 0)).
		Height(state.GridH).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(state.BorderStyle).
		Rows(g.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col >= 0 && col < len(g.HeaderStyles) {
					return g.HeaderStyles[col]
				}
				return lipgloss.NewStyle()
			}
			if row < 0 || row >= len(g.CellStyles) || col < 0 || col >= len(g.CellStyles[row]) {
				return lipgloss.NewStyle()
			}
			return g.CellStyles[row][col]
		})

	return PlaceBox(state.InnerW, state.GridH, lipgloss.Top, t.Render(), state.Bg)
}
