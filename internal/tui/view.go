package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/filter"
	"github.com/javiermolinar/courtside/internal/tui/view"
)

// View renders the TUI.
func (m Model) View() string {
	showModal := m.mode == ModeModal && m.modalType != ModalNone
	modal := ""
	if showModal {
		modal = m.renderModal()
	}
	return view.Render(view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		ModalContent:     modal,
		ShowModal:        showModal,
		ModalBg:          m.styles.ModalBgColor,
		EmptyPlaceholder: "Loading...",
	})
}

func (m Model) renderAppContent() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.width < 30 || m.height < 8 {
		return "Terminal too small"
	}

	title := m.styles.Title.Width(m.width).Render(view.Truncate(m.title(), m.width-2))
	grid := view.RenderGrid(view.GridViewState{
		InnerW:      m.width,
		GridH:       m.gridHeight(),
		Grid:        m.grid(),
		BorderStyle: m.styles.Border,
		Bg:          m.styles.colorBg,
	})
	footer := view.RenderFooter(m.footer())

	content := lipgloss.JoinVertical(lipgloss.Left, title, grid, footer)
	return view.PadLinesWithBackground(m.styles.App.Render(content), m.width, m.height, m.styles.colorBg)
}

func (m Model) grid() view.Grid {
	if len(m.resources()) == 0 && m.zoom != calendar.ZoomMonth {
		return view.Grid{Headers: []string{view.TimeColumn, "No courts"}}
	}
	rows := m.visibleSlotRows(m.gridHeight())
	switch m.zoom {
	case calendar.ZoomWeek:
		return m.weekGrid(m.width, rows)
	case calendar.ZoomMonth:
		return m.monthGrid(m.width)
	default:
		return m.dayGrid(m.width, rows)
	}
}

func (m Model) title() string {
	t := view.Title(m.zoom.String(), m.cursor.Day, m.config.CourtName(m.court()))
	if m.loading {
		t += "  ·  loading"
	}
	if n := m.collisions(); n > 0 {
		t += fmt.Sprintf("  ·  %d double-booked", n)
	}
	return t
}

// collisions counts double-booked slots on the cursor's day.
func (m Model) collisions() int {
	if m.zoom == calendar.ZoomMonth {
		return 0
	}
	return len(calendar.BuildDay(m.resources(), m.cursor.Day, m.segments()).Collisions())
}

func (m Model) footer() view.Footer {
	f := view.Footer{
		InnerW:      m.width,
		FooterH:     m.footerHeight(),
		FilterText:  m.filterSummary(),
		StatusText:  m.statusLine(),
		HelpText:    m.helpLine(),
		Style:       m.styles.Footer,
		StatusStyle: m.styles.Status,
		HelpStyle:   m.styles.Help,
		Bg:          m.styles.colorBg,
	}
	if m.statusError {
		f.StatusStyle = m.styles.Error
	}
	if m.mode == ModePrompt {
		f.PromptLine = m.prompt.View()
	}
	return f
}

func (m Model) filterSummary() string {
	n := filter.ActiveCount(m.filter)
	if n == 0 {
		return "filter: none"
	}
	return fmt.Sprintf("filter (%d): %s", n, m.filter.String())
}

func (m Model) statusLine() string {
	if m.mode == ModeDrag {
		if a, err := m.drag.Preview(); err == nil {
			return fmt.Sprintf("drop on %s %s  (%s)",
				m.config.CourtName(a.ResourceID), a.Start.Format("Mon 2 Jan 15:04"), view.FormatSlots(a.Slots))
		}
	}
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if m.loading {
		return "Loading..."
	}
	return fmt.Sprintf("%d bookings loaded", len(m.session.Bookings()))
}

func (m Model) helpLine() string {
	switch m.mode {
	case ModeDrag:
		return "hjkl: move  H/L: page  enter: drop  esc: cancel"
	case ModePrompt:
		if m.promptKind == PromptFilter {
			return "tab: complete  enter: apply  esc: cancel"
		}
		return "enter: ask  esc: cancel"
	case ModeModal:
		return "esc: close"
	}
	parts := []string{"hjkl: move", "H/L: page", "tab: zoom", "t: today"}
	if m.zoom != calendar.ZoomMonth {
		parts = append(parts, "m: move booking", "enter: details")
	} else {
		parts = append(parts, "enter: open day")
	}
	parts = append(parts, "/: filter", "a: ask", "?: help", "q: quit")
	return strings.Join(parts, "  ")
}
