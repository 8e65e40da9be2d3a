package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/tui/theme"
	"github.com/javiermolinar/courtside/internal/tui/view"
)

// timeColWidth is the width of the slot label column.
const timeColWidth = 7

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg lipgloss.Color

	App         lipgloss.Style
	Title       lipgloss.Style
	Border      lipgloss.Style
	Header      lipgloss.Style
	HeaderToday lipgloss.Style
	TimeColumn  lipgloss.Style
	TimeNow     lipgloss.Style
	Empty       lipgloss.Style
	Cursor      lipgloss.Style

	// Drag feedback
	DragSource   lipgloss.Style
	DragPreview  lipgloss.Style
	DragConflict lipgloss.Style

	// Month grid
	MonthDay     lipgloss.Style
	MonthOutside lipgloss.Style
	MonthToday   lipgloss.Style
	MonthBusy    lipgloss.Style

	Footer lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style

	PromptText        lipgloss.Style
	PromptPlaceholder lipgloss.Style

	Modal          view.ModalStyles
	ModalBgColor   lipgloss.Color
	ModalTextStyle lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)
	modalBase := lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Modal.Text)

	return &Styles{
		palette: p,
		colorBg: p.Bg,

		App:         base,
		Title:       base.Foreground(p.Accent).Bold(true).Padding(0, 1),
		Border:      lipgloss.NewStyle().Foreground(p.Accent).Background(p.Bg),
		Header:      base.Foreground(p.Accent).Bold(true).Padding(0, 1),
		HeaderToday: base.Foreground(p.Now).Bold(true).Padding(0, 1),
		TimeColumn:  base.Foreground(p.FgMuted).Width(timeColWidth).Padding(0, 1),
		TimeNow:     base.Foreground(p.Now).Bold(true).Width(timeColWidth).Padding(0, 1),
		Empty:       base.Padding(0, 1),
		Cursor:      base.Background(p.BgSelection).Padding(0, 1),

		DragSource:   base.Foreground(p.FgMuted).Faint(true).Padding(0, 1),
		DragPreview:  lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Bold(true).Padding(0, 1),
		DragConflict: lipgloss.NewStyle().Background(p.Warning).Foreground(p.TextOnWarning).Bold(true).Padding(0, 1),

		MonthDay:     base.Padding(0, 1),
		MonthOutside: base.Foreground(p.FgMuted).Faint(true).Padding(0, 1),
		MonthToday:   base.Foreground(p.Now).Bold(true).Padding(0, 1),
		MonthBusy:    base.Background(p.BgHighlight).Padding(0, 1),

		Footer: base.Foreground(p.FgMuted).Padding(0, 1),
		Status: base.Foreground(p.Accent).Padding(0, 1),
		Error:  base.Foreground(p.Warning).Bold(true).Padding(0, 1),
		Help:   base.Foreground(p.FgMuted).Padding(0, 1),

		PromptText:        base,
		PromptPlaceholder: base.Foreground(p.FgMuted),

		Modal: view.ModalStyles{
			Frame: modalBase.
				Border(lipgloss.RoundedBorder()).
				BorderForeground(p.Modal.Border).
				BorderBackground(p.Modal.Bg).
				Padding(1, 2),
			Header: modalBase,
			Title:  modalBase.Foreground(p.Modal.Border).Bold(true),
			Body:   modalBase,
			Label:  modalBase.Foreground(p.Modal.Muted),
			Footer: modalBase.Foreground(p.Modal.Muted),
		},
		ModalBgColor:   p.Modal.Bg,
		ModalTextStyle: modalBase,
	}
}

// Card returns the style of a booking card. Alternate cards use a second
// shade so adjacent bookings of one status stay distinguishable.
func (s *Styles) Card(status booking.Status, alt bool) lipgloss.Style {
	c := s.palette.Card(string(status))
	bg := c.Bg
	if alt {
		bg = c.BgAlt
	}
	return lipgloss.NewStyle().Background(bg).Foreground(c.Text).Padding(0, 1)
}

// CursorOnCard returns the card style with the cursor highlight.
func (s *Styles) CursorOnCard(status booking.Status) lipgloss.Style {
	return s.Card(status, false).Bold(true).Underline(true)
}
