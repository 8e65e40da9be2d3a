package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Footer contains content and styles for the footer rows below the grid.
type Footer struct {
	InnerW      int
	FooterH     int
	FilterText  string // active filter summary
	PromptLine  string // rendered text input, empty when not prompting
	StatusText  string
	HelpText    string
	Style       lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	Bg          lipgloss.Color
}

// RenderFooter renders the filter or prompt line, status and help.
// When FooterH is too small the filter line goes first.
func RenderFooter(f Footer) string {
	if f.FooterH <= 0 {
		return ""
	}

	top := footerLine(f.InnerW, f.Style, f.FilterText)
	if f.PromptLine != "" {
		top = footerLine(f.InnerW, f.Style, f.PromptLine)
	}
	lines := []string{
		top,
		footerLine(f.InnerW, f.StatusStyle, f.StatusText),
		footerLine(f.InnerW, f.HelpStyle, f.HelpText),
	}
	if len(lines) > f.FooterH {
		lines = lines[len(lines)-f.FooterH:]
	}
	return PlaceBox(f.InnerW, f.FooterH, lipgloss.Bottom, strings.Join(lines, "\n"), f.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentW := max(width-frameW, 0)
	return style.Width(contentW).Render(Truncate(content, contentW))
}
