package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox renders content in a w by h box filled with bg.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(w, h, lipgloss.Left, vAlign, content, lipgloss.WithWhitespaceBackground(bg))
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground pads every line to width and the block to height.
// Lines wider than width are left alone.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	fill := lipgloss.NewStyle().Background(bg)
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if gap := width - lipgloss.Width(line); gap > 0 {
			lines[i] = line + fill.Render(strings.Repeat(" ", gap))
		}
	}
	return strings.Join(lines, "\n")
}

// Truncate cuts s to width cells, keeping ANSI styling intact.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// RenderModalOverlay centers modal over base, which is first padded to
// width by height.
func RenderModalOverlay(base, modal string, width, height int, modalBg lipgloss.Color) string {
	modalLines := strings.Split(modal, "\n")
	modalW := 0
	for _, line := range modalLines {
		modalW = max(modalW, lipgloss.Width(line))
	}
	if modalW == 0 {
		return base
	}
	modalW = min(modalW, width)
	top := max((height-len(modalLines))/2, 0)
	left := max((width-modalW)/2, 0)

	fill := lipgloss.NewStyle().Background(modalBg)
	for i, line := range modalLines {
		w := lipgloss.Width(line)
		if w > modalW {
			line = ansi.Cut(line, 0, modalW)
		} else if w < modalW {
			line += fill.Render(strings.Repeat(" ", modalW-w))
		}
		modalLines[i] = reapplyBackground(line, modalBg) + ansi.ResetStyle
	}

	baseLines := strings.Split(PadLinesWithBackground(base, width, height, lipgloss.Color("")), "\n")
	for row := top; row < top+len(modalLines) && row < len(baseLines); row++ {
		line := baseLines[row]
		baseLines[row] = ansi.Cut(line, 0, left) + modalLines[row-top] + ansi.Cut(line, left+modalW, width)
	}
	return strings.Join(baseLines, "\n")
}

// reapplyBackground restores the modal background after every reset so
// styled spans inside the modal do not punch holes in it.
func reapplyBackground(line string, bg lipgloss.Color) string {
	if bg == "" {
		return line
	}
	seq := ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
	line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+seq)
	line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+seq)
	if ansi.ResetStyle != "\x1b[0m" {
		line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+seq)
	}
	return line
}
