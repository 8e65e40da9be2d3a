package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render a modal.
type ModalStyles struct {
	Frame  lipgloss.Style
	Header lipgloss.Style
	Title  lipgloss.Style
	Body   lipgloss.Style
	Label  lipgloss.Style
	Footer lipgloss.Style
}

// Field is one labelled line of a detail modal.
type Field struct {
	Label string
	Value string
}

// RenderModalFrame renders a modal with the provided title, body and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder
	b.WriteString(styles.Header.Render(styles.Title.Render(title)))
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.Footer.Render(footer))
	}
	return styles.Frame.Render(b.String())
}

// RenderFields lays out fields as aligned label/value lines. Empty values
// are skipped.
func RenderFields(fields []Field, styles ModalStyles) string {
	width := 0
	for _, f := range fields {
		if f.Value != "" {
			width = max(width, lipgloss.Width(f.Label))
		}
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		label := styles.Label.Width(width + 2).Render(f.Label)
		lines = append(lines, label+styles.Body.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}

// PlainFields renders fields as "Label: value" lines for copying.
func PlainFields(fields []Field) string {
	var b strings.Builder
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.Label + ": " + f.Value)
	}
	return b.String()
}
