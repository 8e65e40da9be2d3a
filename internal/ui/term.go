package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/courtside/internal/booking"
)

// Color definitions for consistent styling across the CLI.
var (
	colorConfirmed = color.New(color.FgGreen)
	colorPending   = color.New(color.FgYellow)
	colorCompleted = color.New(color.FgCyan)
	colorCancelled = color.New(color.FgWhite, color.Faint, color.CrossedOut)

	colorHeader = color.New(color.Bold)
	colorMuted  = color.New(color.FgWhite, color.Faint)
	colorError  = color.New(color.FgRed, color.Bold)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatStatus colors s the way its status reads at a glance.
func formatStatus(st booking.Status, s string) string {
	switch st {
	case booking.StatusConfirmed:
		return colorConfirmed.Sprint(s)
	case booking.StatusPending:
		return colorPending.Sprint(s)
	case booking.StatusCompleted:
		return colorCompleted.Sprint(s)
	case booking.StatusCancelled:
		return colorCancelled.Sprint(s)
	default:
		return s
	}
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatError(s string) string {
	return colorError.Sprint(s)
}
