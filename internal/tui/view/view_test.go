package view

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatSlots(t *testing.T) {
	tests := []struct {
		slots int
		want  string
	}{
		{1, "30m"},
		{2, "1h"},
		{3, "1h 30m"},
		{48, "24h"},
	}
	for _, tt := range tests {
		if got := FormatSlots(tt.slots); got != tt.want {
			t.Errorf("FormatSlots(%d) = %q, want %q", tt.slots, got, tt.want)
		}
	}
}

func TestCardText(t *testing.T) {
	tests := []struct {
		name                   string
		customer, typ, id, out string
	}{
		{name: "customer", customer: "Ana", typ: "lesson", id: "b1", out: "Ana"},
		{name: "type when no customer", customer: " ", typ: "lesson", id: "b1", out: "lesson"},
		{name: "id last", id: "b1", out: "b1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CardText(tt.customer, tt.typ, tt.id); got != tt.out {
				t.Errorf("CardText = %q, want %q", got, tt.out)
			}
		})
	}
}

func TestMonthCell(t *testing.T) {
	if got := MonthCell(3, 0, 0); got != " 3" {
		t.Errorf("empty day = %q", got)
	}
	if got := MonthCell(12, 2, 5); got != "12  2·2h 30m" {
		t.Errorf("busy day = %q", got)
	}
}

func TestWeekHeaders(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}

	labels, today := WeekHeaders(days, monday.AddDate(0, 0, 2).Add(15*time.Hour))
	if len(labels) != 8 || labels[0] != TimeColumn {
		t.Fatalf("labels = %v", labels)
	}
	if labels[1] != "Mon 10" || labels[3] != "*Wed 12*" {
		t.Errorf("labels = %v", labels)
	}
	if !today[3] || len(today) != 1 {
		t.Errorf("today = %v, want only column 3", today)
	}
}

func TestTitle(t *testing.T) {
	wed := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		zoom string
		want string
	}{
		{"day", "Wed 12 Mar 2025"},
		{"week", "Week 11 · Court 1 · 10 Mar – 16 Mar 2025"},
		{"month", "March 2025"},
	}
	for _, tt := range tests {
		if got := Title(tt.zoom, wed, "Court 1"); got != tt.want {
			t.Errorf("Title(%s) = %q, want %q", tt.zoom, got, tt.want)
		}
	}
}

func TestPadLinesWithBackground(t *testing.T) {
	out := PadLinesWithBackground("ab\nc", 4, 3, lipgloss.Color(""))
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 4 {
			t.Errorf("line %d width = %d, want 4", i, w)
		}
	}
}

func TestRenderModalOverlay(t *testing.T) {
	base := strings.Repeat(strings.Repeat(".", 10)+"\n", 4) + strings.Repeat(".", 10)
	out := RenderModalOverlay(base, "XX\nYY", 10, 5, lipgloss.Color(""))

	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 5", len(lines))
	}
	if !strings.Contains(lines[1], "XX") || !strings.Contains(lines[2], "YY") {
		t.Errorf("modal not centered:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "..........") {
		t.Errorf("first line should be untouched, got %q", lines[0])
	}
}

func TestRenderFields(t *testing.T) {
	styles := ModalStyles{}
	out := RenderFields([]Field{
		{Label: "Court", Value: "A"},
		{Label: "Notes", Value: ""},
		{Label: "Customer", Value: "Ana"},
	}, styles)

	if strings.Contains(out, "Notes") {
		t.Errorf("empty field should be skipped:\n%s", out)
	}
	if got := len(strings.Split(out, "\n")); got != 2 {
		t.Errorf("lines = %d, want 2", got)
	}
	if got := PlainFields([]Field{{"Court", "A"}, {"Notes", ""}, {"Time", "09:00 – 10:00"}}); got != "Court: A\nTime: 09:00 – 10:00" {
		t.Errorf("PlainFields = %q", got)
	}
}

func TestRender_Placeholder(t *testing.T) {
	if got := Render(ViewState{}); got != "Loading..." {
		t.Errorf("Render = %q", got)
	}
	if got := Render(ViewState{Width: 3, Height: 1, BaseContent: "abc"}); got != "abc" {
		t.Errorf("Render = %q", got)
	}
}
