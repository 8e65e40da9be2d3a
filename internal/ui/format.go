package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/config"
	"github.com/javiermolinar/courtside/internal/occupancy"
	"github.com/javiermolinar/courtside/internal/slot"
)

// Stats holds totals for a set of bookings.
type Stats struct {
	Bookings  int
	Cancelled int
	Slots     int
	Revenue   float64
	PerCourt  map[string]int // booked slots per court
}

// AccumulateStats adds b to stats. Cancelled bookings are counted but
// hold no time and earn nothing.
func AccumulateStats(stats *Stats, b *booking.Booking) {
	stats.Bookings++
	if b.IsCancelled() {
		stats.Cancelled++
		return
	}
	if stats.PerCourt == nil {
		stats.PerCourt = make(map[string]int)
	}
	stats.Slots += b.Slots()
	stats.PerCourt[b.ResourceID] += b.Slots()
	stats.Revenue += b.Price
}

// BusiestCourt returns the court with the most booked slots.
func (s Stats) BusiestCourt() (court string, slots int) {
	for c, n := range s.PerCourt {
		if n > slots || (n == slots && c < court) {
			court, slots = c, n
		}
	}
	return court, slots
}

// PrintOpts configures booking printing.
type PrintOpts struct {
	Verbose      bool // show type, payment and notes
	MaxNameWidth int  // 0 = auto
}

// nameWidth is the customer column width.
func (o PrintOpts) nameWidth(defaultWidth int) int {
	if o.MaxNameWidth > 0 {
		return o.MaxNameWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "  ● HH:MM – HH:MM  Court…  " is about 34 cells
	if available := termWidth() - 34; available > defaultWidth {
		return available
	}
	return defaultWidth
}

// statusSymbol is the one-cell marker printed before a booking.
func statusSymbol(s booking.Status) string {
	switch s {
	case booking.StatusConfirmed:
		return "●"
	case booking.StatusPending:
		return "○"
	case booking.StatusCompleted:
		return "✓"
	case booking.StatusCancelled:
		return "✗"
	default:
		return "?"
	}
}

// PrintBookingRow prints one booking on a line.
func PrintBookingRow(w io.Writer, cfg *config.Config, b *booking.Booking, opts PrintOpts, width int) {
	when := b.Label()
	if b.IsOvernight() {
		when += " +1"
	}
	name := bookingName(b)
	name = ansi.Truncate(name, width, "...")

	line := fmt.Sprintf("  %s %-16s %-10s %s",
		formatStatus(b.Status, statusSymbol(b.Status)),
		when,
		ansi.Truncate(cfg.CourtName(b.ResourceID), 10, "…"),
		formatStatus(b.Status, name),
	)
	if opts.Verbose {
		var extra []string
		for _, v := range []string{b.Type, b.PaymentStatus, formatPrice(b.Price), b.CreatedBy} {
			if v != "" {
				extra = append(extra, v)
			}
		}
		if len(extra) > 0 {
			line += "  " + formatMuted(strings.Join(extra, " · "))
		}
	}
	fmt.Fprintln(w, line)
	if opts.Verbose && strings.TrimSpace(b.Notes) != "" {
		fmt.Fprintf(w, "      %s\n", formatMuted(strings.TrimSpace(b.Notes)))
	}
}

// PrintBookings prints bookings grouped by day, in start order.
func PrintBookings(w io.Writer, cfg *config.Config, bookings []*booking.Booking, opts PrintOpts) Stats {
	var stats Stats
	width := opts.nameWidth(30)
	var current string
	for _, b := range bookings {
		if key := b.DateKey(); key != current {
			if current != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "=== %s ===\n", formatHeader(b.Date.Format("Mon 2 Jan 2006")))
			current = key
		}
		PrintBookingRow(w, cfg, b, opts, width)
		AccumulateStats(&stats, b)
	}
	return stats
}

// PrintStats prints the totals line under a listing.
func PrintStats(w io.Writer, cfg *config.Config, stats Stats) {
	line := fmt.Sprintf("%d bookings, %s booked", stats.Bookings-stats.Cancelled, FormatSlots(stats.Slots))
	if stats.Cancelled > 0 {
		line += fmt.Sprintf(", %d cancelled", stats.Cancelled)
	}
	if stats.Revenue > 0 {
		line += ", " + formatPrice(stats.Revenue)
	}
	fmt.Fprintln(w, formatMuted(line))
	if court, slots := stats.BusiestCourt(); court != "" {
		fmt.Fprintln(w, formatMuted(fmt.Sprintf("Busiest: %s (%s)", cfg.CourtName(court), FormatSlots(slots))))
	}
}

// FormatSlots formats a number of half-hour slots as hours and minutes.
func FormatSlots(n int) string {
	minutes := n * slot.Minutes
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

func formatPrice(p float64) string {
	if p == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", p)
}

func bookingName(b *booking.Booking) string {
	for _, v := range []string{b.CustomerName, b.Type, b.ID} {
		if v != "" {
			return v
		}
	}
	return ""
}

// DayGridOpts configures the text day grid.
type DayGridOpts struct {
	FirstSlot int // first row, inclusive
	LastSlot  int // last row, exclusive
	ColWidth  int
	Now       time.Time // marks the current slot when on the same day
}

// PrintDayGrid prints every court of a day side by side, one row per slot.
// A booking shows its holder on its anchor slot and "│" below it.
func PrintDayGrid(w io.Writer, cfg *config.Config, dv calendar.DayView, opts DayGridOpts) {
	colW := max(opts.ColWidth, 6)
	cell := func(s string) string {
		s = ansi.Truncate(s, colW, "…")
		return s + strings.Repeat(" ", max(colW-ansi.StringWidth(s), 0))
	}

	header := []string{cell("")}
	for _, id := range dv.Resources {
		header = append(header, cell(cfg.CourtName(id)))
	}
	fmt.Fprintln(w, formatHeader(strings.TrimRight(strings.Join(header, " "), " ")))

	nowSlot := -1
	if !opts.Now.IsZero() && sameDate(opts.Now, dv.Day) {
		nowSlot = slot.Of(opts.Now)
	}

	for s := opts.FirstSlot; s < opts.LastSlot; s++ {
		label := slot.ToTime(s)
		if s == nowSlot {
			label += " ▸"
		}
		row := []string{cell(label)}
		for _, tbl := range dv.Tables {
			row = append(row, gridCell(tbl, s, cell))
		}
		line := strings.TrimRight(strings.Join(row, " "), " ")
		if s == nowSlot {
			line = formatHeader(line)
		}
		fmt.Fprintln(w, line)
	}

	if c := dv.Collisions(); len(c) > 0 {
		fmt.Fprintln(w)
		for _, col := range c {
			fmt.Fprintln(w, formatError("! "+col.Error()))
		}
	}
}

func gridCell(tbl *occupancy.Table, s int, cell func(string) string) string {
	b := tbl.Occupant(s)
	if b == nil {
		return formatMuted(cell("·"))
	}
	if tbl.IsAnchor(s) {
		return formatStatus(b.Status, cell(bookingName(b)))
	}
	if anchor, ok := tbl.AnchorOf(b.ID); ok && s == anchor+1 {
		return formatStatus(b.Status, cell("│"+b.Label()))
	}
	return formatStatus(b.Status, cell("│"))
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
