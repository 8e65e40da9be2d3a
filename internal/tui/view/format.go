package view

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/courtside/internal/slot"
)

// FormatSlots formats a number of half-hour slots as "Xh Ym".
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

// FormatPrice formats a price with two decimals, or "" when zero.
func FormatPrice(p float64) string {
	if p == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", p)
}

// CardText is the text shown on a booking card: the customer, falling back
// to the booking type, then the ID.
func CardText(customer, bookingType, id string) string {
	for _, s := range []string{customer, bookingType, id} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// MonthCell renders the text of one month day: the day number then the
// booking count and booked time.
func MonthCell(day, count, slots int) string {
	if count == 0 {
		return fmt.Sprintf("%2d", day)
	}
	return fmt.Sprintf("%2d  %d·%s", day, count, FormatSlots(slots))
}
