package view

import (
	"fmt"
	"time"

	"github.com/javiermolinar/courtside/internal/dateutil"
)

// TimeColumn is the header of the slot label column.
const TimeColumn = "Time"

var weekdayShort = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayShort returns the short name of the i-th ISO weekday (0 = Monday).
func WeekdayShort(i int) string {
	return weekdayShort[((i%7)+7)%7]
}

// DayHeaders labels a day page: the time column then one column per court.
func DayHeaders(courtNames []string) []string {
	return append([]string{TimeColumn}, courtNames...)
}

// WeekHeaders labels a week page and marks today's column.
func WeekHeaders(days []time.Time, today time.Time) ([]string, map[int]bool) {
	labels := []string{TimeColumn}
	todayCols := make(map[int]bool)
	for i, d := range days {
		label := fmt.Sprintf("%s %d", WeekdayShort(i), d.Day())
		if dateutil.SameDay(d, today) {
			label = "*" + label + "*"
			todayCols[i+1] = true
		}
		labels = append(labels, label)
	}
	return labels, todayCols
}

// MonthHeaders labels the seven weekday columns of a month page.
func MonthHeaders() []string {
	return weekdayShort[:]
}

// Title is the page heading, e.g. "Wed 12 Mar 2025", "Week 11 · Court 1"
// or "March 2025".
func Title(zoom string, anchor time.Time, court string) string {
	switch zoom {
	case "week":
		_, week := anchor.ISOWeek()
		monday, sunday := dateutil.WeekRange(anchor)
		return fmt.Sprintf("Week %d · %s · %s – %s", week, court, monday.Format("2 Jan"), sunday.Format("2 Jan 2006"))
	case "month":
		return anchor.Format("January 2006")
	default:
		return anchor.Format("Mon 2 Jan 2006")
	}
}
