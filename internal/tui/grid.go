package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/dragdrop"
	"github.com/javiermolinar/courtside/internal/filter"
	"github.com/javiermolinar/courtside/internal/occupancy"
	"github.com/javiermolinar/courtside/internal/slot"
	"github.com/javiermolinar/courtside/internal/tui/view"
)

// gridChrome is the number of grid lines that are not slot rows: the top
// border, header, header separator and bottom border.
const gridChrome = 4

// segments returns the visible bookings projected onto days.
func (m Model) segments() []booking.Segment {
	return m.session.Segments(m.filter, m.now())
}

// table resolves one court's day as currently filtered.
func (m Model) table(resourceID string, day time.Time) *occupancy.Table {
	return occupancy.Resolve(resourceID, day, booking.SegmentsOn(m.segments(), resourceID, day))
}

// blockingStatuses are the statuses that hold a court.
var blockingStatuses = []booking.Status{booking.StatusConfirmed, booking.StatusPending, booking.StatusCompleted}

// occupiedTable resolves a court's day ignoring the filter, for drop checks.
func (m Model) occupiedTable(resourceID string, day time.Time) *occupancy.Table {
	set := filter.Set{Statuses: blockingStatuses}
	segs := m.session.Segments(set, day)
	return occupancy.Resolve(resourceID, day, booking.SegmentsOn(segs, resourceID, day))
}

// visibleSlotRows returns how many slot rows fit in a grid of height gridH.
func (m Model) visibleSlotRows(gridH int) int {
	return max(min(gridH-gridChrome, m.lastSlot-m.firstSlot), 0)
}

// columnWidth is the inner width available to each of n columns.
func (m Model) columnWidth(innerW, n int) int {
	if n <= 0 {
		return 0
	}
	// outer borders, one separator per column and cell padding
	return max((innerW-2-timeColWidth-n)/n-2, 1)
}

// dragPreview describes the slots highlighted while dragging over a column.
type dragPreview struct {
	resourceID string
	day        time.Time
	from, to   int // [from, to) within the day
	conflict   bool
}

func (m Model) preview() (dragPreview, bool) {
	if !m.drag.Dragging() {
		return dragPreview{}, false
	}
	a, err := m.drag.Preview()
	if err != nil {
		return dragPreview{}, false
	}
	day := dateutil.TruncateToDay(a.Start)
	from := slot.Of(a.Start)
	to := min(from+a.Slots, slot.PerDay)
	tbl := m.occupiedTable(a.ResourceID, day)
	return dragPreview{
		resourceID: a.ResourceID,
		day:        day,
		from:       from,
		to:         to,
		conflict:   !tbl.CanDrop(from, a.Slots, a.BookingID),
	}, true
}

func (p dragPreview) covers(resourceID string, day time.Time, s int) bool {
	return p.resourceID == resourceID && dateutil.SameDay(p.day, day) && s >= p.from && s < p.to
}

// column is one slot column of a day or week page.
type column struct {
	resourceID string
	day        time.Time
	table      *occupancy.Table
	cursor     bool
}

// slotGrid renders slot rows for the given columns.
func (m Model) slotGrid(headers []string, headerStyles []lipgloss.Style, cols []column, rows, colW int) view.Grid {
	g := view.Grid{Headers: headers, HeaderStyles: headerStyles}
	pv, dragging := m.preview()
	var dragged *booking.Booking
	if dragging {
		dragged = m.drag.Booking()
	}

	alt := make([]map[string]bool, len(cols))
	for i, c := range cols {
		alt[i] = make(map[string]bool)
		for j, a := range c.table.Anchors() {
			alt[i][a.Booking.ID] = j%2 == 1
		}
	}

	now := m.now().In(m.session.Location())
	nowSlot := slot.Of(now)
	today := false
	for _, c := range cols {
		today = today || dateutil.SameDay(c.day, now)
	}

	top := m.firstSlot + m.scrollOffset
	for r := range rows {
		s := top + r
		timeStyle := m.styles.TimeColumn
		if today && s == nowSlot {
			timeStyle = m.styles.TimeNow
		}
		row := []string{slot.ToTime(s)}
		styles := []lipgloss.Style{timeStyle}

		for i, c := range cols {
			text, style := m.slotCell(c, s, r == 0, alt[i], colW)
			switch {
			case dragging && pv.covers(c.resourceID, c.day, s):
				style = m.styles.DragPreview
				if pv.conflict {
					style = m.styles.DragConflict
				}
				if s == pv.from {
					text = view.Truncate(view.CardText(dragged.CustomerName, dragged.Type, dragged.ID), colW)
				}
			case dragging && c.table.Occupant(s) != nil && c.table.Occupant(s).ID == dragged.ID:
				style = m.styles.DragSource
			case c.cursor && s == m.cursor.Slot:
				if b := c.table.Occupant(s); b != nil {
					style = m.styles.CursorOnCard(b.Status)
				} else {
					style = m.styles.Cursor
				}
			}
			row = append(row, text)
			styles = append(styles, style)
		}
		g.Rows = append(g.Rows, row)
		g.CellStyles = append(g.CellStyles, styles)
	}
	return g
}

// slotCell renders one slot of a column. A card shows its holder on the
// anchor slot and its time range on the next one. Cards cut off by the top
// of the page repeat their holder on the first visible row.
func (m Model) slotCell(c column, s int, firstRow bool, alt map[string]bool, colW int) (string, lipgloss.Style) {
	b := c.table.Occupant(s)
	if b == nil {
		return "", m.styles.Empty
	}
	style := m.styles.Card(b.Status, alt[b.ID])

	anchor, _ := c.table.AnchorOf(b.ID)
	switch {
	case s == anchor || firstRow:
		return view.Truncate(view.CardText(b.CustomerName, b.Type, b.ID), colW), style
	case s == anchor+1:
		return view.Truncate(b.Label(), colW), style
	}
	return "", style
}

// dayGrid is every court side by side for the cursor's day.
func (m Model) dayGrid(innerW, rows int) view.Grid {
	res := m.resources()
	dv := calendar.BuildDay(res, m.cursor.Day, m.segments())

	headers := make([]string, 0, len(res))
	for _, id := range res {
		headers = append(headers, m.config.CourtName(id))
	}
	colW := m.columnWidth(innerW, len(res))
	for i, h := range headers {
		headers[i] = view.Truncate(h, colW)
	}

	headerStyles := []lipgloss.Style{m.styles.TimeColumn}
	cols := make([]column, len(res))
	for i, id := range res {
		headerStyles = append(headerStyles, m.styles.Header)
		cols[i] = column{resourceID: id, day: m.cursor.Day, table: dv.Tables[i], cursor: i == m.cursor.Court}
	}
	return m.slotGrid(view.DayHeaders(headers), headerStyles, cols, rows, colW)
}

// weekGrid is the cursor's court across its ISO week.
func (m Model) weekGrid(innerW, rows int) view.Grid {
	court := m.court()
	wv := calendar.BuildWeek(court, m.cursor.Day, m.segments())
	headers, todayCols := view.WeekHeaders(wv.Days, m.now())

	headerStyles := []lipgloss.Style{m.styles.TimeColumn}
	cols := make([]column, len(wv.Days))
	for i, d := range wv.Days {
		style := m.styles.Header
		if todayCols[i+1] {
			style = m.styles.HeaderToday
		}
		headerStyles = append(headerStyles, style)
		cols[i] = column{resourceID: court, day: d, table: wv.Tables[i], cursor: dateutil.SameDay(d, m.cursor.Day)}
	}
	return m.slotGrid(headers, headerStyles, cols, rows, m.columnWidth(innerW, 7))
}

// monthGrid is the 6x7 summary of the cursor's month.
func (m Model) monthGrid(innerW int) view.Grid {
	mv := calendar.BuildMonth(m.cursor.Day, m.segments())
	colW := max((innerW-2-7)/7-2, 1)
	today := m.today()

	g := view.Grid{Headers: view.MonthHeaders()}
	for range 7 {
		g.HeaderStyles = append(g.HeaderStyles, m.styles.Header)
	}
	for _, week := range mv.Weeks {
		var row []string
		var styles []lipgloss.Style
		for _, cell := range week {
			row = append(row, view.Truncate(view.MonthCell(cell.Date.Day(), cell.Count(), cell.Slots), colW))
			style := m.styles.MonthDay
			switch {
			case dateutil.SameDay(cell.Date, m.cursor.Day):
				style = m.styles.Cursor
			case !cell.InMonth:
				style = m.styles.MonthOutside
			case dateutil.SameDay(cell.Date, today):
				style = m.styles.MonthToday
			case cell.Count() > 0:
				style = m.styles.MonthBusy
			}
			styles = append(styles, style)
		}
		g.Rows = append(g.Rows, row)
		g.CellStyles = append(g.CellStyles, styles)
	}
	return g
}

// target is the drop target under the cursor.
func (m Model) target() dragdrop.Target {
	return dragdrop.Target{ResourceID: m.court(), Slot: m.cursor.Slot, Day: m.cursor.Day}
}

// occupant returns the booking under the cursor in day and week zoom.
func (m Model) occupant() *booking.Booking {
	if m.zoom == calendar.ZoomMonth {
		return nil
	}
	court := m.court()
	if court == "" {
		return nil
	}
	return m.table(court, m.cursor.Day).Occupant(m.cursor.Slot)
}
