package tui

import (
	"strings"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/tui/view"
)

func (m Model) renderModal() string {
	styles := m.styles.Modal
	switch m.modalType {
	case ModalDetail:
		b := m.modalBooking
		if b == nil {
			return ""
		}
		footer := "y: copy  m: move  x: cancel booking  esc: close"
		if b.IsCancelled() {
			footer = "y: copy  esc: close"
		}
		return view.RenderModalFrame("Booking", view.RenderFields(m.detailFields(b), styles), footer, styles)

	case ModalConfirmCancel:
		b := m.modalBooking
		if b == nil {
			return ""
		}
		body := styles.Body.Render("Cancel " + view.CardText(b.CustomerName, b.Type, b.ID) +
			" on " + m.config.CourtName(b.ResourceID) + ", " + b.Date.Format("Mon 2 Jan") + " " + b.Label() + "?")
		return view.RenderModalFrame("Cancel booking", body, "y: cancel it  n: keep", styles)

	case ModalHelp:
		return view.RenderModalFrame("Keys", view.RenderFields(helpFields, styles), "esc: close", styles)
	}
	return ""
}

// detailFields lists a booking's details for the detail modal and clipboard.
func (m Model) detailFields(b *booking.Booking) []view.Field {
	if b == nil {
		return nil
	}
	date := b.Date.Format("Mon 2 Jan 2006")
	if b.IsOvernight() {
		date += " → " + b.LastDay().Format("Mon 2 Jan")
	}
	return []view.Field{
		{Label: "Court", Value: m.config.CourtName(b.ResourceID)},
		{Label: "Date", Value: date},
		{Label: "Time", Value: b.Label()},
		{Label: "Length", Value: view.FormatSlots(b.Slots())},
		{Label: "Status", Value: string(b.Status)},
		{Label: "Type", Value: b.Type},
		{Label: "Customer", Value: b.CustomerName},
		{Label: "Category", Value: b.CategoryName},
		{Label: "Price", Value: view.FormatPrice(b.Price)},
		{Label: "Payment", Value: b.PaymentStatus},
		{Label: "Created by", Value: b.CreatedBy},
		{Label: "Notes", Value: strings.TrimSpace(b.Notes)},
		{Label: "ID", Value: b.ID},
	}
}

var helpFields = []view.Field{
	{Label: "h j k l", Value: "move the cursor (courts in day view, days in week view)"},
	{Label: "H / L", Value: "previous / next page"},
	{Label: "[ / ]", Value: "previous / next court"},
	{Label: "tab 1 2 3", Value: "cycle zoom, day, week, month"},
	{Label: "t", Value: "today"},
	{Label: "enter", Value: "booking details, or open a month day"},
	{Label: "m", Value: "pick up a booking, enter drops it"},
	{Label: "/", Value: "filter, e.g. court:A status:all hours:18:00-22:00"},
	{Label: "a", Value: "ask a question to build a filter"},
	{Label: "c M F", Value: "toggle cancelled, mine only, clear filters"},
	{Label: "r", Value: "reload"},
	{Label: "q", Value: "quit"},
}
