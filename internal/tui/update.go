package tui

import (
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/dragdrop"
	"github.com/javiermolinar/courtside/internal/slot"
	"github.com/javiermolinar/courtside/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case commands.RangeLoadedMsg:
		if msg.Range != m.pending {
			m.logger.Debug().Str("from", msg.Range.Start.Format("2006-01-02")).Msg("dropping stale load")
			return m, nil
		}
		m.session.Replace(msg.Records, msg.Range)
		m.loading = false
		m.moveCourt(0)
		m.logger.Debug().Int("bookings", len(m.session.Bookings())).Msg("range loaded")
		return m, nil

	case commands.MoveSettledMsg:
		return m.settle(msg.Assignment, msg.Err)

	case commands.BookingCancelledMsg:
		m.logger.Info().Str("booking_id", msg.ID).Msg("booking cancelled")
		cmd := m.load(m.session.Loaded())
		m.statusMsg = "Booking cancelled"
		m.statusError = false
		return m, cmd

	case commands.FilterTranslatedMsg:
		m.filter = msg.Result.Set
		m.logger.Debug().Int("attempts", msg.Result.Attempts).Str("filter", msg.Result.Set.String()).Msg("question translated")
		text := msg.Result.Explanation
		if text == "" {
			text = "filter: " + msg.Result.Set.String()
		}
		return m.withStatus(text)

	case commands.ErrMsg:
		m.loading = false
		m.logger.Error().Err(msg.Err).Msg("command failed")
		return m.withError(msg.Err)

	case commands.StatusMsgCmd:
		return m.withStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusError = false
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// settle absorbs the store's answer to a move, then either patches the
// held list or reloads, and follows the booking with the cursor.
func (m Model) settle(a dragdrop.Assignment, moveErr error) (tea.Model, tea.Cmd) {
	reload, err := m.session.Settle(a, moveErr)
	if err != nil {
		cmd := m.load(m.session.Loaded())
		m.statusMsg = "Error: " + err.Error()
		m.statusError = true
		m.statusTime = time.Now().Add(5 * time.Second)
		return m, tea.Batch(cmd, commands.ClearStatusAfter(5*time.Second))
	}

	m.cursor.Day = dateutil.TruncateToDay(a.Start)
	m.cursor.Slot = m.clampSlot(slot.Of(a.Start))
	if i := slices.Index(m.resources(), a.ResourceID); i >= 0 {
		m.cursor.Court = i
	}
	m.ensureCursorVisible()

	var cmd tea.Cmd
	switch {
	case !m.session.Covers(m.zoom.Range(m.cursor.Day)):
		cmd = m.load(m.zoom.Range(m.cursor.Day))
	case reload:
		cmd = m.load(m.session.Loaded())
	}

	status := fmt.Sprintf("Moved to %s %s", m.config.CourtName(a.ResourceID), a.Start.Format("Mon 2 Jan 15:04"))
	m.statusMsg = status
	m.statusError = false
	m.statusTime = time.Now().Add(3 * time.Second)
	return m, tea.Batch(cmd, commands.ClearStatusAfter(3*time.Second))
}

// load starts fetching rng, superseding any load in flight.
func (m *Model) load(rng dateutil.DateRange) tea.Cmd {
	if rng.Start.IsZero() {
		return nil
	}
	m.loading = true
	m.pending = rng
	return commands.LoadRange(m.store, m.config.CourtIDs(), rng)
}

// ensureLoaded fetches the page under the cursor unless it is already held
// or on its way.
func (m *Model) ensureLoaded() tea.Cmd {
	rng := m.zoom.Range(m.cursor.Day)
	if m.session.Covers(rng) {
		return nil
	}
	if m.loading && m.pending.Contains(rng.Start) && m.pending.Contains(rng.End) {
		return nil
	}
	return m.load(rng)
}

// refresh makes sure the current page is loaded.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	cmd := m.ensureLoaded()
	return m, cmd
}

// footerHeight is the number of lines below the grid.
func (m Model) footerHeight() int {
	return min(3, max(m.height-8, 1))
}

// gridHeight is the number of lines available to the grid.
func (m Model) gridHeight() int {
	return max(m.height-1-m.footerHeight(), 0)
}
