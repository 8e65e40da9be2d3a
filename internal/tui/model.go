// Package tui provides the terminal calendar for courtside.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/calendar"
	"github.com/javiermolinar/courtside/internal/config"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/dragdrop"
	"github.com/javiermolinar/courtside/internal/filter"
	"github.com/javiermolinar/courtside/internal/slot"
	"github.com/javiermolinar/courtside/internal/tui/commands"
	"github.com/javiermolinar/courtside/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	// ModeDrag means a booking is picked up.
	ModeDrag
	ModePrompt
	ModeModal
)

func (m Mode) String() string {
	switch m {
	case ModeDrag:
		return "drag"
	case ModePrompt:
		return "prompt"
	case ModeModal:
		return "modal"
	default:
		return "normal"
	}
}

// PromptKind identifies what the prompt line is asking for.
type PromptKind int

const (
	PromptFilter PromptKind = iota
	PromptAsk
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalDetail
	ModalConfirmCancel
	ModalHelp
)

// Cursor is the focused cell. Day is used at every zoom, Court indexes the
// court list and Slot is a half-hour slot of Day.
type Cursor struct {
	Day   time.Time
	Court int
	Slot  int
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store   booking.Store
	config  *config.Config
	session *calendar.Session
	logger  zerolog.Logger
	now     func() time.Time

	theme  *theme.Theme
	styles *Styles

	// State
	zoom    calendar.Zoom
	cursor  Cursor
	mode    Mode
	filter  filter.Set
	drag    dragdrop.Machine
	loading bool
	pending dateutil.DateRange // range requested by the last load

	// Visible slots of a day: [firstSlot, lastSlot)
	firstSlot int
	lastSlot  int

	// Prompt
	promptKind PromptKind
	prompt     textinput.Model

	// Modal
	modalType    ModalType
	modalBooking *booking.Booking

	// Terminal dimensions
	width        int
	height       int
	scrollOffset int

	// Messages
	statusMsg   string
	statusError bool
	statusTime  time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger for key presses and store answers.
func WithLogger(l zerolog.Logger) ModelOption {
	return func(m *Model) { m.logger = l }
}

// WithClock overrides the clock used for "today".
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) { m.now = now }
}

// New creates a new TUI model.
func New(store booking.Store, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.Default()
	}
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.CharLimit = 256
	ti.TextStyle = styles.PromptText
	ti.PromptStyle = styles.PromptText
	ti.PlaceholderStyle = styles.PromptPlaceholder

	zoom, _ := calendar.ParseZoom(cfg.UI.DefaultZoom)

	m := &Model{
		store:     store,
		config:    cfg,
		logger:    zerolog.Nop(),
		now:       time.Now,
		theme:     t,
		styles:    styles,
		zoom:      zoom,
		mode:      ModeNormal,
		filter:    filter.Default(),
		prompt:    ti,
		firstSlot: 0,
		lastSlot:  slot.PerDay,
	}
	for _, opt := range opts {
		opt(m)
	}

	loc, err := cfg.Location()
	if err != nil {
		m.logger.Warn().Err(err).Msg("invalid timezone, using local time")
		loc = time.Local
	}
	m.session = calendar.NewSession(store, loc,
		calendar.WithResources(cfg.CourtIDs()),
		calendar.WithOperator(cfg.Club.Operator),
		calendar.WithLogger(m.logger),
	)

	if s, err := slot.Index(cfg.Schedule.DayStart); err == nil {
		m.firstSlot = s
	}
	if s, err := slot.Index(cfg.Schedule.DayEnd); err == nil && s > m.firstSlot {
		m.lastSlot = s
	}

	now := m.now().In(loc)
	m.cursor = Cursor{Day: dateutil.TruncateToDay(now), Slot: m.clampSlot(slot.Of(now))}
	m.pending = m.zoom.Range(m.cursor.Day)
	m.loading = true
	return m
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return commands.LoadRange(m.store, m.config.CourtIDs(), m.pending)
}

// Run starts the TUI. The caller owns store and closes it.
func Run(store booking.Store, cfg *config.Config, logger zerolog.Logger) error {
	model := New(store, cfg, WithLogger(logger))
	p := tea.NewProgram(*model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// today returns local midnight of the current day.
func (m Model) today() time.Time {
	return dateutil.TruncateToDay(m.now().In(m.session.Location()))
}

// resources returns the courts shown, in display order.
func (m Model) resources() []string {
	return m.session.Resources()
}

// court returns the court under the cursor, or "".
func (m Model) court() string {
	res := m.resources()
	if len(res) == 0 {
		return ""
	}
	return res[min(max(m.cursor.Court, 0), len(res)-1)]
}

func (m Model) clampSlot(s int) int {
	return min(max(s, m.firstSlot), m.lastSlot-1)
}
