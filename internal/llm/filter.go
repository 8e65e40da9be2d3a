package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/filter"
)

// ErrEmptyQuestion is returned when there is nothing to translate.
var ErrEmptyQuestion = errors.New("question is empty")

const filterPrompt = `You turn a court-booking desk operator's question into a booking filter.

Context:
- Today: %s (%s)
- Operator: %s
- Courts: %s
- Booking types seen: %s
- Statuses: %s

Question: "%s"

Rules:
- Only use court ids from the list above. Leave "courts" empty for every court.
- "statuses" empty keeps the default (confirmed and pending). Use ["all"] to include everything.
- Hours are 24-hour HH:MM on the half-hour grid. "hours_to" at or before "hours_from" wraps past midnight.
- "window" is one of "all", "today", "week", "month", or "custom" with "from"/"to" as YYYY-MM-DD.
- "mine_only" is true only when the operator asks for their own bookings.
- Put names, notes or other words to search for in "text".

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "courts": ["string"],
  "statuses": ["string"],
  "types": ["string"],
  "hours_from": "HH:MM",
  "hours_to": "HH:MM",
  "window": "all" | "today" | "week" | "month" | "custom",
  "from": "YYYY-MM-DD",
  "to": "YYYY-MM-DD",
  "text": "string",
  "mine_only": false,
  "explanation": "one short sentence"
}`

const filterPromptCompact = `Turn the question into a booking filter. Return JSON only.
Today: %s (%s). Operator: %s. Courts: %s. Types: %s. Statuses: %s.
Question: "%s"
JSON keys: courts, statuses, types, hours_from, hours_to (HH:MM), window (all|today|week|month|custom),
from, to (YYYY-MM-DD), text, mine_only (bool), explanation.`

// FilterRequest is the context given to the model.
type FilterRequest struct {
	Question string
	Now      time.Time
	Operator string
	Courts   []string
	Types    []string
	Compact  bool // shorter prompt for local models
}

// FilterResponse is the model's structured answer.
type FilterResponse struct {
	Courts      []string `json:"courts"`
	Statuses    []string `json:"statuses"`
	Types       []string `json:"types"`
	HoursFrom   string   `json:"hours_from"`
	HoursTo     string   `json:"hours_to"`
	Window      string   `json:"window"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Text        string   `json:"text"`
	MineOnly    bool     `json:"mine_only"`
	Explanation string   `json:"explanation"`
}

// ToSet validates the answer and builds a filter on top of filter.Default.
// Courts not in known are rejected when known is non-empty.
func (r *FilterResponse) ToSet(known []string) (filter.Set, error) {
	set := filter.Default()
	var errs []error

	for _, c := range clean(r.Courts) {
		if len(known) == 0 {
			set.Courts = append(set.Courts, c)
			continue
		}
		id, ok := lookupFold(known, c)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown court %q", c))
			continue
		}
		set.Courts = append(set.Courts, id)
	}
	set.Types = clean(r.Types)

	if statuses := clean(r.Statuses); len(statuses) > 0 {
		st, err := filter.StatusesOf(statuses)
		if err != nil {
			errs = append(errs, err)
		}
		set.Statuses = st
	}

	hours, err := filter.HoursOf(strings.TrimSpace(r.HoursFrom), strings.TrimSpace(r.HoursTo))
	if err != nil {
		errs = append(errs, err)
	}
	set.Hours = hours

	window := strings.ToLower(strings.TrimSpace(r.Window))
	switch window {
	case "":
	case string(filter.PresetCustom):
		w, err := filter.WindowOf(strings.TrimSpace(r.From) + ".." + strings.TrimSpace(r.To))
		if err != nil {
			errs = append(errs, err)
		}
		set.Window = w
	default:
		w, err := filter.WindowOf(window)
		if err != nil {
			errs = append(errs, err)
		}
		set.Window = w
	}

	set.Text = strings.TrimSpace(r.Text)
	set.MineOnly = r.MineOnly

	if len(errs) > 0 {
		return filter.Set{}, errors.Join(errs...)
	}
	return set, nil
}

// FilterResult is a translated question.
type FilterResult struct {
	Set         filter.Set
	Explanation string
	Attempts    int
}

// Translator turns natural-language questions into filter sets.
type Translator struct {
	client     Client
	maxRetries int
}

// NewTranslator creates a Translator that retries invalid answers up to maxRetries times.
func NewTranslator(client Client, maxRetries int) *Translator {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Translator{client: client, maxRetries: maxRetries}
}

// BuildMessages creates the initial conversation for req.
func (t *Translator) BuildMessages(req FilterRequest) []Message {
	operator := req.Operator
	if operator == "" {
		operator = "(not set)"
	}
	courts := listOrAny(req.Courts)
	types := listOrAny(req.Types)
	statuses := make([]string, len(booking.Statuses))
	for i, s := range booking.Statuses {
		statuses[i] = string(s)
	}

	tmpl := filterPrompt
	if req.Compact {
		tmpl = filterPromptCompact
	}
	prompt := fmt.Sprintf(tmpl,
		req.Now.Format("2006-01-02"),
		req.Now.Format("Monday"),
		operator,
		courts,
		types,
		strings.Join(statuses, ", "),
		req.Question,
	)
	return []Message{{Role: RoleSystem, Content: prompt}, {Role: RoleUser, Content: req.Question}}
}

// Translate asks the model for a filter. Answers that fail validation are
// sent back with the errors until maxRetries is exhausted.
func (t *Translator) Translate(ctx context.Context, req FilterRequest) (*FilterResult, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, ErrEmptyQuestion
	}

	messages := t.BuildMessages(req)
	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		var resp FilterResponse
		if err := t.client.ChatJSON(ctx, messages, &resp); err != nil {
			return nil, fmt.Errorf("translating question (attempt %d): %w", attempt+1, err)
		}

		set, err := resp.ToSet(req.Courts)
		if err == nil {
			return &FilterResult{Set: set, Explanation: resp.Explanation, Attempts: attempt + 1}, nil
		}
		lastErr = err

		answer, _ := json.Marshal(resp)
		messages = append(messages,
			Message{Role: RoleAssistant, Content: string(answer)},
			Message{Role: RoleUser, Content: "That filter is invalid:\n" + err.Error() + "\nReturn corrected JSON only."},
		)
	}
	return nil, fmt.Errorf("invalid filter after %d attempts: %w", t.maxRetries+1, lastErr)
}

func clean(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// lookupFold returns the entry of items equal to v ignoring case.
func lookupFold(items []string, v string) (string, bool) {
	for _, item := range items {
		if strings.EqualFold(item, v) {
			return item, true
		}
	}
	return "", false
}

func listOrAny(items []string) string {
	if len(items) == 0 {
		return "(any)"
	}
	return strings.Join(items, ", ")
}
