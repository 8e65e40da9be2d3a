package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const evaluatorSystemPrompt = `You are a sports club operations analyst. Output ONLY the exact format shown - no markdown, no extra text. Be extremely concise.`

const weekPromptTemplate = `Review this week of court bookings and output EXACTLY this format (no markdown, no code blocks):

THEME: [ 2-4 word theme ]

📈 PEAK: One sentence on how full the peak window (%s-%s) was.
📉 SLACK: One sentence naming the emptiest court or day.
🔁 LATE: Mention bookings running past midnight, if any.

NEXT WEEK:
➜  First specific action to fill empty time.
➜  Second specific scheduling change.

Weekly Data:
%s

Rules:
- Use the exact emoji prefixes shown (📈, 📉, 🔁, ➜)
- Keep each line under 70 characters
- Be specific with courts, days and hours from the data
- If no issue exists for a category, omit that line
- Output plain text only, no markdown formatting`

// ErrEmptyWeek is returned when there is nothing to evaluate.
var ErrEmptyWeek = errors.New("no bookings to evaluate")

// EvalOpts configures the evaluation.
type EvalOpts struct {
	PeakStart string // HH:MM
	PeakEnd   string // HH:MM
}

// Evaluator asks the model for a short commentary on a week of bookings.
type Evaluator struct {
	client Client
	opts   EvalOpts
}

// NewEvaluator creates an Evaluator with the default evening peak window.
func NewEvaluator(client Client) *Evaluator {
	return NewEvaluatorWithOpts(client, EvalOpts{})
}

// NewEvaluatorWithOpts creates an Evaluator with options.
func NewEvaluatorWithOpts(client Client, opts EvalOpts) *Evaluator {
	if opts.PeakStart == "" {
		opts.PeakStart = "18:00"
	}
	if opts.PeakEnd == "" {
		opts.PeakEnd = "22:00"
	}
	return &Evaluator{client: client, opts: opts}
}

// BuildMessages returns the chat sent for a week digest.
func (e *Evaluator) BuildMessages(start, end time.Time, digest string) []Message {
	data := fmt.Sprintf("Week: %s - %s\n\n%s",
		start.Format("Mon Jan 2"), end.Format("Mon Jan 2, 2006"), strings.TrimSpace(digest))
	return []Message{
		{Role: RoleSystem, Content: evaluatorSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(weekPromptTemplate, e.opts.PeakStart, e.opts.PeakEnd, data)},
	}
}

// EvaluateWeek sends the digest to the model and returns its answer.
func (e *Evaluator) EvaluateWeek(ctx context.Context, start, end time.Time, digest string) (string, error) {
	if strings.TrimSpace(digest) == "" {
		return "", ErrEmptyWeek
	}
	answer, err := e.client.Chat(ctx, e.BuildMessages(start, end, digest))
	if err != nil {
		return "", fmt.Errorf("evaluating week: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
