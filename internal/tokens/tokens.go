// Package tokens provides approximate token accounting for the chat panel.
//
// The numbers are a length heuristic (about four characters per token) used only
// for the usage bars. They are not produced by a tokenizer and must not be used
// to enforce model limits.
package tokens

import (
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	// CharsPerToken is the ratio used by Estimate.
	CharsPerToken = 4

	// DefaultContextBudget is the composer bar budget when none is configured.
	DefaultContextBudget = 8000

	// HistoryTokenCap is the fixed budget of the history bar.
	HistoryTokenCap = 12000
)

// Estimate returns ceil(chars/4), floored at 1 even for empty text.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	est := (n + CharsPerToken - 1) / CharsPerToken
	if est < 1 {
		return 1
	}
	return est
}

// Usage is an estimated token count measured against a budget.
type Usage struct {
	Tokens  int
	Budget  int
	Percent int
}

// NewUsage estimates text against budget. A non-positive budget falls back to
// DefaultContextBudget.
func NewUsage(text string, budget int) Usage {
	if budget <= 0 {
		budget = DefaultContextBudget
	}
	est := Estimate(text)
	pct := int(math.Round(float64(est) / float64(budget) * 100))
	if pct > 100 {
		pct = 100
	}
	return Usage{Tokens: est, Budget: budget, Percent: pct}
}

// Ratio returns Percent as a fraction in [0, 1].
func (u Usage) Ratio() float64 {
	return float64(u.Percent) / 100
}

// Label renders the bar caption, e.g. "Context (approx): ~12 tokens / 8000 (0%)".
func (u Usage) Label(name string) string {
	return fmt.Sprintf("%s (approx): ~%d tokens / %d (%d%%)", name, u.Tokens, u.Budget, u.Percent)
}
