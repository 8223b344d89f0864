// Package abuse applies the cheap, offline spam heuristics that gate the
// expensive CAPTCHA verification call: the honeypot field and the minimum
// form fill time.
package abuse

import (
	"time"

	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/form"
)

// Reasons reported when a submission looks automated
const (
	ReasonHoneypotFilled    = "honeypot_filled"
	ReasonSubmittedTooFast  = "submitted_too_fast"
	ReasonImplausibleRender = "implausible_render_time"
)

// defaultMinFillTime is how long a human plausibly needs to fill the form
const defaultMinFillTime = 3 * time.Second

// Checker evaluates a validated submission against the spam heuristics.
// Either check alone is sufficient to reject.
type Checker struct {
	minFillTime time.Duration
}

// Option configures the Checker
type Option func(*Checker)

// WithMinFillTime overrides the minimum elapsed time between form render and
// submission
func WithMinFillTime(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.minFillTime = d
		}
	}
}

// New creates a Checker with the default thresholds
func New(opts ...Option) *Checker {
	c := &Checker{
		minFillTime: defaultMinFillTime,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Check decides spam vs. legitimate without network calls. It returns an
// empty string for a plausible human submission, otherwise the reason the
// submission was flagged.
func (c *Checker) Check(sub *form.Submission, now time.Time) string {
	if sub.Company != "" {
		return ReasonHoneypotFilled
	}

	// A missing or future render time cannot attest a plausible fill time,
	// so it is treated the same as submitting too fast.
	renderedAt := sub.RenderedAt.Time
	if renderedAt.IsZero() || renderedAt.After(now) {
		return ReasonImplausibleRender
	}

	if now.Sub(renderedAt) < c.minFillTime {
		return ReasonSubmittedTooFast
	}

	return ""
}
