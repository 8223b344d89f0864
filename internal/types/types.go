// Package types holds the shared result types produced by the contact
// submission pipeline and consumed across packages.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Outcome identifies the terminal result of processing a contact submission.
type Outcome string

const (
	// OutcomeAccepted means the submission passed every gate and was dispatched
	OutcomeAccepted Outcome = "accepted"
	// OutcomeRateLimited means the client exceeded the per-identity submission cap
	OutcomeRateLimited Outcome = "rejected_rate_limited"
	// OutcomeSpamHeuristic means the honeypot or fill-time check flagged the submission
	OutcomeSpamHeuristic Outcome = "rejected_spam_heuristic"
	// OutcomeCaptchaFailed means the challenge token could not be verified
	OutcomeCaptchaFailed Outcome = "rejected_captcha_failed"
	// OutcomeMalformed means the request shape or field contents were invalid
	OutcomeMalformed Outcome = "rejected_malformed"
)

// Rejected reports whether the outcome is any rejection kind
func (o Outcome) Rejected() bool {
	return o != OutcomeAccepted
}

// SecurityEvent records a rejected submission for operational visibility.
// Events are ephemeral: they are logged and optionally forwarded to an alert
// webhook, never persisted.
type SecurityEvent struct {
	ID         string    `json:"id"`
	Kind       Outcome   `json:"kind"`
	Identity   string    `json:"identity"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewSecurityEvent builds a SecurityEvent stamped with a fresh id and the
// current time
func NewSecurityEvent(kind Outcome, identity, detail string) SecurityEvent {
	return SecurityEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		Identity:   identity,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
}
