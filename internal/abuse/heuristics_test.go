package abuse

import (
	"testing"
	"time"

	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/form"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func submission(renderedAt time.Time) *form.Submission {
	return &form.Submission{
		Name:         "Jordan Kim",
		Email:        "jordan@example.com",
		Message:      "hello",
		RenderedAt:   form.Timestamp{Time: renderedAt},
		CaptchaToken: "tok-1",
	}
}

func TestCheckPassesPlausibleSubmission(t *testing.T) {
	checker := New()

	if reason := checker.Check(submission(now.Add(-time.Minute)), now); reason != "" {
		t.Errorf("expected pass, got reason %q", reason)
	}
}

func TestCheckRejectsFilledHoneypot(t *testing.T) {
	checker := New()

	sub := submission(now.Add(-time.Minute))
	sub.Company = "Definitely A Real Company"

	if reason := checker.Check(sub, now); reason != ReasonHoneypotFilled {
		t.Errorf("expected %q, got %q", ReasonHoneypotFilled, reason)
	}
}

func TestCheckRejectsTooFast(t *testing.T) {
	checker := New(WithMinFillTime(3 * time.Second))

	if reason := checker.Check(submission(now.Add(-time.Second)), now); reason != ReasonSubmittedTooFast {
		t.Errorf("expected %q, got %q", ReasonSubmittedTooFast, reason)
	}
}

func TestCheckAcceptsExactThreshold(t *testing.T) {
	checker := New(WithMinFillTime(3 * time.Second))

	if reason := checker.Check(submission(now.Add(-3*time.Second)), now); reason != "" {
		t.Errorf("expected pass at exact threshold, got %q", reason)
	}
}

func TestCheckRejectsMissingRenderTime(t *testing.T) {
	checker := New()

	if reason := checker.Check(submission(time.Time{}), now); reason != ReasonImplausibleRender {
		t.Errorf("expected %q, got %q", ReasonImplausibleRender, reason)
	}
}

func TestCheckRejectsFutureRenderTime(t *testing.T) {
	checker := New()

	if reason := checker.Check(submission(now.Add(time.Hour)), now); reason != ReasonImplausibleRender {
		t.Errorf("expected %q, got %q", ReasonImplausibleRender, reason)
	}
}

// the honeypot verdict must not depend on any other field being plausible
func TestHoneypotWinsOverValidTiming(t *testing.T) {
	checker := New()

	sub := submission(now.Add(-time.Hour))
	sub.Company = "bot inc"
	sub.CaptchaToken = "perfectly-valid-token"

	if reason := checker.Check(sub, now); reason != ReasonHoneypotFilled {
		t.Errorf("expected honeypot rejection, got %q", reason)
	}
}
