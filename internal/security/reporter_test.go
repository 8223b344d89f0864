package security

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/types"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/webhook"
)

// captureNotifier records forwarded messages
type captureNotifier struct {
	mu       sync.Mutex
	messages []webhook.Message
	err      error
	received chan struct{}
}

func newCaptureNotifier(err error) *captureNotifier {
	return &captureNotifier{err: err, received: make(chan struct{}, 8)}
}

func (c *captureNotifier) Send(_ context.Context, msg webhook.Message) error {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()

	c.received <- struct{}{}

	return c.err
}

func TestReportForwardsToNotifier(t *testing.T) {
	notifier := newCaptureNotifier(nil)
	reporter := New(WithNotifier(notifier))

	ev := types.NewSecurityEvent(types.OutcomeRateLimited, "203.0.113.5", "count 4 in window")
	reporter.Report(context.Background(), ev)

	select {
	case <-notifier.received:
	case <-time.After(time.Second):
		t.Fatal("event was never forwarded")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	if len(notifier.messages) != 1 {
		t.Fatalf("expected 1 forwarded message, got %d", len(notifier.messages))
	}

	embeds := notifier.messages[0].Embeds
	if len(embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(embeds))
	}

	var kinds []string
	for _, field := range embeds[0].Fields {
		if field.Name == "Kind" {
			kinds = append(kinds, field.Value)
		}

		if field.Value == "" {
			t.Errorf("embed field %q has an empty value", field.Name)
		}
	}

	if len(kinds) != 1 || kinds[0] != string(types.OutcomeRateLimited) {
		t.Errorf("expected kind field %q, got %v", types.OutcomeRateLimited, kinds)
	}
}

func TestReportWithoutNotifierOnlyLogs(t *testing.T) {
	reporter := New()

	// must not panic or block
	reporter.Report(context.Background(), types.NewSecurityEvent(types.OutcomeMalformed, "203.0.113.5", "bad body"))
}

func TestReportSurvivesCancelledRequestContext(t *testing.T) {
	notifier := newCaptureNotifier(nil)
	reporter := New(WithNotifier(notifier))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reporter.Report(ctx, types.NewSecurityEvent(types.OutcomeCaptchaFailed, "203.0.113.5", "token rejected"))

	select {
	case <-notifier.received:
	case <-time.After(time.Second):
		t.Fatal("forward should run on a detached context")
	}
}

func TestReportToleratesForwardFailure(t *testing.T) {
	notifier := newCaptureNotifier(errors.New("webhook down"))
	reporter := New(WithNotifier(notifier))

	reporter.Report(context.Background(), types.NewSecurityEvent(types.OutcomeSpamHeuristic, "203.0.113.5", "honeypot_filled"))

	select {
	case <-notifier.received:
	case <-time.After(time.Second):
		t.Fatal("forward attempt never happened")
	}
}
