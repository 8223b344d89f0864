// Package api provides the HTTP surface of the contact intake service: a
// health check and the contact submission endpoint with its gating pipeline.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/dispatch"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/form"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/mail"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/ratelimit"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/types"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/webhook"
)

// serviceName is reported by the health endpoint
const serviceName = "contactd"

// defaultCaptchaTimeout bounds the verification call from the handler's side
const defaultCaptchaTimeout = 5 * time.Second

// EventSubmissionAccepted is the event kind gating chat alerts for accepted
// submissions
const EventSubmissionAccepted = "submission-accepted"

// RateLimiter decides whether an identity may submit again
type RateLimiter interface {
	Allow(ctx context.Context, identity string) (ratelimit.Decision, error)
}

// CaptchaVerifier confirms a challenge token came from a human
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// MailSender delivers the contact notification email
type MailSender interface {
	Send(ctx context.Context, msg mail.Email) (string, error)
}

// ChatNotifier posts a chat alert message
type ChatNotifier interface {
	Send(ctx context.Context, msg webhook.Message) error
}

// SecurityReporter records rejected submissions
type SecurityReporter interface {
	Report(ctx context.Context, ev types.SecurityEvent)
}

// AbuseChecker applies the offline spam heuristics
type AbuseChecker interface {
	Check(sub *form.Submission, now time.Time) string
}

// Handler manages API endpoints
type Handler struct {
	limiter        RateLimiter
	abuse          AbuseChecker
	captcha        CaptchaVerifier
	mailer         MailSender
	chat           ChatNotifier
	reporter       SecurityReporter
	dispatcher     *dispatch.Dispatcher
	allowedOrigin  string
	trustProxy     bool
	maxBodySize    int64
	captchaTimeout time.Duration
	notifyEvents   []string
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// handleHealth returns service health status
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
