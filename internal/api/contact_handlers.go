package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/dispatch"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/form"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/mail"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/types"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/webhook"
)

// bookkeepingTimeout bounds detached rate-limit store calls
const bookkeepingTimeout = 3 * time.Second

// handleContact runs the submission pipeline: classify, rate-limit, spam
// heuristics, captcha verification, then notification dispatch. Each stage
// short-circuits to a rejection; only a submission surviving every gate
// reaches dispatch.
func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	identity := clientIdentity(r, h.trustProxy)

	sub, ferr := h.classify(w, r)
	if ferr != nil {
		h.reporter.Report(r.Context(), types.NewSecurityEvent(types.OutcomeMalformed, identity, ferr.Message))
		writeReject(w, types.OutcomeMalformed, ferr.Message)

		return
	}

	// Rate limiting runs before any outbound call so already-blocked traffic
	// never spends verification-service quota. The store call is detached
	// from the request context: a client disconnect must not skip accounting.
	limitCtx, cancelLimit := context.WithTimeout(context.WithoutCancel(r.Context()), bookkeepingTimeout)
	defer cancelLimit()

	decision, err := h.limiter.Allow(limitCtx, identity)
	if err != nil {
		// Counter store outage degrades to allowing the request; captcha
		// remains fail-closed so abuse still meets a gate.
		log.Error().Err(err).Str("identity", identity).Msg("rate limit store unavailable, allowing request")
	} else if !decision.Allowed {
		h.reporter.Report(r.Context(), types.NewSecurityEvent(
			types.OutcomeRateLimited, identity, fmt.Sprintf("count %d in window", decision.Count)))

		w.Header().Set("Retry-After", strconv.Itoa(int(decision.RetryAfter.Seconds())+1))
		writeReject(w, types.OutcomeRateLimited, "too many submissions, try again later")

		return
	}

	if reason := h.abuse.Check(sub, time.Now()); reason != "" {
		h.reporter.Report(r.Context(), types.NewSecurityEvent(types.OutcomeSpamHeuristic, identity, reason))
		writeReject(w, types.OutcomeSpamHeuristic, genericRejectMessage)

		return
	}

	// Verification is awaited and detached: the outcome must be definitive
	// even if the client has gone away.
	verifyCtx, cancelVerify := context.WithTimeout(context.WithoutCancel(r.Context()), h.captchaTimeout)
	defer cancelVerify()

	if err := h.captcha.Verify(verifyCtx, sub.CaptchaToken, identity); err != nil {
		h.reporter.Report(r.Context(), types.NewSecurityEvent(types.OutcomeCaptchaFailed, identity, err.Error()))
		writeReject(w, types.OutcomeCaptchaFailed, genericRejectMessage)

		return
	}

	reference := uuid.NewString()

	results := h.dispatcher.Dispatch(r.Context(), h.notificationJobs(sub, identity, reference))
	for _, res := range results {
		if res.Err != nil {
			// The submission is already legitimate by this point; delivery
			// failure is operational, not a client error.
			log.Warn().Str("job", res.Name).Str("reference", reference).Msg("mandatory notification failed after acceptance")
		}
	}

	writeJSON(w, http.StatusOK, ContactResponse{Success: true, Reference: reference})
}

// classify parses and validates the inbound submission shape and origin
// precondition, returning a well-formed Submission or the first violation.
func (h *Handler) classify(w http.ResponseWriter, r *http.Request) (*form.Submission, *form.FieldError) {
	if origin := r.Header.Get("Origin"); origin != h.allowedOrigin {
		return nil, &form.FieldError{Field: "origin", Message: ErrOriginNotAllowed.Error()}
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var sub form.Submission
	if err := decodeJSONBody(r, &sub); err != nil {
		return nil, &form.FieldError{Message: "invalid request body"}
	}

	if ferr := sub.Validate(); ferr != nil {
		return nil, ferr
	}

	return &sub, nil
}

// notificationJobs builds the delivery jobs for an accepted submission: the
// mandatory email and, when configured, the optional chat alert. The email
// body uses the escaped field accessors; raw user text never reaches an
// HTML-rendering sink.
func (h *Handler) notificationJobs(sub *form.Submission, identity, reference string) []dispatch.Job {
	var jobs []dispatch.Job

	if h.mailer != nil {
		jobs = append(jobs, dispatch.Job{
			Name:      "email",
			Mandatory: true,
			Run: func(ctx context.Context) error {
				msgID, err := h.mailer.Send(ctx, mail.Email{
					ReplyTo: sub.Email,
					Subject: fmt.Sprintf("New contact message from %s", sub.Name),
					HTML:    buildEmailBody(sub, identity, reference),
				})
				if err != nil {
					return err
				}

				log.Info().Str("message_id", msgID).Str("reference", reference).Msg("contact email delivered")

				return nil
			},
		})
	}

	if h.chat != nil && lo.Contains(h.notifyEvents, EventSubmissionAccepted) {
		jobs = append(jobs, dispatch.Job{
			Name: "chat",
			Run: func(ctx context.Context) error {
				return h.chat.Send(ctx, chatMessage(sub, reference))
			},
		})
	}

	return jobs
}

// buildEmailBody renders the notification email HTML from escaped submission
// fields
func buildEmailBody(sub *form.Submission, identity, reference string) string {
	return fmt.Sprintf(
		"<h2>New contact message</h2>"+
			"<p><strong>Name:</strong> %s</p>"+
			"<p><strong>Email:</strong> %s</p>"+
			"<p><strong>Message:</strong></p><p>%s</p>"+
			"<hr><p><small>Reference %s · submitted from %s</small></p>",
		sub.EscapedName(), sub.EscapedEmail(), sub.EscapedMessage(), reference, identity,
	)
}

// chatMessage renders the chat alert for an accepted submission. Chat is a
// plain-text sink, so fields are sent unescaped.
func chatMessage(sub *form.Submission, reference string) webhook.Message {
	return webhook.Message{
		Embeds: []webhook.Embed{
			{
				Title:     "New contact message",
				Color:     0x2ECC71,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Fields: []webhook.EmbedField{
					{Name: "Name", Value: sub.Name, Inline: true},
					{Name: "Email", Value: sub.Email, Inline: true},
					{Name: "Message", Value: truncate(sub.Message, 1000)},
					{Name: "Reference", Value: reference},
				},
			},
		},
	}
}

// truncate shortens s to at most n runes for embed display
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n]) + "…"
}
