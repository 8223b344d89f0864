// Package security records rejected submissions as structured security
// events and optionally forwards them to an alert webhook.
package security

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/types"
	"github.com/taeyoon0526/taeyoon.kr-sub000/internal/webhook"
)

// defaultForwardTimeout bounds the async webhook forward for one event
const defaultForwardTimeout = 10 * time.Second

// alertColor is the embed accent color for security alerts (red)
const alertColor = 0xE74C3C

// Notifier forwards a message to an alert channel
type Notifier interface {
	Send(ctx context.Context, msg webhook.Message) error
}

// Reporter logs security events and forwards them to the configured alert
// webhook. A nil notifier disables forwarding; logging always happens.
type Reporter struct {
	notifier       Notifier
	forwardTimeout time.Duration
}

// Option configures the Reporter
type Option func(*Reporter)

// WithNotifier sets the alert webhook notifier
func WithNotifier(n Notifier) Option {
	return func(r *Reporter) {
		r.notifier = n
	}
}

// WithForwardTimeout overrides the per-event forward timeout
func WithForwardTimeout(d time.Duration) Option {
	return func(r *Reporter) {
		if d > 0 {
			r.forwardTimeout = d
		}
	}
}

// New creates a Reporter
func New(opts ...Option) *Reporter {
	r := &Reporter{
		forwardTimeout: defaultForwardTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Report logs the event and forwards it to the alert webhook when one is
// configured. Forwarding runs on a context detached from the request, so a
// client disconnect cannot drop the alert.
func (r *Reporter) Report(ctx context.Context, ev types.SecurityEvent) {
	log.Warn().
		Str("event_id", ev.ID).
		Str("kind", string(ev.Kind)).
		Str("identity", ev.Identity).
		Str("detail", ev.Detail).
		Msg("security event")

	if r.notifier == nil {
		return
	}

	go func() {
		fwdCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.forwardTimeout)
		defer cancel()

		if err := r.notifier.Send(fwdCtx, eventMessage(ev)); err != nil {
			log.Error().Err(err).Str("event_id", ev.ID).Msg("security event forward failed")
		}
	}()
}

// eventMessage renders a security event as an alert webhook embed. Discord
// rejects embed fields with empty values, so optional fields are skipped.
func eventMessage(ev types.SecurityEvent) webhook.Message {
	fields := []webhook.EmbedField{
		{Name: "Kind", Value: string(ev.Kind), Inline: true},
		{Name: "Identity", Value: ev.Identity, Inline: true},
	}

	if ev.Detail != "" {
		fields = append(fields, webhook.EmbedField{Name: "Detail", Value: ev.Detail})
	}

	fields = append(fields, webhook.EmbedField{Name: "Event ID", Value: ev.ID})

	return webhook.Message{
		Embeds: []webhook.Embed{
			{
				Title:     "Contact form submission rejected",
				Color:     alertColor,
				Timestamp: ev.OccurredAt.Format(time.RFC3339),
				Fields:    fields,
			},
		},
	}
}
