package webhook

import "errors"

var (
	// ErrMissingWebhookURL is returned when the webhook URL is not configured
	ErrMissingWebhookURL = errors.New("webhook URL is required")
	// ErrNotificationFailed is returned when a webhook request fails
	ErrNotificationFailed = errors.New("webhook notification failed")
	// ErrUnexpectedStatus is returned when the webhook returns an unexpected HTTP status
	ErrUnexpectedStatus = errors.New("unexpected webhook response status")
)
