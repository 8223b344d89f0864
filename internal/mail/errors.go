package mail

import "errors"

var (
	// ErrMissingAPIKey is returned when the email API key is not configured
	ErrMissingAPIKey = errors.New("email API key is required")
	// ErrMissingAddress is returned when the sender or recipient address is not configured
	ErrMissingAddress = errors.New("email sender and recipient are required")
	// ErrDeliveryFailed is returned when the email API request fails
	ErrDeliveryFailed = errors.New("email delivery failed")
	// ErrUnexpectedStatus is returned when the email API returns an unexpected HTTP status
	ErrUnexpectedStatus = errors.New("unexpected email API response status")
)
