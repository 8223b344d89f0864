package captcha

import "errors"

var (
	// ErrMissingSecretKey is returned when the verification secret key is not configured
	ErrMissingSecretKey = errors.New("captcha secret key is required")
	// ErrVerificationUnavailable is returned when the verification service cannot be reached
	ErrVerificationUnavailable = errors.New("captcha verification unavailable")
	// ErrUnexpectedStatus is returned when the verification service returns an unexpected HTTP status
	ErrUnexpectedStatus = errors.New("unexpected captcha verification response status")
	// ErrTokenRejected is returned when the verification service reports the token as invalid
	ErrTokenRejected = errors.New("captcha token rejected")
)
