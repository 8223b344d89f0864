package config

import "errors"

var (
	// ErrConfigLoad is returned when a configuration source cannot be read
	ErrConfigLoad = errors.New("failed to load configuration")
	// ErrConfigUnmarshal is returned when config unmarshalling fails
	ErrConfigUnmarshal = errors.New("failed to unmarshal configuration")
	// ErrMissingAllowedOrigin is returned when no allowed origin is configured
	ErrMissingAllowedOrigin = errors.New("allowed origin is required")
	// ErrMissingCaptchaSecret is returned when no captcha secret key is configured
	ErrMissingCaptchaSecret = errors.New("captcha secret key is required")
	// ErrInvalidRateLimit is returned when the rate limit window or cap is not positive
	ErrInvalidRateLimit = errors.New("rate limit window and max must be positive")
)
