package ratelimit

import "errors"

var (
	// ErrStoreUnavailable is returned when the counter store cannot be reached
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)
