// Package ratelimit bounds contact submissions per client identity within a
// fixed time window. The counter store is the only shared mutable state in
// the service, so every increment must be atomic: two concurrent requests
// from the same identity must never both observe "under limit" when only one
// slot remains.
package ratelimit

import (
	"context"
	"time"
)

// Default limiter policy
const (
	DefaultWindow = 60 * time.Second
	DefaultMax    = 3
)

// Store persists per-identity submission counters with expiry.
type Store interface {
	// Incr atomically increments the counter for key within the current
	// window, starting a new window when none is active. It returns the
	// post-increment count and the time remaining until the window expires.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Decision is the limiter's verdict for one submission attempt.
type Decision struct {
	Allowed bool
	// Count is the post-increment submission count in the current window
	Count int64
	// RetryAfter is how long the client should wait before retrying; only
	// meaningful when Allowed is false
	RetryAfter time.Duration
}

// Limiter wraps a Store with the window/cap policy.
type Limiter struct {
	store  Store
	window time.Duration
	max    int64
}

// New creates a Limiter. Non-positive window or max fall back to the defaults.
func New(store Store, window time.Duration, max int64) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}

	if max <= 0 {
		max = DefaultMax
	}

	return &Limiter{
		store:  store,
		window: window,
		max:    max,
	}
}

// Allow records one submission attempt for identity and reports whether it
// is within the window cap. Denied attempts still count: probing while
// blocked does not earn a fresh window.
func (l *Limiter) Allow(ctx context.Context, identity string) (Decision, error) {
	count, remaining, err := l.store.Incr(ctx, identity, l.window)
	if err != nil {
		return Decision{}, err
	}

	if count > l.max {
		if remaining <= 0 {
			remaining = l.window
		}

		return Decision{Allowed: false, Count: count, RetryAfter: remaining}, nil
	}

	return Decision{Allowed: true, Count: count}, nil
}
