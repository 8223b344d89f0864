package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Janitor defaults for the in-memory store
const (
	defaultIdleTTL      = 15 * time.Minute
	defaultCleanupEvery = 2 * time.Minute
)

// record tracks one identity's submissions in the current window
type record struct {
	windowStart time.Time
	count       int64
}

// MemoryStore is a mutex-guarded in-process counter store. Suitable for a
// single-instance deployment and for tests; use RedisStore when the service
// runs more than one replica.
type MemoryStore struct {
	mu           sync.Mutex
	records      map[string]*record
	now          func() time.Time
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

// MemoryOption configures the MemoryStore
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCleanupEvery overrides how often expired records are evicted
func WithCleanupEvery(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.cleanupEvery = d
	}
}

// NewMemoryStore creates an empty in-memory counter store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		records:      make(map[string]*record),
		now:          time.Now,
		idleTTL:      defaultIdleTTL,
		cleanupEvery: defaultCleanupEvery,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Incr implements Store. A request arriving exactly at the window boundary
// belongs to the new window.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || now.Sub(rec.windowStart) >= window {
		s.records[key] = &record{windowStart: now, count: 1}

		return 1, window, nil
	}

	rec.count++

	return rec.count, rec.windowStart.Add(window).Sub(now), nil
}

// Cleanup evicts records whose window expired longer than the idle TTL ago
func (s *MemoryStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, rec := range s.records {
		if rec.windowStart.Before(cutoff) {
			delete(s.records, key)
		}
	}
}

// StartJanitor runs periodic cleanup until the context is cancelled
func (s *MemoryStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	ticker := time.NewTicker(s.cleanupEvery)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}
