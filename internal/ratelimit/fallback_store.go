package ratelimit

import (
	"sync"
	"time"
)

// FallbackStore is the volatile in-process counter used when the remote
// store is unreachable. It applies FallbackPolicy per identifier regardless
// of the purpose-specific policy that was in effect, lives for the process
// lifetime only, and resets on restart. It is a degrade-gracefully safety
// net, not a correctness guarantee: multiple instances each count
// independently.
type FallbackStore struct {
	mu      sync.Mutex
	entries map[string]*fallbackEntry
	now     func() time.Time
}

type fallbackEntry struct {
	start time.Time
	count int
}

// NewFallbackStore creates an empty fallback store.
func NewFallbackStore() *FallbackStore {
	return NewFallbackStoreWithClock(time.Now)
}

// NewFallbackStoreWithClock is NewFallbackStore with an injected time source
// for tests.
func NewFallbackStoreWithClock(now func() time.Time) *FallbackStore {
	return &FallbackStore{
		entries: make(map[string]*fallbackEntry),
		now:     now,
	}
}

// Incr records a hit for identifier and returns the resulting count in the
// current window and the window's reset time. The mutex makes the
// read-compare-write cycle atomic across concurrent requests for the same
// identifier.
func (s *FallbackStore) Incr(identifier string) (int, time.Time) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)

	e := s.entries[identifier]
	if e == nil || now.Sub(e.start) >= FallbackPolicy.Window {
		e = &fallbackEntry{start: now, count: 0}
		s.entries[identifier] = e
	}
	e.count++
	return e.count, e.start.Add(FallbackPolicy.Window)
}

// Count reads the current window count without recording a hit.
func (s *FallbackStore) Count(identifier string) (int, time.Time) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[identifier]
	if e == nil || now.Sub(e.start) >= FallbackPolicy.Window {
		return 0, now.Add(FallbackPolicy.Window)
	}
	return e.count, e.start.Add(FallbackPolicy.Window)
}

// pruneLocked drops expired windows once the map grows large, bounding
// memory during a prolonged remote-store outage. Caller holds the mutex.
func (s *FallbackStore) pruneLocked(now time.Time) {
	if len(s.entries) < 4096 {
		return
	}
	for id, e := range s.entries {
		if now.Sub(e.start) >= FallbackPolicy.Window {
			delete(s.entries, id)
		}
	}
}
