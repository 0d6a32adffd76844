package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFallbackStore_Incr(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewFallbackStoreWithClock(func() time.Time { return current })

	count, resetAt := store.Incr("client-a")
	assert.Equal(t, 1, count)
	assert.Equal(t, current.Add(FallbackPolicy.Window), resetAt)

	count, _ = store.Incr("client-a")
	assert.Equal(t, 2, count)

	// Separate identifiers count independently.
	count, _ = store.Incr("client-b")
	assert.Equal(t, 1, count)
}

func TestFallbackStore_WindowResets(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewFallbackStoreWithClock(func() time.Time { return current })

	windowStart := current
	for i := 1; i <= 5; i++ {
		count, _ := store.Incr("client-a")
		assert.Equal(t, i, count)
	}

	// Still inside the window from the first hit.
	current = windowStart.Add(FallbackPolicy.Window - time.Second)
	count, resetAt := store.Incr("client-a")
	assert.Equal(t, 6, count)
	assert.Equal(t, windowStart.Add(FallbackPolicy.Window), resetAt)

	// Window measured from the first hit has elapsed, counting restarts.
	current = windowStart.Add(FallbackPolicy.Window)
	count, resetAt = store.Incr("client-a")
	assert.Equal(t, 1, count)
	assert.Equal(t, current.Add(FallbackPolicy.Window), resetAt)
}

func TestFallbackStore_Count(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewFallbackStoreWithClock(func() time.Time { return current })

	count, _ := store.Count("client-a")
	assert.Equal(t, 0, count)

	store.Incr("client-a")
	store.Incr("client-a")

	// Count does not record a hit.
	count, _ = store.Count("client-a")
	assert.Equal(t, 2, count)
	count, _ = store.Count("client-a")
	assert.Equal(t, 2, count)

	current = current.Add(FallbackPolicy.Window)
	count, _ = store.Count("client-a")
	assert.Equal(t, 0, count)
}
