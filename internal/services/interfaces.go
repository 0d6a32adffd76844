package services

import (
	"context"

	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
)

// RateLimiter is the sliding-window limiter surface the services consume.
type RateLimiter interface {
	// Check records a hit for identifier under the purpose's policy and
	// returns the resulting decision.
	Check(ctx context.Context, identifier string, purpose ratelimit.Purpose) ratelimit.Decision
	// Status reads the current decision without recording a hit.
	Status(ctx context.Context, identifier string, purpose ratelimit.Purpose) ratelimit.Decision
}
