// Package ratelimit implements sliding-window rate limiting keyed by client
// identifier, backed by a shared Redis counter store with an in-process
// fallback used when the remote store is unreachable.
package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/lexjuris/lexjuris-api/pkg/circuitbreaker"
	apperrors "github.com/lexjuris/lexjuris-api/pkg/errors"
	"github.com/lexjuris/lexjuris-api/pkg/logger"
	"github.com/lexjuris/lexjuris-api/pkg/metrics"
)

// Purpose distinguishes independent limiter instances. Each purpose has its
// own key prefix and (max, window) policy.
type Purpose string

const (
	PurposeFormSubmission  Purpose = "form_submission"
	PurposeContactForm     Purpose = "contact_form"
	PurposeAPI             Purpose = "api"
	PurposeAdminLoginIP    Purpose = "admin_login_ip"
	PurposeAdminLoginEmail Purpose = "admin_login_email"
)

// Policy is a (max requests, window) pair.
type Policy struct {
	Max    int
	Window time.Duration
}

var policies = map[Purpose]Policy{
	PurposeFormSubmission:  {Max: 3, Window: 10 * time.Minute},
	PurposeContactForm:     {Max: 2, Window: 15 * time.Minute},
	PurposeAPI:             {Max: 10, Window: 1 * time.Minute},
	PurposeAdminLoginIP:    {Max: 5, Window: 15 * time.Minute},
	PurposeAdminLoginEmail: {Max: 3, Window: 1 * time.Hour},
}

// FallbackPolicy is applied by the in-process store regardless of purpose
// when the remote counter store is unreachable.
var FallbackPolicy = Policy{Max: 5, Window: 15 * time.Minute}

// PolicyFor returns the policy configured for a purpose.
func PolicyFor(p Purpose) (Policy, bool) {
	policy, ok := policies[p]
	return policy, ok
}

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfterMinutes returns the human-readable wait time in whole minutes,
// rounded up.
func (d Decision) RetryAfterMinutes(now time.Time) int {
	mins := int(math.Ceil(float64(d.ResetAt.Sub(now).Milliseconds()) / 60000.0))
	if mins < 1 {
		mins = 1
	}
	return mins
}

// RetryAfterSeconds returns the wait time in whole seconds, rounded up, for
// the Retry-After header.
func (d Decision) RetryAfterSeconds(now time.Time) int {
	secs := int(math.Ceil(d.ResetAt.Sub(now).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// LimitError reports a rejected check together with the decision so HTTP
// surfaces can emit Retry-After and X-RateLimit-* headers.
type LimitError struct {
	Decision Decision
}

func (e *LimitError) Error() string {
	return "rate limit exceeded"
}

func (e *LimitError) Unwrap() error {
	return apperrors.ErrRateLimited
}

// CounterStore is the sliding-window primitive: record a hit (or just read)
// and report how many hits fall inside the trailing window, plus the oldest
// hit still inside it.
type CounterStore interface {
	// Incr records a hit and returns the resulting in-window count.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, oldest time.Time, err error)
	// Count reads the in-window count without recording a hit.
	Count(ctx context.Context, key string, window time.Duration) (count int64, oldest time.Time, err error)
}

var errNoRemoteStore = errors.New("remote counter store not configured")

// Limiter checks identifiers against per-purpose sliding-window policies.
// Remote store failures degrade to the in-process fallback store; a check
// never fails the request outright and never allows unlimited traffic.
type Limiter struct {
	remote   CounterStore
	fallback *FallbackStore
	breaker  *gobreaker.CircuitBreaker
	timeout  time.Duration
	now      func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the limiter's time source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithTimeout bounds each remote store call. The fallback is only useful if
// a dead store is detected quickly, so this should stay in single-digit
// seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Limiter) {
		l.timeout = timeout
	}
}

// NewLimiter creates a limiter over the given stores. remote may be nil, in
// which case every check is served by the fallback store.
func NewLimiter(remote CounterStore, fallback *FallbackStore, opts ...Option) *Limiter {
	l := &Limiter{
		remote:   remote,
		fallback: fallback,
		breaker:  circuitbreaker.NewCircuitBreaker(circuitbreaker.CounterStoreConfig()),
		timeout:  2 * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check records a hit for identifier under the purpose's policy and decides
// whether the request is allowed.
func (l *Limiter) Check(ctx context.Context, identifier string, purpose Purpose) Decision {
	return l.decide(ctx, identifier, purpose, true)
}

// Status reads the current decision without recording a hit. Used by
// policies that count only specific events, such as failed logins.
func (l *Limiter) Status(ctx context.Context, identifier string, purpose Purpose) Decision {
	return l.decide(ctx, identifier, purpose, false)
}

func (l *Limiter) decide(ctx context.Context, identifier string, purpose Purpose, record bool) Decision {
	policy, ok := policies[purpose]
	if !ok {
		// Unknown purposes fall back to the safety-net policy rather than
		// passing traffic unchecked.
		policy = FallbackPolicy
	}
	key := "ratelimit:" + string(purpose) + ":" + identifier

	count, oldest, err := l.remoteCount(ctx, key, policy.Window, record)
	if err != nil {
		if !errors.Is(err, errNoRemoteStore) {
			logger.Warn("Counter store unavailable, using in-process fallback",
				zap.String("purpose", string(purpose)),
				zap.Error(err))
		}
		metrics.RateLimitFallbacks.Inc()
		dec := l.fallbackDecision(identifier, record)
		metrics.RateLimitChecks.WithLabelValues(string(purpose), "fallback", outcomeLabel(dec)).Inc()
		return dec
	}

	dec := l.decisionFrom(count, oldest, policy, record)
	metrics.RateLimitChecks.WithLabelValues(string(purpose), "remote", outcomeLabel(dec)).Inc()
	return dec
}

type remoteResult struct {
	count  int64
	oldest time.Time
}

func (l *Limiter) remoteCount(ctx context.Context, key string, window time.Duration, record bool) (int64, time.Time, error) {
	if l.remote == nil {
		return 0, time.Time{}, errNoRemoteStore
	}

	res, err := l.breaker.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()

		var r remoteResult
		var callErr error
		if record {
			r.count, r.oldest, callErr = l.remote.Incr(callCtx, key, window)
		} else {
			r.count, r.oldest, callErr = l.remote.Count(callCtx, key, window)
		}
		return r, callErr
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	r := res.(remoteResult)
	return r.count, r.oldest, nil
}

func (l *Limiter) decisionFrom(count int64, oldest time.Time, policy Policy, record bool) Decision {
	now := l.now()
	resetAt := now.Add(policy.Window)
	if !oldest.IsZero() {
		resetAt = oldest.Add(policy.Window)
	}

	remaining := policy.Max - int(count)
	if remaining < 0 {
		remaining = 0
	}

	// A recorded count includes the hit being decided; a peeked count does
	// not, so the quota is gone as soon as it reaches Max.
	allowed := int(count) <= policy.Max
	if !record {
		allowed = int(count) < policy.Max
	}

	return Decision{
		Allowed:   allowed,
		Limit:     policy.Max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

func (l *Limiter) fallbackDecision(identifier string, record bool) Decision {
	var count int
	var resetAt time.Time
	if record {
		count, resetAt = l.fallback.Incr(identifier)
	} else {
		count, resetAt = l.fallback.Count(identifier)
	}

	remaining := FallbackPolicy.Max - count
	if remaining < 0 {
		remaining = 0
	}

	allowed := count <= FallbackPolicy.Max
	if !record {
		allowed = count < FallbackPolicy.Max
	}

	return Decision{
		Allowed:   allowed,
		Limit:     FallbackPolicy.Max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

func outcomeLabel(d Decision) string {
	if d.Allowed {
		return "allowed"
	}
	return "rejected"
}
