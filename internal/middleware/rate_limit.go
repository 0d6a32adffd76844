package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
)

// RateLimitMiddleware enforces the sliding-window policy for the given
// purpose against the request's client identifier. Every response carries
// X-RateLimit-* headers; rejected requests additionally get Retry-After.
func RateLimitMiddleware(limiter *ratelimit.Limiter, purpose ratelimit.Purpose) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := ratelimit.ClientIdentifier(c.Request.Header)
		dec := limiter.Check(c.Request.Context(), identifier, purpose)

		setRateLimitHeaders(c, dec)

		if !dec.Allowed {
			now := time.Now()
			c.Header("Retry-After", strconv.Itoa(dec.RetryAfterSeconds(now)))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("Too many requests. Please try again in %d minutes.", dec.RetryAfterMinutes(now)),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, dec ratelimit.Decision) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(dec.ResetAt.Unix(), 10))
}

// SetRateLimitHeaders exposes the header helper for handlers that run the
// limiter themselves, such as the admin login endpoint.
func SetRateLimitHeaders(c *gin.Context, dec ratelimit.Decision) {
	setRateLimitHeaders(c, dec)
}
