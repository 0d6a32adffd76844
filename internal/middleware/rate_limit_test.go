package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(limiter *ratelimit.Limiter, purpose ratelimit.Purpose) *gin.Engine {
	router := gin.New()
	router.POST("/contact", RateLimitMiddleware(limiter, purpose), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func doRequest(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/contact", http.NoBody)
	req.Header.Set("X-Forwarded-For", ip)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	// No remote store: the fallback policy (5 per window) applies.
	limiter := ratelimit.NewLimiter(nil, ratelimit.NewFallbackStore())
	router := newLimitedRouter(limiter, ratelimit.PurposeContactForm)

	for i := 1; i <= ratelimit.FallbackPolicy.Max; i++ {
		w := doRequest(router, "203.0.113.7")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i)
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}

	w := doRequest(router, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many requests")
	assert.Contains(t, w.Body.String(), "minutes")

	// A different client is unaffected.
	w = doRequest(router, "198.51.100.2")
	assert.Equal(t, http.StatusOK, w.Code)
}
