package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexjuris/lexjuris-api/internal/middleware"
	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/internal/notify"
	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
	"github.com/lexjuris/lexjuris-api/internal/services"
)

// stubContactRepo records inserts in memory.
type stubContactRepo struct {
	inserted []*models.ContactSubmission
	err      error
}

func (s *stubContactRepo) Insert(_ context.Context, sub *models.ContactSubmission) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.inserted = append(s.inserted, sub)
	return int64(len(s.inserted)), nil
}

func newContactRouter(repo *stubContactRepo) *gin.Engine {
	limiter := ratelimit.NewLimiter(nil, ratelimit.NewFallbackStore())
	service := services.NewSubmissionService(repo, limiter, notify.NopNotifier{})
	handler := NewContactHandler(service)

	router := gin.New()
	router.POST("/api/v1/contact", handler.Submit)
	return router
}

func postContact(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/contact", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	router.ServeHTTP(w, req)
	return w
}

// newProductionContactRouter mirrors the registered /api/v1/contact route
// stack: body-size limit plus handler, with a Redis-backed limiter so the
// form_submission policy (3 per 10 min) applies.
func newProductionContactRouter(t *testing.T, repo *stubContactRepo) *gin.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := ratelimit.NewLimiter(ratelimit.NewRedisStore(client), ratelimit.NewFallbackStore())
	service := services.NewSubmissionService(repo, limiter, notify.NopNotifier{})
	handler := NewContactHandler(service)

	router := gin.New()
	router.POST("/api/v1/contact",
		middleware.BodySizeLimitMiddleware(100*1024),
		handler.Submit)
	return router
}

func TestContactHandler_Submit(t *testing.T) {
	repo := &stubContactRepo{}
	router := newContactRouter(repo)

	w := postContact(t, router, models.SubmissionRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Phone:       "9876543210",
		ServiceType: "consultation",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var result models.SubmitResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Len(t, repo.inserted, 1)
}

func TestContactHandler_Submit_ValidationError(t *testing.T) {
	repo := &stubContactRepo{}
	router := newContactRouter(repo)

	w := postContact(t, router, models.SubmissionRequest{
		FirstName:   "Jane123",
		LastName:    "Doe",
		Phone:       "9876543210",
		ServiceType: "consultation",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result models.SubmitResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Empty(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, repo.inserted)
}

func TestContactHandler_Submit_Honeypot(t *testing.T) {
	repo := &stubContactRepo{}
	router := newContactRouter(repo)

	w := postContact(t, router, models.SubmissionRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Phone:       "9876543210",
		ServiceType: "consultation",
		Website:     "http://spam.example",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid submission")
	assert.Empty(t, repo.inserted)
}

func TestContactHandler_Submit_FourthWithinWindowGets429(t *testing.T) {
	repo := &stubContactRepo{}
	router := newProductionContactRouter(t, repo)

	req := models.SubmissionRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Phone:       "9876543210",
		ServiceType: "consultation",
	}

	for i := 1; i <= 3; i++ {
		w := postContact(t, router, req)
		assert.Equal(t, http.StatusOK, w.Code, "submission %d should be accepted", i)
	}

	w := postContact(t, router, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
	assert.Len(t, repo.inserted, 3)
}

func TestContactHandler_Submit_MalformedBody(t *testing.T) {
	repo := &stubContactRepo{}
	router := newContactRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/contact", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
	assert.Empty(t, repo.inserted)
}
