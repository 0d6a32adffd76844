package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
	"github.com/lexjuris/lexjuris-api/internal/services"
)

func validRequest() *models.SubmissionRequest {
	return &models.SubmissionRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		Phone:       "9876543210",
		ServiceType: "consultation",
		Message:     "I need help with a rental agreement.",
	}
}

func allowedDecision() ratelimit.Decision {
	return ratelimit.Decision{
		Allowed:   true,
		Limit:     3,
		Remaining: 2,
		ResetAt:   time.Now().Add(10 * time.Minute),
	}
}

func TestSubmissionService_Submit(t *testing.T) {
	mockRepo := new(MockContactRepository)
	mockLimiter := new(MockRateLimiter)
	notifier := newCaptureNotifier()
	service := services.NewSubmissionService(mockRepo, mockLimiter, notifier)
	ctx := context.Background()

	mockLimiter.On("Check", ctx, "203.0.113.7", ratelimit.PurposeFormSubmission).Return(allowedDecision()).Once()
	mockRepo.On("Insert", ctx, mock.AnythingOfType("*models.ContactSubmission")).Return(int64(42), nil).Once()

	result := service.Submit(ctx, "203.0.113.7", validRequest())

	require.True(t, result.Succeeded())
	assert.NotEmpty(t, result.Success)
	assert.Empty(t, result.Error)

	inserted := mockRepo.Calls[0].Arguments.Get(1).(*models.ContactSubmission)
	assert.Equal(t, "Jane", inserted.FirstName)
	assert.Equal(t, "9876543210", inserted.Phone)
	assert.Equal(t, models.ContactStatusNew, inserted.Status)

	// The notification goroutine receives the persisted record.
	select {
	case sub := <-notifier.sent:
		assert.Equal(t, int64(42), sub.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not dispatched")
	}

	mockRepo.AssertExpectations(t)
	mockLimiter.AssertExpectations(t)
}

func TestSubmissionService_Submit_Honeypot(t *testing.T) {
	mockRepo := new(MockContactRepository)
	mockLimiter := new(MockRateLimiter)
	service := services.NewSubmissionService(mockRepo, mockLimiter, newCaptureNotifier())

	req := validRequest()
	req.Website = "http://spam.example"

	result := service.Submit(context.Background(), "203.0.113.7", req)

	assert.False(t, result.Succeeded())
	assert.Equal(t, "Invalid submission. Please try again.", result.Error)

	// The bot check precedes the rate limit, so the counter is untouched.
	mockLimiter.AssertNotCalled(t, "Check")
	mockRepo.AssertNotCalled(t, "Insert")
}

func TestSubmissionService_Submit_RateLimited(t *testing.T) {
	mockRepo := new(MockContactRepository)
	mockLimiter := new(MockRateLimiter)
	service := services.NewSubmissionService(mockRepo, mockLimiter, newCaptureNotifier())
	ctx := context.Background()

	rejected := ratelimit.Decision{
		Allowed:   false,
		Limit:     3,
		Remaining: 0,
		ResetAt:   time.Now().Add(7 * time.Minute),
	}
	mockLimiter.On("Check", ctx, "203.0.113.7", ratelimit.PurposeFormSubmission).Return(rejected).Once()

	result := service.Submit(ctx, "203.0.113.7", validRequest())

	assert.False(t, result.Succeeded())
	assert.Contains(t, result.Error, "Too many requests")
	assert.Contains(t, result.Error, "minutes")
	mockRepo.AssertNotCalled(t, "Insert")
}

func TestSubmissionService_Submit_ValidationError(t *testing.T) {
	mockRepo := new(MockContactRepository)
	mockLimiter := new(MockRateLimiter)
	service := services.NewSubmissionService(mockRepo, mockLimiter, newCaptureNotifier())
	ctx := context.Background()

	mockLimiter.On("Check", ctx, "203.0.113.7", ratelimit.PurposeFormSubmission).Return(allowedDecision()).Once()

	req := validRequest()
	req.Phone = "12345"

	result := service.Submit(ctx, "203.0.113.7", req)

	assert.False(t, result.Succeeded())
	assert.Contains(t, result.Error, "valid 10-digit mobile number")
	mockRepo.AssertNotCalled(t, "Insert")
}

func TestSubmissionService_Submit_SanitizesMessage(t *testing.T) {
	mockRepo := new(MockContactRepository)
	mockLimiter := new(MockRateLimiter)
	service := services.NewSubmissionService(mockRepo, mockLimiter, newCaptureNotifier())
	ctx := context.Background()

	mockLimiter.On("Check", ctx, "203.0.113.7", ratelimit.PurposeFormSubmission).Return(allowedDecision()).Once()
	mockRepo.On("Insert", ctx, mock.AnythingOfType("*models.ContactSubmission")).Return(int64(1), nil).Once()

	req := validRequest()
	req.Message = "<script>alert(1)</script>Please call me back soon"

	result := service.Submit(ctx, "203.0.113.7", req)

	require.True(t, result.Succeeded())
	inserted := mockRepo.Calls[0].Arguments.Get(1).(*models.ContactSubmission)
	assert.Equal(t, "Please call me back soon", inserted.Message)
}

func TestSubmissionService_Submit_PersistFailure(t *testing.T) {
	mockRepo := new(MockContactRepository)
	mockLimiter := new(MockRateLimiter)
	notifier := newCaptureNotifier()
	service := services.NewSubmissionService(mockRepo, mockLimiter, notifier)
	ctx := context.Background()

	mockLimiter.On("Check", ctx, "203.0.113.7", ratelimit.PurposeFormSubmission).Return(allowedDecision()).Once()
	mockRepo.On("Insert", ctx, mock.AnythingOfType("*models.ContactSubmission")).Return(int64(0), errors.New("connection refused")).Once()

	result := service.Submit(ctx, "203.0.113.7", validRequest())

	assert.False(t, result.Succeeded())
	// Storage detail must not leak to the public caller.
	assert.NotContains(t, result.Error, "connection refused")
	assert.Contains(t, result.Error, "try again")

	// Nothing persisted, nothing notified.
	select {
	case <-notifier.sent:
		t.Fatal("notification dispatched for failed persist")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubmissionService_Submit_NotifyFailureIsSwallowed(t *testing.T) {
	mockRepo := new(MockContactRepository)
	mockLimiter := new(MockRateLimiter)
	notifier := newCaptureNotifier()
	notifier.err = errors.New("provider returned status 500")
	service := services.NewSubmissionService(mockRepo, mockLimiter, notifier)
	ctx := context.Background()

	mockLimiter.On("Check", ctx, "203.0.113.7", ratelimit.PurposeFormSubmission).Return(allowedDecision()).Once()
	mockRepo.On("Insert", ctx, mock.AnythingOfType("*models.ContactSubmission")).Return(int64(7), nil).Once()

	result := service.Submit(ctx, "203.0.113.7", validRequest())

	// The record is durable; a failed email never fails the submission.
	assert.True(t, result.Succeeded())

	select {
	case <-notifier.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not attempted")
	}
}

// Against the real Redis-backed limiter, the fourth in-window submission
// from one IP is rejected and never reaches storage.
func TestSubmissionService_Submit_FourthWithinWindowRejected(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mockRepo := new(MockContactRepository)
	limiter := ratelimit.NewLimiter(ratelimit.NewRedisStore(client), ratelimit.NewFallbackStore())
	service := services.NewSubmissionService(mockRepo, limiter, newCaptureNotifier())
	ctx := context.Background()

	mockRepo.On("Insert", ctx, mock.AnythingOfType("*models.ContactSubmission")).Return(int64(1), nil)

	for i := 1; i <= 3; i++ {
		result := service.Submit(ctx, "203.0.113.7", validRequest())
		assert.True(t, result.Succeeded(), "submission %d should succeed", i)
	}

	result := service.Submit(ctx, "203.0.113.7", validRequest())
	assert.False(t, result.Succeeded())
	assert.Contains(t, result.Error, "Too many requests")

	// A different IP is unaffected.
	result = service.Submit(ctx, "198.51.100.2", validRequest())
	assert.True(t, result.Succeeded())

	mockRepo.AssertNumberOfCalls(t, "Insert", 4)
}

// Submissions keep flowing on the in-process fallback policy when no remote
// counter store is reachable.
func TestSubmissionService_Submit_FallbackLimiter(t *testing.T) {
	mockRepo := new(MockContactRepository)
	limiter := ratelimit.NewLimiter(nil, ratelimit.NewFallbackStore())
	service := services.NewSubmissionService(mockRepo, limiter, newCaptureNotifier())
	ctx := context.Background()

	mockRepo.On("Insert", ctx, mock.AnythingOfType("*models.ContactSubmission")).Return(int64(1), nil)

	for i := 1; i <= ratelimit.FallbackPolicy.Max; i++ {
		result := service.Submit(ctx, "203.0.113.7", validRequest())
		assert.True(t, result.Succeeded(), "submission %d should succeed", i)
	}

	result := service.Submit(ctx, "203.0.113.7", validRequest())
	assert.False(t, result.Succeeded())
	assert.Contains(t, result.Error, "Too many requests")

	mockRepo.AssertNumberOfCalls(t, "Insert", ratelimit.FallbackPolicy.Max)
}
