package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
)

// MockContactRepository is a mock implementation of ContactRepositoryInterface
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Insert(ctx context.Context, sub *models.ContactSubmission) (int64, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(int64), args.Error(1)
}

// MockAdminRepository is a mock implementation of AdminRepositoryInterface
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

// MockRateLimiter is a mock implementation of RateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Check(ctx context.Context, identifier string, purpose ratelimit.Purpose) ratelimit.Decision {
	args := m.Called(ctx, identifier, purpose)
	return args.Get(0).(ratelimit.Decision)
}

func (m *MockRateLimiter) Status(ctx context.Context, identifier string, purpose ratelimit.Purpose) ratelimit.Decision {
	args := m.Called(ctx, identifier, purpose)
	return args.Get(0).(ratelimit.Decision)
}

// captureNotifier records dispatched notifications on a channel so tests can
// wait for the fire-and-forget goroutine.
type captureNotifier struct {
	sent chan *models.ContactSubmission
	err  error
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{sent: make(chan *models.ContactSubmission, 8)}
}

func (n *captureNotifier) Send(_ context.Context, sub *models.ContactSubmission) error {
	n.sent <- sub
	return n.err
}
