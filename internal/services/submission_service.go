// Package services holds the business logic between the HTTP handlers and
// the storage/notification layers.
package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lexjuris/lexjuris-api/internal/antibot"
	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/internal/notify"
	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
	"github.com/lexjuris/lexjuris-api/internal/repository"
	"github.com/lexjuris/lexjuris-api/internal/sanitize"
	"github.com/lexjuris/lexjuris-api/internal/validation"
	"github.com/lexjuris/lexjuris-api/pkg/logger"
	"github.com/lexjuris/lexjuris-api/pkg/metrics"
)

// User-facing submission messages. The bot rejection is deliberately vague
// and indistinguishable from a generic failure so scripted submitters learn
// nothing from it.
const (
	msgSubmissionAccepted = "Thank you for contacting us. Our team will get back to you within one business day."
	msgBotRejected        = "Invalid submission. Please try again."
	msgRateLimited        = "Too many requests. Please try again in %d minutes."
	msgPersistFailed      = "Something went wrong while submitting your request. Please try again or contact us directly."
)

// notifyTimeout bounds the detached email dispatch so an unresponsive
// provider cannot pin goroutines forever.
const notifyTimeout = 30 * time.Second

// SubmissionService runs the contact form pipeline: honeypot check, rate
// limit, validation, sanitization, persistence, then fire-and-forget email
// notification.
type SubmissionService struct {
	contacts repository.ContactRepositoryInterface
	limiter  RateLimiter
	notifier notify.Notifier
	now      func() time.Time
}

// NewSubmissionService creates the submission pipeline service.
func NewSubmissionService(contacts repository.ContactRepositoryInterface, limiter RateLimiter, notifier notify.Notifier) *SubmissionService {
	return &SubmissionService{
		contacts: contacts,
		limiter:  limiter,
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit processes one contact form submission from the given client
// identifier. It always returns a usable result: exactly one of Success or
// Error is set, and internal failure detail never reaches the caller.
func (s *SubmissionService) Submit(ctx context.Context, identifier string, req *models.SubmissionRequest) *models.SubmitResult {
	// Bots are dropped before the rate limit check so honeypot traffic does
	// not consume a human's submission quota on shared IPs.
	if antibot.IsBot(req.Website) {
		logger.Warn("Honeypot tripped, dropping submission",
			zap.String("identifier", identifier))
		metrics.ContactSubmissions.WithLabelValues("bot").Inc()
		return &models.SubmitResult{Error: msgBotRejected}
	}

	dec := s.limiter.Check(ctx, identifier, ratelimit.PurposeFormSubmission)
	if !dec.Allowed {
		logger.Info("Submission rate limited",
			zap.String("identifier", identifier),
			zap.Time("reset_at", dec.ResetAt))
		metrics.ContactSubmissions.WithLabelValues("rate_limited").Inc()
		return &models.SubmitResult{
			Error:       fmt.Sprintf(msgRateLimited, dec.RetryAfterMinutes(s.now())),
			RateLimited: true,
		}
	}

	validated, err := validation.Submission(req)
	if err != nil {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		return &models.SubmitResult{Error: err.Error()}
	}

	sub := &models.ContactSubmission{
		FirstName:   validated.FirstName,
		LastName:    validated.LastName,
		Email:       validated.Email,
		Phone:       validated.Phone,
		ServiceType: validated.ServiceType,
		Message:     sanitize.Clean(validated.Message),
		Status:      models.ContactStatusNew,
	}

	id, err := s.contacts.Insert(ctx, sub)
	if err != nil {
		logger.Error("Failed to persist contact submission",
			zap.String("identifier", identifier),
			zap.Error(err))
		metrics.ContactSubmissions.WithLabelValues("persist_failed").Inc()
		return &models.SubmitResult{Error: msgPersistFailed}
	}
	sub.ID = id

	// Notification is fire-and-forget: the row is already durable, and
	// losing an email is preferable to losing the lead.
	go s.notifyAsync(sub)

	logger.Info("Contact submission accepted",
		zap.Int64("contact_id", id),
		zap.String("service_type", sub.ServiceType))
	metrics.ContactSubmissions.WithLabelValues("accepted").Inc()
	return &models.SubmitResult{Success: msgSubmissionAccepted}
}

func (s *SubmissionService) notifyAsync(sub *models.ContactSubmission) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in notification dispatch", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.Send(ctx, sub); err != nil {
		logger.Error("Failed to send submission notification",
			zap.Int64("contact_id", sub.ID),
			zap.Error(err))
	}
}
