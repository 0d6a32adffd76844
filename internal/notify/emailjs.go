// Package notify dispatches submission notification emails through the
// hosted email-template provider.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/lexjuris/lexjuris-api/config"
	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/pkg/httpclient"
	"github.com/lexjuris/lexjuris-api/pkg/metrics"
)

// Notifier sends a notification for a persisted contact submission.
type Notifier interface {
	Send(ctx context.Context, sub *models.ContactSubmission) error
}

// EmailNotifier posts submissions to the email provider's template API.
// Outbound dispatch is throttled to stay inside the provider's quota.
type EmailNotifier struct {
	cfg        config.EmailConfig
	httpClient httpclient.Client
	throttle   *rate.Limiter
}

// emailPayload is the provider's send-template request body.
type emailPayload struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// NewEmailNotifier creates a notifier for the configured provider template.
func NewEmailNotifier(cfg config.EmailConfig, httpClient httpclient.Client) *EmailNotifier {
	return &EmailNotifier{
		cfg:        cfg,
		httpClient: httpClient,
		throttle:   rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Send posts the submission to the provider. Callers treat failures as
// log-and-swallow: the record is already durably persisted and losing a
// notification email is preferable to losing the lead.
func (n *EmailNotifier) Send(ctx context.Context, sub *models.ContactSubmission) error {
	if err := n.throttle.Wait(ctx); err != nil {
		metrics.EmailNotifications.WithLabelValues("throttled").Inc()
		return fmt.Errorf("notification throttle: %w", err)
	}

	payload := emailPayload{
		ServiceID:  n.cfg.ServiceID,
		TemplateID: n.cfg.TemplateID,
		UserID:     n.cfg.AuthKey,
		TemplateParams: map[string]string{
			"to_email":     n.cfg.ToAddress,
			"from_name":    sub.FirstName + " " + sub.LastName,
			"phone":        sub.Phone,
			"email":        sub.Email,
			"service_type": sub.ServiceType,
			"message":      sub.Message,
			"submitted_at": sub.CreatedAt.Format("2 Jan 2006, 3:04 PM MST"),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		metrics.EmailNotifications.WithLabelValues("error").Inc()
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.EmailNotifications.WithLabelValues("error").Inc()
		return fmt.Errorf("notification provider returned status %d", resp.StatusCode)
	}

	metrics.EmailNotifications.WithLabelValues("success").Inc()
	return nil
}

// NopNotifier is used when email dispatch is not configured.
type NopNotifier struct{}

// Send does nothing.
func (NopNotifier) Send(context.Context, *models.ContactSubmission) error {
	return nil
}
