package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexjuris/lexjuris-api/config"
	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/pkg/httpclient"
)

func testSubmission() *models.ContactSubmission {
	return &models.ContactSubmission{
		ID:          42,
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		Phone:       "9876543210",
		ServiceType: "consultation",
		Message:     "Please call me back.",
		Status:      models.ContactStatusNew,
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEmailNotifier_Send(t *testing.T) {
	var received emailPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewEmailNotifier(config.EmailConfig{
		Endpoint:   server.URL,
		ServiceID:  "service_abc",
		TemplateID: "template_xyz",
		AuthKey:    "user_key",
		ToAddress:  "office@lexjuris.in",
	}, httpclient.NewStandardClient())

	err := notifier.Send(context.Background(), testSubmission())
	require.NoError(t, err)

	assert.Equal(t, "service_abc", received.ServiceID)
	assert.Equal(t, "template_xyz", received.TemplateID)
	assert.Equal(t, "user_key", received.UserID)
	assert.Equal(t, "Jane Doe", received.TemplateParams["from_name"])
	assert.Equal(t, "9876543210", received.TemplateParams["phone"])
	assert.Equal(t, "office@lexjuris.in", received.TemplateParams["to_email"])
}

func TestEmailNotifier_Send_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewEmailNotifier(config.EmailConfig{
		Endpoint:   server.URL,
		ServiceID:  "service_abc",
		TemplateID: "template_xyz",
		AuthKey:    "user_key",
		ToAddress:  "office@lexjuris.in",
	}, httpclient.NewStandardClient())

	err := notifier.Send(context.Background(), testSubmission())
	assert.ErrorContains(t, err, "status 502")
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, NopNotifier{}.Send(context.Background(), testSubmission()))
}
