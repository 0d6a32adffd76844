package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
	"github.com/lexjuris/lexjuris-api/internal/services"
)

// ContactHandler handles public contact form submissions
type ContactHandler struct {
	service *services.SubmissionService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(service *services.SubmissionService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /api/v1/contact
// Runs the full submission pipeline and returns exactly one of
// {success: message} or {error: message}.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	identifier := ratelimit.ClientIdentifier(c.Request.Header)
	result := h.service.Submit(c.Request.Context(), identifier, &req)

	if !result.Succeeded() {
		status := http.StatusBadRequest
		if result.RateLimited {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, result)
		return
	}

	c.JSON(http.StatusOK, result)
}
