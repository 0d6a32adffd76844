package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexjuris/lexjuris-api/internal/middleware"
	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/internal/ratelimit"
	"github.com/lexjuris/lexjuris-api/internal/services"
	apperrors "github.com/lexjuris/lexjuris-api/pkg/errors"
)

// AdminAuthHandler handles admin dashboard authentication endpoints
type AdminAuthHandler struct {
	service      *services.AdminAuthService
	cookieDomain string
	cookieSecure bool
	sessionTTL   time.Duration
}

// NewAdminAuthHandler creates a new AdminAuthHandler
func NewAdminAuthHandler(service *services.AdminAuthService, cookieDomain string, cookieSecure bool, sessionTTL time.Duration) *AdminAuthHandler {
	return &AdminAuthHandler{
		service:      service,
		cookieDomain: cookieDomain,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
	}
}

// Login handles POST /api/v1/admin/login
// Verifies credentials and sets the session cookie
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	clientIP := ratelimit.ClientIdentifier(c.Request.Header)
	token, session, err := h.service.Login(c.Request.Context(), clientIP, &req)
	if err != nil {
		var limitErr *ratelimit.LimitError
		switch {
		case errors.As(err, &limitErr):
			middleware.SetRateLimitHeaders(c, limitErr.Decision)
			c.Header("Retry-After", strconv.Itoa(limitErr.Decision.RetryAfterSeconds(time.Now())))
			respondError(c, http.StatusTooManyRequests, "Too many login attempts. Please try again later.", err)
		case errors.Is(err, apperrors.ErrUnauthorized):
			respondError(c, http.StatusUnauthorized, "Invalid email or password", err)
		default:
			respondError(c, http.StatusInternalServerError, "Login failed. Please try again later.", err)
		}
		return
	}

	middleware.SetSessionCookie(c, token, int(h.sessionTTL.Seconds()), h.cookieDomain, h.cookieSecure)

	c.JSON(http.StatusOK, models.AdminLoginResponse{
		Success: true,
		Session: session,
	})
}

// Session handles GET /api/v1/admin/session
// Returns the current session; the session middleware already validated it
func (h *AdminAuthHandler) Session(c *gin.Context) {
	session, err := middleware.GetAdminSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Logout handles POST /api/v1/admin/logout
// Clears the session cookie
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.cookieDomain, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
