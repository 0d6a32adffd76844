package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexjuris/lexjuris-api/internal/catalog"
)

// CatalogHandler serves the legal service catalog used by the website to
// populate the contact form's service selector.
type CatalogHandler struct{}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Services handles GET /api/v1/services
func (h *CatalogHandler) Services(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": catalog.Services()})
}
