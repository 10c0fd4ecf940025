package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bondtrack/bondtrack-backend-go/internal/service"
	"github.com/bondtrack/bondtrack-backend-go/pkg/response"
)

// PatternHandler handles HTTP requests for location patterns
type PatternHandler struct {
	service *service.LocationService
}

// NewPatternHandler creates a new pattern handler
func NewPatternHandler(service *service.LocationService) *PatternHandler {
	return &PatternHandler{service: service}
}

// AnalyzePatterns handles POST /api/v1/clients/:clientId/analysis
func (h *PatternHandler) AnalyzePatterns(c *gin.Context) {
	clientID := c.Param("clientId")

	pattern, err := h.service.AnalyzePatterns(c.Request.Context(), clientID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to analyze patterns", err)
		return
	}

	response.Success(c, pattern)
}

// GetPattern handles GET /api/v1/clients/:clientId/pattern
func (h *PatternHandler) GetPattern(c *gin.Context) {
	clientID := c.Param("clientId")

	pattern, err := h.service.GetPattern(c.Request.Context(), clientID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get pattern", err)
		return
	}

	if pattern == nil {
		response.Error(c, http.StatusNotFound, "No pattern on record for client", nil)
		return
	}

	response.Success(c, pattern)
}
