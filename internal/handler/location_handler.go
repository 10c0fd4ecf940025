package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bondtrack/bondtrack-backend-go/internal/models"
	"github.com/bondtrack/bondtrack-backend-go/internal/service"
	"github.com/bondtrack/bondtrack-backend-go/pkg/response"
)

// LocationHandler handles HTTP requests for location observations
type LocationHandler struct {
	service *service.LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(service *service.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// RecordObservation handles POST /api/v1/clients/:clientId/locations
func (h *LocationHandler) RecordObservation(c *gin.Context) {
	clientID := c.Param("clientId")

	var input models.ObservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	obs, err := h.service.RecordObservation(c.Request.Context(), clientID, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidObservation) {
			response.Error(c, http.StatusBadRequest, "Invalid observation", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to record observation", err)
		return
	}

	response.Success(c, obs)
}

// GetObservations handles GET /api/v1/clients/:clientId/locations
func (h *LocationHandler) GetObservations(c *gin.Context) {
	clientID := c.Param("clientId")

	var filter models.ObservationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	observations, err := h.service.GetObservations(c.Request.Context(), clientID, filter.DaysBack)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get observations", err)
		return
	}

	response.Success(c, gin.H{
		"data":  observations,
		"total": len(observations),
	})
}
