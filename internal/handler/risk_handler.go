package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bondtrack/bondtrack-backend-go/internal/service"
	"github.com/bondtrack/bondtrack-backend-go/pkg/response"
)

// RiskHandler handles HTTP requests for skip-bail risk assessments
type RiskHandler struct {
	service *service.LocationService
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(service *service.LocationService) *RiskHandler {
	return &RiskHandler{service: service}
}

// AssessRisk handles POST /api/v1/clients/:clientId/risk-assessment
func (h *RiskHandler) AssessRisk(c *gin.Context) {
	clientID := c.Param("clientId")

	assessment, err := h.service.AssessRisk(c.Request.Context(), clientID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to assess risk", err)
		return
	}

	response.Success(c, assessment)
}

// GetRiskAssessment handles GET /api/v1/clients/:clientId/risk-assessment
func (h *RiskHandler) GetRiskAssessment(c *gin.Context) {
	clientID := c.Param("clientId")

	assessment, err := h.service.GetRiskAssessment(c.Request.Context(), clientID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get risk assessment", err)
		return
	}

	if assessment == nil {
		response.Error(c, http.StatusNotFound, "No risk assessment on record for client", nil)
		return
	}

	response.Success(c, assessment)
}

// GetAllRiskAssessments handles GET /api/v1/risk-assessments
func (h *RiskHandler) GetAllRiskAssessments(c *gin.Context) {
	assessments, err := h.service.GetAllRiskAssessments(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list risk assessments", err)
		return
	}

	response.Success(c, gin.H{
		"data":  assessments,
		"total": len(assessments),
	})
}
