package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bondtrack/bondtrack-backend-go/internal/config"
	"github.com/bondtrack/bondtrack-backend-go/internal/handler"
	"github.com/bondtrack/bondtrack-backend-go/internal/middleware"
	"github.com/bondtrack/bondtrack-backend-go/internal/service"
)

// SetupRouter builds the HTTP surface around the location service
func SetupRouter(cfg *config.Config, locationService *service.LocationService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "BondTrack location analytics API is running",
		})
	})

	locationHandler := handler.NewLocationHandler(locationService)
	patternHandler := handler.NewPatternHandler(locationService)
	riskHandler := handler.NewRiskHandler(locationService)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		clients := api.Group("/clients/:clientId")
		{
			clients.POST("/locations", locationHandler.RecordObservation)
			clients.GET("/locations", locationHandler.GetObservations)
			clients.POST("/analysis", patternHandler.AnalyzePatterns)
			clients.GET("/pattern", patternHandler.GetPattern)
			clients.POST("/risk-assessment", riskHandler.AssessRisk)
			clients.GET("/risk-assessment", riskHandler.GetRiskAssessment)
		}

		api.GET("/risk-assessments", riskHandler.GetAllRiskAssessments)
	}

	return r
}
