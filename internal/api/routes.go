package api

import (
	"github.com/gin-gonic/gin"

	"github.com/JustJay7/collections-tracker/internal/analysis"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, svc *analysis.Service, logger *logger.Logger) {
	h := NewHandlers(svc, logger)

	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		// Analysis passes
		api.POST("/analysis", h.RunAnalysis)
		api.GET("/runs", h.ListRuns)

		// Report consumers
		api.GET("/report", h.Report)
		api.GET("/summary", h.Summary)
		api.GET("/firms", h.Firms)

		// Single case
		api.GET("/cases/:number", h.GetCase)
		api.POST("/cases/:number/ack", h.AcknowledgeCase)
		api.DELETE("/cases/:number/ack", h.UnacknowledgeCase)
		api.GET("/acks", h.ListAcknowledgments)

		api.GET("/cache/stats", h.CacheStats)
	}
}
