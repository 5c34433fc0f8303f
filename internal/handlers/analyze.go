package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supportops/event-insights-service/internal/analysis"
	"github.com/supportops/event-insights-service/internal/models"
)

// RegisterAnalyzeRoutes registers the log-analysis endpoint.
//
// POST /analyze-logs
// - Requires X-API-Key
// - Body: {logs: non-empty string}
// - Always answers 200 with a complete analysis; remote-analyzer failures
//   degrade to the deterministic heuristic inside the controller
func RegisterAnalyzeRoutes(r gin.IRoutes, controller *analysis.Controller, logger *zap.Logger) {
	r.POST("/analyze-logs", func(c *gin.Context) {
		var req models.AnalyzeLogsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Info("validation_failed", zap.String("endpoint", "/analyze-logs"))
			c.JSON(http.StatusBadRequest, models.NewValidationError(bindingDetails(err)...))
			return
		}

		result := controller.Analyze(c.Request.Context(), req.Logs)
		c.JSON(http.StatusOK, result)
	})
}
