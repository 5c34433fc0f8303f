package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supportops/event-insights-service/internal/models"
	"github.com/supportops/event-insights-service/internal/store"
)

// RegisterHealthRoutes registers the liveness endpoint.
//
// GET /health
// - Requires X-API-Key like every other endpoint
// - Reports whether the shared secret is configured and the store size;
//   size can overshoot retention during idle periods because compaction is
//   write-triggered
func RegisterHealthRoutes(r gin.IRoutes, apiKeyConfigured bool, st *store.MemoryStore, logger *zap.Logger) {
	r.GET("/health", func(c *gin.Context) {
		resp := models.HealthResponse{
			OK: apiKeyConfigured,
			Checks: models.HealthChecks{
				APIKeyConfigured: apiKeyConfigured,
				Store: models.StoreHealth{
					Kind: "memory",
					Size: st.Size(),
				},
			},
		}

		status := http.StatusOK
		if !resp.OK {
			status = http.StatusInternalServerError
		}

		logger.Info("health", zap.Int("status", status))
		c.JSON(status, resp)
	})
}
