package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supportops/event-insights-service/internal/models"
	"github.com/supportops/event-insights-service/internal/store"
)

// activityWindow is the recent-activity window reported by GET /status.
const activityWindow = 10 * time.Minute

// RegisterStatusRoutes registers the per-customer activity query.
//
// GET /status?customer_id=...
// - Requires X-API-Key
// - Counts events in the last 10 minutes; last_event_at spans the whole
//   retained history and is null for unknown customers
func RegisterStatusRoutes(r gin.IRoutes, st *store.MemoryStore, logger *zap.Logger) {
	r.GET("/status", func(c *gin.Context) {
		customerID := c.Query("customer_id")
		if customerID == "" {
			logger.Info("bad_request",
				zap.String("endpoint", "/status"),
				zap.String("reason", "missing_customer_id"),
			)
			c.JSON(http.StatusBadRequest, models.NewValidationError(models.ErrorDetail{
				Path:    "customer_id",
				Message: "required",
			}))
			return
		}
		c.Set(CustomerIDKey, customerID)

		count, lastEventAt := st.CountInWindow(customerID, activityWindow)

		logger.Info("status_ok", zap.String("customer_id", customerID))
		c.JSON(http.StatusOK, models.StatusResponse{
			CustomerID:      customerID,
			EventsLast10Min: count,
			LastEventAt:     lastEventAt,
		})
	})
}
