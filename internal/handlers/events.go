package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supportops/event-insights-service/internal/models"
	"github.com/supportops/event-insights-service/internal/store"
)

// CustomerIDKey is the gin context key handlers use to expose which customer
// a request acted on, so the request-completion log can include it.
const CustomerIDKey = "customer_id"

// RegisterEventRoutes registers the ingestion-path endpoint.
//
// POST /events
// - Requires X-API-Key
// - Body must carry customer_id, type, an RFC3339 timestamp with explicit
//   offset, and a payload that is a JSON object
// - Writes into the shared in-memory store (non-durable by design)
func RegisterEventRoutes(r gin.IRoutes, st *store.MemoryStore, logger *zap.Logger) {
	r.POST("/events", func(c *gin.Context) {
		var req models.IngestEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Info("validation_failed",
				zap.String("endpoint", "/events"),
				zap.String("customer_id", req.CustomerID),
			)
			c.JSON(http.StatusBadRequest, models.NewValidationError(bindingDetails(err)...))
			return
		}
		c.Set(CustomerIDKey, req.CustomerID)

		if _, err := time.Parse(time.RFC3339, req.Timestamp); err != nil {
			logger.Info("validation_failed",
				zap.String("endpoint", "/events"),
				zap.String("customer_id", req.CustomerID),
			)
			c.JSON(http.StatusBadRequest, models.NewValidationError(models.ErrorDetail{
				Path:    "timestamp",
				Message: "must be an RFC3339 timestamp with explicit offset",
			}))
			return
		}

		st.Add(store.StoredEvent{
			CustomerID: req.CustomerID,
			Timestamp:  req.Timestamp,
			Type:       req.Type,
			Payload:    req.Payload,
		})

		logger.Info("event_ingested",
			zap.String("customer_id", req.CustomerID),
			zap.String("type", req.Type),
			zap.String("at", req.Timestamp),
		)
		c.JSON(http.StatusOK, models.IngestEventResponse{OK: true})
	})
}
