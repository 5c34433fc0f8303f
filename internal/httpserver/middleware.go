package httpserver

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/supportops/event-insights-service/internal/handlers"
	"github.com/supportops/event-insights-service/internal/models"
)

// requestIDKey is the gin context key for the per-request ID.
const requestIDKey = "request_id"

// RequestID assigns a fresh ID to every request and echoes it in the
// X-Request-ID response header so callers can quote it back to support.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger emits one structured entry per completed request. Customer
// context comes from whatever the handler recorded (body field or query
// param); header values are never logged.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		customerID := c.GetString(handlers.CustomerIDKey)
		if customerID == "" {
			customerID = c.Query("customer_id")
		}

		logger.Info("request_complete",
			zap.String("request_id", requestIDFrom(c)),
			zap.String("customer_id", customerID),
			zap.String("endpoint", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// Recovery catches anything that escapes a handler, logs it with a stack,
// and answers with the generic INTERNAL envelope so internals never reach
// the caller.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("unhandled_error",
					zap.String("request_id", requestIDFrom(c)),
					zap.String("endpoint", c.Request.URL.Path),
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					models.NewInternalError(requestIDFrom(c)))
			}
		}()
		c.Next()
	}
}
