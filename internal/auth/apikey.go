package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supportops/event-insights-service/internal/models"
)

// headerName carries the shared secret. Its value is never logged.
const headerName = "X-API-Key"

// RequireAPIKey gates an endpoint behind the single shared secret. Outcomes:
// header absent → 401, header wrong or repeated → 403, no secret configured
// server-side → 500 with a generic message. The misconfiguration case is
// logged loudly but the caller is never told the server itself is at fault.
func RequireAPIKey(expected string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			logger.Error("auth_failed",
				zap.String("endpoint", c.Request.URL.Path),
				zap.String("reason", "server_misconfig"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				models.NewError(models.CodeInternal, "Unexpected error"))
			return
		}

		values := c.Request.Header.Values(headerName)
		switch {
		case len(values) == 0:
			logger.Warn("auth_failed",
				zap.String("endpoint", c.Request.URL.Path),
				zap.String("reason", "missing"),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.NewError(models.CodeUnauthorized, "Missing API key"))
			return
		case len(values) > 1 || values[0] != expected:
			logger.Warn("auth_failed",
				zap.String("endpoint", c.Request.URL.Path),
				zap.String("reason", "invalid"),
			)
			c.AbortWithStatusJSON(http.StatusForbidden,
				models.NewError(models.CodeForbidden, "Invalid API key"))
			return
		}

		c.Next()
	}
}
