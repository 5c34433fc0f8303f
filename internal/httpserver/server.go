package httpserver

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/supportops/event-insights-service/internal/analysis"
	"github.com/supportops/event-insights-service/internal/auth"
	"github.com/supportops/event-insights-service/internal/config"
	"github.com/supportops/event-insights-service/internal/handlers"
	"github.com/supportops/event-insights-service/internal/store"
)

var tagNameOnce sync.Once

// registerValidatorTagNames makes validator report json field names, so
// VALIDATION_ERROR details say "customer_id" rather than "CustomerID".
func registerValidatorTagNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// NewRouter wires the middleware chain and the API surface. Every endpoint,
// health included, sits behind the shared-secret check.
func NewRouter(cfg config.Config, st *store.MemoryStore, controller *analysis.Controller, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	registerValidatorTagNames()

	r := gin.New()
	r.Use(RequestID())
	r.Use(RequestLogger(logger))
	r.Use(Recovery(logger))

	authed := r.Group("/")
	authed.Use(auth.RequireAPIKey(cfg.APIKey, logger))

	handlers.RegisterEventRoutes(authed, st, logger)
	handlers.RegisterStatusRoutes(authed, st, logger)
	handlers.RegisterHealthRoutes(authed, cfg.APIKey != "", st, logger)
	handlers.RegisterAnalyzeRoutes(authed, controller, logger)

	return r
}
