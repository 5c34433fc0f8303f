package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/supportops/event-insights-service/internal/analysis"
	"github.com/supportops/event-insights-service/internal/config"
	"github.com/supportops/event-insights-service/internal/httpserver"
	"github.com/supportops/event-insights-service/internal/llm"
	"github.com/supportops/event-insights-service/internal/store"
)

// main boots the service: config → logger → store → LLM client → HTTP server.
func main() {
	// Load runtime config from environment (API_KEY, OPENAI_*, PORT).
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// The store is in-memory and non-durable: events live for at most 24h
	// and are lost on restart.
	st := store.NewMemoryStore()

	// Remote analyzer; built even without a credential so the analyze
	// endpoint can degrade to its heuristic instead of failing.
	completer, err := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		logger.Fatal("llm client init failed", zap.Error(err))
	}

	controller := analysis.NewController(completer, logger)

	router := httpserver.NewRouter(cfg, st, controller, logger)

	logger.Info("server started", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// newLogger builds the production JSON logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = lvl
	return zcfg.Build()
}
