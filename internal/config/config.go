package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Port     string
	APIKey   string
	LogLevel string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	LLMTimeout    time.Duration
}

// Load reads values from environment variables, applying defaults where the
// service can run without them. An empty API_KEY is tolerated at startup:
// auth then rejects every request as a server misconfiguration, which keeps
// the failure visible instead of crash-looping the process.
func Load() (Config, error) {
	cfg := Config{
		Port:          getenv("PORT", "8080"),
		APIKey:        strings.TrimSpace(os.Getenv("API_KEY")),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTimeout:    8 * time.Second,
	}

	if raw := strings.TrimSpace(os.Getenv("LLM_TIMEOUT_MS")); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("LLM_TIMEOUT_MS must be a positive integer, got %q", raw)
		}
		cfg.LLMTimeout = time.Duration(ms) * time.Millisecond
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
