// Package llm calls an OpenAI-compatible chat-completions endpoint to get a
// structured reading of raw log text. Every failure class is non-fatal to the
// caller; the analysis controller degrades to its deterministic fallback.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Sentinel failures for the remote completion attempt. The controller treats
// every failure the same; these exist so the outcome can be logged precisely.
var (
	ErrMissingAPIKey = errors.New("llm: no api key configured")
	ErrEmptyContent  = errors.New("llm: completion returned no content")
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 8 * time.Second
)

// Config holds the provider settings for the remote analyzer.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client is the remote log analyzer. A client built without an API key is
// still usable: Complete fails fast with ErrMissingAPIKey and never touches
// the network.
type Client struct {
	cfg   Config
	model llms.Model
}

// NewClient builds the chat-completions client from config, applying model
// and timeout defaults.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{cfg: cfg}
	if cfg.APIKey == "" {
		return c, nil
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	c.model = model
	return c, nil
}

// Complete sends the two-message analysis prompt for the given logs and
// returns the raw completion text. The call is bounded by the configured
// timeout; when it fires the request is aborted and no partial result is
// returned. Temperature is pinned to zero to reduce guessing.
func (c *Client) Complete(ctx context.Context, logs string) (string, error) {
	if c.model == nil {
		return "", ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, analysisMessages(logs), llms.WithTemperature(0))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyContent
	}
	content := resp.Choices[0].Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	return content, nil
}

// Reason labels a Complete error for structured logging.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey):
		return "missing_api_key"
	case errors.Is(err, ErrEmptyContent):
		return "no_content"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "network"
	}
}
