// Package analysis turns raw log text into a structured incident analysis.
// It prefers a remote LLM reading and falls back to a deterministic
// heuristic; the caller always gets a complete result, never an error.
package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/supportops/event-insights-service/internal/llm"
	"github.com/supportops/event-insights-service/internal/models"
)

// Completer is the remote analysis dependency. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, logs string) (string, error)
}

// Controller orchestrates the remote attempt, output repair, and the
// heuristic fallback.
type Controller struct {
	completer Completer
	logger    *zap.Logger
}

// NewController wires the fallback controller.
func NewController(completer Completer, logger *zap.Logger) *Controller {
	return &Controller{completer: completer, logger: logger}
}

// Analyze produces a complete result for the given log text. Remote failures
// of any class, including malformed or schema-invalid output, are absorbed
// here: the worst case is a heuristic-derived answer, never a failed request.
func (c *Controller) Analyze(ctx context.Context, logs string) models.AnalysisResult {
	content, err := c.completer.Complete(ctx, logs)
	if err != nil {
		c.logger.Info("llm_result",
			zap.Bool("llm_ok", false),
			zap.String("llm_error", llm.Reason(err)),
		)
	} else {
		c.logger.Info("llm_result", zap.Bool("llm_ok", true))

		if result, ok := decodeRemoteResult(content); ok {
			result = ensureUsefulOutput(logs, result)
			result = normalizeConfidence(result)
			c.logger.Info("analyze_complete", zap.String("source", "llm"))
			return result
		}
		c.logger.Warn("llm_fallback", zap.String("reason", "llm_output_invalid"))
	}

	result := ensureUsefulOutput(logs, HeuristicAnalyze(logs))
	// The heuristic already emits sane confidences; normalization runs anyway
	// so both paths share one idempotent final stage.
	result = normalizeConfidence(result)
	c.logger.Info("analyze_complete", zap.String("source", "heuristic"))
	return result
}

// remoteCause mirrors CauseFinding with optional fields so shape violations
// are detected instead of silently zeroed.
type remoteCause struct {
	Cause      *string  `json:"cause"`
	Evidence   []string `json:"evidence"`
	Confidence *float64 `json:"confidence"`
}

type remoteResult struct {
	Summary              *string        `json:"summary"`
	LikelyCauses         *[]remoteCause `json:"likely_causes"`
	NextSteps            *[]string      `json:"next_steps"`
	MissingObservability *[]string      `json:"missing_observability"`
	CustomerMessageDraft *string        `json:"customer_message_draft"`
}

// extractJSONSpan returns the first '{' through the last '}' of s. This is a
// deliberately lenient recovery for models that wrap their JSON in prose
// despite instructions; it mis-slices when the text holds multiple
// independent objects, which the parse or shape check downstream rejects.
func extractJSONSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// decodeRemoteResult extracts, parses, and shape-checks the remote output.
// Valid means: every key present, list fields are lists, each cause carries
// at least one evidence line and a numeric confidence in [0,1]. Anything
// short of that reports !ok and the caller falls back.
func decodeRemoteResult(content string) (models.AnalysisResult, bool) {
	span, ok := extractJSONSpan(content)
	if !ok {
		return models.AnalysisResult{}, false
	}

	var raw remoteResult
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return models.AnalysisResult{}, false
	}
	if raw.Summary == nil || raw.LikelyCauses == nil || raw.NextSteps == nil ||
		raw.MissingObservability == nil || raw.CustomerMessageDraft == nil {
		return models.AnalysisResult{}, false
	}

	causes := make([]models.CauseFinding, 0, len(*raw.LikelyCauses))
	for _, rc := range *raw.LikelyCauses {
		if rc.Cause == nil || len(rc.Evidence) == 0 || rc.Confidence == nil {
			return models.AnalysisResult{}, false
		}
		if *rc.Confidence < 0 || *rc.Confidence > 1 {
			return models.AnalysisResult{}, false
		}
		causes = append(causes, models.CauseFinding{
			Cause:      *rc.Cause,
			Evidence:   rc.Evidence,
			Confidence: *rc.Confidence,
		})
	}

	return models.AnalysisResult{
		Summary:              *raw.Summary,
		LikelyCauses:         causes,
		NextSteps:            *raw.NextSteps,
		MissingObservability: *raw.MissingObservability,
		CustomerMessageDraft: *raw.CustomerMessageDraft,
	}, true
}
