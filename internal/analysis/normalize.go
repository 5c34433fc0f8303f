package analysis

import (
	"strings"

	"github.com/supportops/event-insights-service/internal/models"
)

// snippetLimit is how much of the input log text backs the no-signal default
// cause.
const snippetLimit = 200

// ensureUsefulOutput backfills any missing or empty field with a fixed
// default so the response is never degenerate, however weak the input signal
// or however lazy the remote analyzer was.
func ensureUsefulOutput(logs string, r models.AnalysisResult) models.AnalysisResult {
	if len(r.LikelyCauses) == 0 {
		evidence := logs
		if len(evidence) > snippetLimit {
			evidence = evidence[:snippetLimit]
		}
		if evidence == "" {
			evidence = "(empty logs)"
		}
		r.LikelyCauses = []models.CauseFinding{{
			Cause:      "Insufficient evidence in logs to determine cause.",
			Evidence:   []string{evidence},
			Confidence: 0.2,
		}}
	}

	if len(r.NextSteps) == 0 {
		r.NextSteps = []string{
			"Provide more logs around the incident window (±5 minutes) including request_id, endpoint, and status codes.",
			"Include any relevant stack traces or downstream error messages if available.",
		}
	}

	if len(r.MissingObservability) == 0 {
		r.MissingObservability = []string{
			"Add request_id propagation and ensure it is logged for every request.",
			"Log latency (duration_ms) per request and per downstream dependency call.",
			"Add metrics for 4xx/5xx rates per endpoint and per customer_id.",
		}
	}

	if strings.TrimSpace(r.CustomerMessageDraft) == "" {
		r.CustomerMessageDraft = "We received your logs, but there is not enough detail to determine the cause. " +
			"Could you share logs around the time of the issue and any request IDs or error messages you saw?"
	}

	if strings.TrimSpace(r.Summary) == "" {
		r.Summary = "Insufficient log signal to produce a confident incident analysis."
	}

	return r
}

// normalizeConfidence clamps every cause's confidence into [0, cap], where
// the cap is 0.9 for causes backed by two or more evidence lines and 0.85
// otherwise. LLMs like returning 1.0 for everything; this keeps reported
// certainty tied to evidence. Idempotent, and applied to heuristic output too.
func normalizeConfidence(r models.AnalysisResult) models.AnalysisResult {
	for i := range r.LikelyCauses {
		limit := 0.85
		if len(r.LikelyCauses[i].Evidence) >= 2 {
			limit = 0.9
		}
		conf := r.LikelyCauses[i].Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > limit {
			conf = limit
		}
		r.LikelyCauses[i].Confidence = conf
	}
	return r
}
