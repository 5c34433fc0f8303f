package analysis

import (
	"fmt"
	"strings"

	"github.com/supportops/event-insights-service/internal/models"
)

// maxEvidenceLines caps how many matching log lines back a single cause.
const maxEvidenceLines = 3

const (
	authNextStep       = "Ensure client sends X-API-Key header; update integration docs and add alerting on 401 spikes."
	schemaNextStep     = "Share expected JSON schema; add contract tests / example payloads; consider accepting common aliases or return clearer field paths."
	dependencyNextStep = "Investigate storage latency/availability; add retries with jitter + circuit breaker; expose dependency health in /health."
	moreLogsNextStep   = "Provide more logs around the incident window and include error stack traces (if any)."
)

// heuristicObservability is emitted on every heuristic run regardless of what
// the logs contain.
var heuristicObservability = []string{
	"Add structured latency fields (duration_ms) and downstream timing per request.",
	"Add request_id propagation across downstream calls.",
	"Add metrics: 4xx/5xx rate per endpoint+customer, and dependency error rate.",
}

const heuristicCustomerDraft = "Hi! We’re seeing some requests failing due to missing authentication headers and a few payload validation issues. " +
	"Please ensure you include the X-API-Key header on /events requests, and that the payload matches the expected schema (notably payload.order_id). " +
	"If you can share a sample request and timestamp, we can confirm end-to-end processing."

// pickEvidence returns up to maxEvidenceLines lines containing needle,
// verbatim and in input order.
func pickEvidence(lines []string, needle string) []string {
	var out []string
	for _, l := range lines {
		if strings.Contains(l, needle) {
			out = append(out, l)
			if len(out) == maxEvidenceLines {
				break
			}
		}
	}
	return out
}

// HeuristicAnalyze is the deterministic fallback analyzer: a pure function
// from raw log text to a complete result. It matches a fixed set of failure
// signatures against trimmed, non-empty lines and never fails, even on empty
// input.
func HeuristicAnalyze(logs string) models.AnalysisResult {
	var lines []string
	for _, l := range strings.Split(logs, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	var causes []models.CauseFinding

	missingKey := pickEvidence(lines, "status=401")
	if len(missingKey) > 0 {
		causes = append(causes, models.CauseFinding{
			Cause:      "Requests are missing API key (authentication failures on /events).",
			Evidence:   missingKey,
			Confidence: 0.85,
		})
	}

	validation := pickEvidence(lines, "status=400")
	if len(validation) > 0 {
		causes = append(causes, models.CauseFinding{
			Cause:      "Validation errors in event payload (missing/incorrect fields).",
			Evidence:   validation,
			Confidence: 0.75,
		})
	}

	downstreamTimeout := pickEvidence(lines, "Downstream timeout")
	if len(downstreamTimeout) > 0 {
		causes = append(causes, models.CauseFinding{
			Cause:      "Downstream dependency is timing out (storage).",
			Evidence:   downstreamTimeout,
			Confidence: 0.8,
		})
	}

	storageUnavailable := pickEvidence(lines, "storage unavailable")
	if len(storageUnavailable) > 0 {
		causes = append(causes, models.CauseFinding{
			Cause:      "Status endpoint errors likely caused by storage unavailability.",
			Evidence:   storageUnavailable,
			Confidence: 0.7,
		})
	}

	var nextSteps []string
	if len(missingKey) > 0 {
		nextSteps = append(nextSteps, authNextStep)
	}
	if len(validation) > 0 {
		nextSteps = append(nextSteps, schemaNextStep)
	}
	if len(downstreamTimeout) > 0 || len(storageUnavailable) > 0 {
		nextSteps = append(nextSteps, dependencyNextStep)
	}
	if len(nextSteps) == 0 {
		nextSteps = []string{moreLogsNextStep}
	}

	// The summary reports matched categories before the no-signal fallback
	// below, so zero matches reads as "found 0".
	summary := fmt.Sprintf("Analyzed %d log lines; found %d likely issue categories.", len(lines), len(causes))

	if len(causes) == 0 {
		causes = []models.CauseFinding{{
			Cause:      "Insufficient evidence in logs to determine cause.",
			Evidence:   []string{"(no matching error patterns found)"},
			Confidence: 0.2,
		}}
	}

	return models.AnalysisResult{
		Summary:              summary,
		LikelyCauses:         causes,
		NextSteps:            nextSteps,
		MissingObservability: append([]string(nil), heuristicObservability...),
		CustomerMessageDraft: heuristicCustomerDraft,
	}
}
