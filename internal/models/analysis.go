package models

// CauseFinding is one suspected root cause backed by verbatim log lines.
type CauseFinding struct {
	Cause      string   `json:"cause"`
	Evidence   []string `json:"evidence"`
	Confidence float64  `json:"confidence"`
}

// AnalysisResult is the POST /analyze-logs response body. Both the remote
// analyzer and the heuristic produce this shape; the response carries exactly
// these fields and nothing else.
type AnalysisResult struct {
	Summary              string         `json:"summary"`
	LikelyCauses         []CauseFinding `json:"likely_causes"`
	NextSteps            []string       `json:"next_steps"`
	MissingObservability []string       `json:"missing_observability"`
	CustomerMessageDraft string         `json:"customer_message_draft"`
}
