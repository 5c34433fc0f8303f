package models

// IngestEventRequest is the POST /events payload. The timestamp stays a raw
// string here; handlers verify it parses as RFC3339 with an explicit offset
// before the event is stored.
type IngestEventRequest struct {
	CustomerID string         `json:"customer_id" binding:"required"`
	Timestamp  string         `json:"timestamp" binding:"required"`
	Type       string         `json:"type" binding:"required"`
	Payload    map[string]any `json:"payload" binding:"required"`
}

// IngestEventResponse is returned by POST /events.
type IngestEventResponse struct {
	OK bool `json:"ok"`
}

// StatusResponse is returned by GET /status. LastEventAt is null when the
// customer has no retained events.
type StatusResponse struct {
	CustomerID      string  `json:"customer_id"`
	EventsLast10Min int     `json:"events_last_10min"`
	LastEventAt     *string `json:"last_event_at"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	OK     bool         `json:"ok"`
	Checks HealthChecks `json:"checks"`
}

// HealthChecks breaks the health verdict down per dependency.
type HealthChecks struct {
	APIKeyConfigured bool        `json:"api_key_configured"`
	Store            StoreHealth `json:"store"`
}

// StoreHealth describes the event store for health diagnostics.
type StoreHealth struct {
	Kind string `json:"kind"`
	Size int    `json:"size"`
}

// AnalyzeLogsRequest is the POST /analyze-logs payload.
type AnalyzeLogsRequest struct {
	Logs string `json:"logs" binding:"required"`
}
