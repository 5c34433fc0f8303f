package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/supportops/event-insights-service/internal/analysis"
	"github.com/supportops/event-insights-service/internal/config"
	"github.com/supportops/event-insights-service/internal/llm"
	"github.com/supportops/event-insights-service/internal/store"
)

////////////////////////////////////////////////////////////////////////////////
// END-TO-END SUITE
//
// These tests exercise the full chain in process:
//
//   Client → Router → Auth → Handlers → Store / Fallback Controller
//
// The LLM client is built without a credential, so every analysis request
// exercises the deterministic fallback path without touching the network.
////////////////////////////////////////////////////////////////////////////////

const testAPIKey = "test-key-123"

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()

	cfg := config.Config{Port: "0", APIKey: apiKey}
	st := store.NewMemoryStore()

	completer, err := llm.NewClient(llm.Config{})
	if err != nil {
		t.Fatalf("llm.NewClient() error = %v", err)
	}
	controller := analysis.NewController(completer, zap.NewNop())

	srv := httptest.NewServer(NewRouter(cfg, st, controller, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

// httpGet performs a GET with an optional API key.
func httpGet(t *testing.T, srv *httptest.Server, apiKey, path string) (int, []byte) {
	t.Helper()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

// postJSON performs a POST with a JSON body and an optional API key.
func postJSON(t *testing.T, srv *httptest.Server, apiKey, path string, payload any) (int, []byte) {
	t.Helper()

	b, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func decodeError(t *testing.T, b []byte) (code string, details []map[string]string) {
	t.Helper()
	var resp struct {
		Error struct {
			Code    string              `json:"code"`
			Details []map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		t.Fatalf("invalid error JSON %s: %v", b, err)
	}
	return resp.Error.Code, resp.Error.Details
}

////////////////////////////////////////////////////////////////////////////////
// INGEST → STATUS
////////////////////////////////////////////////////////////////////////////////

func TestIngestThenStatus(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	ts := time.Now().UTC().Add(-time.Minute).Format(time.RFC3339)
	s, b := postJSON(t, srv, testAPIKey, "/events", map[string]any{
		"customer_id": "acme",
		"timestamp":   ts,
		"type":        "order.created",
		"payload":     map[string]any{"order_id": "123"},
	})
	if s != http.StatusOK {
		t.Fatalf("POST /events = %d (%s), want 200", s, b)
	}
	var ack struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(b, &ack); err != nil || !ack.OK {
		t.Fatalf("POST /events body = %s, want {ok:true}", b)
	}

	s, b = httpGet(t, srv, testAPIKey, "/status?customer_id=acme")
	if s != http.StatusOK {
		t.Fatalf("GET /status = %d (%s), want 200", s, b)
	}
	var status struct {
		CustomerID      string  `json:"customer_id"`
		EventsLast10Min int     `json:"events_last_10min"`
		LastEventAt     *string `json:"last_event_at"`
	}
	if err := json.Unmarshal(b, &status); err != nil {
		t.Fatalf("invalid status JSON %s: %v", b, err)
	}
	if status.CustomerID != "acme" || status.EventsLast10Min != 1 {
		t.Errorf("status = %+v, want 1 event for acme", status)
	}
	if status.LastEventAt == nil || *status.LastEventAt != ts {
		t.Errorf("last_event_at = %v, want %q", status.LastEventAt, ts)
	}
}

func TestStatus_UnknownCustomerHasNullLastEvent(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	s, b := httpGet(t, srv, testAPIKey, "/status?customer_id=nobody")
	if s != http.StatusOK {
		t.Fatalf("GET /status = %d, want 200", s)
	}
	if !strings.Contains(string(b), `"last_event_at":null`) {
		t.Errorf("body = %s, want null last_event_at", b)
	}
}

func TestStatus_MissingCustomerID(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	s, b := httpGet(t, srv, testAPIKey, "/status")
	if s != http.StatusBadRequest {
		t.Fatalf("GET /status = %d, want 400", s)
	}
	code, details := decodeError(t, b)
	if code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", code)
	}
	if len(details) != 1 || details[0]["path"] != "customer_id" {
		t.Errorf("details = %v, want customer_id named", details)
	}
}

////////////////////////////////////////////////////////////////////////////////
// INGEST VALIDATION
////////////////////////////////////////////////////////////////////////////////

func TestIngest_PayloadAsListRejected(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	s, b := postJSON(t, srv, testAPIKey, "/events", map[string]any{
		"customer_id": "acme",
		"timestamp":   "2026-01-13T09:12:00Z",
		"type":        "order.created",
		"payload":     []string{"not", "an", "object"},
	})
	if s != http.StatusBadRequest {
		t.Fatalf("POST /events = %d, want 400", s)
	}
	code, details := decodeError(t, b)
	if code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", code)
	}
	found := false
	for _, d := range details {
		if d["path"] == "payload" {
			found = true
		}
	}
	if !found {
		t.Errorf("details = %v, want payload named", details)
	}
}

func TestIngest_MissingFieldsRejected(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	s, b := postJSON(t, srv, testAPIKey, "/events", map[string]any{
		"timestamp": "2026-01-13T09:12:00Z",
	})
	if s != http.StatusBadRequest {
		t.Fatalf("POST /events = %d, want 400", s)
	}
	code, details := decodeError(t, b)
	if code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", code)
	}
	paths := map[string]bool{}
	for _, d := range details {
		paths[d["path"]] = true
	}
	for _, want := range []string{"customer_id", "type", "payload"} {
		if !paths[want] {
			t.Errorf("details missing %q: %v", want, details)
		}
	}
}

func TestIngest_TimestampWithoutOffsetRejected(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	s, b := postJSON(t, srv, testAPIKey, "/events", map[string]any{
		"customer_id": "acme",
		"timestamp":   "2026-01-13 09:12:00",
		"type":        "order.created",
		"payload":     map[string]any{},
	})
	if s != http.StatusBadRequest {
		t.Fatalf("POST /events = %d (%s), want 400", s, b)
	}
	_, details := decodeError(t, b)
	if len(details) != 1 || details[0]["path"] != "timestamp" {
		t.Errorf("details = %v, want timestamp named", details)
	}
}

////////////////////////////////////////////////////////////////////////////////
// AUTH LADDER
////////////////////////////////////////////////////////////////////////////////

func TestAuth_MissingThenWrongThenMisconfigured(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	s, b := httpGet(t, srv, "", "/health")
	if s != http.StatusUnauthorized {
		t.Fatalf("no key: status = %d, want 401", s)
	}
	if code, _ := decodeError(t, b); code != "UNAUTHORIZED" {
		t.Errorf("no key: code = %q, want UNAUTHORIZED", code)
	}

	s, b = httpGet(t, srv, "wrong-key", "/health")
	if s != http.StatusForbidden {
		t.Fatalf("wrong key: status = %d, want 403", s)
	}
	if code, _ := decodeError(t, b); code != "FORBIDDEN" {
		t.Errorf("wrong key: code = %q, want FORBIDDEN", code)
	}

	misconfigured := newTestServer(t, "")
	s, b = httpGet(t, misconfigured, "any-key", "/health")
	if s != http.StatusInternalServerError {
		t.Fatalf("misconfig: status = %d, want 500", s)
	}
	if code, _ := decodeError(t, b); code != "INTERNAL" {
		t.Errorf("misconfig: code = %q, want INTERNAL", code)
	}
	if strings.Contains(strings.ToLower(string(b)), "key") {
		t.Errorf("misconfig response leaks detail: %s", b)
	}
}

////////////////////////////////////////////////////////////////////////////////
// HEALTH
////////////////////////////////////////////////////////////////////////////////

func TestHealth_ReportsStoreSize(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	postJSON(t, srv, testAPIKey, "/events", map[string]any{
		"customer_id": "acme",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"type":        "order.created",
		"payload":     map[string]any{},
	})

	s, b := httpGet(t, srv, testAPIKey, "/health")
	if s != http.StatusOK {
		t.Fatalf("GET /health = %d (%s), want 200", s, b)
	}
	var health struct {
		OK     bool `json:"ok"`
		Checks struct {
			APIKeyConfigured bool `json:"api_key_configured"`
			Store            struct {
				Kind string `json:"kind"`
				Size int    `json:"size"`
			} `json:"store"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(b, &health); err != nil {
		t.Fatalf("invalid health JSON %s: %v", b, err)
	}
	if !health.OK || !health.Checks.APIKeyConfigured {
		t.Errorf("health = %+v, want ok with key configured", health)
	}
	if health.Checks.Store.Kind != "memory" || health.Checks.Store.Size != 1 {
		t.Errorf("store check = %+v, want memory store of size 1", health.Checks.Store)
	}
}

////////////////////////////////////////////////////////////////////////////////
// ANALYZE-LOGS
////////////////////////////////////////////////////////////////////////////////

func TestAnalyzeLogs_HeuristicFallbackWithoutCredential(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	line := "status=401 path=/events"
	s, b := postJSON(t, srv, testAPIKey, "/analyze-logs", map[string]any{
		"logs": line + "\nok line",
	})
	if s != http.StatusOK {
		t.Fatalf("POST /analyze-logs = %d (%s), want 200", s, b)
	}

	var result struct {
		Summary      string `json:"summary"`
		LikelyCauses []struct {
			Cause      string   `json:"cause"`
			Evidence   []string `json:"evidence"`
			Confidence float64  `json:"confidence"`
		} `json:"likely_causes"`
		NextSteps            []string `json:"next_steps"`
		MissingObservability []string `json:"missing_observability"`
		CustomerMessageDraft string   `json:"customer_message_draft"`
	}
	if err := json.Unmarshal(b, &result); err != nil {
		t.Fatalf("invalid analysis JSON %s: %v", b, err)
	}

	found := false
	for _, c := range result.LikelyCauses {
		if strings.Contains(c.Cause, "missing API key") {
			found = true
			if len(c.Evidence) != 1 || c.Evidence[0] != line {
				t.Errorf("evidence = %v, want exact line %q", c.Evidence, line)
			}
			if c.Confidence > 0.85 {
				t.Errorf("confidence = %v, want <= 0.85", c.Confidence)
			}
		}
	}
	if !found {
		t.Fatalf("no authentication cause in %s", b)
	}
	if result.Summary == "" || len(result.NextSteps) == 0 ||
		len(result.MissingObservability) == 0 || result.CustomerMessageDraft == "" {
		t.Errorf("degenerate analysis response: %s", b)
	}
}

func TestAnalyzeLogs_EmptyLogsRejected(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	s, b := postJSON(t, srv, testAPIKey, "/analyze-logs", map[string]any{"logs": ""})
	if s != http.StatusBadRequest {
		t.Fatalf("POST /analyze-logs = %d, want 400", s)
	}
	code, details := decodeError(t, b)
	if code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", code)
	}
	if len(details) != 1 || details[0]["path"] != "logs" {
		t.Errorf("details = %v, want logs named", details)
	}
}

func TestAnalyzeLogs_NoSignalStillUseful(t *testing.T) {
	srv := newTestServer(t, testAPIKey)

	s, b := postJSON(t, srv, testAPIKey, "/analyze-logs", map[string]any{"logs": "test"})
	if s != http.StatusOK {
		t.Fatalf("POST /analyze-logs = %d, want 200", s)
	}
	var result map[string]any
	if err := json.Unmarshal(b, &result); err != nil {
		t.Fatalf("invalid JSON %s: %v", b, err)
	}
	for _, key := range []string{"summary", "likely_causes", "next_steps", "missing_observability", "customer_message_draft"} {
		if _, ok := result[key]; !ok {
			t.Errorf("response missing %q: %s", key, b)
		}
	}
}
