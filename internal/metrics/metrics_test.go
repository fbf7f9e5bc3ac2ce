package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRecorderExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	rec.ObserveRequest(ModeJSON, StatusOK, 10*time.Millisecond)
	rec.ObserveRequest(ModeStream, StatusUpstream, time.Second)
	rec.ObserveFragment()
	rec.ObserveFragment()
	rec.ObserveValidationFailure("prompt required")

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics endpoint: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics body: %v", err)
	}
	text := string(body)
	for _, want := range []string{
		`playground_generate_requests_total{mode="json",status="ok"} 1`,
		`playground_generate_requests_total{mode="stream",status="upstream_error"} 1`,
		`playground_generate_duration_seconds_count{mode="stream"} 1`,
		`playground_stream_fragments_total 2`,
		`playground_validation_failures_total{reason="prompt required"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in exposition:\n%s", want, text)
		}
	}
}

func TestRecorderDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewRecorder(reg); err != nil {
		t.Fatalf("first recorder: %v", err)
	}
	if _, err := NewRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.ObserveRequest(ModeJSON, StatusOK, time.Millisecond)
	rec.ObserveFragment()
	rec.ObserveValidationFailure("x")
	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil recorder handler, got %d", w.Code)
	}
}
