package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// --- Metrics ---

func TestMetricsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	// Verify all metrics are registered by using them
	m.RequestsTotal.WithLabelValues("mockbin", "200", "GET").Inc()
	m.RequestDuration.WithLabelValues("mockbin").Observe(0.05)
	m.ResolutionsTotal.WithLabelValues("host").Inc()
	m.TableCacheHits.Inc()
	m.TableCacheMisses.Inc()
	m.TableBuilds.Inc()
	m.DefinitionsLoaded.Set(4)
	m.RateLimitedTotal.WithLabelValues("192.168.1.1").Inc()

	expected := `
# HELP gateway_requests_total Total number of requests processed.
# TYPE gateway_requests_total counter
gateway_requests_total{definition="mockbin",method="GET",status="200"} 1
`
	if err := testutil.CollectAndCompare(m.RequestsTotal, strings.NewReader(expected)); err != nil {
		t.Fatalf("metrics mismatch: %v", err)
	}
}

func TestMetricsResolutionOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ResolutionsTotal.WithLabelValues("host").Inc()
	m.ResolutionsTotal.WithLabelValues("host").Inc()
	m.ResolutionsTotal.WithLabelValues("none").Inc()

	if got := testutil.ToFloat64(m.ResolutionsTotal.WithLabelValues("host")); got != 2 {
		t.Fatalf("expected 2 host resolutions, got %.0f", got)
	}
	if got := testutil.ToFloat64(m.ResolutionsTotal.WithLabelValues("none")); got != 1 {
		t.Fatalf("expected 1 miss, got %.0f", got)
	}
}

func TestMetricsDefinitionsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.DefinitionsLoaded.Set(10)
	if got := testutil.ToFloat64(m.DefinitionsLoaded); got != 10 {
		t.Fatalf("expected 10, got %.0f", got)
	}

	m.DefinitionsLoaded.Set(3)
	if got := testutil.ToFloat64(m.DefinitionsLoaded); got != 3 {
		t.Fatalf("expected 3 after reload, got %.0f", got)
	}
}

// --- Structured Logging ---

func TestNewLoggerOutputsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("test message", "key", "value")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if entry["msg"] != "test message" {
		t.Fatalf("expected msg 'test message', got %v", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Fatalf("expected key 'value', got %v", entry["key"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	logger.Info("should be filtered")
	if buf.Len() > 0 {
		t.Fatal("info message should be filtered at warn level")
	}

	logger.Warn("should appear")
	if buf.Len() == 0 {
		t.Fatal("warn message should appear at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRequestLoggerAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	reqLogger := RequestLogger(base, "POST", "/mockbin/users", "mockbin.example.com", "trace-abc")
	reqLogger.Info("request completed", "status", 200)

	var entry map[string]interface{}
	json.Unmarshal(buf.Bytes(), &entry)

	if entry["method"] != "POST" {
		t.Errorf("expected method POST, got %v", entry["method"])
	}
	if entry["path"] != "/mockbin/users" {
		t.Errorf("expected path /mockbin/users, got %v", entry["path"])
	}
	if entry["host"] != "mockbin.example.com" {
		t.Errorf("expected host mockbin.example.com, got %v", entry["host"])
	}
	if entry["trace_id"] != "trace-abc" {
		t.Errorf("expected trace_id trace-abc, got %v", entry["trace_id"])
	}
}

func TestLoggerContext(t *testing.T) {
	logger := slog.Default()
	ctx := WithLogger(context.Background(), logger)

	got := LoggerFrom(ctx)
	if got != logger {
		t.Fatal("should retrieve same logger from context")
	}
}

func TestLoggerContextFallback(t *testing.T) {
	// No logger in context → should return default
	got := LoggerFrom(context.Background())
	if got == nil {
		t.Fatal("should return default logger when none in context")
	}
}

// --- Request Tracing ---

func TestGenerateTraceIDUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateTraceID()
		if ids[id] {
			t.Fatalf("duplicate trace ID: %s", id)
		}
		ids[id] = true
	}
}

func TestTraceIDFromRequestReusesExisting(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceHeader, "existing-trace-id")

	got := TraceIDFromRequest(req)
	if got != "existing-trace-id" {
		t.Fatalf("expected existing-trace-id, got %s", got)
	}
}

func TestTraceIDFromRequestGeneratesNew(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	got := TraceIDFromRequest(req)
	if got == "" {
		t.Fatal("should generate a trace ID")
	}
	// 16 bytes = 32 hex characters
	if len(got) != 32 {
		t.Fatalf("expected 32 char hex string, got %s", got)
	}
}

func TestTraceIDContext(t *testing.T) {
	ctx := WithTraceID(context.Background(), "my-trace")
	got := TraceIDFrom(ctx)
	if got != "my-trace" {
		t.Fatalf("expected my-trace, got %s", got)
	}
}
