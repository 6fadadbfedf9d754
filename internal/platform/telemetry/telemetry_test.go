package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

// ---------------------------------------------------------------------------
// Config defaults
// ---------------------------------------------------------------------------

func TestTelemetryConfig_Defaults(t *testing.T) {
	cfg := TelemetryConfig{}
	tp := NewTelemetryProvider(cfg)
	defer tp.Shutdown(context.Background())

	if tp.cfg.ServiceName != "opforms-server" {
		t.Fatalf("expected default ServiceName='opforms-server', got %q", tp.cfg.ServiceName)
	}
	if tp.cfg.ServiceVersion != "0.0.0" {
		t.Fatalf("expected default ServiceVersion='0.0.0', got %q", tp.cfg.ServiceVersion)
	}
	if tp.cfg.Environment != "development" {
		t.Fatalf("expected default Environment='development', got %q", tp.cfg.Environment)
	}
	if tp.cfg.SampleRate != 1.0 {
		t.Fatalf("expected default SampleRate=1.0, got %f", tp.cfg.SampleRate)
	}
	if tp.cfg.MetricsInterval != 15*time.Second {
		t.Fatalf("expected default MetricsInterval=15s, got %v", tp.cfg.MetricsInterval)
	}
	if !tp.cfg.metricsOn() {
		t.Fatal("expected MetricsEnabled=true by default")
	}
	if !tp.cfg.tracingOn() {
		t.Fatal("expected TracingEnabled=true by default")
	}
}

func TestTelemetryConfig_CustomValues(t *testing.T) {
	cfg := TelemetryConfig{
		ServiceName:     "forms-api",
		ServiceVersion:  "1.2.3",
		MetricsEnabled:  BoolPtr(true),
		TracingEnabled:  BoolPtr(true),
		MetricsInterval: 30 * time.Second,
		Environment:     "production",
		SampleRate:      0.5,
	}
	tp := NewTelemetryProvider(cfg)
	defer tp.Shutdown(context.Background())

	if tp.cfg.ServiceName != "forms-api" {
		t.Fatalf("expected ServiceName='forms-api', got %q", tp.cfg.ServiceName)
	}
	if tp.cfg.ServiceVersion != "1.2.3" {
		t.Fatalf("expected ServiceVersion='1.2.3', got %q", tp.cfg.ServiceVersion)
	}
	if tp.cfg.Environment != "production" {
		t.Fatalf("expected Environment='production', got %q", tp.cfg.Environment)
	}
	if tp.cfg.SampleRate != 0.5 {
		t.Fatalf("expected SampleRate=0.5, got %f", tp.cfg.SampleRate)
	}
}

// ---------------------------------------------------------------------------
// Shutdown
// ---------------------------------------------------------------------------

func TestShutdown_Clean(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := tp.Shutdown(ctx)
	if err != nil {
		t.Fatalf("expected clean shutdown, got error: %v", err)
	}

	// Calling shutdown again should not panic.
	err = tp.Shutdown(ctx)
	if err != nil {
		t.Fatalf("second shutdown should not error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Noop behavior when disabled
// ---------------------------------------------------------------------------

func TestNoop_WhenDisabled(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{
		MetricsEnabled: BoolPtr(false),
		TracingEnabled: BoolPtr(false),
	})
	defer tp.Shutdown(context.Background())

	e := echo.New()
	e.Use(tp.TracingMiddleware())
	e.Use(tp.MetricsMiddleware())
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if spans := tp.GetRecordedSpans(); len(spans) != 0 {
		t.Fatalf("expected no spans when tracing disabled, got %d", len(spans))
	}
	if h := tp.GetHistogram("http.server.request.duration"); h != nil {
		t.Fatal("expected no histogram when metrics disabled")
	}
}

// ---------------------------------------------------------------------------
// Tracing
// ---------------------------------------------------------------------------

func TestTracingMiddleware_RecordsSpan(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	defer tp.Shutdown(context.Background())

	e := echo.New()
	e.Use(tp.TracingMiddleware())
	e.GET("/api/v1/history-and-physical/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"results": []interface{}{}})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history-and-physical/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	spans := tp.GetRecordedSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]
	if !strings.HasPrefix(span.Name, "HTTP GET ") {
		t.Errorf("unexpected span name: %s", span.Name)
	}
	if span.StatusCode != SpanStatusOK {
		t.Errorf("expected OK status, got %v", span.StatusCode)
	}
	if span.Attributes["form.type"] != "history-and-physical" {
		t.Errorf("expected form.type attribute, got %q", span.Attributes["form.type"])
	}
	if len(span.TraceID) != 32 {
		t.Errorf("expected 32-char trace ID, got %d chars", len(span.TraceID))
	}
	if len(span.SpanID) != 16 {
		t.Errorf("expected 16-char span ID, got %d chars", len(span.SpanID))
	}
}

func TestTracingMiddleware_ErrorStatus(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	defer tp.Shutdown(context.Background())

	e := echo.New()
	e.Use(tp.TracingMiddleware())
	e.GET("/boom", func(c echo.Context) error {
		return c.String(http.StatusInternalServerError, "boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	spans := tp.GetRecordedSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].StatusCode != SpanStatusError {
		t.Errorf("expected error status for 500 response")
	}
}

// ---------------------------------------------------------------------------
// Metrics
// ---------------------------------------------------------------------------

func TestMetricsMiddleware_RecordsDuration(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	defer tp.Shutdown(context.Background())

	e := echo.New()
	e.Use(tp.MetricsMiddleware())
	e.GET("/api/v1/pacu-record/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pacu-record/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	h := tp.GetHistogram("http.server.request.duration")
	if h == nil {
		t.Fatal("expected duration histogram")
	}
	if h.Count() != 1 {
		t.Errorf("expected 1 observation, got %d", h.Count())
	}

	key := LabelsKey(http.MethodGet, "/api/v1/pacu-record/", "200")
	labeled := tp.GetLabeledHistogram("http.server.request.duration", key)
	if labeled == nil {
		t.Fatalf("expected labeled histogram for key %s", key)
	}
	if labeled.Count() != 1 {
		t.Errorf("expected 1 labeled observation, got %d", labeled.Count())
	}
}

func TestMetricsMiddleware_ActiveRequestsReturnsToZero(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	defer tp.Shutdown(context.Background())

	e := echo.New()
	e.Use(tp.MetricsMiddleware())
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if g := tp.GetGauge("http.server.active_requests"); g != 0 {
		t.Errorf("expected active requests to return to 0, got %d", g)
	}
}

func TestFormOperationCounter(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	defer tp.Shutdown(context.Background())

	tp.FormOperationCounter("history-and-physical", "sign")
	tp.FormOperationCounter("history-and-physical", "sign")
	tp.FormOperationCounter("pacu-record", "create")

	if got := tp.GetCounter("form.operation.count", "history-and-physical", "sign"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := tp.GetCounter("form.operation.count", "pacu-record", "create"); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := tp.GetCounter("form.operation.count", "pacu-record", "sign"); got != 0 {
		t.Errorf("expected 0 for unrecorded, got %d", got)
	}
}

func TestFormOperationCounter_Concurrent(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	defer tp.Shutdown(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tp.FormOperationCounter("anesthesia-record", "update")
		}()
	}
	wg.Wait()

	if got := tp.GetCounter("form.operation.count", "anesthesia-record", "update"); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
}

// ---------------------------------------------------------------------------
// Prometheus exposition
// ---------------------------------------------------------------------------

func TestPrometheusHandler_Exposition(t *testing.T) {
	tp := NewTelemetryProvider(TelemetryConfig{})
	defer tp.Shutdown(context.Background())

	tp.FormOperationCounter("history-and-physical", "sign")
	tp.HealthMetrics().SetDBPoolActive(3)
	tp.HealthMetrics().SetFormRecordsTotal(120)

	e := echo.New()
	e.Use(tp.MetricsMiddleware())
	e.GET("/api/v1/pacu-record/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", tp.PrometheusHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pacu-record/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	body := rec.Body.String()

	for _, want := range []string{
		"# TYPE http_server_request_duration_seconds histogram",
		"http_server_request_duration_seconds_bucket",
		"# TYPE http_server_active_requests gauge",
		`form_operation_count{form_type="history-and-physical",operation="sign"} 1`,
		"db_pool_active_connections 3",
		"forms_records_total 120",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestExtractFormSegment(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/v1/history-and-physical/", "history-and-physical"},
		{"/api/v1/pacu-record/abc/sign/", "pacu-record"},
		{"/api/v1/", ""},
		{"/health", ""},
	}

	for _, tt := range tests {
		if got := extractFormSegment(tt.path); got != tt.expected {
			t.Errorf("extractFormSegment(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}

func TestHistogram_Observe(t *testing.T) {
	h := newHistogram([]float64{1, 5, 10})

	h.Observe(0.5)
	h.Observe(3)
	h.Observe(7)
	h.Observe(100)

	if h.Count() != 4 {
		t.Errorf("expected 4 observations, got %d", h.Count())
	}
	if h.Sum() != 110.5 {
		t.Errorf("expected sum 110.5, got %g", h.Sum())
	}

	cum := h.cumulativeBuckets()
	expected := []int64{1, 2, 3}
	for i, want := range expected {
		if cum[i] != want {
			t.Errorf("bucket %d: expected %d, got %d", i, want, cum[i])
		}
	}
}
