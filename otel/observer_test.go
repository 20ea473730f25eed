package otel_test

import (
	"context"
	"testing"
	"time"

	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/petal-labs/musicbridge/dispatch"
	mbotel "github.com/petal-labs/musicbridge/otel"
	"github.com/petal-labs/musicbridge/tool"
)

// newTestMeter returns a meter backed by a manual reader for collecting metrics in tests.
func newTestMeter() (*metric.ManualReader, *metric.MeterProvider) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	return reader, mp
}

// newTestTracer returns a tracer backed by an in-memory span exporter.
func newTestTracer() (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	return exporter, tp
}

func collectMetrics(t *testing.T, reader *metric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func sumOf(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s type = %T, want Sum[int64]", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestInvokeObserverRecordsMetrics(t *testing.T) {
	reader, mp := newTestMeter()
	observer, err := mbotel.NewInvokeObserver(mp.Meter("test"), noop.NewTracerProvider().Tracer("test"))
	if err != nil {
		t.Fatalf("NewInvokeObserver() error = %v", err)
	}

	observer.ObserveInvoke(dispatch.Invocation{ToolID: "play", CapabilityType: "tool", DurationMS: 40, Success: true})
	observer.ObserveInvoke(dispatch.Invocation{ToolID: "pause", CapabilityType: "tool", DurationMS: 15, ErrorCode: tool.ErrorCodeNotRunning})

	rm := collectMetrics(t, reader)

	invocations := findMetric(rm, "musicbridge.tool.invocations")
	if invocations == nil {
		t.Fatal("musicbridge.tool.invocations metric not found")
	}
	if got := sumOf(t, invocations); got != 2 {
		t.Fatalf("invocations = %d, want 2", got)
	}

	failures := findMetric(rm, "musicbridge.tool.failures")
	if failures == nil {
		t.Fatal("musicbridge.tool.failures metric not found")
	}
	if got := sumOf(t, failures); got != 1 {
		t.Fatalf("failures = %d, want 1", got)
	}

	latency := findMetric(rm, "musicbridge.tool.latency")
	if latency == nil {
		t.Fatal("musicbridge.tool.latency metric not found")
	}
	if _, ok := latency.Data.(metricdata.Histogram[float64]); !ok {
		t.Fatalf("musicbridge.tool.latency type = %T, want Histogram[float64]", latency.Data)
	}
}

func TestInvokeObserverRecordsSpans(t *testing.T) {
	exporter, tp := newTestTracer()
	_, mp := newTestMeter()
	observer, err := mbotel.NewInvokeObserver(mp.Meter("test"), tp.Tracer("test"))
	if err != nil {
		t.Fatalf("NewInvokeObserver() error = %v", err)
	}

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	observer.ObserveInvoke(dispatch.Invocation{
		RequestID:  "req-1",
		ToolID:     "set_volume",
		DurationMS: 250,
		StartedAt:  started,
		ErrorCode:  tool.ErrorCodeInvalidArguments,
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name != "tool.invoke" {
		t.Fatalf("span name = %q", span.Name)
	}
	if span.Status.Code != otelcodes.Error || span.Status.Description != tool.ErrorCodeInvalidArguments {
		t.Fatalf("span status = %+v", span.Status)
	}
	if !span.StartTime.Equal(started) || span.EndTime.Sub(span.StartTime) != 250*time.Millisecond {
		t.Fatalf("span window = %v..%v", span.StartTime, span.EndTime)
	}
	found := false
	for _, attr := range span.Attributes {
		if string(attr.Key) == "request_id" && attr.Value.AsString() == "req-1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("request_id attribute missing: %v", span.Attributes)
	}
}

func TestInvokeObserverNilSafe(t *testing.T) {
	var observer *mbotel.InvokeObserver
	observer.ObserveInvoke(dispatch.Invocation{ToolID: "play"})
}

func TestTelemetryWithExporter(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	telemetry, err := mbotel.NewWithExporter(exporter, "", "test")
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}

	d := dispatch.New(tool.MustRegistry(), dispatch.WithObserver(telemetry.Observer()))
	d.Invoke(context.Background(), "tool", "missing", "")

	rm, err := telemetry.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if m := findMetric(&rm, "musicbridge.tool.invocations"); m == nil || sumOf(t, m) != 1 {
		t.Fatalf("invocations metric = %+v", m)
	}
	if len(exporter.GetSpans()) != 1 {
		t.Fatalf("spans = %d, want 1", len(exporter.GetSpans()))
	}
	if err := telemetry.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestLocalTelemetrySnapshot(t *testing.T) {
	telemetry, err := mbotel.NewLocal("", "test")
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	defer telemetry.Shutdown(context.Background())

	observer := telemetry.Observer()
	observer.ObserveInvoke(dispatch.Invocation{ToolID: "play", CapabilityType: "tool", DurationMS: 40, Success: true})
	observer.ObserveInvoke(dispatch.Invocation{ToolID: "play", CapabilityType: "tool", DurationMS: 60, Success: true})
	observer.ObserveInvoke(dispatch.Invocation{ToolID: "pause", CapabilityType: "tool", ErrorCode: tool.ErrorCodeNotRunning})

	points, err := telemetry.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	type key struct{ name, toolID, code string }
	got := make(map[key]mbotel.Point, len(points))
	for _, p := range points {
		got[key{p.Name, p.ToolID, p.ErrorCode}] = p
	}

	if p := got[key{"musicbridge.tool.invocations", "play", ""}]; p.Count != 2 {
		t.Errorf("play invocations = %d, want 2", p.Count)
	}
	if p := got[key{"musicbridge.tool.failures", "pause", tool.ErrorCodeNotRunning}]; p.Count != 1 {
		t.Errorf("pause failures = %d, want 1", p.Count)
	}
	if _, ok := got[key{"musicbridge.tool.failures", "play", ""}]; ok {
		t.Error("successful play recorded as a failure")
	}
	latency := got[key{"musicbridge.tool.latency", "play", ""}]
	if latency.Count != 2 || latency.Sum < 0.099 || latency.Sum > 0.101 {
		t.Errorf("play latency = %+v, want 2 samples summing to 0.1s", latency)
	}

	for i := 1; i < len(points); i++ {
		if points[i-1].Name > points[i].Name {
			t.Fatalf("points not sorted by name: %+v", points)
		}
	}
}
