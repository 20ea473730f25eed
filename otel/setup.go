package otel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/petal-labs/musicbridge/config"
)

const instrumentationName = "github.com/petal-labs/musicbridge"

// Telemetry owns the SDK providers behind an InvokeObserver.
type Telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	reader         *sdkmetric.ManualReader
	observer       *InvokeObserver
}

// Setup builds providers from cfg. Spans are batched to the OTLP/HTTP
// endpoint; metrics stay in process and are read with Collect.
func Setup(ctx context.Context, cfg config.TelemetryConfig, version string) (*Telemetry, error) {
	endpoint := strings.TrimSpace(cfg.OTLPEndpoint)
	if endpoint == "" {
		return nil, errors.New("otel: otlp endpoint is required")
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otel: create exporter: %w", err)
	}
	return newTelemetry(cfg.ServiceName, version, sdktrace.WithBatcher(exporter))
}

// NewWithExporter builds providers that send spans synchronously to
// exporter.
func NewWithExporter(exporter sdktrace.SpanExporter, serviceName, version string) (*Telemetry, error) {
	return newTelemetry(serviceName, version, sdktrace.WithSyncer(exporter))
}

// NewLocal builds providers with no span export. Metrics are still
// recorded and can be read with Collect or Snapshot.
func NewLocal(serviceName, version string) (*Telemetry, error) {
	return newTelemetry(serviceName, version)
}

func newTelemetry(serviceName, version string, traceOpts ...sdktrace.TracerProviderOption) (*Telemetry, error) {
	if serviceName == "" {
		serviceName = "musicbridge"
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	tp := sdktrace.NewTracerProvider(append(traceOpts, sdktrace.WithResource(res))...)

	observer, err := NewInvokeObserver(mp.Meter(instrumentationName), tp.Tracer(instrumentationName))
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(context.Background()), mp.Shutdown(context.Background()))
	}
	return &Telemetry{
		tracerProvider: tp,
		meterProvider:  mp,
		reader:         reader,
		observer:       observer,
	}, nil
}

// Observer returns the invocation observer bound to these providers.
func (t *Telemetry) Observer() *InvokeObserver {
	if t == nil {
		return nil
	}
	return t.observer
}

// Collect reads the current in-process metrics.
func (t *Telemetry) Collect(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var rm metricdata.ResourceMetrics
	if t == nil {
		return rm, nil
	}
	err := t.reader.Collect(ctx, &rm)
	return rm, err
}

// Shutdown flushes pending spans and stops both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return errors.Join(
		t.tracerProvider.Shutdown(ctx),
		t.meterProvider.Shutdown(ctx),
	)
}
