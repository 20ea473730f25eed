// Package otel records musicbridge invocations into OpenTelemetry.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/musicbridge/dispatch"
)

// InvokeObserver turns dispatcher invocations into metrics and spans.
type InvokeObserver struct {
	tracer trace.Tracer

	invocations metric.Int64Counter
	failures    metric.Int64Counter
	latency     metric.Float64Histogram
}

// NewInvokeObserver creates an observer bound to the provided meter/tracer.
// A nil tracer disables spans.
func NewInvokeObserver(meter metric.Meter, tracer trace.Tracer) (*InvokeObserver, error) {
	invocations, err := meter.Int64Counter(
		"musicbridge.tool.invocations",
		metric.WithDescription("Number of tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter(
		"musicbridge.tool.failures",
		metric.WithDescription("Number of tool invocations that returned an error object"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"musicbridge.tool.latency",
		metric.WithDescription("Tool latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &InvokeObserver{
		tracer:      tracer,
		invocations: invocations,
		failures:    failures,
		latency:     latency,
	}, nil
}

// ObserveInvoke records one invocation result.
func (o *InvokeObserver) ObserveInvoke(inv dispatch.Invocation) {
	if o == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("tool_id", inv.ToolID),
		attribute.String("capability_type", inv.CapabilityType),
		attribute.Bool("success", inv.Success),
	}
	if inv.ErrorCode != "" {
		attrs = append(attrs, attribute.String("error_code", inv.ErrorCode))
	}

	ctx := context.Background()
	elapsed := time.Duration(inv.DurationMS) * time.Millisecond
	options := metric.WithAttributes(attrs...)
	o.invocations.Add(ctx, 1, options)
	if !inv.Success {
		o.failures.Add(ctx, 1, options)
	}
	o.latency.Record(ctx, elapsed.Seconds(), options)

	if o.tracer == nil {
		return
	}
	started := inv.StartedAt
	if started.IsZero() {
		started = time.Now().Add(-elapsed)
	}
	spanAttrs := append(attrs[:len(attrs):len(attrs)], attribute.String("request_id", inv.RequestID))
	_, span := o.tracer.Start(ctx, "tool.invoke",
		trace.WithAttributes(spanAttrs...),
		trace.WithTimestamp(started),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	if inv.Success {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, inv.ErrorCode)
	}
	span.End(trace.WithTimestamp(started.Add(elapsed)))
}

var _ dispatch.Observer = (*InvokeObserver)(nil)
