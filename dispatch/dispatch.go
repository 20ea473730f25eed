// Package dispatch routes host invocations to registered tools.
//
// Invoke never panics and always returns a JSON object: routing failures and
// recovered tool faults are reported as {"error": ...} results.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/petal-labs/musicbridge/tool"
)

// Dispatcher resolves (capability type, tool id) pairs against a registry.
type Dispatcher struct {
	registry *tool.Registry
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
	newID    func() string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver registers an observer for every invocation.
func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) {
		if observer != nil {
			d.observer = observer
		}
	}
}

// New creates a dispatcher over registry.
func New(registry *tool.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		logger:   slog.Default(),
		observer: noopObserver{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher routes to.
func (d *Dispatcher) Registry() *tool.Registry {
	return d.registry
}

// Invoke runs the tool named toolID. Only the "tool" capability type is
// routed; anything else is rejected before the registry is consulted.
func (d *Dispatcher) Invoke(ctx context.Context, capabilityType, toolID, payload string) string {
	started := d.now()
	inv := Invocation{
		RequestID:      d.newID(),
		CapabilityType: capabilityType,
		ToolID:         toolID,
		Payload:        payload,
		StartedAt:      started,
	}

	result := d.route(ctx, inv.RequestID, capabilityType, toolID, payload)

	inv.Result = result
	inv.DurationMS = d.now().Sub(started).Milliseconds()
	inv.ErrorCode = tool.ErrorCode(result)
	inv.Success = inv.ErrorCode == ""
	d.observer.ObserveInvoke(inv)
	return result
}

func (d *Dispatcher) route(ctx context.Context, requestID, capabilityType, toolID, payload string) string {
	if capabilityType != tool.CapabilityTool {
		d.logger.Warn("unknown capability type", "request_id", requestID, "capability_type", capabilityType)
		return tool.UnknownCapabilityJSON(capabilityType)
	}
	t, ok := d.registry.Lookup(toolID)
	if !ok {
		d.logger.Warn("unknown tool", "request_id", requestID, "tool", toolID)
		return tool.UnknownToolJSON(toolID)
	}

	d.logger.Debug("invoking tool", "request_id", requestID, "tool", toolID)
	return d.run(ctx, requestID, t, payload)
}

func (d *Dispatcher) run(ctx context.Context, requestID string, t tool.Tool, payload string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool panicked", "request_id", requestID, "tool", t.Spec().ID, "panic", fmt.Sprint(r))
			result = tool.InternalErrorJSON(r)
		}
	}()
	return t.Run(ctx, payload)
}
