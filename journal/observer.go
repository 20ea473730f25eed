package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/petal-labs/musicbridge/dispatch"
)

// Recorder is a dispatch.Observer that writes every invocation to a store.
// Write failures are logged and never affect the tool result.
type Recorder struct {
	store   *SQLiteStore
	logger  *slog.Logger
	timeout time.Duration
}

// NewRecorder wraps store. A nil logger uses slog.Default().
func NewRecorder(store *SQLiteStore, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger, timeout: 5 * time.Second}
}

// ObserveInvoke records inv.
func (r *Recorder) ObserveInvoke(inv dispatch.Invocation) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.store.Record(ctx, EntryFromInvocation(inv)); err != nil {
		r.logger.Warn("journal write failed", "request_id", inv.RequestID, "tool", inv.ToolID, "error", err)
	}
}

// EntryFromInvocation converts a dispatcher observation to a journal entry.
func EntryFromInvocation(inv dispatch.Invocation) Entry {
	return Entry{
		RequestID:      inv.RequestID,
		CapabilityType: inv.CapabilityType,
		ToolID:         inv.ToolID,
		Payload:        inv.Payload,
		Result:         inv.Result,
		Success:        inv.Success,
		ErrorCode:      inv.ErrorCode,
		StartedAt:      inv.StartedAt,
		Duration:       time.Duration(inv.DurationMS) * time.Millisecond,
	}
}

var _ dispatch.Observer = (*Recorder)(nil)
