package plugin

import (
	"context"
	"log/slog"
	"sync"

	"github.com/petal-labs/musicbridge/tool"
)

// Handle identifies a plugin context. The zero Handle is never issued.
type Handle uint64

// Module is the contract a plugin host drives.
type Module interface {
	Init() Handle
	Destroy(h Handle)
	Describe(h Handle) string
	Invoke(h Handle, capabilityType, toolID, payload string) string
}

// MessageInvalidHandle is returned for unknown or destroyed handles.
const MessageInvalidHandle = "Invalid plugin handle"

// Adapter implements Module with a handle table of Contexts.
type Adapter struct {
	opts   Options
	logger *slog.Logger

	mu       sync.RWMutex
	next     Handle
	contexts map[Handle]*Context
}

// NewAdapter returns an adapter that builds every context from opts.
func NewAdapter(opts Options) *Adapter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		opts:     opts,
		logger:   logger,
		contexts: make(map[Handle]*Context),
	}
}

// Init creates a context and returns its handle, or 0 on failure.
func (a *Adapter) Init() Handle {
	c, err := NewContext(a.opts)
	if err != nil {
		a.logger.Error("plugin init failed", "error", err)
		return 0
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	h := a.next
	a.contexts[h] = c
	a.logger.Debug("plugin context created", "handle", uint64(h), "tools", c.registry.Len())
	return h
}

// Destroy releases the context behind h. Unknown handles are ignored.
func (a *Adapter) Destroy(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.contexts[h]; !ok {
		a.logger.Warn("destroy of unknown plugin handle", "handle", uint64(h))
		return
	}
	delete(a.contexts, h)
}

// Describe returns the manifest for h.
func (a *Adapter) Describe(h Handle) string {
	c, ok := a.lookup(h)
	if !ok {
		return tool.ErrorJSON(MessageInvalidHandle)
	}
	return c.Describe()
}

// Invoke dispatches a tool call on h. The host is blocked until the tool
// returns.
func (a *Adapter) Invoke(h Handle, capabilityType, toolID, payload string) string {
	return a.InvokeContext(context.Background(), h, capabilityType, toolID, payload)
}

// InvokeContext is Invoke with a caller-supplied context for cancellation.
func (a *Adapter) InvokeContext(ctx context.Context, h Handle, capabilityType, toolID, payload string) string {
	c, ok := a.lookup(h)
	if !ok {
		return tool.ErrorJSON(MessageInvalidHandle)
	}
	return c.Invoke(ctx, capabilityType, toolID, payload)
}

// Context returns the context behind h.
func (a *Adapter) Context(h Handle) (*Context, bool) {
	return a.lookup(h)
}

// Len returns the number of live contexts.
func (a *Adapter) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.contexts)
}

func (a *Adapter) lookup(h Handle) (*Context, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := a.contexts[h]
	return c, ok
}

var _ Module = (*Adapter)(nil)
