package dispatch

import "time"

// Invocation captures one dispatched call and its outcome.
type Invocation struct {
	RequestID      string
	CapabilityType string
	ToolID         string
	Payload        string
	Result         string
	StartedAt      time.Time
	DurationMS     int64
	Success        bool
	// ErrorCode is one of the tool.ErrorCode* values, empty on success.
	ErrorCode string
}

// Observer receives invocation events. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveInvoke(invocation Invocation)
}

type noopObserver struct{}

func (noopObserver) ObserveInvoke(Invocation) {}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Invocation)

// ObserveInvoke calls f.
func (f ObserverFunc) ObserveInvoke(invocation Invocation) {
	f(invocation)
}

// MultiObserver fans events out to every non-nil observer in order.
func MultiObserver(observers ...Observer) Observer {
	var active []Observer
	for _, o := range observers {
		if o != nil {
			active = append(active, o)
		}
	}
	switch len(active) {
	case 0:
		return noopObserver{}
	case 1:
		return active[0]
	}
	return multiObserver(active)
}

type multiObserver []Observer

func (m multiObserver) ObserveInvoke(invocation Invocation) {
	for _, o := range m {
		o.ObserveInvoke(invocation)
	}
}
