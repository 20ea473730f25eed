package automation

import (
	"errors"
	"strings"
)

// Kind is the closed set of failure categories an automation command can
// produce.
type Kind string

const (
	// KindNotRunning means the Music app is not open.
	KindNotRunning Kind = "NOT_RUNNING"
	// KindPermissionDenied means the host lacks the macOS Automation grant.
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	// KindExecutionFailed covers every other nonzero exit.
	KindExecutionFailed Kind = "EXECUTION_FAILED"
)

// Error is a classified automation failure.
type Error struct {
	Kind Kind
	// Stderr holds the raw stderr text for KindExecutionFailed.
	Stderr   string
	ExitCode int
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindNotRunning:
		return "automation: target application is not running"
	case KindPermissionDenied:
		return "automation: permission denied"
	default:
		msg := strings.TrimSpace(e.Stderr)
		if msg == "" {
			return "automation: command failed"
		}
		return "automation: command failed: " + msg
	}
}

// KindOf returns the classified kind of err, or "" when err is not an
// automation error.
func KindOf(err error) Kind {
	var automationErr *Error
	if errors.As(err, &automationErr) && automationErr != nil {
		return automationErr.Kind
	}
	return ""
}
