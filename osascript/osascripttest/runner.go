// Package osascripttest provides a scripted osascript.Runner for tests.
package osascripttest

import (
	"context"
	"strings"
	"sync"

	"github.com/petal-labs/musicbridge/osascript"
)

// Runner replays canned results and records every script it receives.
//
// Scripts that mention "System Events" are treated as availability probes
// and answered from Running; every other script consumes the next entry of
// Results (or Default when the queue is empty).
type Runner struct {
	Running bool
	// ProbeFails makes availability probes exit nonzero.
	ProbeFails bool
	Results    []osascript.Result
	Default    osascript.Result

	mu      sync.Mutex
	probes  int
	scripts []string
}

// Run implements osascript.Runner.
func (r *Runner) Run(_ context.Context, script string) osascript.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.Contains(script, `"System Events"`) {
		r.probes++
		if r.ProbeFails {
			return osascript.Result{Stderr: "System Events got an error", ExitCode: 1}
		}
		if r.Running {
			return osascript.Result{Stdout: "true\n"}
		}
		return osascript.Result{Stdout: "false\n"}
	}

	r.scripts = append(r.scripts, script)
	if len(r.Results) == 0 {
		return r.Default
	}
	next := r.Results[0]
	r.Results = r.Results[1:]
	return next
}

// Scripts returns the non-probe scripts executed so far.
func (r *Runner) Scripts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.scripts))
	copy(out, r.scripts)
	return out
}

// Probes returns the number of availability probes.
func (r *Runner) Probes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.probes
}

// Stdout is shorthand for a successful result.
func Stdout(text string) osascript.Result {
	return osascript.Result{Stdout: text}
}

// Failure is shorthand for a nonzero exit with stderr text.
func Failure(stderr string) osascript.Result {
	return osascript.Result{Stderr: stderr, ExitCode: 1}
}
