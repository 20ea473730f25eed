// Package osascript runs automation scripts through the macOS osascript
// binary and captures their raw output.
package osascript

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"
)

// DefaultCommand is the osascript binary shipped with macOS.
const DefaultCommand = "/usr/bin/osascript"

// spawnFailureExitCode is reported when the process could not be started.
const spawnFailureExitCode = -1

// Result is the captured outcome of one script execution.
type Result struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes a single script and blocks until the process exits.
type Runner interface {
	Run(ctx context.Context, script string) Result
}

// ExecRunner spawns one osascript process per call.
//
// No timeout is applied; ctx is only honored when the caller cancels it.
type ExecRunner struct {
	// Command overrides DefaultCommand.
	Command string
	// Args are placed before the "-e <script>" pair.
	Args []string
	// Env is appended to the parent environment.
	Env    map[string]string
	Logger *slog.Logger
}

// NewExecRunner returns a runner for the default osascript binary.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{Command: DefaultCommand, Logger: logger}
}

// Run executes script and returns stdout, stderr and exit status. A process
// that fails to spawn is reported with a nonzero status and the spawn error
// as stderr.
func (r *ExecRunner) Run(ctx context.Context, script string) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	command := DefaultCommand
	var args []string
	var env map[string]string
	logger := slog.Default()
	if r != nil {
		if c := strings.TrimSpace(r.Command); c != "" {
			command = c
		}
		args = slices.Clone(r.Args)
		env = r.Env
		if r.Logger != nil {
			logger = r.Logger
		}
	}
	args = append(args, "-e", script)

	// #nosec G204 -- command is configured by the operator, script is built by this module.
	cmd := exec.CommandContext(ctx, command, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), flattenEnv(env)...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running automation script", "command", command, "script_bytes", len(script))
	err := cmd.Run()
	if err == nil {
		return Result{Stdout: stdout.String(), Stderr: stderr.String()}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: nonZero(exitErr.ExitCode()),
		}
	}

	logger.Warn("automation process failed to start", "command", command, "error", err)
	return Result{
		Stdout:   stdout.String(),
		Stderr:   err.Error(),
		ExitCode: spawnFailureExitCode,
	}
}

// nonZero keeps signal-terminated processes (ExitCode -1) distinguishable
// from success.
func nonZero(code int) int {
	if code == 0 {
		return spawnFailureExitCode
	}
	return code
}

func flattenEnv(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	out := make([]string, 0, len(values))
	for _, key := range keys {
		out = append(out, key+"="+values[key])
	}
	return out
}
