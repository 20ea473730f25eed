// Package automation runs Music automation scripts and classifies their
// failures into a small, fixed taxonomy.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/petal-labs/musicbridge/osascript"
)

// DefaultApplication is the process name of Apple Music on macOS.
const DefaultApplication = "Music"

// Executor checks availability, runs a script and classifies the outcome.
type Executor struct {
	runner      osascript.Runner
	application string
	logger      *slog.Logger
}

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	Runner osascript.Runner
	// Application is the process name probed before commands that need it.
	Application string
	Logger      *slog.Logger
}

// NewExecutor builds an executor. A nil Runner defaults to osascript.
func NewExecutor(cfg ExecutorConfig) *Executor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runner := cfg.Runner
	if runner == nil {
		runner = osascript.NewExecRunner(logger)
	}
	app := strings.TrimSpace(cfg.Application)
	if app == "" {
		app = DefaultApplication
	}
	return &Executor{
		runner:      runner,
		application: app,
		logger:      logger,
	}
}

// Execute runs script and returns its trimmed stdout. When requireRunning is
// set and the application is not running, the script is never run.
func (e *Executor) Execute(ctx context.Context, script string, requireRunning bool) (string, error) {
	if requireRunning && !e.IsRunning(ctx) {
		e.logger.Debug("skipping automation command, application not running", "application", e.application)
		return "", &Error{Kind: KindNotRunning}
	}

	result := e.runner.Run(ctx, script)
	if err := Classify(result); err != nil {
		e.logger.Warn("automation command failed",
			"application", e.application,
			"kind", KindOf(err),
			"exit_code", result.ExitCode,
		)
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

// IsRunning probes the process listing for the application. A failing probe
// counts as not running.
func (e *Executor) IsRunning(ctx context.Context) bool {
	result := e.runner.Run(ctx, availabilityScript(e.application))
	if !result.Success() {
		e.logger.Debug("availability probe failed", "application", e.application, "stderr", strings.TrimSpace(result.Stderr))
		return false
	}
	return strings.TrimSpace(result.Stdout) == "true"
}

// Application returns the probed process name.
func (e *Executor) Application() string {
	return e.application
}

func availabilityScript(application string) string {
	return fmt.Sprintf(`tell application "System Events" to (name of processes) contains "%s"`, application)
}
