package automation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/petal-labs/musicbridge/osascript"
	"github.com/petal-labs/musicbridge/osascript/osascripttest"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		result osascript.Result
		want   Kind
	}{
		{
			name:   "permission not authorized",
			result: osascripttest.Failure("execution error: Not authorized to send Apple events to Music. (-1743)"),
			want:   KindPermissionDenied,
		},
		{
			name:   "permission not allowed",
			result: osascripttest.Failure("osascript is NOT ALLOWED assistive access"),
			want:   KindPermissionDenied,
		},
		{
			name:   "application not running",
			result: osascripttest.Failure("Music got an error: Application isn't running. (-600)"),
			want:   KindNotRunning,
		},
		{
			name:   "generic failure",
			result: osascripttest.Failure("syntax error: Expected end of line (-2741)"),
			want:   KindExecutionFailed,
		},
		{
			name:   "spawn failure",
			result: osascript.Result{Stderr: "exec: no such file", ExitCode: -1},
			want:   KindExecutionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.result)
			if got := KindOf(err); got != tt.want {
				t.Fatalf("KindOf(Classify()) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifySuccessIsNil(t *testing.T) {
	if err := Classify(osascripttest.Stdout("ok")); err != nil {
		t.Fatalf("Classify() = %v, want nil", err)
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	// Permission rules come first, so a message matching both categories is
	// reported as a permission problem.
	err := Classify(osascripttest.Failure("Not authorized: Music isn't running"))
	if got := KindOf(err); got != KindPermissionDenied {
		t.Fatalf("KindOf() = %q, want %q", got, KindPermissionDenied)
	}

	rules := Rules()
	if len(rules) != 3 || rules[0].Kind != KindPermissionDenied || rules[2].Kind != KindNotRunning {
		t.Fatalf("Rules() = %+v, unexpected table", rules)
	}
	rules[0].Kind = KindExecutionFailed
	if Rules()[0].Kind != KindPermissionDenied {
		t.Fatal("Rules() exposed the internal table")
	}
}

func TestClassifyGenericKeepsStderr(t *testing.T) {
	err := Classify(osascripttest.Failure("boom \"quoted\""))
	var automationErr *Error
	if !errors.As(err, &automationErr) {
		t.Fatalf("Classify() = %T, want *Error", err)
	}
	if automationErr.Stderr != "boom \"quoted\"" {
		t.Fatalf("Stderr = %q", automationErr.Stderr)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Error() = %q, want stderr text", err.Error())
	}
}

func TestExecuteSkipsCommandWhenNotRunning(t *testing.T) {
	runner := &osascripttest.Runner{Running: false}
	exec := NewExecutor(ExecutorConfig{Runner: runner})

	_, err := exec.Execute(context.Background(), `tell application "Music" to play`, true)
	if got := KindOf(err); got != KindNotRunning {
		t.Fatalf("KindOf() = %q, want %q", got, KindNotRunning)
	}
	if n := len(runner.Scripts()); n != 0 {
		t.Fatalf("scripts executed = %d, want 0", n)
	}
	if runner.Probes() != 1 {
		t.Fatalf("probes = %d, want 1", runner.Probes())
	}
}

func TestExecuteProbeFailureCountsAsNotRunning(t *testing.T) {
	runner := &osascripttest.Runner{ProbeFails: true}
	exec := NewExecutor(ExecutorConfig{Runner: runner})

	_, err := exec.Execute(context.Background(), "play", true)
	if got := KindOf(err); got != KindNotRunning {
		t.Fatalf("KindOf() = %q, want %q", got, KindNotRunning)
	}
	if n := len(runner.Scripts()); n != 0 {
		t.Fatalf("scripts executed = %d, want 0", n)
	}
}

func TestExecuteWithoutAvailabilityCheck(t *testing.T) {
	runner := &osascripttest.Runner{Results: []osascript.Result{osascripttest.Stdout("  done \n")}}
	exec := NewExecutor(ExecutorConfig{Runner: runner})

	out, err := exec.Execute(context.Background(), "activate", false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "done" {
		t.Fatalf("Execute() = %q, want trimmed stdout", out)
	}
	if runner.Probes() != 0 {
		t.Fatalf("probes = %d, want 0", runner.Probes())
	}
}

func TestExecuteClassifiesFailure(t *testing.T) {
	runner := &osascripttest.Runner{
		Running: true,
		Results: []osascript.Result{osascripttest.Failure("Not authorized to send Apple events")},
	}
	exec := NewExecutor(ExecutorConfig{Runner: runner})

	_, err := exec.Execute(context.Background(), "play", true)
	if got := KindOf(err); got != KindPermissionDenied {
		t.Fatalf("KindOf() = %q, want %q", got, KindPermissionDenied)
	}
	if n := len(runner.Scripts()); n != 1 {
		t.Fatalf("scripts executed = %d, want 1", n)
	}
}

func TestAvailabilityScriptNamesApplication(t *testing.T) {
	exec := NewExecutor(ExecutorConfig{Runner: &osascripttest.Runner{}})
	if exec.Application() != DefaultApplication {
		t.Fatalf("Application() = %q, want %q", exec.Application(), DefaultApplication)
	}
	if got := availabilityScript("Music"); !strings.Contains(got, `contains "Music"`) {
		t.Fatalf("availabilityScript() = %q", got)
	}
}
