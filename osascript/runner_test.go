package osascript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func helperRunner(mode string) *ExecRunner {
	return &ExecRunner{
		Command: os.Args[0],
		Args:    []string{"-test.run=TestRunnerHelperProcess", "--"},
		Env: map[string]string{
			"GO_WANT_OSASCRIPT_HELPER": "1",
			"OSASCRIPT_HELPER_MODE":    mode,
		},
	}
}

func TestExecRunnerCapturesStdout(t *testing.T) {
	result := helperRunner("echo").Run(context.Background(), `tell application "Music" to play`)
	if !result.Success() {
		t.Fatalf("Run() exit = %d, stderr = %q", result.ExitCode, result.Stderr)
	}
	if got := strings.TrimSpace(result.Stdout); got != `tell application "Music" to play` {
		t.Fatalf("stdout = %q, want echoed script", got)
	}
	if result.Stderr != "" {
		t.Fatalf("stderr = %q, want empty", result.Stderr)
	}
}

func TestExecRunnerCapturesFailure(t *testing.T) {
	result := helperRunner("fail").Run(context.Background(), "anything")
	if result.Success() {
		t.Fatal("Run() succeeded, want failure")
	}
	if result.ExitCode != 1 {
		t.Fatalf("exit = %d, want 1", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "Not authorized to send Apple events") {
		t.Fatalf("stderr = %q, want helper message", result.Stderr)
	}
}

func TestExecRunnerSpawnFailure(t *testing.T) {
	runner := &ExecRunner{Command: filepath.Join(t.TempDir(), "missing-osascript")}
	result := runner.Run(context.Background(), "play")
	if result.Success() {
		t.Fatal("Run() succeeded, want spawn failure")
	}
	if result.ExitCode != spawnFailureExitCode {
		t.Fatalf("exit = %d, want %d", result.ExitCode, spawnFailureExitCode)
	}
	if result.Stderr == "" {
		t.Fatal("stderr empty, want spawn error text")
	}
}

func TestFlattenEnvSorted(t *testing.T) {
	got := flattenEnv(map[string]string{"B": "2", "A": "1"})
	if strings.Join(got, ",") != "A=1,B=2" {
		t.Fatalf("flattenEnv() = %v", got)
	}
}

func TestRunnerHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_OSASCRIPT_HELPER") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) != 2 || args[0] != "-e" {
		fmt.Fprintf(os.Stderr, "unexpected args: %v", args)
		os.Exit(2)
	}

	switch os.Getenv("OSASCRIPT_HELPER_MODE") {
	case "fail":
		fmt.Fprint(os.Stderr, "execution error: Not authorized to send Apple events to Music. (-1743)")
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stdout, args[1])
		os.Exit(0)
	}
}
