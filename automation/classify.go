package automation

import (
	"strings"

	"github.com/petal-labs/musicbridge/osascript"
)

// Rule maps a case-insensitive stderr substring to a failure kind.
type Rule struct {
	Substring string
	Kind      Kind
}

// Evaluated top to bottom; the first match wins.
//
//	substring       | kind
//	----------------+-------------------
//	not authorized  | PERMISSION_DENIED
//	not allowed     | PERMISSION_DENIED
//	isn't running   | NOT_RUNNING
//	(anything else) | EXECUTION_FAILED
var classificationRules = []Rule{
	{Substring: "not authorized", Kind: KindPermissionDenied},
	{Substring: "not allowed", Kind: KindPermissionDenied},
	{Substring: "isn't running", Kind: KindNotRunning},
}

// Rules returns a copy of the ordered classification table.
func Rules() []Rule {
	out := make([]Rule, len(classificationRules))
	copy(out, classificationRules)
	return out
}

// Classify converts a finished command into an error. It returns nil for a
// zero exit status.
func Classify(result osascript.Result) error {
	if result.Success() {
		return nil
	}
	stderr := strings.ToLower(result.Stderr)
	for _, rule := range classificationRules {
		if strings.Contains(stderr, rule.Substring) {
			return &Error{Kind: rule.Kind, ExitCode: result.ExitCode}
		}
	}
	return &Error{
		Kind:     KindExecutionFailed,
		Stderr:   result.Stderr,
		ExitCode: result.ExitCode,
	}
}
