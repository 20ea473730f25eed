package tool

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/petal-labs/musicbridge/automation"
)

// Error codes used for logs, telemetry and the journal. They never appear in
// the JSON returned to the host.
const (
	ErrorCodeNotRunning        = string(automation.KindNotRunning)
	ErrorCodePermissionDenied  = string(automation.KindPermissionDenied)
	ErrorCodeExecutionFailed   = string(automation.KindExecutionFailed)
	ErrorCodeInvalidArguments  = "INVALID_ARGUMENTS"
	ErrorCodeUnknownTool       = "UNKNOWN_TOOL"
	ErrorCodeUnknownCapability = "UNKNOWN_CAPABILITY"
	ErrorCodeParseFailure      = "PARSE_FAILURE"
	ErrorCodeInternal          = "INTERNAL"
	ErrorCodeInvalidHandle     = "INVALID_HANDLE"
	// ErrorCodeToolFailure marks a tool result carrying an "error" field.
	ErrorCodeToolFailure = "TOOL_FAILURE"
)

// User-facing messages for classified automation failures.
const (
	MessageNotRunning       = "Music app is not running. Please open Apple Music first."
	MessagePermissionDenied = "Automation permission denied. Grant your terminal or host application access to Music in System Settings > Privacy & Security > Automation."
)

type errorResult struct {
	Error string `json:"error"`
}

// ErrorJSON returns {"error": message} with message escaped.
func ErrorJSON(message string) string {
	return Encode(errorResult{Error: message})
}

// AutomationErrorJSON renders an executor error as its host-facing JSON form.
func AutomationErrorJSON(err error) string {
	switch automation.KindOf(err) {
	case automation.KindNotRunning:
		return ErrorJSON(MessageNotRunning)
	case automation.KindPermissionDenied:
		return ErrorJSON(MessagePermissionDenied)
	case automation.KindExecutionFailed:
		var automationErr *automation.Error
		if errors.As(err, &automationErr) {
			return ErrorJSON("Command failed: " + strings.TrimSpace(automationErr.Stderr))
		}
	}
	if err == nil {
		return ErrorJSON("Command failed")
	}
	return ErrorJSON("Command failed: " + err.Error())
}

// InvalidArgumentsJSON names the payload shape a tool expects.
func InvalidArgumentsJSON(expected string) string {
	return ErrorJSON("Invalid arguments. Expected: " + expected)
}

// UnknownToolJSON is returned for ids missing from the registry.
func UnknownToolJSON(id string) string {
	return ErrorJSON("Unknown tool: " + id)
}

// UnknownCapabilityJSON is returned for capability types other than "tool".
func UnknownCapabilityJSON(capabilityType string) string {
	return ErrorJSON("Unknown capability type: " + capabilityType)
}

// ParseFailureJSON reports a response with fewer fields than expected.
// what names the information, e.g. "track".
func ParseFailureJSON(what string) string {
	return ErrorJSON(fmt.Sprintf("Failed to parse %s information", what))
}

// InternalErrorJSON reports a recovered fault.
func InternalErrorJSON(detail any) string {
	return ErrorJSON(fmt.Sprintf("Internal error: %v", detail))
}

// errorCodePrefixes maps host-facing error messages back to taxonomy codes.
var errorCodePrefixes = []struct {
	prefix string
	code   string
}{
	{MessageNotRunning, ErrorCodeNotRunning},
	{MessagePermissionDenied, ErrorCodePermissionDenied},
	{"Command failed", ErrorCodeExecutionFailed},
	{"Invalid arguments.", ErrorCodeInvalidArguments},
	{"Unknown tool: ", ErrorCodeUnknownTool},
	{"Unknown capability type: ", ErrorCodeUnknownCapability},
	{"Failed to parse ", ErrorCodeParseFailure},
	{"Internal error", ErrorCodeInternal},
	{"Invalid plugin handle", ErrorCodeInvalidHandle},
}

// ErrorCode returns the taxonomy code for a tool result, or "" when the
// result carries no "error" field. Errors that are part of a tool's own
// result shape, such as play_song's not-found reply, map to
// ErrorCodeToolFailure.
func ErrorCode(result string) string {
	value := codec.Get([]byte(result), "error")
	if value.ValueType() == jsoniter.InvalidValue {
		return ""
	}
	message := value.ToString()
	for _, entry := range errorCodePrefixes {
		if strings.HasPrefix(message, entry.prefix) {
			return entry.code
		}
	}
	return ErrorCodeToolFailure
}
