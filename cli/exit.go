package cli

import "fmt"

// Exit codes returned by musicbridge commands.
const (
	exitSuccess = 0
	// exitValidation reports a manifest that is out of sync with the registry.
	exitValidation = 1
	// exitRuntime covers tool error results and failures opening a session.
	exitRuntime      = 2
	exitFileNotFound = 3
	exitInputParse   = 4
)

// ExitError is returned from a command's RunE when the musicbridge process
// should exit with Code. cobra prints Message; main maps Code to os.Exit.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}
