package output

import "errors"

// Process exit statuses. A run that printed the whole graph exits with
// ExitSuccess; bad input from the user and failures of git or the repository
// are told apart so scripts can react to them.
const (
	ExitSuccess     = 0
	ExitUserError   = 1 // Flags, glyph style or config file
	ExitSystemError = 2 // git failed, repository layout, malformed log stream
)

// ExitError carries the exit status the failed run should end with.
// Message says what git-vines was doing; Cause is the failure underneath.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

func newExitError(code int, message string, cause error) *ExitError {
	return &ExitError{Code: code, Message: message, Cause: cause}
}

// NewUserError reports input the user can correct, such as --style 7.
func NewUserError(message string) *ExitError {
	return newExitError(ExitUserError, message, nil)
}

// NewUserErrorWithCause is NewUserError with the error that exposed the
// problem, such as a yaml decode failure.
func NewUserErrorWithCause(message string, cause error) *ExitError {
	return newExitError(ExitUserError, message, cause)
}

// NewSystemError reports a repository git-vines cannot read, such as a .git
// file without a gitdir line.
func NewSystemError(message string) *ExitError {
	return newExitError(ExitSystemError, message, nil)
}

// NewSystemErrorWithCause wraps a git or stream failure.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return newExitError(ExitSystemError, message, cause)
}

// GetExitCode maps the error a command returned to a process exit status.
// Errors without an ExitError in their chain count as user errors, since
// cobra reports unknown flags and bad arguments that way.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUserError
}
