package executor

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common conditions.
var (
	// ErrMissingContext indicates Wine execution was required but no
	// context could be resolved.
	ErrMissingContext = errors.New("no wine context available")

	// ErrLaunch indicates the OS refused or failed to spawn the
	// process (binary missing, permission denied).
	ErrLaunch = errors.New("process launch failed")

	// ErrTimeout indicates the child exceeded the allotted time and
	// was terminated.
	ErrTimeout = errors.New("process timed out")

	// ErrCanceled indicates the caller's context was canceled.
	ErrCanceled = errors.New("run canceled")

	// ErrAlreadyRun indicates Run was called on a finished Process.
	ErrAlreadyRun = errors.New("process already run")

	// ErrRunning indicates Run was called while a run is in flight.
	ErrRunning = errors.New("process is running")
)

// ErrorCode provides structured error classification.
type ErrorCode string

const (
	// ErrCodeMissingContext indicates context resolution failure.
	ErrCodeMissingContext ErrorCode = "MISSING_CONTEXT"

	// ErrCodeLaunchFailed indicates spawn failure.
	ErrCodeLaunchFailed ErrorCode = "LAUNCH_FAILED"

	// ErrCodeTimeout indicates timeout.
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// ErrCodeCanceled indicates cancellation.
	ErrCodeCanceled ErrorCode = "CANCELED"

	// ErrCodeInternalError indicates an internal error.
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ExecError provides detailed error information for a failed run.
type ExecError struct {
	// Op is the operation that failed.
	Op string

	// Exe is the executable being run.
	Exe string

	// Err is the underlying error.
	Err error

	// Code is the structured error code.
	Code ErrorCode

	// Details provides human-readable details.
	Details string
}

// Error returns the error message.
func (e *ExecError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Exe, e.Details)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Exe, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target.
func (e *ExecError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewMissingContextError creates a missing-context error.
func NewMissingContextError(exe string, cause error) error {
	return &ExecError{
		Op:      "resolve_context",
		Exe:     exe,
		Err:     errors.Join(ErrMissingContext, cause),
		Code:    ErrCodeMissingContext,
		Details: "wine execution required but no context is registered",
	}
}

// NewLaunchError creates a launch error.
func NewLaunchError(exe string, cause error) error {
	return &ExecError{
		Op:   "launch",
		Exe:  exe,
		Err:  errors.Join(ErrLaunch, cause),
		Code: ErrCodeLaunchFailed,
	}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(exe string, timeout time.Duration) error {
	return &ExecError{
		Op:      "run",
		Exe:     exe,
		Err:     ErrTimeout,
		Code:    ErrCodeTimeout,
		Details: fmt.Sprintf("execution exceeded timeout of %s", timeout),
	}
}

// NewCanceledError creates a cancellation error.
func NewCanceledError(exe string, cause error) error {
	return &ExecError{
		Op:   "run",
		Exe:  exe,
		Err:  errors.Join(ErrCanceled, cause),
		Code: ErrCodeCanceled,
	}
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	var execErr *ExecError
	if errors.As(err, &execErr) {
		return execErr.Code
	}
	return ErrCodeInternalError
}
