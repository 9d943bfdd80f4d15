package executor

import (
	"context"
	"errors"
	"time"

	"github.com/victoralfred/winexec/charset"
	internalexec "github.com/victoralfred/winexec/internal/exec"
)

// RunStatus classifies the outcome of a run.
type RunStatus int

const (
	// StatusSuccess indicates the child exited with code 0.
	StatusSuccess RunStatus = iota
	// StatusError indicates a nonzero exit code.
	StatusError
	// StatusTimeout indicates the timeout terminated the child.
	StatusTimeout
	// StatusCanceled indicates the caller's context was canceled.
	StatusCanceled
	// StatusKilled indicates the child died from a signal.
	StatusKilled
	// StatusLaunchFailed indicates the child never started.
	StatusLaunchFailed
)

// String returns the string representation of the status.
func (s RunStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusTimeout:
		return "timeout"
	case StatusCanceled:
		return "canceled"
	case StatusKilled:
		return "killed"
	case StatusLaunchFailed:
		return "launch_failed"
	default:
		return "unknown"
	}
}

// Result contains the outcome of one run. On timeout the output fields
// hold whatever the child produced before termination; on launch
// failure Exited is false and ExitCode is meaningless.
type Result struct {
	// RunID uniquely identifies the run.
	RunID string

	// Command is the full argument vector that was launched.
	Command []string

	// Status classifies the outcome.
	Status RunStatus

	// ExitCode is the child exit code; valid only when Exited is true.
	ExitCode int

	// Exited reports whether a child process ran and was waited for.
	Exited bool

	// Stdout holds the decoded standard output lines.
	Stdout []string

	// Stderr holds the decoded standard error lines.
	Stderr []string

	// RawStdout is the captured standard output bytes.
	RawStdout []byte

	// RawStderr is the captured standard error bytes.
	RawStderr []byte

	// Signal names the terminating signal, if any.
	Signal string

	// Duration is the wall clock time of the run.
	Duration time.Duration

	// Pid is the child process ID.
	Pid int
}

// Success reports whether the child exited with code 0.
func (r *Result) Success() bool {
	return r.Exited && r.Status == StatusSuccess
}

// buildResult assembles a Result from the internal run result. The
// encoding hint, when empty, falls back to charset detection on the
// captured bytes.
func buildResult(runID string, command []string, rr *internalexec.RunResult, runErr error, encoding string) *Result {
	result := &Result{
		RunID:   runID,
		Command: command,
	}
	if rr == nil {
		result.Status = StatusLaunchFailed
		return result
	}

	result.Exited = true
	result.ExitCode = rr.ExitCode
	result.RawStdout = rr.Stdout
	result.RawStderr = rr.Stderr
	result.Stdout = charset.Lines(rr.Stdout, encoding)
	result.Stderr = charset.Lines(rr.Stderr, encoding)
	result.Duration = rr.Duration
	result.Pid = rr.Pid
	if rr.Signal != 0 {
		result.Signal = rr.Signal.String()
	}

	switch {
	case rr.TimedOut:
		result.Status = StatusTimeout
	case errors.Is(runErr, context.Canceled):
		result.Status = StatusCanceled
	case rr.Signal != 0:
		result.Status = StatusKilled
	case rr.ExitCode == 0:
		result.Status = StatusSuccess
	default:
		result.Status = StatusError
	}
	return result
}
