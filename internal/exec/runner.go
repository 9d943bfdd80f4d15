// Package exec provides the internal process-spawning wrapper.
// This is the ONLY package in the module that imports os/exec.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"syscall"
	"time"
)

// ErrStart indicates the OS refused or failed to spawn the process.
// It is distinct from a nonzero exit: start failures mean no child ever
// ran.
var ErrStart = errors.New("process start failed")

// Runner executes commands using os/exec.CommandContext.
type Runner struct{}

// NewRunner creates a new command runner.
func NewRunner() *Runner {
	return &Runner{}
}

// RunConfig contains configuration for running a command.
type RunConfig struct {
	// Binary is the path of the executable to spawn.
	Binary string

	// Args are the command arguments (excluding the binary name).
	Args []string

	// Env is the full child environment as KEY=value pairs.
	Env []string

	// WorkingDir is the working directory.
	WorkingDir string

	// Stdin provides input to the command.
	Stdin io.Reader

	// Stdout receives standard output. If nil, output is captured.
	Stdout io.Writer

	// Stderr receives standard error. If nil, output is captured.
	Stderr io.Writer
}

// RunResult contains the result of command execution. On timeout the
// captured buffers hold whatever the child produced before termination.
type RunResult struct {
	// ExitCode is the process exit code, -1 when the child was killed.
	ExitCode int

	// Signal is the signal that terminated the process, if any.
	Signal syscall.Signal

	// Stdout contains captured standard output (if not streaming).
	Stdout []byte

	// Stderr contains captured standard error (if not streaming).
	Stderr []byte

	// Duration is the wall clock time of execution.
	Duration time.Duration

	// Pid is the child process ID.
	Pid int

	// TimedOut reports whether the context deadline killed the child.
	TimedOut bool
}

// Run spawns the configured command and waits for it. The context
// carries cancellation and any deadline; when it fires the child is
// terminated and the partial output is still attached to the result.
// A start failure returns an error wrapping ErrStart and no result.
func (r *Runner) Run(ctx context.Context, config *RunConfig) (*RunResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Separate binary and args, never shell execution: the command line
	// cannot be re-split or injected into.
	cmd := exec.CommandContext(ctx, config.Binary, config.Args...)
	cmd.Env = config.Env
	if config.WorkingDir != "" {
		cmd.Dir = config.WorkingDir
	}
	if config.Stdin != nil {
		cmd.Stdin = config.Stdin
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	if config.Stdout != nil {
		cmd.Stdout = config.Stdout
	} else {
		cmd.Stdout = &stdoutBuf
	}
	if config.Stderr != nil {
		cmd.Stderr = config.Stderr
	} else {
		cmd.Stderr = &stderrBuf
	}

	cmd.SysProcAttr = defaultSysProcAttr()
	cmd.Cancel = killFunc(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.Join(ErrStart, err)
	}

	waitErr := cmd.Wait()
	result := &RunResult{
		Duration: time.Since(start),
		Pid:      cmd.Process.Pid,
	}
	if config.Stdout == nil {
		result.Stdout = stdoutBuf.Bytes()
	}
	if config.Stderr == nil {
		result.Stderr = stderrBuf.Bytes()
	}

	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
		if sig, ok := extractSignal(cmd.ProcessState.Sys()); ok {
			result.Signal = sig
		}
	}

	if ctx.Err() != nil {
		result.TimedOut = errors.Is(ctx.Err(), context.DeadlineExceeded)
		return result, ctx.Err()
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		// I/O plumbing failure after a successful start.
		return result, waitErr
	}
	return result, nil
}
