// Package executor provides the process wrapper that launches Windows
// executables either natively or through a Wine context.
package executor

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/victoralfred/winexec/hooks"
	internalexec "github.com/victoralfred/winexec/internal/exec"
	"github.com/victoralfred/winexec/observability"
	"github.com/victoralfred/winexec/wine"
)

// runner abstracts the internal process runner for testability.
type runner interface {
	Run(ctx context.Context, config *internalexec.RunConfig) (*internalexec.RunResult, error)
}

// State is the lifecycle state of a Process.
type State int

const (
	// StateCreated means Run has not been called yet.
	StateCreated State = iota
	// StateRunning means a run is in flight.
	StateRunning
	// StateFinished means a spawn was attempted and the run concluded.
	StateFinished
)

// Process wraps one executable plus its argument groups and runs it at
// most once. Arguments are added incrementally before Run; after a
// spawn attempt the Process is finished and a further Run returns
// ErrAlreadyRun while the cached result stays readable. Setup failures
// that happen before any spawn (unresolvable context, rejected hook)
// leave the Process in its created state so a corrected Run may follow.
//
// A Process references at most one wine.Context, shared and never
// mutated; distinct Process instances may run concurrently.
type Process struct {
	exe    string
	runner runner

	mu     sync.Mutex
	groups []Group
	state  State
	result *Result
}

// New creates a Process for the given executable path or bare Wine tool
// name.
func New(exe string) *Process {
	return &Process{
		exe:    exe,
		runner: internalexec.NewRunner(),
	}
}

// Exe returns the target executable.
func (p *Process) Exe() string { return p.exe }

// SetArguments replaces the entire argument list. It returns the
// Process for chaining.
func (p *Process) SetArguments(groups ...Group) *Process {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.groups = append([]Group(nil), groups...)
	return p
}

// AddArguments appends argument groups, preserving order.
func (p *Process) AddArguments(groups ...Group) *Process {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.groups = append(p.groups, groups...)
	return p
}

// runConfig collects per-run options.
type runConfig struct {
	context     *wine.Context
	contextName string
	registry    *wine.Registry
	dir         string
	timeout     time.Duration
	env         map[string]string
	encoding    string
	stdin       io.Reader
	hooks       *hooks.Registry
	telemetry   observability.Telemetry
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

// WithContext binds an explicit wine context, bypassing the registry.
func WithContext(ctx *wine.Context) RunOption {
	return func(c *runConfig) { c.context = ctx }
}

// WithContextName resolves the named context from the registry instead
// of the default one.
func WithContextName(name string) RunOption {
	return func(c *runConfig) { c.contextName = name }
}

// WithRegistry resolves contexts from reg instead of the process-wide
// registry.
func WithRegistry(reg *wine.Registry) RunOption {
	return func(c *runConfig) { c.registry = reg }
}

// WithDir sets the child working directory. Without it the directory
// of the executable is used when it has one.
func WithDir(dir string) RunOption {
	return func(c *runConfig) { c.dir = dir }
}

// WithTimeout bounds the run; on expiry the child is terminated, Run
// fails with ErrTimeout and the partial output stays accessible.
// Timeout is the sole cancellation mechanism besides the Run context.
func WithTimeout(timeout time.Duration) RunOption {
	return func(c *runConfig) { c.timeout = timeout }
}

// WithEnv adds a caller environment override, applied after any context
// overrides.
func WithEnv(key, value string) RunOption {
	return func(c *runConfig) {
		if c.env == nil {
			c.env = make(map[string]string)
		}
		c.env[key] = value
	}
}

// WithEncoding declares the child's output encoding. Without it the
// captured bytes go through best-effort charset detection.
func WithEncoding(name string) RunOption {
	return func(c *runConfig) { c.encoding = name }
}

// WithStdin provides input to the child.
func WithStdin(r io.Reader) RunOption {
	return func(c *runConfig) { c.stdin = r }
}

// WithHooks attaches a hook registry invoked around the spawn.
func WithHooks(reg *hooks.Registry) RunOption {
	return func(c *runConfig) { c.hooks = reg }
}

// WithTelemetry attaches a telemetry sink for this run.
func WithTelemetry(t observability.Telemetry) RunOption {
	return func(c *runConfig) { c.telemetry = t }
}

// Run launches the process and blocks until it exits or the timeout
// elapses, then returns the Process itself for run-and-inspect
// chaining. Exactly one OS process is spawned per call; no retries.
// A nonzero child exit code is reported through ExitCode, never as an
// error.
func (p *Process) Run(ctx context.Context, opts ...RunOption) (*Process, error) {
	cfg := runConfig{telemetry: observability.NoopTelemetry()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := p.begin(); err != nil {
		return p, err
	}

	ctx, endSpan := cfg.telemetry.StartSpan(ctx, "process.Run",
		observability.WithAttribute("exe", p.exe))
	defer endSpan()

	runID := uuid.New().String()

	mode := resolveMode(p.exe)
	var l launcher
	if mode == modeWine {
		wctx, err := p.resolveContext(&cfg)
		if err != nil {
			p.abort()
			return p, err
		}
		l = &wineLauncher{ctx: wctx}
	} else {
		l = nativeLauncher{}
	}

	tr := l.translator()
	p.mu.Lock()
	argv := expandGroups(p.groups, tr)
	p.mu.Unlock()
	command := append(l.command(p.exe), argv...)
	env := l.environ(cfg.env)

	dir := cfg.dir
	if dir == "" {
		if d := filepath.Dir(p.exe); d != "." {
			dir = d
		}
	}

	launch := &hooks.Launch{
		RunID:   runID,
		Command: command,
		Env:     env,
		Dir:     dir,
	}
	if cfg.hooks != nil {
		if err := cfg.hooks.RunBefore(ctx, launch); err != nil {
			p.abort()
			return p, err
		}
	}

	runCtx := ctx
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	rr, runErr := p.runner.Run(runCtx, &internalexec.RunConfig{
		Binary:     launch.Command[0],
		Args:       launch.Command[1:],
		Env:        launch.Env,
		WorkingDir: launch.Dir,
		Stdin:      cfg.stdin,
	})

	result := buildResult(runID, launch.Command, rr, runErr, cfg.encoding)
	p.finish(result)

	err := p.classify(runErr, cfg.timeout)

	if cfg.hooks != nil {
		exitCode := -1
		if result.Exited {
			exitCode = result.ExitCode
		}
		if hookErr := cfg.hooks.RunAfter(ctx, launch, exitCode, err); hookErr != nil && err == nil {
			err = hookErr
		}
	}

	cfg.telemetry.RecordCounter("runs_total", map[string]string{
		"exe":    p.exe,
		"status": result.Status.String(),
	})
	cfg.telemetry.RecordDuration("run_duration_seconds", result.Duration.Seconds(), map[string]string{
		"exe":      p.exe,
		"status":   result.Status.String(),
		"exitcode": strconv.Itoa(result.ExitCode),
	})

	return p, err
}

// classify maps a runner error to the public error taxonomy.
func (p *Process) classify(runErr error, timeout time.Duration) error {
	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, internalexec.ErrStart):
		return NewLaunchError(p.exe, runErr)
	case errors.Is(runErr, context.DeadlineExceeded):
		return NewTimeoutError(p.exe, timeout)
	case errors.Is(runErr, context.Canceled):
		return NewCanceledError(p.exe, runErr)
	default:
		return &ExecError{Op: "run", Exe: p.exe, Err: runErr, Code: ErrCodeInternalError}
	}
}

// begin transitions Created -> Running.
func (p *Process) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case StateRunning:
		return ErrRunning
	case StateFinished:
		return ErrAlreadyRun
	}
	p.state = StateRunning
	return nil
}

// abort reverts to Created after a pre-spawn failure; no partial state
// is kept.
func (p *Process) abort() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateCreated
}

// finish records the result of a spawn attempt.
func (p *Process) finish(result *Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result = result
	p.state = StateFinished
}

// resolveContext picks the explicit context or falls back to the
// registry default.
func (p *Process) resolveContext(cfg *runConfig) (*wine.Context, error) {
	if cfg.context != nil {
		return cfg.context, nil
	}
	reg := cfg.registry
	if reg == nil {
		reg = wine.DefaultRegistry()
	}
	wctx, err := reg.Resolve(cfg.contextName)
	if err != nil {
		return nil, NewMissingContextError(p.exe, err)
	}
	return wctx, nil
}

// State returns the current lifecycle state.
func (p *Process) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Finished reports whether a spawn attempt concluded.
func (p *Process) Finished() bool {
	return p.State() == StateFinished
}

// Result returns the cached run result, or nil before the run finishes.
func (p *Process) Result() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// ExitCode returns the child exit code. ok is false until a child
// actually ran and exited: a launch failure leaves the exit code unset.
func (p *Process) ExitCode() (code int, ok bool) {
	r := p.Result()
	if r == nil || !r.Exited {
		return 0, false
	}
	return r.ExitCode, true
}

// Stdout returns the decoded standard output lines, nil until finished.
func (p *Process) Stdout() []string {
	if r := p.Result(); r != nil {
		return r.Stdout
	}
	return nil
}

// Stderr returns the decoded standard error lines, nil until finished.
func (p *Process) Stderr() []string {
	if r := p.Result(); r != nil {
		return r.Stderr
	}
	return nil
}
