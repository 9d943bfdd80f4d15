// Package hooks provides extension points around process launches.
package hooks

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Launch is the pre-spawn view of a run that hooks may inspect and,
// before launch, adjust.
type Launch struct {
	// RunID is the unique identifier of this run.
	RunID string

	// Command is the full argument vector, loader included.
	Command []string

	// Env is the child environment as KEY=value pairs.
	Env []string

	// Dir is the working directory.
	Dir string
}

// Hook identifies an extension point implementation. Lower priority
// runs earlier.
type Hook interface {
	Name() string
	Priority() int
}

// BeforeLaunchHook runs before the child is spawned. Returning an error
// aborts the launch.
type BeforeLaunchHook interface {
	Hook
	BeforeLaunch(ctx context.Context, launch *Launch) error
}

// AfterExitHook runs after the child exits, successful or not.
type AfterExitHook interface {
	Hook
	AfterExit(ctx context.Context, launch *Launch, exitCode int, runErr error) error
}

// Registry manages hook registration and invocation.
type Registry struct {
	mu     sync.RWMutex
	before []BeforeLaunchHook
	after  []AfterExitHook
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a hook. A hook may implement several extension points.
func (r *Registry) Register(hook Hook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	registered := false
	if h, ok := hook.(BeforeLaunchHook); ok {
		r.before = append(r.before, h)
		sort.SliceStable(r.before, func(i, j int) bool {
			return r.before[i].Priority() < r.before[j].Priority()
		})
		registered = true
	}
	if h, ok := hook.(AfterExitHook); ok {
		r.after = append(r.after, h)
		sort.SliceStable(r.after, func(i, j int) bool {
			return r.after[i].Priority() < r.after[j].Priority()
		})
		registered = true
	}
	if !registered {
		return fmt.Errorf("hook %q implements no extension point", hook.Name())
	}
	return nil
}

// RunBefore invokes BeforeLaunch hooks in priority order, stopping at
// the first error.
func (r *Registry) RunBefore(ctx context.Context, launch *Launch) error {
	r.mu.RLock()
	hooks := r.before
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := h.BeforeLaunch(ctx, launch); err != nil {
			return fmt.Errorf("hook %q: %w", h.Name(), err)
		}
	}
	return nil
}

// RunAfter invokes AfterExit hooks in priority order, stopping at the
// first error.
func (r *Registry) RunAfter(ctx context.Context, launch *Launch, exitCode int, runErr error) error {
	r.mu.RLock()
	hooks := r.after
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := h.AfterExit(ctx, launch, exitCode, runErr); err != nil {
			return fmt.Errorf("hook %q: %w", h.Name(), err)
		}
	}
	return nil
}
