package wine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry holds named contexts with one optional default. Lookups are
// concurrent; registration is serialized. Registries are cheap values:
// tests should construct their own instead of sharing the process-wide
// default.
type Registry struct {
	mu          sync.RWMutex
	contexts    map[string]*Context
	defaultName string
}

// RegisterOption configures a Register call.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	name      string
	asDefault bool
}

// WithName registers the context under an explicit name. Without it a
// generated identifier is used.
func WithName(name string) RegisterOption {
	return func(c *registerConfig) { c.name = name }
}

// AsDefault marks the context as the registry default.
func AsDefault() RegisterOption {
	return func(c *registerConfig) { c.asDefault = true }
}

// NewRegistry creates an empty context registry.
func NewRegistry() *Registry {
	return &Registry{contexts: make(map[string]*Context)}
}

// Register stores ctx and returns the name it was stored under.
// Re-registering an existing name replaces the prior binding and never
// changes which context is default. The first registered context always
// becomes the default.
func (r *Registry) Register(ctx *Context, opts ...RegisterOption) string {
	cfg := registerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.contexts) == 0 {
		cfg.asDefault = true
	}
	r.contexts[cfg.name] = ctx
	if cfg.asDefault {
		r.defaultName = cfg.name
	}
	return cfg.name
}

// Resolve returns the context registered under name, or the default
// when name is empty. It fails with ErrUnknownContext when nothing
// matches.
func (r *Registry) Resolve(name string) (*Context, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.defaultName
		if name == "" {
			return nil, fmt.Errorf("%w: no default context registered", ErrUnknownContext)
		}
	}
	ctx, ok := r.contexts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContext, name)
	}
	return ctx, nil
}

// Default returns the default context.
func (r *Registry) Default() (*Context, error) {
	return r.Resolve("")
}

// Unregister removes the named binding. Removing the default clears the
// default rather than promoting an arbitrary survivor.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.contexts, name)
	if r.defaultName == name {
		r.defaultName = ""
	}
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.contexts))
	for name := range r.contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered contexts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contexts)
}

// Clear removes every binding and the default.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contexts = make(map[string]*Context)
	r.defaultName = ""
}

// defaultRegistry is the process-wide registry used by the package-level
// convenience functions.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register stores ctx in the process-wide registry.
func Register(ctx *Context, opts ...RegisterOption) string {
	return defaultRegistry.Register(ctx, opts...)
}

// Resolve looks up a context in the process-wide registry.
func Resolve(name string) (*Context, error) {
	return defaultRegistry.Resolve(name)
}
