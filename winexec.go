// Package winexec provides a uniform API for launching Windows
// executables, running them natively on Windows and through Wine
// everywhere else.
//
// The library hides the Wine plumbing behind three ideas: a Context
// that pairs a Wine distribution with a prefix and environment
// overrides, a Registry of named contexts with one default, and a
// Process that wraps a single run of one executable.
//
// # Quick Start
//
// Register a context once, then launch:
//
//	ctx, err := winexec.NewContext("/opt/wine-stable", "~/.wine")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	winexec.RegisterContext(ctx, winexec.AsDefault())
//
//	p, err := winexec.NewProcess("notepad.exe").
//	    AddArguments(winexec.Positional(winexec.Path("/home/me/todo.txt"))).
//	    Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	code, _ := p.ExitCode()
//	fmt.Println(code, p.Stdout())
//
// Path-typed arguments are translated into the prefix's Windows view
// (for example /home/me/todo.txt becomes Z:\home\me\todo.txt) before
// the child is spawned; plain string arguments pass through untouched.
// On Windows, or for non-Windows executables, the same call runs the
// program directly with no translation.
//
// # With Configuration
//
// Contexts can come from a YAML file instead of code:
//
//	loader, err := winexec.LoadConfig("/etc/winexec", "contexts.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := loader.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := cfg.Apply(winexec.DefaultRegistry()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Architecture
//
// The library is organized into focused packages:
//
//   - winexec (this package): Main entry point and convenience functions
//   - executor: The Process type, argument groups and the error taxonomy
//   - wine: Distributions, prefixes, contexts and the context registry
//   - winepath: POSIX/Windows path translation
//   - charset: Output encoding detection and decoding
//   - config: YAML context loading and validation
//   - pool: Bounded worker pool for concurrent launches
//   - observability: OpenTelemetry tracing and metrics
//   - hooks: Extension points around process launch
//
// # Thread Safety
//
// Contexts are immutable and may back any number of concurrent runs.
// The Registry is safe for concurrent use. A Process is not: it runs
// at most once, and concurrent Run calls on the same Process fail.
package winexec

import (
	"context"

	"github.com/victoralfred/winexec/config"
	"github.com/victoralfred/winexec/executor"
	"github.com/victoralfred/winexec/pool"
	"github.com/victoralfred/winexec/wine"
)

// =============================================================================
// Core Types
// =============================================================================

// Context pairs a Wine distribution with a prefix and environment
// overrides. Use NewContext to create one.
type Context = wine.Context

// ContextOption configures a Context at creation time.
type ContextOption = wine.ContextOption

// Registry holds named contexts with one optional default.
type Registry = wine.Registry

// Distribution is a validated Wine or Proton installation.
type Distribution = wine.Distribution

// Prefix is a Wine prefix directory with its drive mapping.
type Prefix = wine.Prefix

// DLLOverride is one WINEDLLOVERRIDES rule.
type DLLOverride = wine.DLLOverride

// OverrideMode selects which implementation of a DLL Wine loads.
type OverrideMode = wine.OverrideMode

// Process wraps one executable and runs it at most once.
type Process = executor.Process

// Result contains the outcome of one run.
type Result = executor.Result

// RunStatus classifies the outcome of a run.
type RunStatus = executor.RunStatus

// RunOption configures a single Run call.
type RunOption = executor.RunOption

// Value is a single argument token.
type Value = executor.Value

// Group is one argument group.
type Group = executor.Group

// ConfigLoader loads context configuration from YAML files.
type ConfigLoader = config.Loader

// Config is a loaded context configuration.
type Config = config.Config

// DLL override modes.
const (
	OverrideNative        = wine.OverrideNative
	OverrideBuiltin       = wine.OverrideBuiltin
	OverrideNativeBuiltin = wine.OverrideNativeBuiltin
	OverrideBuiltinNative = wine.OverrideBuiltinNative
	OverrideDisabled      = wine.OverrideDisabled
)

// Execution status values.
const (
	StatusSuccess      = executor.StatusSuccess
	StatusError        = executor.StatusError
	StatusTimeout      = executor.StatusTimeout
	StatusCanceled     = executor.StatusCanceled
	StatusKilled       = executor.StatusKilled
	StatusLaunchFailed = executor.StatusLaunchFailed
)

// =============================================================================
// Error Variables
// =============================================================================

// Common errors returned by the library.
var (
	// ErrMissingContext indicates Wine execution was required but no
	// context could be resolved.
	ErrMissingContext = executor.ErrMissingContext

	// ErrLaunch indicates the OS refused or failed to spawn the process.
	ErrLaunch = executor.ErrLaunch

	// ErrTimeout indicates the child exceeded the allotted time.
	ErrTimeout = executor.ErrTimeout

	// ErrCanceled indicates the caller's context was canceled.
	ErrCanceled = executor.ErrCanceled

	// ErrAlreadyRun indicates Run was called on a finished Process.
	ErrAlreadyRun = executor.ErrAlreadyRun

	// ErrInvalidDistribution indicates a directory is not a Wine
	// distribution.
	ErrInvalidDistribution = wine.ErrInvalidDistribution

	// ErrInvalidPrefix indicates a directory is not a usable prefix.
	ErrInvalidPrefix = wine.ErrInvalidPrefix

	// ErrUnknownContext indicates a registry lookup failed.
	ErrUnknownContext = wine.ErrUnknownContext
)

// =============================================================================
// Context Construction and Registration
// =============================================================================

// NewContext resolves and validates a distribution and prefix location
// and builds a Context.
//
// Example:
//
//	ctx, err := winexec.NewContext("/opt/proton-ge", "~/.proton/pfx",
//	    winexec.WithEnv("ESYNC", "1"),
//	    winexec.WithDLLOverride(winexec.OverrideNative, "d3d11", "dxgi"),
//	)
func NewContext(dist, prefix string, opts ...ContextOption) (*Context, error) {
	return wine.NewContext(dist, prefix, opts...)
}

// Context creation options.
var (
	WithEnv           = wine.WithEnv
	WithEnvList       = wine.WithEnvList
	WithListSeparator = wine.WithListSeparator
	WithDLLOverride   = wine.WithDLLOverride
	WithDebug         = wine.WithDebug
)

// Registration options.
var (
	WithName  = wine.WithName
	AsDefault = wine.AsDefault
)

// RegisterContext stores ctx in the process-wide registry and returns
// the name it was stored under. The first registered context becomes
// the default.
func RegisterContext(ctx *Context, opts ...wine.RegisterOption) string {
	return wine.Register(ctx, opts...)
}

// ResolveContext looks up a context in the process-wide registry. An
// empty name resolves the default.
func ResolveContext(name string) (*Context, error) {
	return wine.Resolve(name)
}

// DefaultRegistry returns the process-wide context registry.
func DefaultRegistry() *Registry {
	return wine.DefaultRegistry()
}

// NewRegistry creates an empty context registry, independent of the
// process-wide one.
func NewRegistry() *Registry {
	return wine.NewRegistry()
}

// =============================================================================
// Process Construction
// =============================================================================

// NewProcess creates a Process for the given executable path or bare
// Wine tool name. Windows executables run through a Wine context on
// non-Windows hosts; everything else runs natively.
func NewProcess(exe string) *Process {
	return executor.New(exe)
}

// Argument constructors.
var (
	String     = executor.String
	Path       = executor.Path
	Stringify  = executor.Stringify
	Positional = executor.Positional
	Flag       = executor.Flag
	Pair       = executor.Pair
)

// Run options.
var (
	WithContext     = executor.WithContext
	WithContextName = executor.WithContextName
	WithRegistry    = executor.WithRegistry
	WithDir         = executor.WithDir
	WithTimeout     = executor.WithTimeout
	WithRunEnv      = executor.WithEnv
	WithEncoding    = executor.WithEncoding
	WithStdin       = executor.WithStdin
	WithHooks       = executor.WithHooks
	WithTelemetry   = executor.WithTelemetry
)

// Run creates a Process for exe and runs it in one call.
//
// Example:
//
//	p, err := winexec.Run(ctx, "regedit",
//	    winexec.Flag("/E"),
//	    winexec.Positional(winexec.Path("/tmp/out.reg")),
//	)
func Run(ctx context.Context, exe string, groups ...Group) (*Process, error) {
	return executor.New(exe).SetArguments(groups...).Run(ctx)
}

// =============================================================================
// Batch Execution
// =============================================================================

// Batch runs a set of processes concurrently on a bounded worker pool
// and waits for all of them. Per-process errors land in the returned
// slice at the process's index; the processes themselves carry the
// results. workers <= 0 uses the default pool size.
func Batch(ctx context.Context, procs []*Process, workers int, opts ...RunOption) []error {
	cfg := pool.DefaultConfig()
	if workers > 0 {
		cfg.Workers = workers
	}
	cfg.QueueSize = len(procs) + 1
	p := pool.New(cfg)

	errs := make([]error, len(procs))
	for i, proc := range procs {
		i, proc := i, proc
		submitErr := p.SubmitFunc(ctx, func(taskCtx context.Context) {
			_, errs[i] = proc.Run(taskCtx, opts...)
		})
		if submitErr != nil {
			errs[i] = submitErr
		}
	}

	// Shutdown drains the queue and waits for the workers.
	_ = p.Shutdown(context.Background())
	return errs
}

// =============================================================================
// Configuration Loading
// =============================================================================

// LoadConfig loads a context configuration from a YAML file. The
// basePath is the directory containing the file; configFile is the
// name of the file relative to basePath.
//
// Example contexts.yaml:
//
//	version: "1.0"
//	contexts:
//	  - name: default-wine
//	    distribution: /opt/wine-stable
//	    prefix: ~/.wine
//	    default: true
//	    dll_overrides:
//	      - libs: [d3d11, dxgi]
//	        mode: n
func LoadConfig(basePath, configFile string, opts ...config.LoaderOption) (*ConfigLoader, error) {
	return config.NewLoader(basePath, configFile, opts...)
}

// ExampleConfig returns an example context configuration. Use it as a
// starting point for writing your own.
func ExampleConfig() *Config {
	return config.ExampleConfig()
}
