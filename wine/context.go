package wine

import (
	"path/filepath"
	"strings"

	"github.com/victoralfred/winexec/internal/envutil"
)

// OverrideMode selects which implementation of a DLL Wine loads.
type OverrideMode string

const (
	// OverrideNative loads the native (Windows) DLL only.
	OverrideNative OverrideMode = "n"
	// OverrideBuiltin loads the Wine builtin DLL only.
	OverrideBuiltin OverrideMode = "b"
	// OverrideNativeBuiltin tries native first, then builtin.
	OverrideNativeBuiltin OverrideMode = "n,b"
	// OverrideBuiltinNative tries builtin first, then native.
	OverrideBuiltinNative OverrideMode = "b,n"
	// OverrideDisabled disables the DLL entirely.
	OverrideDisabled OverrideMode = ""
)

// DLLOverride is one WINEDLLOVERRIDES rule: a set of libraries bound to
// a load mode. Rules serialize to Wine's comma-and-semicolon syntax,
// e.g. "d3d11,dxgi=n".
type DLLOverride struct {
	Libs []string
	Mode OverrideMode
}

// String renders the rule in WINEDLLOVERRIDES syntax.
func (o DLLOverride) String() string {
	return strings.Join(o.Libs, ",") + "=" + string(o.Mode)
}

// envEntry is one environment override, either a scalar or a list
// joined with a per-key separator at composition time.
type envEntry struct {
	key    string
	value  string
	list   []string
	isList bool
}

// Context pairs a Wine distribution with a prefix and environment
// overrides. A Context is immutable after creation and may be shared by
// any number of concurrent Process runs.
type Context struct {
	dist         *Distribution
	prefix       *Prefix
	entries      []envEntry
	separators   map[string]string
	dllOverrides []DLLOverride
	debug        string
}

// ContextOption configures a Context at creation time.
type ContextOption func(*Context)

// WithEnv adds a scalar environment override. Later values for the same
// key win.
func WithEnv(key, value string) ContextOption {
	return func(c *Context) {
		c.entries = append(c.entries, envEntry{key: key, value: value})
	}
}

// WithEnvList adds a list-valued environment override. The list is
// joined with the key's separator (":" unless changed with
// WithListSeparator) when the environment is composed.
func WithEnvList(key string, values ...string) ContextOption {
	return func(c *Context) {
		c.entries = append(c.entries, envEntry{key: key, list: values, isList: true})
	}
}

// WithListSeparator changes the join separator for a list-valued key.
func WithListSeparator(key, sep string) ContextOption {
	return func(c *Context) {
		c.separators[key] = sep
	}
}

// WithDLLOverride appends a DLL override rule. Rules keep their
// registration order in WINEDLLOVERRIDES.
func WithDLLOverride(mode OverrideMode, libs ...string) ContextOption {
	return func(c *Context) {
		c.dllOverrides = append(c.dllOverrides, DLLOverride{Libs: libs, Mode: mode})
	}
}

// WithDebug sets the WINEDEBUG channel string.
func WithDebug(channels string) ContextOption {
	return func(c *Context) {
		c.debug = channels
	}
}

// NewContext resolves and validates the distribution and prefix
// locations and builds a Context. Setup failures surface ErrInvalidPath
// before any process is spawned.
func NewContext(dist, prefix string, opts ...ContextOption) (*Context, error) {
	d, err := NewDistribution(dist)
	if err != nil {
		return nil, err
	}
	p, err := NewPrefix(prefix)
	if err != nil {
		return nil, err
	}
	return NewContextWith(d, p, opts...), nil
}

// NewContextWith builds a Context from already-validated components.
func NewContextWith(dist *Distribution, prefix *Prefix, opts ...ContextOption) *Context {
	c := &Context{
		dist:   dist,
		prefix: prefix,
		separators: map[string]string{
			"WINEDLLOVERRIDES": ";",
		},
		debug: "-all,-fixme,-server",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dist returns the distribution bound to this context.
func (c *Context) Dist() *Distribution { return c.dist }

// Prefix returns the prefix bound to this context.
func (c *Context) Prefix() *Prefix { return c.prefix }

// DLLOverrides returns a copy of the override rules.
func (c *Context) DLLOverrides() []DLLOverride {
	out := make([]DLLOverride, len(c.dllOverrides))
	copy(out, c.dllOverrides)
	return out
}

// Env composes the context's environment variables: the Wine base
// variables derived from the distribution and prefix, then the caller
// overrides in registration order (last value wins). Convenience keys
// ESYNC, FSYNC and LARGE_ADDRESS_AWARE additionally expand to their
// WINE* counterparts; the original key stays visible to the child.
func (c *Context) Env() map[string]string {
	payload := c.dist.Dir()
	sep := string(filepath.ListSeparator)

	env := map[string]string{
		"WINELOADER": c.dist.Loader(),
		"WINEPREFIX": c.prefix.Dir(),
		"WINESERVER": c.dist.Server(),
		"WINEDLLPATH": strings.Join([]string{
			filepath.Join(payload, "lib64", "wine"),
			filepath.Join(payload, "lib", "wine"),
		}, sep),
		"PATH": strings.Join([]string{
			filepath.Join(payload, "bin"), "/usr/bin", "/bin",
		}, sep),
		"LD_LIBRARY_PATH": strings.Join([]string{
			filepath.Join(payload, "lib64"),
			filepath.Join(payload, "lib"),
		}, sep),
		"TERM":      "xterm",
		"WINEDEBUG": c.debug,
	}

	if len(c.dllOverrides) > 0 {
		rules := make([]string, len(c.dllOverrides))
		for i, o := range c.dllOverrides {
			rules[i] = o.String()
		}
		env["WINEDLLOVERRIDES"] = strings.Join(rules, ";")
	}

	for _, e := range c.entries {
		if e.isList {
			s := c.separators[e.key]
			if s == "" {
				s = sep
			}
			env[e.key] = strings.Join(e.list, s)
			continue
		}
		env[e.key] = e.value
	}

	c.rewriteSyncKeys(env)
	return env
}

// rewriteSyncKeys expands the ESYNC/FSYNC/LARGE_ADDRESS_AWARE
// convenience keys into the variables Wine and Proton actually read.
func (c *Context) rewriteSyncKeys(env map[string]string) {
	expand := func(key, wineKey, protonKey string, protonInverted bool) {
		v, ok := env[key]
		if !ok {
			return
		}
		env[wineKey] = v
		if c.dist.IsProton() && protonKey != "" {
			pv := v
			if protonInverted {
				pv = invertFlag(v)
			}
			env[protonKey] = pv
		}
	}
	expand("ESYNC", "WINEESYNC", "PROTON_NO_ESYNC", true)
	expand("FSYNC", "WINEFSYNC", "PROTON_NO_FSYNC", true)
	expand("LARGE_ADDRESS_AWARE", "WINE_LARGE_ADDRESS_AWARE", "PROTON_FORCE_LARGE_ADDRESS_AWARE", false)
}

// invertFlag flips a "0"/"1" flag value; other values pass through.
func invertFlag(v string) string {
	switch v {
	case "0":
		return "1"
	case "1":
		return "0"
	}
	return v
}

// Environ merges the context environment onto a copy of base, with
// context keys taking precedence.
func (c *Context) Environ(base map[string]string) map[string]string {
	return envutil.Merge(base, c.Env())
}
