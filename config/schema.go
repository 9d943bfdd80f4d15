// Package config loads wine context definitions from YAML files and
// applies them to a context registry.
package config

import (
	"fmt"

	"github.com/victoralfred/winexec/wine"
)

// Config represents the YAML configuration structure.
type Config struct {
	Version  string          `yaml:"version"`
	Metadata Metadata        `yaml:"metadata"`
	Contexts []ContextConfig `yaml:"contexts"`
}

// Metadata contains configuration metadata.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Created     string `yaml:"created"`
	Updated     string `yaml:"updated"`
}

// ContextConfig defines one wine context.
type ContextConfig struct {
	// Name identifies the context in the registry. Empty names get a
	// generated one at registration.
	Name string `yaml:"name"`

	// Distribution is the Wine distribution root directory.
	Distribution string `yaml:"distribution"`

	// Prefix is the wine prefix directory.
	Prefix string `yaml:"prefix"`

	// Default marks this context as the registry default.
	Default bool `yaml:"default"`

	// Debug overrides the WINEDEBUG channel string.
	Debug string `yaml:"debug"`

	// Env holds scalar environment overrides.
	Env map[string]string `yaml:"env"`

	// EnvLists holds list-valued environment overrides, joined with the
	// key's separator at composition time.
	EnvLists map[string][]string `yaml:"env_lists"`

	// Separators overrides the join separator for list-valued keys.
	Separators map[string]string `yaml:"separators"`

	// DLLOverrides holds WINEDLLOVERRIDES rules in order.
	DLLOverrides []DLLOverrideConfig `yaml:"dll_overrides"`
}

// DLLOverrideConfig defines one DLL override rule.
type DLLOverrideConfig struct {
	Libs []string `yaml:"libs"`
	Mode string   `yaml:"mode"`
}

// overrideModes maps the YAML mode spellings to override modes.
var overrideModes = map[string]wine.OverrideMode{
	"n":        wine.OverrideNative,
	"native":   wine.OverrideNative,
	"b":        wine.OverrideBuiltin,
	"builtin":  wine.OverrideBuiltin,
	"n,b":      wine.OverrideNativeBuiltin,
	"b,n":      wine.OverrideBuiltinNative,
	"":         wine.OverrideDisabled,
	"disabled": wine.OverrideDisabled,
}

// options converts the context definition into wine context options.
func (c *ContextConfig) options() []wine.ContextOption {
	var opts []wine.ContextOption
	if c.Debug != "" {
		opts = append(opts, wine.WithDebug(c.Debug))
	}
	for key, value := range c.Env {
		opts = append(opts, wine.WithEnv(key, value))
	}
	for key, values := range c.EnvLists {
		opts = append(opts, wine.WithEnvList(key, values...))
	}
	for key, sep := range c.Separators {
		opts = append(opts, wine.WithListSeparator(key, sep))
	}
	for _, o := range c.DLLOverrides {
		opts = append(opts, wine.WithDLLOverride(overrideModes[o.Mode], o.Libs...))
	}
	return opts
}

// Build validates the definition and constructs the wine context.
func (c *ContextConfig) Build() (*wine.Context, error) {
	return wine.NewContext(c.Distribution, c.Prefix, c.options()...)
}

// DefaultValidator validates the configuration structure.
type DefaultValidator struct{}

// Validate checks the configuration for structural errors.
func (v *DefaultValidator) Validate(config *Config) error {
	if config.Version == "" {
		return fmt.Errorf("config version is required")
	}

	defaults := 0
	seen := make(map[string]bool)
	for i, c := range config.Contexts {
		if c.Distribution == "" {
			return fmt.Errorf("context %d: distribution is required", i)
		}
		if c.Prefix == "" {
			return fmt.Errorf("context %d: prefix is required", i)
		}
		if c.Name != "" {
			if seen[c.Name] {
				return fmt.Errorf("context %d: duplicate name %q", i, c.Name)
			}
			seen[c.Name] = true
		}
		if c.Default {
			defaults++
		}
		for j, o := range c.DLLOverrides {
			if len(o.Libs) == 0 {
				return fmt.Errorf("context %d, dll_override %d: libs is required", i, j)
			}
			if _, ok := overrideModes[o.Mode]; !ok {
				return fmt.Errorf("context %d, dll_override %d: unknown mode %q", i, j, o.Mode)
			}
		}
	}
	if defaults > 1 {
		return fmt.Errorf("at most one context may be marked default, found %d", defaults)
	}
	return nil
}

// ExampleConfig returns an example configuration.
func ExampleConfig() *Config {
	return &Config{
		Version: "1.0",
		Metadata: Metadata{
			Name:        "example-contexts",
			Description: "Example wine context configuration",
		},
		Contexts: []ContextConfig{
			{
				Name:         "default-wine",
				Distribution: "/opt/wine-stable",
				Prefix:       "~/.wine",
				Default:      true,
				Env: map[string]string{
					"ESYNC": "1",
				},
				DLLOverrides: []DLLOverrideConfig{
					{Libs: []string{"d3d11", "dxgi"}, Mode: "n"},
				},
			},
			{
				Name:         "proton-ge",
				Distribution: "/opt/proton-ge",
				Prefix:       "~/.proton/pfx-main",
				Debug:        "-all",
				EnvLists: map[string][]string{
					"WINEPATH": {"C:\\tools", "C:\\games\\bin"},
				},
				Separators: map[string]string{
					"WINEPATH": ";",
				},
			},
		},
	}
}
