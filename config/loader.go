package config

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/victoralfred/gowritter/safepath"
	"gopkg.in/yaml.v3"

	"github.com/victoralfred/winexec/wine"
)

// Loader loads and manages context configuration from YAML files.
type Loader struct {
	path       string
	safePath   *safepath.SafePath
	config     *Config
	mu         sync.RWMutex
	lastHash   []byte
	lastLoad   time.Time
	lastErr    error
	validators []Validator
	onChange   []func(*Config)
	onError    []func(error)
	watchStop  chan struct{}
}

// Validator validates a configuration.
type Validator interface {
	Validate(config *Config) error
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithValidator adds a configuration validator.
func WithValidator(v Validator) LoaderOption {
	return func(l *Loader) {
		l.validators = append(l.validators, v)
	}
}

// WithOnChange adds a callback for configuration changes.
func WithOnChange(fn func(*Config)) LoaderOption {
	return func(l *Loader) {
		l.onChange = append(l.onChange, fn)
	}
}

// WithOnError adds a callback for load failures seen by the watch loop.
func WithOnError(fn func(error)) LoaderOption {
	return func(l *Loader) {
		l.onError = append(l.onError, fn)
	}
}

// NewLoader creates a new configuration loader. configFile is resolved
// relative to basePath and may not escape it.
func NewLoader(basePath, configFile string, opts ...LoaderOption) (*Loader, error) {
	sp, err := safepath.New(basePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}

	l := &Loader{
		path:       configFile,
		safePath:   sp,
		validators: []Validator{&DefaultValidator{}},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Load loads the configuration from the file. An unchanged file returns
// the cached configuration without reparsing.
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	config, err := l.loadLocked()
	l.lastErr = err
	return config, err
}

func (l *Loader) loadLocked() (*Config, error) {
	data, err := l.safePath.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	hash := sha256.Sum256(data)
	if l.config != nil && string(hash[:]) == string(l.lastHash) {
		return l.config, nil
	}

	config, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	for _, v := range l.validators {
		if err := v.Validate(config); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	l.config = config
	l.lastHash = hash[:]
	l.lastLoad = time.Now()

	for _, fn := range l.onChange {
		fn(config)
	}

	return config, nil
}

// Get returns the current configuration without reloading.
func (l *Loader) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// LastError returns the outcome of the most recent load attempt, nil
// after a success. It lets callers notice a watch loop polling a
// persistently broken file.
func (l *Loader) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

// Reload reloads the configuration from the file.
func (l *Loader) Reload(ctx context.Context) error {
	_, err := l.Load(ctx)
	return err
}

// Watch starts polling the file for changes at the given interval.
func (l *Loader) Watch(ctx context.Context, interval time.Duration) {
	l.watchStop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-l.watchStop:
				return
			case <-ticker.C:
				// Keep watching; the next poll may see a fixed file.
				if _, err := l.Load(ctx); err != nil {
					for _, fn := range l.onError {
						fn(err)
					}
				}
			}
		}
	}()
}

// StopWatch stops watching for configuration changes.
func (l *Loader) StopWatch() {
	if l.watchStop != nil {
		close(l.watchStop)
	}
}

// ParseYAML parses a YAML configuration.
func ParseYAML(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Apply builds every context in the configuration and registers it in
// reg. It returns the registered names in definition order. A context
// whose distribution or prefix fails validation aborts the whole apply;
// nothing is registered in that case.
func (c *Config) Apply(reg *wine.Registry) ([]string, error) {
	type built struct {
		ctx  *wine.Context
		opts []wine.RegisterOption
	}

	contexts := make([]built, 0, len(c.Contexts))
	for i := range c.Contexts {
		cc := &c.Contexts[i]
		ctx, err := cc.Build()
		if err != nil {
			return nil, fmt.Errorf("context %q: %w", cc.Name, err)
		}
		var opts []wine.RegisterOption
		if cc.Name != "" {
			opts = append(opts, wine.WithName(cc.Name))
		}
		if cc.Default {
			opts = append(opts, wine.AsDefault())
		}
		contexts = append(contexts, built{ctx: ctx, opts: opts})
	}

	names := make([]string, 0, len(contexts))
	for _, b := range contexts {
		names = append(names, reg.Register(b.ctx, b.opts...))
	}
	return names, nil
}
