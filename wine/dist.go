// Package wine models Wine distributions, prefixes and execution
// contexts, and keeps a process-wide registry of named contexts.
package wine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/victoralfred/winexec/validation"
)

// wineTools are commands shipped with every Wine build that may be
// invoked by bare name, without a path or extension.
var wineTools = map[string]struct{}{
	"winecfg":     {},
	"uninstaller": {},
	"regedit":     {},
	"winetricks":  {},
	"wineconsole": {},
	"notepad":     {},
	"winefile":    {},
	"taskmgr":     {},
	"control":     {},
	"msiexec":     {},
}

// IsWineTool reports whether name is a well-known Wine command that can
// be launched by bare name.
func IsWineTool(name string) bool {
	_, ok := wineTools[strings.ToLower(name)]
	return ok
}

// Distribution is a validated Wine build rooted at a directory. For a
// plain Wine build the payload directory is the root itself; for Proton
// builds it is the dist/ or files/ subdirectory next to the proton
// launcher.
type Distribution struct {
	root     string
	payload  string
	isProton bool
}

// NewDistribution resolves root and validates it as a Wine or Proton
// build. It fails with ErrInvalidPath when root is not an existing
// directory and with ErrInvalidDistribution when the layout is not a
// Wine build.
func NewDistribution(root string) (*Distribution, error) {
	abs, err := validation.ResolveDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: distribution %q: %v", ErrInvalidPath, root, err)
	}

	d := &Distribution{root: abs}
	switch {
	case validation.IsExecutableFile(filepath.Join(abs, "proton")):
		// Proton depots moved the payload from dist/ to files/ over time.
		for _, sub := range []string{"dist", "files"} {
			if validDistDir(filepath.Join(abs, sub)) {
				d.payload = filepath.Join(abs, sub)
				d.isProton = true
				break
			}
		}
		if d.payload == "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDistribution, abs)
		}
	case validDistDir(abs):
		d.payload = abs
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidDistribution, abs)
	}
	return d, nil
}

// validDistDir checks the layout of a Wine payload directory.
func validDistDir(path string) bool {
	for _, dir := range []string{"bin", "lib", "lib64", "share"} {
		if !validation.IsDir(filepath.Join(path, dir)) {
			return false
		}
	}
	for _, bin := range []string{"wine", "wine64", "wineserver", "wine-preloader", "wine64-preloader"} {
		if !validation.IsExecutableFile(filepath.Join(path, "bin", bin)) {
			return false
		}
	}
	return true
}

// Root returns the distribution root directory.
func (d *Distribution) Root() string { return d.root }

// Dir returns the payload directory holding bin/, lib/ and share/.
func (d *Distribution) Dir() string { return d.payload }

// IsProton reports whether this build is a Proton depot.
func (d *Distribution) IsProton() bool { return d.isProton }

// Proton returns the proton launcher path, or "" for plain Wine builds.
func (d *Distribution) Proton() string {
	if !d.isProton {
		return ""
	}
	return filepath.Join(d.root, "proton")
}

// Loader returns the wine64 loader binary used to launch executables.
func (d *Distribution) Loader() string {
	return filepath.Join(d.payload, "bin", "wine64")
}

// Server returns the wineserver binary.
func (d *Distribution) Server() string {
	return filepath.Join(d.payload, "bin", "wineserver")
}

var (
	defaultDistMu    sync.Mutex
	defaultDist      *Distribution
	defaultDistKnown bool
)

// DefaultDistribution scans PATH and conventional install locations for
// a Wine build and returns the first valid one. The result is memoized;
// nil is returned when no distribution is found.
func DefaultDistribution() *Distribution {
	defaultDistMu.Lock()
	defer defaultDistMu.Unlock()
	if defaultDistKnown {
		return defaultDist
	}
	defaultDistKnown = true

	places := []string{"/usr/bin", "/usr/local/bin", "/opt/bin"}
	if home, err := os.UserHomeDir(); err == nil {
		places = append(places, filepath.Join(home, ".local", "bin"))
	}
	places = append(places, filepath.SplitList(os.Getenv("PATH"))...)

	seen := make(map[string]struct{})
	for _, dir := range places {
		loader := filepath.Join(dir, "wine")
		if !validation.IsExecutableFile(loader) {
			continue
		}
		resolved, err := filepath.EvalSymlinks(loader)
		if err != nil {
			continue
		}
		// bin/wine two levels below the distribution root.
		root := filepath.Dir(filepath.Dir(resolved))
		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}
		if d, err := NewDistribution(root); err == nil {
			defaultDist = d
			return defaultDist
		}
	}
	return nil
}

// resetDefaultDistribution clears the memoized default, for tests.
func resetDefaultDistribution() {
	defaultDistMu.Lock()
	defer defaultDistMu.Unlock()
	defaultDist = nil
	defaultDistKnown = false
}
