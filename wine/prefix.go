package wine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/victoralfred/winexec/validation"
)

// Prefix is a Wine prefix: an isolated virtual Windows environment with
// its own registry hives and drive layout. A Prefix may point at a
// directory that does not exist yet; Wine creates the prefix on first
// launch, so a missing directory is acceptable as long as its parent
// exists.
type Prefix struct {
	root   string
	pfx    string
	exists bool
	// drives maps native mount targets to drive letters ("Z:").
	drives map[string]string
}

// NewPrefix resolves root as a Wine prefix. For Proton compatdata roots
// the pfx/ subdirectory is used. An existing directory that is neither a
// valid prefix nor empty fails with ErrInvalidPrefix; a missing
// directory fails with ErrInvalidPath only when its parent is also
// missing.
func NewPrefix(root string) (*Prefix, error) {
	abs, err := validation.Resolve(root)
	if err != nil {
		return nil, fmt.Errorf("%w: prefix %q: %v", ErrInvalidPath, root, err)
	}

	p := &Prefix{root: abs, pfx: abs}
	switch {
	case validPrefixDir(abs):
		p.exists = true
	case validPrefixDir(filepath.Join(abs, "pfx")):
		p.pfx = filepath.Join(abs, "pfx")
		p.exists = true
	case validation.IsDir(abs):
		if !validation.IsEmptyDir(abs) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPrefix, abs)
		}
		// Empty directory: Wine will populate it on first launch.
	default:
		if !validation.IsDir(filepath.Dir(abs)) {
			return nil, fmt.Errorf("%w: prefix parent missing for %s", ErrInvalidPath, abs)
		}
	}

	p.drives = p.readDriveMapping()
	return p, nil
}

// validPrefixDir checks the layout Wine writes into an initialized prefix.
func validPrefixDir(path string) bool {
	for _, dir := range []string{"dosdevices", "drive_c"} {
		if !validation.IsDir(filepath.Join(path, dir)) {
			return false
		}
	}
	for _, file := range []string{"system.reg", "user.reg", "userdef.reg", ".update-timestamp"} {
		if !validation.IsRegularFile(filepath.Join(path, file)) {
			return false
		}
	}
	return true
}

// readDriveMapping scans dosdevices symlinks for drive assignments. An
// uninitialized prefix gets Wine's conventional defaults: Z: for the
// filesystem root and C: for the prefix drive_c.
func (p *Prefix) readDriveMapping() map[string]string {
	drives := make(map[string]string)
	devices := filepath.Join(p.pfx, "dosdevices")

	entries, err := os.ReadDir(devices)
	if err != nil {
		drives["/"] = "Z:"
		drives[filepath.Join(p.pfx, "drive_c")] = "C:"
		return drives
	}

	for _, entry := range entries {
		name := entry.Name()
		if len(name) != 2 || !strings.HasSuffix(name, ":") {
			continue
		}
		target, err := os.Readlink(filepath.Join(devices, name))
		if err != nil {
			continue
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(devices, target)
		}
		drives[filepath.Clean(target)] = strings.ToUpper(name)
	}
	if _, ok := drives["/"]; !ok {
		drives["/"] = "Z:"
	}
	return drives
}

// Root returns the directory the prefix was created from.
func (p *Prefix) Root() string { return p.root }

// Dir returns the effective prefix directory (WINEPREFIX).
func (p *Prefix) Dir() string { return p.pfx }

// Exists reports whether the prefix has been initialized by Wine.
func (p *Prefix) Exists() bool { return p.exists }

// DriveMapping returns a copy of the native-mount-to-drive-letter map.
func (p *Prefix) DriveMapping() map[string]string {
	m := make(map[string]string, len(p.drives))
	for k, v := range p.drives {
		m[k] = v
	}
	return m
}

// DefaultPrefix probes $WINEPREFIX and the conventional ~/.wine and
// ~/.wine64 locations and returns the first valid prefix, or nil.
func DefaultPrefix() *Prefix {
	var places []string
	if envp := os.Getenv("WINEPREFIX"); envp != "" {
		places = append(places, envp)
	}
	if home, err := os.UserHomeDir(); err == nil {
		places = append(places, filepath.Join(home, ".wine"), filepath.Join(home, ".wine64"))
	}
	for _, place := range places {
		if !validation.IsDir(place) {
			continue
		}
		if p, err := NewPrefix(place); err == nil && p.Exists() {
			return p
		}
	}
	return nil
}
