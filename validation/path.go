// Package validation provides filesystem path resolution and executable
// classification helpers used by the wine and executor packages.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDirectory indicates a path does not resolve to a directory.
var ErrNotDirectory = fmt.Errorf("not a directory")

// ExpandUser replaces a leading "~" or "~/" with the current user's home
// directory. Paths without a tilde prefix are returned unchanged.
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// Resolve expands a user tilde, makes the path absolute and cleans it.
// The path does not need to exist.
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(ExpandUser(path))
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// ResolveDir resolves path and verifies it is an existing directory,
// following symlinks.
func ResolveDir(path string) (string, error) {
	abs, err := Resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	return abs, nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsRegularFile reports whether path is an existing regular file,
// following symlinks.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsExecutableFile reports whether path is a regular file with any
// execute permission bit set.
func IsExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}

// IsEmptyDir reports whether path is an existing directory with no entries.
func IsEmptyDir(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) == 0
}
