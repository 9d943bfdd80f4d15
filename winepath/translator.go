// Package winepath converts paths between the host's POSIX form and the
// Windows form a target executable expects, driven by a prefix's drive
// mapping. Translation is best effort: strings that cannot be mapped are
// returned unchanged rather than failing the run.
package winepath

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var driveRe = regexp.MustCompile(`^[a-zA-Z]:[/\\]`)

// SplitDrive splits a Windows path into its drive letter ("C:") and the
// remainder. Paths without a drive anchor return an empty drive.
func SplitDrive(path string) (drive, rest string) {
	if loc := driveRe.FindStringIndex(path); loc != nil {
		return path[:2], path[2:]
	}
	return "", path
}

// IsWindowsPath reports whether path is anchored with a drive letter.
// Relative paths and file:// URLs never match.
func IsWindowsPath(path string) bool {
	drive, _ := SplitDrive(path)
	return drive != ""
}

// IsUNCPath reports whether path is a UNC network path. UNC paths are
// out of translation scope and always pass through unchanged.
func IsUNCPath(path string) bool {
	return strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
}

// Translator converts paths to and from the form the target platform
// expects. Exactly two variants exist: the identity translator for
// native execution and the prefix-driven translator for Wine execution.
type Translator interface {
	// ToTarget converts a host path to the target platform's form.
	ToTarget(path string) string

	// FromTarget converts a path emitted by the child back to host
	// form. Unmappable paths are returned unchanged.
	FromTarget(path string) string
}

// Native returns the identity translator used for native execution. It
// only normalizes separators to the host convention.
func Native() Translator { return nativeTranslator{} }

type nativeTranslator struct{}

func (nativeTranslator) ToTarget(path string) string {
	if IsUNCPath(path) || IsWindowsPath(path) {
		return path
	}
	return filepath.FromSlash(path)
}

func (nativeTranslator) FromTarget(path string) string { return path }

// prefixTranslator maps host paths into a Wine prefix's drive layout.
type prefixTranslator struct {
	// drives maps native mount targets to drive letters ("Z:").
	drives map[string]string
	// mounts holds the mount targets sorted longest first so the most
	// specific mapping wins.
	mounts []string
}

// ForPrefix builds a translator from a prefix drive mapping as returned
// by wine.Prefix.DriveMapping.
func ForPrefix(drives map[string]string) Translator {
	t := &prefixTranslator{drives: make(map[string]string, len(drives))}
	for mount, drive := range drives {
		mount = filepath.Clean(mount)
		t.drives[mount] = strings.ToUpper(drive)
		t.mounts = append(t.mounts, mount)
	}
	sort.Slice(t.mounts, func(i, j int) bool {
		return len(t.mounts[i]) > len(t.mounts[j])
	})
	return t
}

// ToTarget maps a POSIX path to drive-letter form. The longest matching
// mount wins; paths outside every mapped mount fall back to the root
// drive (conventionally Z:). Windows-form and UNC inputs pass through.
func (t *prefixTranslator) ToTarget(path string) string {
	if path == "" || IsUNCPath(path) {
		return path
	}
	if IsWindowsPath(path) {
		return strings.ReplaceAll(path, "/", `\`)
	}
	if !filepath.IsAbs(path) {
		// Relative paths keep their meaning inside the prefix; only
		// the separators change.
		return strings.ReplaceAll(path, "/", `\`)
	}

	clean := filepath.Clean(path)
	for _, mount := range t.mounts {
		if clean == mount || strings.HasPrefix(clean, withSep(mount)) {
			rel := strings.TrimPrefix(strings.TrimPrefix(clean, mount), "/")
			return t.drives[mount] + `\` + strings.ReplaceAll(rel, "/", `\`)
		}
	}

	root := t.drives["/"]
	if root == "" {
		root = "Z:"
	}
	return root + strings.ReplaceAll(clean, "/", `\`)
}

// FromTarget maps a drive-letter path back to host form. Unknown drive
// letters leave the input unchanged.
func (t *prefixTranslator) FromTarget(path string) string {
	if path == "" || IsUNCPath(path) || !IsWindowsPath(path) {
		return path
	}
	drive, rest := SplitDrive(path)
	drive = strings.ToUpper(drive)

	for mount, letter := range t.drives {
		if letter == drive {
			rel := strings.ReplaceAll(rest, `\`, "/")
			return filepath.Join(mount, rel)
		}
	}
	return path
}

func withSep(mount string) string {
	if mount == "/" {
		return "/"
	}
	return mount + "/"
}
