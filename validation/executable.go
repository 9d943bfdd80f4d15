package validation

import (
	"path/filepath"
	"strings"
)

// windowsExecExts is the set of file extensions Windows treats as
// directly executable.
var windowsExecExts = map[string]struct{}{
	".COM": {},
	".EXE": {},
	".BAT": {},
	".CMD": {},
	".VBS": {},
	".VBE": {},
	".JS":  {},
	".JSE": {},
	".WSF": {},
	".WSH": {},
	".MSC": {},
}

// IsWindowsExecutable reports whether path carries a Windows executable
// extension. The file does not need to exist on the host filesystem:
// the target may live inside a Wine prefix or be resolved by Wine itself.
func IsWindowsExecutable(path string) bool {
	ext := strings.ToUpper(filepath.Ext(path))
	_, ok := windowsExecExts[ext]
	return ok
}
