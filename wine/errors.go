package wine

import "errors"

// Sentinel errors for context setup failures. These are raised before any
// process is spawned; no partial state is left behind.
var (
	// ErrInvalidPath indicates a distribution or prefix location could
	// not be resolved to a usable directory.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidDistribution indicates a directory is not a Wine build.
	ErrInvalidDistribution = errors.New("invalid wine distribution")

	// ErrInvalidPrefix indicates a directory is not a Wine prefix and
	// cannot become one.
	ErrInvalidPrefix = errors.New("invalid wine prefix")

	// ErrUnknownContext indicates a registry lookup found no match and
	// no default is set.
	ErrUnknownContext = errors.New("unknown wine context")
)
