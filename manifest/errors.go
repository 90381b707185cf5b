package manifest

import "errors"

var (
	// ErrIncompatibleVersion is returned when the manifest format is newer than this package.
	ErrIncompatibleVersion = errors.New("manifest: incompatible version")

	// ErrNotFound is returned when no manifest has been committed.
	ErrNotFound = errors.New("manifest: not found")
)
