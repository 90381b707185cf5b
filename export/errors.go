package export

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsetEntry is returned when the index stream references an entry
	// without samples.
	ErrUnsetEntry = errors.New("export: index references unset entry")

	// ErrOffTable is returned in constrained mode when an entry holds a
	// value that is not a hardware level.
	ErrOffTable = errors.New("export: value not on voltage table")

	// ErrTooLarge is returned when a table exceeds 16-bit addressing.
	ErrTooLarge = errors.New("export: table exceeds addressable size")

	// ErrDirectoryMismatch is returned when the VQ clips of a directory do
	// not cover the index stream exactly.
	ErrDirectoryMismatch = errors.New("export: clip directory does not match index stream")

	// ErrInvalidBundle is returned for malformed binary bundles.
	ErrInvalidBundle = errors.New("export: invalid bundle")
)

// EntryError reports the first index-stream position referencing a bad entry.
type EntryError struct {
	Position int
	ID       int
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("export: index %d references unset entry %d", e.Position, e.ID)
}

func (e *EntryError) Unwrap() error { return ErrUnsetEntry }

// ValueError reports an off-table sample in constrained mode.
type ValueError struct {
	ID     int
	Sample int
	Value  float32
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("export: entry %d sample %d value %v is not a hardware level", e.ID, e.Sample, e.Value)
}

func (e *ValueError) Unwrap() error { return ErrOffTable }

// SizeError reports which table overflowed.
type SizeError struct {
	Table string
	Size  int
	Limit int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("export: %s holds %d, limit %d", e.Table, e.Size, e.Limit)
}

func (e *SizeError) Unwrap() error { return ErrTooLarge }
