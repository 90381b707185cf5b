package vq

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pokeyvq/internal/viterbi"
)

var (
	// ErrEmptySignal is returned when Train receives no samples.
	ErrEmptySignal = errors.New("vq: empty signal")

	// ErrSignalTooShort is returned when the signal is shorter than MinLen.
	ErrSignalTooShort = errors.New("vq: signal shorter than min length")

	// ErrInvalidSample is returned when a training sample is NaN or infinite.
	ErrInvalidSample = errors.New("vq: non-finite sample")

	// ErrInvalidBoundaries is wrapped by BoundaryError.
	ErrInvalidBoundaries = errors.New("vq: boundaries do not partition the signal")

	// ErrUnreachable is returned (wrapped in an UnreachableError) when no
	// segmentation covers the signal without crossing a boundary.
	ErrUnreachable = viterbi.ErrUnreachable
)

// UnreachableError carries the position and configuration of a failed
// segmentation.
type UnreachableError = viterbi.UnreachableError

// BoundaryError reports the first boundary that breaks the partition.
type BoundaryError struct {
	Index    int
	Boundary Boundary
	Expected int
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("vq: boundary %d [%d,%d): expected start %d",
		e.Index, e.Boundary.Start, e.Boundary.End, e.Expected)
}

func (e *BoundaryError) Unwrap() error { return ErrInvalidBoundaries }
