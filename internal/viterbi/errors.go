package viterbi

import (
	"errors"
	"fmt"
)

// ErrUnreachable is matched by UnreachableError via errors.Is.
var ErrUnreachable = errors.New("viterbi: no finite-cost segmentation")

// UnreachableError reports that no combination of allowed lengths covers the
// signal without crossing a cut point.
type UnreachableError struct {
	// Reached is the furthest position with a finite-cost path.
	Reached int
	// Length is the number of samples to cover.
	Length int
	// Lengths are the entry lengths available to the segmentation.
	Lengths []int
	// Cuts are the interior cut points.
	Cuts []int
}

func (e *UnreachableError) Error() string {
	minLen := 0
	if len(e.Lengths) > 0 {
		minLen = e.Lengths[0]
	}
	return fmt.Sprintf("viterbi: cannot segment %d samples: reached %d (min length %d, lengths %v, cuts %v); align clips to the vector length or use min length 1",
		e.Length, e.Reached, minLen, e.Lengths, e.Cuts)
}

// Is reports whether target is ErrUnreachable.
func (e *UnreachableError) Is(target error) bool { return target == ErrUnreachable }
