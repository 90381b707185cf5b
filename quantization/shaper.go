package quantization

// errorFeedback is a first-order noise shaper. Shape adds the previous
// quantization error to the input, RecordError stores the new one.
type errorFeedback struct {
	err    float64
	lo, hi float64
}

func newErrorFeedback(lo, hi float64) *errorFeedback {
	return &errorFeedback{lo: lo, hi: hi}
}

// Shape returns x plus the fed-back error, clamped to [lo, hi].
func (s *errorFeedback) Shape(x float64) float64 {
	v := x + s.err
	if v < s.lo {
		return s.lo
	}
	if v > s.hi {
		return s.hi
	}
	return v
}

// RecordError stores the error between the shaped input and the level chosen for it.
func (s *errorFeedback) RecordError(shaped, quantized float64) {
	s.err = shaped - quantized
}

// Reset clears the error state.
func (s *errorFeedback) Reset() { s.err = 0 }
