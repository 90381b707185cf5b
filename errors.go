package pokeyvq

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every ConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrEmptyClip is returned when an input clip has no samples.
	ErrEmptyClip = errors.New("empty clip")

	// ErrNonFiniteSample is returned when an input clip holds NaN or Inf.
	ErrNonFiniteSample = errors.New("non-finite sample")

	// ErrNoVQClips is returned when every clip of a run is marked raw.
	ErrNoVQClips = errors.New("no clip to train a codebook on")
)

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// ClipError identifies the input clip that caused a failure.
//
// The underlying error can be accessed via errors.Unwrap.
type ClipError struct {
	Index int
	Name  string
	cause error
}

func (e *ClipError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("clip %d (%s): %v", e.Index, e.Name, e.cause)
	}
	return fmt.Sprintf("clip %d: %v", e.Index, e.cause)
}

func (e *ClipError) Unwrap() error { return e.cause }

// JobError identifies the batch job that failed.
type JobError struct {
	Name  string
	cause error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job %s: %v", e.Name, e.cause)
}

func (e *JobError) Unwrap() error { return e.cause }
