package vq

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/pokeyvq/codebook"
	"github.com/hupe1980/pokeyvq/hardware"
)

// DefaultTolerance is the relative cost change below which training stops.
const DefaultTolerance = 1e-3

// DefaultNoise is the standard deviation of the respawn perturbation.
const DefaultNoise = 0.01

// Config configures a Generator.
type Config struct {
	// Size is the number of codebook slots (1..256).
	Size int
	// MinLen and MaxLen bound the entry lengths.
	MinLen int
	MaxLen int
	// Lambda is the cost charged per chosen vector.
	Lambda float64
	// Alpha weights discontinuities between adjacent vectors.
	Alpha float64
	// Constrained projects every entry onto Table after each update.
	Constrained bool
	// Table is the hardware voltage table (required when Constrained).
	Table *hardware.Table
	// ImprovedInit selects diversity-seeking initialization.
	ImprovedInit bool
	// MaxIterations bounds the number of training iterations.
	MaxIterations int
	// MaxTime bounds the wall-clock training time. Zero means unbounded.
	// It is checked between iterations.
	MaxTime time.Duration
	// Tolerance is the relative cost change that ends training.
	// Zero selects DefaultTolerance.
	Tolerance float64
	// Noise is the respawn perturbation. Zero selects DefaultNoise.
	Noise float64
	// OnIteration, if set, observes every completed iteration.
	OnIteration func(Iteration)
}

// Iteration summarizes one training iteration.
type Iteration struct {
	Index      int
	Cost       float64
	Distortion float64
	Vectors    int
	Used       int
	Respawned  int
	Elapsed    time.Duration
}

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("vq: invalid config")

func (c *Config) validate() error {
	switch {
	case c.Size < 1 || c.Size > codebook.MaxSize:
		return fmt.Errorf("%w: size %d not in [1, %d]", ErrInvalidConfig, c.Size, codebook.MaxSize)
	case c.MinLen < 1:
		return fmt.Errorf("%w: min length %d < 1", ErrInvalidConfig, c.MinLen)
	case c.MaxLen < c.MinLen:
		return fmt.Errorf("%w: max length %d < min length %d", ErrInvalidConfig, c.MaxLen, c.MinLen)
	case c.MaxLen > 255:
		return fmt.Errorf("%w: max length %d > 255", ErrInvalidConfig, c.MaxLen)
	case c.Lambda < 0:
		return fmt.Errorf("%w: lambda %v < 0", ErrInvalidConfig, c.Lambda)
	case c.Alpha < 0:
		return fmt.Errorf("%w: alpha %v < 0", ErrInvalidConfig, c.Alpha)
	case c.MaxIterations < 0:
		return fmt.Errorf("%w: max iterations %d < 0", ErrInvalidConfig, c.MaxIterations)
	case c.Constrained && c.Table == nil:
		return fmt.Errorf("%w: constrained mode needs a voltage table", ErrInvalidConfig)
	}
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.Noise <= 0 {
		c.Noise = DefaultNoise
	}
	return nil
}
