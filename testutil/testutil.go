package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Rand returns a fresh, unshared source seeded with the initial seed.
// Use it where an API takes ownership of a *rand.Rand.
func (r *RNG) Rand() *rand.Rand {
	return rand.New(rand.NewSource(r.seed))
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillUniform fills dst with uniform values in [0, 1).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// Uniform returns n uniform samples in [0, 1).
func (r *RNG) Uniform(n int) []float32 {
	v := make([]float32, n)
	r.FillUniform(v)
	return v
}

// Bipolar returns n uniform samples in [-1, 1).
func (r *RNG) Bipolar(n int) []float32 {
	v := r.Uniform(n)
	for i := range v {
		v[i] = 2*v[i] - 1
	}
	return v
}

// Sine returns n samples of a bipolar sine of the given frequency and
// amplitude at the given sample rate.
func Sine(n int, freq, rate, amp float64) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/rate))
	}
	return v
}

// Repeat concatenates pattern times times.
func Repeat(pattern []float32, times int) []float32 {
	v := make([]float32, 0, len(pattern)*times)
	for i := 0; i < times; i++ {
		v = append(v, pattern...)
	}
	return v
}
