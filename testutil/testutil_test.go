package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniform(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.Uniform(64)

	assert.Len(t, v, 64)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, float32(0))
		assert.Less(t, x, float32(1))
	}
}

func TestBipolar(t *testing.T) {
	rng := NewRNG(4711)

	for _, x := range rng.Bipolar(64) {
		assert.GreaterOrEqual(t, x, float32(-1))
		assert.Less(t, x, float32(1))
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(42)
	a := rng.Uniform(8)
	rng.Reset()
	b := rng.Uniform(8)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(42), rng.Seed())
}

func TestRand(t *testing.T) {
	rng := NewRNG(9)
	assert.Equal(t, rng.Rand().Int63(), rng.Rand().Int63())
}

func TestSine(t *testing.T) {
	v := Sine(100, 1, 100, 0.5)
	assert.Len(t, v, 100)
	assert.InDelta(t, 0, v[0], 1e-6)
	assert.InDelta(t, 0.5, v[25], 1e-6)
	assert.InDelta(t, -0.5, v[75], 1e-6)
}

func TestRepeat(t *testing.T) {
	assert.Equal(t, []float32{1, 2, 1, 2, 1, 2}, Repeat([]float32{1, 2}, 3))
	assert.Empty(t, Repeat([]float32{1}, 0))
}
