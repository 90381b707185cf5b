package audio

import (
	"math"
	"testing"

	"github.com/hupe1980/pokeyvq/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResample_Identity(t *testing.T) {
	x := []float32{1, 2, 3}
	out := Resample(x, 100, 100)
	assert.Equal(t, x, out)
	out[0] = 9
	assert.Equal(t, float32(1), x[0])
}

func TestResample_Up(t *testing.T) {
	out := Resample([]float32{0, 1, 0}, 1, 2)
	require.Len(t, out, 6)
	assert.InDeltaSlice(t, []float32{0, 0.5, 1, 0.5, 0, 0}, out, 1e-6)
}

func TestResample_Down(t *testing.T) {
	out := Resample([]float32{0, 1, 2, 3, 4, 5}, 2, 1)
	assert.InDeltaSlice(t, []float32{0.5, 2.5, 4.5}, out, 1e-6)

	// Non-integer ratio keeps the mean of a constant.
	c := make([]float32, 1000)
	for i := range c {
		c[i] = 0.25
	}
	out = Resample(c, 15720, 11025)
	assert.Len(t, out, int(math.Round(1000*11025.0/15720)))
	for _, v := range out {
		assert.InDelta(t, 0.25, v, 1e-5)
	}
}

func TestResample_SineRoundTrip(t *testing.T) {
	x := testutil.Sine(4000, 200, 15720, 0.8)
	back := Resample(Resample(x, 15720, 44100), 44100, 15720)
	require.Len(t, back, len(x))
	assert.Greater(t, SNR(x, back), 20.0)
}

func TestBoxDecimator(t *testing.T) {
	d := NewBoxDecimator(114)
	d.Push(1, 4)
	d.Push(0, 110)
	d.Push(2, 57)
	out := d.Flush()
	require.Len(t, out, 2)
	assert.InDelta(t, 4.0/114, out[0], 1e-6)
	assert.InDelta(t, 2, out[1], 1e-6)
}

func TestFit(t *testing.T) {
	assert.Equal(t, []float32{1, 2}, Fit([]float32{1, 2, 3}, 2))
	assert.Equal(t, []float32{1, 2, 2, 2}, Fit([]float32{1, 2}, 4))
	assert.Equal(t, []float32{0, 0}, Fit(nil, 2))
}

func TestDomainMapping(t *testing.T) {
	u := ToUnipolar([]float32{-1, 0, 1, 2, -3})
	assert.Equal(t, []float32{0, 0.5, 1, 1, 0}, u)
	assert.Equal(t, []float32{-1, 0, 1, 1, -1}, ToBipolar(u))
}

func TestNormalize(t *testing.T) {
	assert.InDeltaSlice(t, []float32{0.5, -1, 0.25}, Normalize([]float32{0.2, -0.4, 0.1}), 1e-6)
	assert.Equal(t, []float32{0, 0}, Normalize([]float32{0, 0}))
	assert.Equal(t, float32(0.4), Peak([]float32{0.2, -0.4, 0.1}))
}

func TestPadTo(t *testing.T) {
	assert.Len(t, PadTo(make([]float32, 7), 4), 8)
	assert.Len(t, PadTo(make([]float32, 8), 4), 8)
	assert.Len(t, PadTo(make([]float32, 3), 1), 3)
}

func TestSNR(t *testing.T) {
	x := []float32{1, -1, 1, -1}
	assert.True(t, math.IsInf(SNR(x, x), 1))
	assert.InDelta(t, 20, SNR(x, []float32{0.9, -0.9, 0.9, -0.9}), 1e-4)
}

func TestNonFinite(t *testing.T) {
	assert.Equal(t, -1, NonFinite([]float32{0, 0.5, -1}))
	assert.Equal(t, 1, NonFinite([]float32{0, float32(math.NaN()), float32(math.Inf(1))}))
	assert.Equal(t, 0, NonFinite([]float32{float32(math.Inf(-1))}))
	assert.Equal(t, -1, NonFinite(nil))
}
