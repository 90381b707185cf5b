package quantization

import (
	"testing"

	"github.com/hupe1980/pokeyvq/hardware"
	"github.com/hupe1980/pokeyvq/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantize_Nearest(t *testing.T) {
	tbl := hardware.SingleChannel()
	audio := []float32{0, 0.03, 0.04, 0.45, 1, 1.2, -0.1}
	assert.Equal(t, []uint8{0, 0, 1, 7, 15, 15, 0}, Quantize(audio, tbl, false))
}

func TestQuantize_NoiseShapingDeterministic(t *testing.T) {
	tbl := hardware.SingleChannel()
	audio := testutil.NewRNG(3).Uniform(2048)

	a := Quantize(audio, tbl, true)
	b := Quantize(audio, tbl, true)
	assert.Equal(t, a, b)

	enc := NewRawEncoder(tbl, WithNoiseShaping())
	assert.True(t, enc.NoiseShaping())
	assert.Equal(t, a, enc.Quantize(audio))
}

func TestQuantize_NoiseShapingTracksMean(t *testing.T) {
	tbl := hardware.SingleChannel()
	const n = 1000
	audio := make([]float32, n)
	for i := range audio {
		audio[i] = 0.09 // 1.35 steps: plain rounding is stuck on level 1
	}

	plain := Quantize(audio, tbl, false)
	for _, l := range plain {
		require.Equal(t, uint8(1), l)
	}

	shaped := NewRawEncoder(tbl, WithNoiseShaping()).Decode(Quantize(audio, tbl, true))
	var sum float64
	for _, v := range shaped {
		sum += float64(v)
	}
	// The accumulated output differs from the input by at most half a step.
	assert.InDelta(t, 0.09*n, sum, tbl.Step()/2+1e-3)
}

func TestQuantize_NoiseShapingClamps(t *testing.T) {
	tbl := hardware.SingleChannel()
	levels := Quantize([]float32{2, 2, 2, -1, -1}, tbl, true)
	assert.Equal(t, []uint8{15, 15, 15, 0, 0}, levels)
}

func TestQuantize_NoiseShapingDropsClippedError(t *testing.T) {
	tbl := hardware.SingleChannel()
	// 1.5 clamps to full scale exactly, so nothing is fed into 0.4.
	levels := Quantize([]float32{1.5, 0.4}, tbl, true)
	assert.Equal(t, []uint8{15, 6}, levels)
	assert.Equal(t, Quantize([]float32{0.4}, tbl, true)[0], levels[1])
}

func TestRawEncoder_Encode(t *testing.T) {
	single := NewRawEncoder(hardware.SingleChannel())

	packed, err := single.Encode([]float32{3.0 / 15, 5.0 / 15, 7.0 / 15}, true, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x53, 0x07}, packed)

	unpacked, err := single.Encode([]float32{3.0 / 15}, false, true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x13}, unpacked)

	dual := NewRawEncoder(hardware.DualChannel())
	out, err := dual.Encode([]float32{11.0 / 30}, true, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x65}, out)
	assert.Equal(t, 2, dual.Table().Channels())
}

func TestErrorFeedback(t *testing.T) {
	s := newErrorFeedback(0, 1)
	assert.Equal(t, 0.5, s.Shape(0.5))
	s.RecordError(0.5, 0.4)
	assert.InDelta(t, 0.7, s.Shape(0.6), 1e-12)
	assert.Equal(t, 1.0, s.Shape(0.95))
	s.Reset()
	assert.Equal(t, 0.6, s.Shape(0.6))
}
