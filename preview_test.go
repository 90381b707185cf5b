package pokeyvq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pokeyvq/codebook"
	"github.com/hupe1980/pokeyvq/export"
	"github.com/hupe1980/pokeyvq/hardware"
	"github.com/hupe1980/pokeyvq/testutil"
)

func TestRenderPreview_Dual(t *testing.T) {
	table := hardware.DualChannel()

	t.Run("Glitch", func(t *testing.T) {
		// Level 10 splits into 5+5; the first period starts with the stale B of 0.
		out := RenderPreview(table, []int{10, 10, 10}, 8000, 8000)
		require.Len(t, out, 3)

		first := (5.0*hardware.GlitchCycles + 10.0*(hardware.CyclesPerSample-hardware.GlitchCycles)) /
			hardware.CyclesPerSample / hardware.SaturatedMax
		assert.InDelta(t, 2*first-1, out[0], 1e-6)
		assert.InDelta(t, -0.2, out[1], 1e-6)
		assert.InDelta(t, -0.2, out[2], 1e-6)
		assert.Less(t, out[0], out[1])
	})

	t.Run("Saturation", func(t *testing.T) {
		out := RenderPreview(table, []int{30, 30}, 8000, 8000)
		assert.InDelta(t, 1.0, out[1], 1e-6)
	})

	t.Run("Rate", func(t *testing.T) {
		out := RenderPreview(table, make([]int, 100), 8000, 44100)
		assert.Len(t, out, 551)
		for _, v := range out {
			assert.InDelta(t, -1.0, v, 1e-6)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Nil(t, RenderPreview(table, nil, 8000, 44100))
	})
}

func TestRenderPreview_Single(t *testing.T) {
	table := hardware.SingleChannel()

	out := RenderPreview(table, []int{15, 0}, 8000, 8000)
	assert.Equal(t, []float32{1, -1}, out)

	out = RenderPreview(table, []int{15, 15, 0, 0}, 8000, 16000)
	assert.Len(t, out, 8)
}

func TestStreamLevels(t *testing.T) {
	cb, err := codebook.New(4, 2)
	require.NoError(t, err)
	require.NoError(t, cb.Set(0, []float32{0, 1}))
	require.NoError(t, cb.Set(1, []float32{7.0 / 15}))

	levels, err := StreamLevels(cb, []uint8{1, 0, 1}, hardware.SingleChannel())
	require.NoError(t, err)
	assert.Equal(t, []int{7, 0, 15, 7}, levels)

	_, err = StreamLevels(cb, []uint8{0, 2}, hardware.SingleChannel())
	var ee *export.EntryError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.Position)
	assert.Equal(t, 2, ee.ID)
}

func TestEncoder_Preview(t *testing.T) {
	cfg := testConfig()
	cfg.Channels = 2
	enc, err := New(cfg, WithPreviewRate(16000))
	require.NoError(t, err)
	assert.Equal(t, 16000, enc.Config().PreviewRate)

	res, err := enc.Run(context.Background(), testutil.Sine(400, 300, 8000, 0.9), 8000)
	require.NoError(t, err)

	out, err := enc.Preview(res.Codebook, res.Indices)
	require.NoError(t, err)
	assert.Len(t, out, 800)
	for _, v := range out {
		assert.True(t, v >= -1 && v <= 1)
	}
}
