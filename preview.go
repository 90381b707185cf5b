package pokeyvq

import (
	"math"

	"github.com/hupe1980/pokeyvq/codebook"
	"github.com/hupe1980/pokeyvq/export"
	"github.com/hupe1980/pokeyvq/hardware"
	"github.com/hupe1980/pokeyvq/internal/audio"
)

// Preview renders what the chip outputs for indices at the configured
// preview rate, in the bipolar domain.
func (e *Encoder) Preview(cb *codebook.Codebook, indices []uint8) ([]float32, error) {
	levels, err := StreamLevels(cb, indices, e.table)
	if err != nil {
		return nil, err
	}
	return RenderPreview(e.table, levels, e.cfg.Rate, e.cfg.PreviewRate), nil
}

// StreamLevels expands indices into the table level of every played sample.
func StreamLevels(cb *codebook.Codebook, indices []uint8, table *hardware.Table) ([]int, error) {
	levels := make([]int, 0, len(indices)*cb.MaxLen())
	for i, idx := range indices {
		id := int(idx)
		if id >= cb.Size() || cb.Len(id) == 0 {
			return nil, &export.EntryError{Position: i, ID: id}
		}
		for _, v := range cb.Entry(id) {
			levels = append(levels, table.Nearest(float64(v)))
		}
	}
	return levels, nil
}

// RenderPreview converts table levels played at rate into a waveform at
// previewRate.
//
// A two-channel table is rendered cycle by cycle: the decoder stores AUDC1
// GlitchCycles before AUDC2, so each sample period starts with the new
// channel 1 volume summed with the previous channel 2 volume. Both sums pass
// through the saturation curve of the output stage. Single-channel tables
// are resampled directly.
func RenderPreview(table *hardware.Table, levels []int, rate, previewRate int) []float32 {
	if len(levels) == 0 {
		return nil
	}
	n := max(1, int(math.Round(float64(len(levels))*float64(previewRate)/float64(rate))))

	if table.Channels() == 1 {
		u := make([]float32, len(levels))
		for i, l := range levels {
			u[i] = float32(table.Level(l))
		}
		return audio.ToBipolar(audio.Fit(audio.Resample(u, float64(rate), float64(previewRate)), n))
	}

	period := float64(hardware.CyclesPerSample) * float64(rate) / float64(previewRate)
	d := audio.NewBoxDecimator(period)
	var prevB uint8
	for _, l := range levels {
		p := table.Pair(l)
		glitch := hardware.Saturate(float64(int(p.A)+int(prevB))) / hardware.SaturatedMax
		stable := hardware.Saturate(float64(p.Sum())) / hardware.SaturatedMax
		d.Push(glitch, hardware.GlitchCycles)
		d.Push(stable, hardware.CyclesPerSample-hardware.GlitchCycles)
		prevB = p.B
	}
	return audio.ToBipolar(audio.Fit(d.Flush(), n))
}
