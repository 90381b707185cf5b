package quantization

import (
	"github.com/hupe1980/pokeyvq/hardware"
	"github.com/hupe1980/pokeyvq/internal/quantization"
)

// RawOption configures a RawEncoder.
type RawOption func(*RawEncoder)

// WithNoiseShaping enables first-order error feedback.
func WithNoiseShaping() RawOption {
	return func(e *RawEncoder) { e.noiseShaping = true }
}

// RawEncoder quantizes unipolar samples to hardware level indices.
// It is stateless between calls and safe for concurrent use.
type RawEncoder struct {
	table        *hardware.Table
	noiseShaping bool
}

// NewRawEncoder returns an encoder for table.
func NewRawEncoder(table *hardware.Table, opts ...RawOption) *RawEncoder {
	e := &RawEncoder{table: table}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the voltage table.
func (e *RawEncoder) Table() *hardware.Table { return e.table }

// NoiseShaping reports whether error feedback is enabled.
func (e *RawEncoder) NoiseShaping() bool { return e.noiseShaping }

// Quantize returns the level index of every sample.
func (e *RawEncoder) Quantize(audio []float32) []uint8 {
	return Quantize(audio, e.table, e.noiseShaping)
}

// Encode quantizes audio and packs the levels into the single- or
// dual-channel payload layout matching the table.
func (e *RawEncoder) Encode(audio []float32, packed, prebake bool) ([]byte, error) {
	f := quantization.Format{
		Channels: e.table.Channels(),
		Packed:   packed,
		Prebake:  prebake,
		Table:    e.table,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.Append(make([]byte, 0, f.Size(len(audio))), e.Quantize(audio)), nil
}

// Decode maps level indices back to normalized sample values.
func (e *RawEncoder) Decode(levels []uint8) []float32 {
	out := make([]float32, len(levels))
	for i, l := range levels {
		out[i] = float32(e.table.Level(int(l)))
	}
	return out
}

// Quantize maps every sample to the index of the nearest table level. With
// noiseShaping the running quantization error is added to the next sample
// before quantizing. The shaped value is clamped to the table range first and
// the error is measured from the clamped value, so error beyond full scale is
// dropped instead of carried into later samples.
func Quantize(audio []float32, table *hardware.Table, noiseShaping bool) []uint8 {
	out := make([]uint8, len(audio))
	if !noiseShaping {
		for i, x := range audio {
			out[i] = uint8(table.Nearest(float64(x)))
		}
		return out
	}

	s := newErrorFeedback(table.Level(0), table.Level(table.Len()-1))
	for i, x := range audio {
		v := s.Shape(float64(x))
		l := table.Nearest(v)
		s.RecordError(v, table.Level(l))
		out[i] = uint8(l)
	}
	return out
}
