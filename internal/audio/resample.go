package audio

import "math"

// Resample converts x from rate from to rate to. Upsampling interpolates
// linearly; downsampling averages the input over every output period. The
// result holds round(len(x)*to/from) samples.
func Resample(x []float32, from, to float64) []float32 {
	if from == to || len(x) == 0 {
		return append([]float32(nil), x...)
	}
	n := int(math.Round(float64(len(x)) * to / from))
	if n < 1 {
		n = 1
	}

	if to > from {
		return Fit(linear(x, from/to, n), n)
	}

	d := NewBoxDecimator(from / to)
	for _, v := range x {
		d.Push(float64(v), 1)
	}
	return Fit(d.Flush(), n)
}

func linear(x []float32, step float64, n int) []float32 {
	out := make([]float32, n)
	last := len(x) - 1
	for i := range out {
		pos := float64(i) * step
		i0 := int(pos)
		if i0 >= last {
			out[i] = x[last]
			continue
		}
		f := float32(pos - float64(i0))
		out[i] = x[i0]*(1-f) + x[i0+1]*f
	}
	return out
}

// BoxDecimator integrates a piecewise-constant signal and emits its mean over
// consecutive windows of a fixed period. Durations and the period share one
// time unit (samples, CPU cycles).
type BoxDecimator struct {
	period float64
	acc    float64
	filled float64
	out    []float32
}

// NewBoxDecimator returns a decimator emitting one sample per period.
func NewBoxDecimator(period float64) *BoxDecimator {
	return &BoxDecimator{period: period}
}

// Push adds value v held for dur time units.
func (d *BoxDecimator) Push(v, dur float64) {
	for dur > 0 {
		room := d.period - d.filled
		if dur < room {
			d.acc += v * dur
			d.filled += dur
			return
		}
		d.acc += v * room
		d.out = append(d.out, float32(d.acc/d.period))
		d.acc, d.filled = 0, 0
		dur -= room
	}
}

// Flush emits the mean of a partially filled window and returns all output.
func (d *BoxDecimator) Flush() []float32 {
	if d.filled > 1e-9 {
		d.out = append(d.out, float32(d.acc/d.filled))
		d.acc, d.filled = 0, 0
	}
	return d.out
}

// Fit truncates x to n samples or extends it by repeating its last sample.
func Fit(x []float32, n int) []float32 {
	if len(x) >= n {
		return x[:n]
	}
	var last float32
	if len(x) > 0 {
		last = x[len(x)-1]
	}
	for len(x) < n {
		x = append(x, last)
	}
	return x
}
