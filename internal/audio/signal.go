package audio

import "math"

// ToUnipolar maps bipolar [-1, 1] samples to the codec's [0, 1] domain,
// clamping out-of-range input.
func ToUnipolar(x []float32) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		u := (v + 1) / 2
		if u < 0 {
			u = 0
		} else if u > 1 {
			u = 1
		}
		out[i] = u
	}
	return out
}

// NonFinite returns the index of the first NaN or infinite sample, or -1.
func NonFinite(x []float32) int {
	for i, v := range x {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return i
		}
	}
	return -1
}

// ToBipolar maps [0, 1] samples back to [-1, 1].
func ToBipolar(x []float32) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = 2*v - 1
	}
	return out
}

// Peak returns the largest absolute sample value.
func Peak(x []float32) float32 {
	var p float32
	for _, v := range x {
		if v < 0 {
			v = -v
		}
		if v > p {
			p = v
		}
	}
	return p
}

// Normalize scales bipolar x so that its peak is 1. Silence is returned as is.
func Normalize(x []float32) []float32 {
	out := append([]float32(nil), x...)
	p := Peak(x)
	if p == 0 {
		return out
	}
	g := 1 / p
	for i := range out {
		out[i] *= g
	}
	return out
}

// PadTo right-pads x with zeros to a multiple of m samples.
func PadTo(x []float32, m int) []float32 {
	out := append([]float32(nil), x...)
	if m <= 1 {
		return out
	}
	if r := len(out) % m; r != 0 {
		out = append(out, make([]float32, m-r)...)
	}
	return out
}

// SNR returns the signal-to-noise ratio of test against ref in dB over their
// common length. Identical buffers yield +Inf.
func SNR(ref, test []float32) float64 {
	n := min(len(ref), len(test))
	var sig, noise float64
	for i := 0; i < n; i++ {
		r := float64(ref[i])
		d := r - float64(test[i])
		sig += r * r
		noise += d * d
	}
	if noise == 0 {
		return math.Inf(1)
	}
	if sig == 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(sig/noise)
}
