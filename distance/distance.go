package distance

import (
	"fmt"
	"math"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var s0, s1, s2, s3 float32
	n := len(a)
	b = b[:n]
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		s0 += a[i] * b[i]
	}
	return s0 + s1 + s2 + s3
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var s0, s1, s2, s3 float32
	n := len(a)
	b = b[:n]
	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		s0 += d * d
	}
	return s0 + s1 + s2 + s3
}

// SquaredL2Windows writes to out[t] the squared L2 distance between vec and
// signal[t:t+len(vec)] for every t < len(out).
//
// len(out) must not exceed len(signal)-len(vec)+1.
func SquaredL2Windows(signal, vec []float32, out []float32) {
	n := len(out)
	for t := range out {
		out[t] = 0
	}
	for k, v := range vec {
		src := signal[k : k+n]
		for t, x := range src {
			d := x - v
			out[t] += d * d
		}
	}
}

// NearestWindows finds, for every window position t < len(dist), the entry of
// vecs closest to signal[t:t+l], where l is the common length of all vecs.
// dist[t] receives the distance, arg[t] the index into vecs. scratch must hold
// at least len(dist) values.
func NearestWindows(signal []float32, vecs [][]float32, dist []float32, arg []int, scratch []float32) {
	n := len(dist)
	scratch = scratch[:n]
	for t := range dist {
		dist[t] = math.MaxFloat32
		arg[t] = -1
	}
	for j, vec := range vecs {
		SquaredL2Windows(signal, vec, scratch)
		for t, d := range scratch {
			if d < dist[t] {
				dist[t] = d
				arg[t] = j
			}
		}
	}
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	MetricL2 Metric = iota
	MetricDot
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	case MetricDot:
		return "Dot"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricL2:
		return SquaredL2, nil
	case MetricDot:
		return Dot, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
