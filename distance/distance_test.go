package distance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Unrolled", []float32{1, 1, 1, 1, 1}, []float32{2, 2, 2, 2, 2}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-5)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Same", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Empty", []float32{}, []float32{}, 0},
		{"Unrolled", []float32{0, 0, 0, 0, 0, 0}, []float32{1, 1, 1, 1, 1, 2}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredL2(tt.a, tt.b), 1e-5)
		})
	}
}

func TestSquaredL2Windows(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	signal := make([]float32, 97)
	for i := range signal {
		signal[i] = rng.Float32()
	}

	for _, l := range []int{1, 2, 5, 16} {
		vec := make([]float32, l)
		for i := range vec {
			vec[i] = rng.Float32()
		}
		out := make([]float32, len(signal)-l+1)
		SquaredL2Windows(signal, vec, out)

		for pos := range out {
			want := SquaredL2(signal[pos:pos+l], vec)
			require.InDelta(t, want, out[pos], 1e-4, "len %d pos %d", l, pos)
		}
	}
}

func TestNearestWindows(t *testing.T) {
	signal := []float32{0, 0, 1, 1, 0, 0}
	vecs := [][]float32{{0, 0}, {1, 1}, {0, 1}}

	n := len(signal) - 1
	dist := make([]float32, n)
	arg := make([]int, n)
	scratch := make([]float32, n)
	NearestWindows(signal, vecs, dist, arg, scratch)

	assert.Equal(t, []int{0, 2, 1, 0, 0}, arg)
	for _, d := range []float32{dist[0], dist[1], dist[2], dist[4]} {
		assert.Equal(t, float32(0), d)
	}
	// Window [1, 0] is one unit away from {0,0}, {1,1} and two from {0,1}; first wins.
	assert.Equal(t, float32(1), dist[3])
}

func TestProvider(t *testing.T) {
	fn, err := Provider(MetricL2)
	require.NoError(t, err)
	assert.Equal(t, float32(1), fn([]float32{0}, []float32{1}))

	_, err = Provider(Metric(999))
	assert.Error(t, err)
	assert.Equal(t, "Unknown(999)", Metric(999).String())
}
