package vq

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/hupe1980/pokeyvq/codebook"
	"github.com/hupe1980/pokeyvq/hardware"
	"github.com/hupe1980/pokeyvq/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T, cfg Config, seed int64) *Generator {
	t.Helper()
	g, err := NewGenerator(cfg, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return g
}

func assertCoverage(t *testing.T, res *Result, n int) {
	t.Helper()
	require.Len(t, res.Starts, len(res.Indices))
	pos := 0
	for i, idx := range res.Indices {
		require.Equal(t, pos, res.Starts[i])
		l := res.Codebook.Len(int(idx))
		require.Positive(t, l)
		pos += l
	}
	require.Equal(t, n, pos)
}

func TestTrain_FixedLengthExactness(t *testing.T) {
	a := []float32{0.1, 0.9}
	b := []float32{0.8, 0.2}
	signal := testutil.Repeat(append(append([]float32{}, a...), b...), 2)
	require.Len(t, signal, 8)

	g := newGenerator(t, Config{
		Size:          4,
		MinLen:        2,
		MaxLen:        2,
		Lambda:        0.01,
		MaxIterations: 50,
	}, 1)

	res, err := g.Train(context.Background(), signal, nil)
	require.NoError(t, err)
	assert.Len(t, res.Indices, 4)
	assertCoverage(t, res, len(signal))
	assert.Equal(t, res.Indices[0], res.Indices[2])
	assert.Equal(t, res.Indices[1], res.Indices[3])
	assert.LessOrEqual(t, res.Cost, res.History[0].Cost+1e-9)
}

func TestTrain_Coverage(t *testing.T) {
	for _, improved := range []bool{false, true} {
		rng := testutil.NewRNG(5)
		signal := rng.Uniform(300)

		g := newGenerator(t, Config{
			Size:          32,
			MinLen:        1,
			MaxLen:        8,
			Lambda:        0.01,
			Alpha:         0.1,
			ImprovedInit:  improved,
			MaxIterations: 5,
		}, 2)

		res, err := g.Train(context.Background(), signal, nil)
		require.NoError(t, err)
		assertCoverage(t, res, len(signal))
		assert.LessOrEqual(t, res.Iterations, 5)
		assert.Len(t, res.History, res.Iterations)
	}
}

func TestTrain_BoundaryRespect(t *testing.T) {
	rng := testutil.NewRNG(8)
	signal := rng.Uniform(120)
	boundaries := []Boundary{{0, 37}, {37, 80}, {80, 120}}

	g := newGenerator(t, Config{
		Size:          16,
		MinLen:        1,
		MaxLen:        8,
		Lambda:        0.02,
		MaxIterations: 4,
	}, 3)

	res, err := g.Train(context.Background(), signal, boundaries)
	require.NoError(t, err)
	assertCoverage(t, res, len(signal))

	for i, idx := range res.Indices {
		start := res.Starts[i]
		end := start + res.Codebook.Len(int(idx))
		for _, c := range []int{37, 80} {
			assert.False(t, start < c && c < end, "vector [%d,%d) straddles %d", start, end, c)
		}
	}
}

func TestTrain_Constrained(t *testing.T) {
	for _, tbl := range []*hardware.Table{hardware.SingleChannel(), hardware.DualChannel()} {
		rng := testutil.NewRNG(13)
		signal := rng.Uniform(200)

		var seen int
		g := newGenerator(t, Config{
			Size:          16,
			MinLen:        2,
			MaxLen:        6,
			Lambda:        0.01,
			Constrained:   true,
			Table:         tbl,
			MaxIterations: 6,
			OnIteration:   func(Iteration) { seen++ },
		}, 4)

		res, err := g.Train(context.Background(), signal, nil)
		require.NoError(t, err)
		assert.Equal(t, res.Iterations, seen)
		assertAllOnTable(t, res.Codebook, tbl)
	}
}

func assertAllOnTable(t *testing.T, cb *codebook.Codebook, tbl *hardware.Table) {
	t.Helper()
	for id := 0; id < cb.Size(); id++ {
		for _, v := range cb.Entry(id) {
			assert.True(t, tbl.Contains(float64(v), 1e-6), "entry %d value %v", id, v)
		}
	}
}

func TestTrain_Deterministic(t *testing.T) {
	signal := testutil.NewRNG(21).Uniform(256)
	cfg := Config{
		Size:          24,
		MinLen:        1,
		MaxLen:        6,
		Lambda:        0.01,
		ImprovedInit:  true,
		MaxIterations: 6,
	}

	r1, err := newGenerator(t, cfg, 99).Train(context.Background(), signal, nil)
	require.NoError(t, err)
	r2, err := newGenerator(t, cfg, 99).Train(context.Background(), signal, nil)
	require.NoError(t, err)

	assert.Equal(t, r1.Indices, r2.Indices)
	assert.Equal(t, r1.Cost, r2.Cost)
	for id := 0; id < r1.Codebook.Size(); id++ {
		assert.Equal(t, r1.Codebook.Entry(id), r2.Codebook.Entry(id))
	}
}

func TestTrain_Errors(t *testing.T) {
	cfg := Config{Size: 4, MinLen: 4, MaxLen: 4, MaxIterations: 3}

	t.Run("Empty", func(t *testing.T) {
		_, err := newGenerator(t, cfg, 1).Train(context.Background(), nil, nil)
		assert.ErrorIs(t, err, ErrEmptySignal)
	})

	t.Run("NonFinite", func(t *testing.T) {
		signal := make([]float32, 8)
		signal[5] = float32(math.NaN())
		_, err := newGenerator(t, cfg, 1).Train(context.Background(), signal, nil)
		assert.ErrorIs(t, err, ErrInvalidSample)
	})

	t.Run("TooShort", func(t *testing.T) {
		_, err := newGenerator(t, cfg, 1).Train(context.Background(), make([]float32, 3), nil)
		assert.ErrorIs(t, err, ErrSignalTooShort)
	})

	t.Run("Unreachable", func(t *testing.T) {
		_, err := newGenerator(t, cfg, 1).Train(context.Background(), make([]float32, 10), nil)
		require.ErrorIs(t, err, ErrUnreachable)

		var ue *UnreachableError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, 10, ue.Length)
	})

	t.Run("BadBoundaries", func(t *testing.T) {
		_, err := newGenerator(t, cfg, 1).Train(context.Background(), make([]float32, 16),
			[]Boundary{{0, 8}, {9, 16}})
		require.ErrorIs(t, err, ErrInvalidBoundaries)

		var be *BoundaryError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, 1, be.Index)
		assert.Equal(t, 8, be.Expected)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newGenerator(t, cfg, 1).Train(ctx, make([]float32, 16), nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewGenerator_Validation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name string
		cfg  Config
	}{
		{"ZeroSize", Config{Size: 0, MinLen: 1, MaxLen: 2}},
		{"OversizedCodebook", Config{Size: 257, MinLen: 1, MaxLen: 2}},
		{"ZeroMinLen", Config{Size: 4, MinLen: 0, MaxLen: 2}},
		{"InvertedLengths", Config{Size: 4, MinLen: 3, MaxLen: 2}},
		{"NegativeLambda", Config{Size: 4, MinLen: 1, MaxLen: 2, Lambda: -1}},
		{"NegativeAlpha", Config{Size: 4, MinLen: 1, MaxLen: 2, Alpha: -1}},
		{"ConstrainedWithoutTable", Config{Size: 4, MinLen: 1, MaxLen: 2, Constrained: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.cfg, rng)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := NewGenerator(Config{Size: 4, MinLen: 1, MaxLen: 2}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	g, err := NewGenerator(Config{Size: 4, MinLen: 1, MaxLen: 2}, rng)
	require.NoError(t, err)
	assert.Equal(t, DefaultTolerance, g.Config().Tolerance)
	assert.Equal(t, DefaultNoise, g.Config().Noise)
}

func TestCutPoints(t *testing.T) {
	cuts, err := CutPoints(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, cuts)

	cuts, err = CutPoints([]Boundary{{0, 4}, {4, 7}, {7, 10}}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 7}, cuts)

	_, err = CutPoints([]Boundary{{0, 4}, {4, 9}}, 10)
	assert.ErrorIs(t, err, ErrInvalidBoundaries)

	_, err = CutPoints([]Boundary{{0, 0}, {0, 10}}, 10)
	assert.ErrorIs(t, err, ErrInvalidBoundaries)
}
