package vq

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/hupe1980/pokeyvq/codebook"
	"github.com/hupe1980/pokeyvq/internal/kmeans"
	"github.com/hupe1980/pokeyvq/internal/viterbi"
)

// Boundary is the half-open sample range [Start, End) of one clip.
type Boundary struct {
	Start int
	End   int
}

// Len returns the number of samples in the range.
func (b Boundary) Len() int { return b.End - b.Start }

// Result is a trained codebook and the index stream that reproduces the
// training signal from it.
type Result struct {
	Codebook *codebook.Codebook
	Indices  []uint8
	// Starts holds the first sample of every vector in Indices.
	Starts     []int
	Cost       float64
	Distortion float64
	Iterations int
	Converged  bool
	History    []Iteration
}

// Generator trains variable-length codebooks. A Generator is not safe for
// concurrent use because it owns its random source.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// NewGenerator validates cfg and returns a Generator drawing all randomness
// from rng.
func NewGenerator(cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}
	return &Generator{cfg: cfg, rng: rng}, nil
}

// Config returns the effective configuration.
func (g *Generator) Config() Config { return g.cfg }

// Train learns a codebook for signal, whose samples must lie in [0, 1].
// Boundaries, if given, must partition [0, len(signal)); no vector crosses an
// interior boundary. MaxTime and ctx are checked between iterations only.
func (g *Generator) Train(ctx context.Context, signal []float32, boundaries []Boundary) (*Result, error) {
	n := len(signal)
	if n == 0 {
		return nil, ErrEmptySignal
	}
	if n < g.cfg.MinLen {
		return nil, fmt.Errorf("%w: %d samples, min length %d", ErrSignalTooShort, n, g.cfg.MinLen)
	}
	for i, v := range signal {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: sample %d is %v", ErrInvalidSample, i, v)
		}
	}
	cuts, err := CutPoints(boundaries, n)
	if err != nil {
		return nil, err
	}

	cb, err := codebook.New(g.cfg.Size, g.cfg.MaxLen)
	if err != nil {
		return nil, err
	}
	if g.cfg.ImprovedInit {
		g.initImproved(signal, cb)
	} else {
		g.initRandom(signal, cb)
	}

	project := g.projector()
	if project != nil {
		for id := 0; id < cb.Size(); id++ {
			project(cb.Entry(id))
		}
	}

	params := viterbi.Params{Lambda: g.cfg.Lambda, Alpha: g.cfg.Alpha, Cuts: cuts}
	noise := g.cfg.Noise
	if g.cfg.Constrained {
		// Noise below half a level step would be projected away.
		noise = math.Max(noise, g.cfg.Table.Step())
	}

	res := &Result{}
	start := time.Now()
	prev := math.Inf(1)
	best, bestCost := cb, math.Inf(1)

	for iter := 0; iter < g.cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if g.cfg.MaxTime > 0 && time.Since(start) >= g.cfg.MaxTime {
			break
		}

		iterStart := time.Now()
		seg, err := viterbi.Segment(signal, cb, params)
		if err != nil {
			return nil, err
		}

		used := kmeans.Update(signal, cb, seg.Segments, project)
		if seg.Cost < bestCost {
			best, bestCost = cb.Clone(), seg.Cost
		}
		converged := relativeChange(prev, seg.Cost) < g.cfg.Tolerance

		respawned := 0
		if !converged {
			respawned = kmeans.Respawn(cb, used, seg.Errors, g.rng, noise, project)
		}

		it := Iteration{
			Index:      iter,
			Cost:       seg.Cost,
			Distortion: seg.Distortion,
			Vectors:    len(seg.Indices),
			Used:       int(used.GetCardinality()),
			Respawned:  respawned,
			Elapsed:    time.Since(iterStart),
		}
		res.History = append(res.History, it)
		res.Iterations++
		if g.cfg.OnIteration != nil {
			g.cfg.OnIteration(it)
		}

		if converged {
			res.Converged = true
			break
		}
		prev = seg.Cost
	}

	// Respawn can leave the last codebook worse than an earlier one, so the
	// result is the updated codebook of the cheapest iteration, resegmented.
	final, err := viterbi.Segment(signal, best, params)
	if err != nil {
		return nil, err
	}
	res.Codebook = best
	res.Indices = final.Indices
	res.Starts = final.Starts
	res.Cost = final.Cost
	res.Distortion = final.Distortion
	return res, nil
}

func (g *Generator) projector() kmeans.Projector {
	if !g.cfg.Constrained {
		return nil
	}
	return g.cfg.Table.ProjectInPlace
}

// CutPoints validates that boundaries partition [0, n) and returns the
// interior cut positions. An empty boundary list yields no cuts.
func CutPoints(boundaries []Boundary, n int) ([]int, error) {
	if len(boundaries) == 0 {
		return nil, nil
	}
	cuts := make([]int, 0, len(boundaries)-1)
	expected := 0
	for i, b := range boundaries {
		if b.Start != expected || b.End <= b.Start {
			return nil, &BoundaryError{Index: i, Boundary: b, Expected: expected}
		}
		if i > 0 {
			cuts = append(cuts, b.Start)
		}
		expected = b.End
	}
	if expected != n {
		last := len(boundaries) - 1
		return nil, &BoundaryError{Index: last, Boundary: boundaries[last], Expected: n}
	}
	return cuts, nil
}

func relativeChange(prev, cur float64) float64 {
	if math.IsInf(prev, 1) {
		return math.Inf(1)
	}
	d := math.Abs(prev - cur)
	if prev == 0 {
		if d == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return d / math.Abs(prev)
}
