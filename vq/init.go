package vq

import (
	"math"

	"github.com/hupe1980/pokeyvq/codebook"
	"github.com/hupe1980/pokeyvq/distance"
)

const (
	// poolFactor sizes the improved-init window pool relative to the codebook.
	poolFactor = 20
	// candidateCount windows are scored per improved-init pick.
	candidateCount = 100
	// farDistance scores a candidate without a same-length entry.
	// It exceeds any squared distance between [0, 1] vectors of length <= 255.
	farDistance = 1e3
)

type window struct {
	start int
	l     int
}

func (g *Generator) randomWindow(n int) window {
	l := g.cfg.MinLen + g.rng.Intn(g.cfg.MaxLen-g.cfg.MinLen+1)
	if l > n {
		l = n
	}
	return window{start: g.rng.Intn(n - l + 1), l: l}
}

func (w window) of(signal []float32) []float32 {
	return signal[w.start : w.start+w.l]
}

// initRandom fills every slot with a random window of random length.
func (g *Generator) initRandom(signal []float32, cb *codebook.Codebook) {
	for id := 0; id < cb.Size(); id++ {
		_ = cb.Set(id, g.randomWindow(len(signal)).of(signal))
	}
}

// initImproved seeds the codebook from a random window pool, preferring
// windows far from the existing entries of the same length.
func (g *Generator) initImproved(signal []float32, cb *codebook.Codebook) {
	n := len(signal)
	pool := make([]window, poolFactor*cb.Size())
	for i := range pool {
		pool[i] = g.randomWindow(n)
	}

	_ = cb.Set(0, pool[g.rng.Intn(len(pool))].of(signal))

	picks := make([]window, candidateCount)
	dists := make([]float64, candidateCount)
	for id := 1; id < cb.Size(); id++ {
		total := 0.0
		for c := range picks {
			w := pool[g.rng.Intn(len(pool))]
			picks[c] = w
			dists[c] = nearestSameLength(cb, id, w.of(signal))
			total += dists[c]
		}

		chosen := picks[len(picks)-1]
		if total <= 0 {
			chosen = picks[g.rng.Intn(len(picks))]
		} else {
			r := g.rng.Float64() * total
			for c, d := range dists {
				if r < d {
					chosen = picks[c]
					break
				}
				r -= d
			}
		}
		_ = cb.Set(id, chosen.of(signal))
	}
}

// nearestSameLength returns the squared distance from v to the closest of the
// first filled entries with len(v) samples.
func nearestSameLength(cb *codebook.Codebook, filled int, v []float32) float64 {
	best := math.Inf(1)
	for id := 0; id < filled; id++ {
		if cb.Len(id) != len(v) {
			continue
		}
		if d := float64(distance.SquaredL2(cb.Entry(id), v)); d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		return farDistance
	}
	return best
}
