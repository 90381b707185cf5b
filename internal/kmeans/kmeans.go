package kmeans

import (
	"math/rand"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pokeyvq/codebook"
)

// Projector snaps an updated entry onto the reachable output levels in place.
type Projector func(v []float32)

// Update recomputes each referenced entry as the elementwise mean of its
// assigned windows (segments[id] holds window start positions). Entries
// without windows keep their content. If project is non-nil it is applied to
// every updated entry. Update returns the set of referenced entries.
func Update(signal []float32, cb *codebook.Codebook, segments [][]int, project Projector) *roaring.Bitmap {
	used := roaring.New()
	sums := make([]float32, cb.MaxLen())

	for id, starts := range segments {
		if len(starts) == 0 {
			continue
		}
		l := cb.Len(id)
		sum := sums[:l]
		for i := range sum {
			sum[i] = 0
		}
		for _, s := range starts {
			w := signal[s : s+l]
			for i, x := range w {
				sum[i] += x
			}
		}
		scale := 1.0 / float32(len(starts))
		for i := range sum {
			sum[i] *= scale
		}
		if project != nil {
			project(sum)
		}
		_ = cb.Set(id, sum)
		used.Add(uint32(id))
	}
	return used
}

// Respawn pairs every dead entry (not in used) with one of the used entries
// carrying the largest assigned error, worst first, and splits the donor:
// dead = donor + noise, donor = donor - noise. noise is zero-mean gaussian
// with standard deviation scale. It returns the number of respawned entries.
// Without donors it does nothing.
func Respawn(cb *codebook.Codebook, used *roaring.Bitmap, errs []float64, rng *rand.Rand, scale float64, project Projector) int {
	if used.IsEmpty() {
		return 0
	}
	dead := roaring.Flip(used, 0, uint64(cb.Size()))
	if dead.IsEmpty() {
		return 0
	}

	donors := make([]int, 0, used.GetCardinality())
	it := used.Iterator()
	for it.HasNext() {
		donors = append(donors, int(it.Next()))
	}
	sort.SliceStable(donors, func(i, j int) bool {
		return errs[donors[i]] > errs[donors[j]]
	})

	k := int(dead.GetCardinality())
	if len(donors) < k {
		k = len(donors)
	}

	plus := make([]float32, cb.MaxLen())
	minus := make([]float32, cb.MaxLen())

	deadIt := dead.Iterator()
	for i := 0; i < k; i++ {
		d := int(deadIt.Next())
		src := cb.Entry(donors[i])
		p, m := plus[:len(src)], minus[:len(src)]
		for j, x := range src {
			n := float32(rng.NormFloat64() * scale)
			p[j] = x + n
			m[j] = x - n
		}
		if project != nil {
			project(p)
			project(m)
		}
		_ = cb.Set(d, p)
		_ = cb.Set(donors[i], m)
	}
	return k
}
