package viterbi

import (
	"errors"
	"math"
	"sort"

	"github.com/hupe1980/pokeyvq/codebook"
	"github.com/hupe1980/pokeyvq/distance"
)

// ErrEmptySignal is returned when there is nothing to segment.
var ErrEmptySignal = errors.New("viterbi: empty signal")

// Params configures one segmentation pass.
type Params struct {
	// Lambda is charged once per chosen vector.
	Lambda float64
	// Alpha weights the squared jump between adjacent vectors. Zero disables it.
	Alpha float64
	// Cuts are interior clip boundaries in ascending order.
	Cuts []int
}

// Result is the optimal segmentation of a signal.
type Result struct {
	// Indices is the chosen entry per vector, in signal order.
	Indices []uint8
	// Starts is the first sample of each vector.
	Starts []int
	// Cost is the total path cost (distortion + lambda and alpha terms).
	Cost float64
	// Distortion is the total squared error of the path.
	Distortion float64
	// Segments lists, per entry id, the start positions assigned to it.
	Segments [][]int
	// Errors is the total squared error assigned to each entry id.
	Errors []float64
}

// lengthTable holds the nearest entry of one length for every window position.
type lengthTable struct {
	l    int
	ids  []int
	dist []float32
	arg  []int
}

// Segment computes the minimum-cost covering of signal by codebook entries.
func Segment(signal []float32, cb *codebook.Codebook, p Params) (*Result, error) {
	n := len(signal)
	if n == 0 {
		return nil, ErrEmptySignal
	}

	tables := buildTables(signal, cb)
	lengths := make([]int, len(tables))
	for i, tb := range tables {
		lengths[i] = tb.l
	}

	cost := make([]float64, n+1)
	back := make([]int, n+1) // entry id of the vector ending at position
	from := make([]int, n+1) // start of the vector ending at position
	for i := 1; i <= n; i++ {
		cost[i] = math.Inf(1)
		back[i] = -1
	}
	back[0] = -1

	cuts := p.Cuts
	nextCut := 0
	reached := 0

	for t := 0; t < n; t++ {
		for nextCut < len(cuts) && cuts[nextCut] <= t {
			nextCut++
		}
		if math.IsInf(cost[t], 1) {
			continue
		}
		reached = t

		limit := n
		if nextCut < len(cuts) && cuts[nextCut] < n {
			limit = cuts[nextCut]
		}

		var prevLast float32
		smooth := p.Alpha > 0 && t > 0
		if smooth {
			prevLast = cb.Last(back[t])
		}

		for _, tb := range tables {
			end := t + tb.l
			if end > limit {
				break // tables are sorted by length
			}
			id := tb.ids[tb.arg[t]]
			c := cost[t] + float64(tb.dist[t]) + p.Lambda
			if smooth {
				d := float64(prevLast - cb.First(id))
				c += p.Alpha * d * d
			}
			if c < cost[end] {
				cost[end] = c
				back[end] = id
				from[end] = t
			}
		}
	}

	if math.IsInf(cost[n], 1) {
		return nil, &UnreachableError{
			Reached: reached,
			Length:  n,
			Lengths: lengths,
			Cuts:    append([]int(nil), cuts...),
		}
	}

	return backtrack(signal, cb, cost, back, from), nil
}

func buildTables(signal []float32, cb *codebook.Codebook) []lengthTable {
	n := len(signal)
	groups := cb.Groups()
	tables := make([]lengthTable, 0, len(groups))
	scratch := make([]float32, n)

	for _, g := range groups {
		if g.Len > n {
			continue
		}
		windows := n - g.Len + 1
		vecs := make([][]float32, len(g.IDs))
		for i, id := range g.IDs {
			vecs[i] = cb.Entry(id)
		}
		tb := lengthTable{
			l:    g.Len,
			ids:  g.IDs,
			dist: make([]float32, windows),
			arg:  make([]int, windows),
		}
		distance.NearestWindows(signal, vecs, tb.dist, tb.arg, scratch[:windows])
		tables = append(tables, tb)
	}

	sort.Slice(tables, func(i, j int) bool { return tables[i].l < tables[j].l })
	return tables
}

func backtrack(signal []float32, cb *codebook.Codebook, cost []float64, back, from []int) *Result {
	n := len(signal)
	res := &Result{
		Cost:     cost[n],
		Segments: make([][]int, cb.Size()),
		Errors:   make([]float64, cb.Size()),
	}

	for pos := n; pos > 0; pos = from[pos] {
		res.Indices = append(res.Indices, uint8(back[pos]))
		res.Starts = append(res.Starts, from[pos])
	}

	// Backtracking yields vectors last to first.
	for i, j := 0, len(res.Indices)-1; i < j; i, j = i+1, j-1 {
		res.Indices[i], res.Indices[j] = res.Indices[j], res.Indices[i]
		res.Starts[i], res.Starts[j] = res.Starts[j], res.Starts[i]
	}

	for i, idx := range res.Indices {
		id := int(idx)
		start := res.Starts[i]
		e := cb.Entry(id)
		d := float64(distance.SquaredL2(signal[start:start+len(e)], e))
		res.Segments[id] = append(res.Segments[id], start)
		res.Errors[id] += d
		res.Distortion += d
	}
	return res
}
