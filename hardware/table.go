package hardware

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyTable is returned when a lookup table has no levels.
	ErrEmptyTable = errors.New("hardware: table has no levels")

	// ErrUnsortedTable is returned when lookup levels are not strictly ascending.
	ErrUnsortedTable = errors.New("hardware: table levels must be strictly ascending")
)

// Table is a sorted set of discrete output levels normalized to [0, 1].
// Tables are immutable and safe for concurrent use.
type Table struct {
	levels   []float64
	pairs    []Pair // nil for single channel tables
	channels int
}

// SingleChannel returns the 16 linear volume levels of one AUDC register.
func SingleChannel() *Table {
	levels := make([]float64, Levels)
	for i := range levels {
		levels[i] = float64(i) / MaxVolume
	}
	return &Table{levels: levels, channels: 1}
}

// DualChannel returns the 31 combined levels of two channels, each level
// produced by the balanced split of its volume sum.
func DualChannel() *Table {
	levels := make([]float64, CombinedLevels)
	pairs := make([]Pair, CombinedLevels)
	for i := range levels {
		levels[i] = float64(i) / (CombinedLevels - 1)
		pairs[i] = BalancedSplit(i)
	}
	return &Table{levels: levels, pairs: pairs, channels: 2}
}

// NewLookupTable builds a two-channel table from a full combined-value lookup:
// levels[i] is the measured output (any unit) of pairs[i]. Levels must be
// strictly ascending; they are normalized by the largest one.
func NewLookupTable(levels []float64, pairs []Pair) (*Table, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyTable
	}
	if len(levels) != len(pairs) {
		return nil, fmt.Errorf("hardware: %d levels but %d pairs", len(levels), len(pairs))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			return nil, ErrUnsortedTable
		}
	}
	for i, p := range pairs {
		if p.A > MaxVolume || p.B > MaxVolume {
			return nil, fmt.Errorf("hardware: pair %d (%d,%d) exceeds volume range", i, p.A, p.B)
		}
	}

	lo, hi := levels[0], levels[len(levels)-1]
	span := hi - lo
	norm := make([]float64, len(levels))
	for i, l := range levels {
		if span == 0 {
			norm[i] = 0
			continue
		}
		norm[i] = (l - lo) / span
	}

	return &Table{
		levels:   norm,
		pairs:    append([]Pair(nil), pairs...),
		channels: 2,
	}, nil
}

// ForChannels returns the default table for a channel count.
func ForChannels(channels int) (*Table, error) {
	switch channels {
	case 1:
		return SingleChannel(), nil
	case 2:
		return DualChannel(), nil
	default:
		return nil, fmt.Errorf("hardware: unsupported channel count %d", channels)
	}
}

// Len returns the number of levels.
func (t *Table) Len() int { return len(t.levels) }

// Channels returns 1 for single-register tables and 2 for combined tables.
func (t *Table) Channels() int { return t.channels }

// Level returns the normalized value of level i.
func (t *Table) Level(i int) float64 { return t.levels[i] }

// Levels returns a copy of the normalized levels.
func (t *Table) Levels() []float64 {
	return append([]float64(nil), t.levels...)
}

// Step returns the smallest distance between two adjacent levels.
func (t *Table) Step() float64 {
	step := 1.0
	for i := 1; i < len(t.levels); i++ {
		if d := t.levels[i] - t.levels[i-1]; d < step {
			step = d
		}
	}
	return step
}

// Nearest returns the index of the level closest to v.
// Values outside the table range map to the first or last level.
func (t *Table) Nearest(v float64) int {
	i := sort.SearchFloat64s(t.levels, v)
	if i == 0 {
		return 0
	}
	if i == len(t.levels) {
		return len(t.levels) - 1
	}
	// levels[i-1] < v <= levels[i]
	if v-t.levels[i-1] <= t.levels[i]-v {
		return i - 1
	}
	return i
}

// Project returns the table level closest to v.
func (t *Table) Project(v float32) float32 {
	return float32(t.levels[t.Nearest(float64(v))])
}

// ProjectInPlace snaps every value of v onto the table.
func (t *Table) ProjectInPlace(v []float32) {
	for i, x := range v {
		v[i] = t.Project(x)
	}
}

// Contains reports whether v equals a table level within tol.
func (t *Table) Contains(v float64, tol float64) bool {
	l := t.levels[t.Nearest(v)]
	d := l - v
	return d <= tol && d >= -tol
}

// Pair returns the channel volumes that produce level i.
// Single channel tables put the volume in A.
func (t *Table) Pair(i int) Pair {
	if t.pairs != nil {
		return t.pairs[i]
	}
	return Pair{A: uint8(i)}
}

// IndexOf returns the level produced by channel volumes p.
// Single channel tables read the volume from A and ignore B.
func (t *Table) IndexOf(p Pair) (int, bool) {
	if t.pairs == nil {
		if int(p.A) >= len(t.levels) {
			return 0, false
		}
		return int(p.A), true
	}
	for i, q := range t.pairs {
		if q == p {
			return i, true
		}
	}
	return 0, false
}
