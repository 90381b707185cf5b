package codebook

import (
	"errors"
	"fmt"
	"sort"
)

// MaxSize is the largest codebook addressable with one byte per index.
const MaxSize = 256

var (
	// ErrInvalidSize is returned when the slot count is outside [1, MaxSize].
	ErrInvalidSize = errors.New("codebook: size must be in [1, 256]")

	// ErrInvalidLength is returned when an entry does not fit its slot.
	ErrInvalidLength = errors.New("codebook: invalid entry length")
)

// Codebook is a fixed-size collection of variable-length sample vectors.
type Codebook struct {
	data   []float32
	lens   []int
	stride int
}

// New creates a codebook with size empty slots holding up to maxLen samples each.
func New(size, maxLen int) (*Codebook, error) {
	if size < 1 || size > MaxSize {
		return nil, ErrInvalidSize
	}
	if maxLen < 1 {
		return nil, fmt.Errorf("%w: max length %d", ErrInvalidLength, maxLen)
	}
	return &Codebook{
		data:   make([]float32, size*maxLen),
		lens:   make([]int, size),
		stride: maxLen,
	}, nil
}

// Size returns the number of slots.
func (c *Codebook) Size() int { return len(c.lens) }

// MaxLen returns the largest entry length a slot can hold.
func (c *Codebook) MaxLen() int { return c.stride }

// Len returns the length of entry id (0 if unset).
func (c *Codebook) Len(id int) int { return c.lens[id] }

// Offset returns the arena offset of entry id.
func (c *Codebook) Offset(id int) int { return id * c.stride }

// Entry returns a view of the samples of entry id.
func (c *Codebook) Entry(id int) []float32 {
	off := id * c.stride
	return c.data[off : off+c.lens[id] : off+c.stride]
}

// First returns the first sample of entry id.
func (c *Codebook) First(id int) float32 { return c.data[id*c.stride] }

// Last returns the last sample of entry id.
func (c *Codebook) Last(id int) float32 { return c.data[id*c.stride+c.lens[id]-1] }

// Set copies v into slot id and sets its length to len(v).
func (c *Codebook) Set(id int, v []float32) error {
	if len(v) > c.stride {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidLength, len(v), c.stride)
	}
	off := id * c.stride
	copy(c.data[off:off+len(v)], v)
	c.lens[id] = len(v)
	return nil
}

// Clear marks slot id as unset.
func (c *Codebook) Clear(id int) { c.lens[id] = 0 }

// Used returns the number of set slots.
func (c *Codebook) Used() int {
	n := 0
	for _, l := range c.lens {
		if l > 0 {
			n++
		}
	}
	return n
}

// Group is the set of entries sharing one length.
type Group struct {
	Len int
	IDs []int
}

// Groups returns the set entries grouped by length, in ascending length order.
// The result reflects the current contents and must be recomputed after Set.
func (c *Codebook) Groups() []Group {
	byLen := make(map[int][]int)
	for id, l := range c.lens {
		if l > 0 {
			byLen[l] = append(byLen[l], id)
		}
	}
	groups := make([]Group, 0, len(byLen))
	for l, ids := range byLen {
		groups = append(groups, Group{Len: l, IDs: ids})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Len < groups[j].Len })
	return groups
}

// Clone returns a deep copy.
func (c *Codebook) Clone() *Codebook {
	return &Codebook{
		data:   append([]float32(nil), c.data...),
		lens:   append([]int(nil), c.lens...),
		stride: c.stride,
	}
}

// Reconstruct concatenates the entries referenced by indices into a buffer of
// n samples. An entry that would overrun the buffer is copied partially.
func (c *Codebook) Reconstruct(indices []uint8, n int) ([]float32, error) {
	out := make([]float32, n)
	pos := 0
	for i, idx := range indices {
		id := int(idx)
		if id >= len(c.lens) || c.lens[id] == 0 {
			return nil, fmt.Errorf("codebook: index %d references unset entry %d", i, id)
		}
		if pos >= n {
			break
		}
		pos += copy(out[pos:], c.Entry(id))
	}
	return out, nil
}

// StreamLen returns the number of samples covered by indices.
func (c *Codebook) StreamLen(indices []uint8) int {
	n := 0
	for _, idx := range indices {
		n += c.lens[idx]
	}
	return n
}
