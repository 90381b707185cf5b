package export

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pokeyvq/codebook"
	"github.com/hupe1980/pokeyvq/hardware"
	"github.com/hupe1980/pokeyvq/internal/quantization"
)

const (
	// Slots is the fixed size of the per-entry tables.
	Slots = 256
	// MaxIndices is the longest index stream a 16-bit pointer can walk.
	MaxIndices = 1 << 16
	// MaxBlob is the largest payload addressable by the offset tables.
	MaxBlob = 1 << 16
	// MaxClips is the number of directory entries a one-byte clip id can select.
	MaxClips = 256
	// MaxClipSpan is the longest clip a start/end pair of 16-bit pointers
	// can describe; a span of 64K would encode an end equal to its start.
	MaxClipSpan = 1<<16 - 1

	levelTolerance = 1e-4
)

// Exporter converts codebooks into decoder tables.
// It holds no state beyond its options and is safe for concurrent use.
type Exporter struct {
	opts   Options
	table  *hardware.Table
	format quantization.Format
}

// New validates opts and returns an Exporter.
func New(opts Options) (*Exporter, error) {
	table, err := opts.table()
	if err != nil {
		return nil, err
	}
	f := quantization.Format{
		Channels: opts.Channels,
		Packed:   opts.Speed == SpeedPacked,
		Prebake:  opts.Prebake,
		Table:    table,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &Exporter{opts: opts, table: table, format: f}, nil
}

// Export is a convenience wrapper around New and Exporter.Export.
func Export(cb *codebook.Codebook, indices []uint8, opts Options, clips ...Clip) (*Tables, error) {
	e, err := New(opts)
	if err != nil {
		return nil, err
	}
	return e.Export(cb, indices, clips...)
}

// Export builds the tables for cb and indices. Clips, if given, describe the
// directory in playback order; their VQ entries must cover indices exactly.
func (e *Exporter) Export(cb *codebook.Codebook, indices []uint8, clips ...Clip) (*Tables, error) {
	if len(indices) > MaxIndices {
		return nil, &SizeError{Table: "index stream", Size: len(indices), Limit: MaxIndices}
	}
	if err := validateReferences(cb, indices); err != nil {
		return nil, err
	}

	t := &Tables{
		Channels: e.opts.Channels,
		Speed:    e.opts.Speed,
		Prebake:  e.opts.Prebake,
		Lengths:  make([]byte, Slots),
		OffsetLo: make([]byte, Slots),
		OffsetHi: make([]byte, Slots),
		Indices:  append([]byte(nil), indices...),
		table:    e.table,
	}

	levels := make([]uint8, cb.MaxLen())
	for id := 0; id < cb.Size(); id++ {
		entry := cb.Entry(id)
		if len(entry) == 0 {
			continue
		}
		lv := levels[:len(entry)]
		for i, v := range entry {
			l := e.table.Nearest(float64(v))
			if e.opts.Constrained && !e.table.Contains(float64(v), levelTolerance) {
				return nil, &ValueError{ID: id, Sample: i, Value: v}
			}
			lv[i] = uint8(l)
		}
		off := len(t.Blob)
		t.Lengths[id] = byte(len(entry))
		t.OffsetLo[id] = byte(off)
		t.OffsetHi[id] = byte(off >> 8)
		t.Blob = e.format.Append(t.Blob, lv)
	}
	if len(t.Blob) > MaxBlob {
		return nil, &SizeError{Table: "blob", Size: len(t.Blob), Limit: MaxBlob}
	}

	if len(clips) > 0 {
		if err := t.buildDirectory(clips); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// validateReferences checks every distinct referenced id once, reporting the
// first position that uses an unset entry.
func validateReferences(cb *codebook.Codebook, indices []uint8) error {
	seen := roaring.New()
	for pos, idx := range indices {
		id := uint32(idx)
		if seen.Contains(id) {
			continue
		}
		if int(id) >= cb.Size() || cb.Len(int(id)) == 0 {
			return &EntryError{Position: pos, ID: int(id)}
		}
		seen.Add(id)
	}
	return nil
}

func (t *Tables) buildDirectory(clips []Clip) error {
	if len(clips) > MaxClips {
		return &SizeError{Table: "clip directory", Size: len(clips), Limit: MaxClips}
	}
	n := len(clips)
	t.ClipStartLo = make([]byte, n)
	t.ClipStartHi = make([]byte, n)
	t.ClipEndLo = make([]byte, n)
	t.ClipEndHi = make([]byte, n)
	t.ClipMode = make([]byte, n)

	vq := 0
	for i, c := range clips {
		var start, end int
		switch c.Mode {
		case ModeRaw:
			start = len(t.RawBlob)
			t.RawBlob = append(t.RawBlob, c.Raw...)
			end = len(t.RawBlob)
		case ModeVQ:
			start = vq
			vq += c.Vectors
			end = vq
		default:
			return fmt.Errorf("export: clip %d has unknown mode %d", i, c.Mode)
		}
		if end-start > MaxClipSpan {
			return &SizeError{Table: fmt.Sprintf("clip directory entry %d", i), Size: end - start, Limit: MaxClipSpan}
		}
		// An end of exactly 64K wraps to 0, as a 16-bit pointer would.
		t.ClipStartLo[i], t.ClipStartHi[i] = byte(start), byte(start>>8)
		t.ClipEndLo[i], t.ClipEndHi[i] = byte(end), byte(end>>8)
		t.ClipMode[i] = byte(c.Mode)
	}
	if vq != len(t.Indices) {
		return fmt.Errorf("%w: clips cover %d of %d indices", ErrDirectoryMismatch, vq, len(t.Indices))
	}
	if len(t.RawBlob) > MaxBlob {
		return &SizeError{Table: "raw blob", Size: len(t.RawBlob), Limit: MaxBlob}
	}
	return nil
}
