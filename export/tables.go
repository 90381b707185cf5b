package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/pokeyvq/hardware"
	"github.com/hupe1980/pokeyvq/internal/quantization"
)

// Tables is the exported artifact. All slices are read-only once built.
type Tables struct {
	Channels int
	Speed    SpeedMode
	Prebake  bool

	Lengths  []byte
	OffsetLo []byte
	OffsetHi []byte
	Blob     []byte
	Indices  []byte

	ClipStartLo []byte
	ClipStartHi []byte
	ClipEndLo   []byte
	ClipEndHi   []byte
	ClipMode    []byte
	RawBlob     []byte

	table *hardware.Table
}

// Size returns the total number of table bytes.
func (t *Tables) Size() int {
	n := 0
	for _, s := range t.sections() {
		n += len(s.data)
	}
	return n
}

// Offset returns the blob offset of entry id.
func (t *Tables) Offset(id int) int {
	return int(t.OffsetLo[id]) | int(t.OffsetHi[id])<<8
}

func (t *Tables) format() (quantization.Format, error) {
	table := t.table
	if table == nil {
		var err error
		if table, err = hardware.ForChannels(t.Channels); err != nil {
			return quantization.Format{}, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
		}
	}
	f := quantization.Format{
		Channels: t.Channels,
		Packed:   t.Speed == SpeedPacked,
		Prebake:  t.Prebake,
		Table:    table,
	}
	if err := f.Validate(); err != nil {
		return quantization.Format{}, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}
	return f, nil
}

// Entry decodes the level indices of entry id from the blob.
func (t *Tables) Entry(id int) ([]uint8, error) {
	n := int(t.Lengths[id])
	if n == 0 {
		return nil, fmt.Errorf("%w: slot %d", ErrUnsetEntry, id)
	}
	off := t.Offset(id)
	if off > len(t.Blob) {
		return nil, fmt.Errorf("%w: entry %d offset %d beyond blob", ErrInvalidBundle, id, off)
	}
	f, err := t.format()
	if err != nil {
		return nil, err
	}
	return f.Decode(t.Blob[off:], n)
}

// Levels walks indices[start:end] the way the decoder does and returns the
// level index of every output sample.
func (t *Tables) Levels(start, end int) ([]uint8, error) {
	var out []uint8
	for pos := start; pos < end; pos++ {
		lv, err := t.Entry(int(t.Indices[pos]))
		if err != nil {
			return nil, err
		}
		out = append(out, lv...)
	}
	return out, nil
}

// ClipCount returns the number of directory entries.
func (t *Tables) ClipCount() int { return len(t.ClipMode) }

// ClipRange returns the mode and [start, end) byte range of clip i.
func (t *Tables) ClipRange(i int) (ClipMode, int, int) {
	start := int(t.ClipStartLo[i]) | int(t.ClipStartHi[i])<<8
	end := int(t.ClipEndLo[i]) | int(t.ClipEndHi[i])<<8
	if end < start {
		end += 1 << 16
	}
	return ClipMode(t.ClipMode[i]), start, end
}

// WriteListing writes the tables as an assembler listing. Every table gets
// a label <PREFIX>_<NAME>, rows of 16 .byte values and a <LABEL>_LEN
// constant. Empty directory and raw tables are omitted.
func (t *Tables) WriteListing(w io.Writer, prefix string) error {
	bw := bufio.NewWriter(w)
	prefix = strings.ToUpper(prefix)

	fmt.Fprintf(bw, "; %d channel, %s", t.Channels, t.Speed)
	if t.Prebake {
		fmt.Fprint(bw, ", prebaked AUDC")
	}
	fmt.Fprintf(bw, ", %d vectors, %d bytes\n", len(t.Indices), t.Size())

	for _, s := range t.sections() {
		if s.optional && len(s.data) == 0 {
			continue
		}
		label := prefix + "_" + s.name
		fmt.Fprintf(bw, "\n%s:\n", label)
		for i := 0; i < len(s.data); i += 16 {
			row := s.data[i:min(i+16, len(s.data))]
			bw.WriteString("\t.byte ")
			for j, b := range row {
				if j > 0 {
					bw.WriteByte(',')
				}
				fmt.Fprintf(bw, "$%02x", b)
			}
			bw.WriteByte('\n')
		}
		fmt.Fprintf(bw, "%s_LEN = %d\n", label, len(s.data))
	}
	return bw.Flush()
}

type section struct {
	id       uint8
	name     string
	data     []byte
	optional bool
}

func (t *Tables) sections() []section {
	return []section{
		{1, "LENS", t.Lengths, false},
		{2, "OFFSET_LO", t.OffsetLo, false},
		{3, "OFFSET_HI", t.OffsetHi, false},
		{4, "BLOB", t.Blob, false},
		{5, "INDICES", t.Indices, false},
		{6, "CLIP_START_LO", t.ClipStartLo, true},
		{7, "CLIP_START_HI", t.ClipStartHi, true},
		{8, "CLIP_END_LO", t.ClipEndLo, true},
		{9, "CLIP_END_HI", t.ClipEndHi, true},
		{10, "CLIP_MODE", t.ClipMode, true},
		{11, "RAW_BLOB", t.RawBlob, true},
	}
}

func (t *Tables) section(id uint8) *[]byte {
	switch id {
	case 1:
		return &t.Lengths
	case 2:
		return &t.OffsetLo
	case 3:
		return &t.OffsetHi
	case 4:
		return &t.Blob
	case 5:
		return &t.Indices
	case 6:
		return &t.ClipStartLo
	case 7:
		return &t.ClipStartHi
	case 8:
		return &t.ClipEndLo
	case 9:
		return &t.ClipEndHi
	case 10:
		return &t.ClipMode
	case 11:
		return &t.RawBlob
	default:
		return nil
	}
}
