package export

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/pokeyvq/internal/compress"
	"github.com/hupe1980/pokeyvq/internal/hash"
)

// Bundle layout (little endian):
//
//	[Magic "PVQB"][Version u8][Channels u8][Speed u8][Flags u8][Sections u16]
//	Sections × [ID u8][Length u32][Data...]
//	[CRC32C u32 over everything before it]
const (
	bundleMagic   = "PVQB"
	bundleVersion = 1
	headerSize    = 10

	flagPrebake = 1 << 0
)

// Compression selects the bundle block compression.
type Compression = compress.Type

// Bundle compression algorithms.
const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZSTD = compress.ZSTD
)

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) { return compress.ParseType(s) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (t *Tables) MarshalBinary() ([]byte, error) {
	var sections []section
	for _, s := range t.sections() {
		if len(s.data) > 0 || !s.optional {
			sections = append(sections, s)
		}
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + 5*len(sections) + t.Size() + 4)
	buf.WriteString(bundleMagic)

	var flags byte
	if t.Prebake {
		flags |= flagPrebake
	}
	buf.Write([]byte{bundleVersion, byte(t.Channels), byte(t.Speed), flags})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(sections)))

	for _, s := range sections {
		buf.WriteByte(s.id)
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(s.data)))
		buf.Write(s.data)
	}
	_ = binary.Write(&buf, binary.LittleEndian, hash.CRC32C(buf.Bytes()))
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (t *Tables) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize+4 || string(data[:4]) != bundleMagic {
		return fmt.Errorf("%w: bad magic", ErrInvalidBundle)
	}
	body, sum := data[:len(data)-4], binary.LittleEndian.Uint32(data[len(data)-4:])
	if err := hash.Verify(body, sum); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}
	if body[4] != bundleVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidBundle, body[4])
	}

	out := Tables{
		Channels: int(body[5]),
		Speed:    SpeedMode(body[6]),
		Prebake:  body[7]&flagPrebake != 0,
	}
	if out.Channels != 1 && out.Channels != 2 {
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidBundle, out.Channels)
	}
	if out.Speed != SpeedPacked && out.Speed != SpeedUnpacked {
		return fmt.Errorf("%w: unknown speed mode %d", ErrInvalidBundle, body[6])
	}
	count := int(binary.LittleEndian.Uint16(body[8:]))
	rest := body[headerSize:]
	for i := 0; i < count; i++ {
		if len(rest) < 5 {
			return fmt.Errorf("%w: truncated section header", ErrInvalidBundle)
		}
		id, n := rest[0], int(binary.LittleEndian.Uint32(rest[1:]))
		rest = rest[5:]
		if len(rest) < n {
			return fmt.Errorf("%w: section %d truncated", ErrInvalidBundle, id)
		}
		dst := out.section(id)
		if dst == nil {
			return fmt.Errorf("%w: unknown section %d", ErrInvalidBundle, id)
		}
		*dst = append([]byte(nil), rest[:n]...)
		rest = rest[n:]
	}
	if len(rest) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidBundle, len(rest))
	}
	if len(out.Lengths) != Slots || len(out.OffsetLo) != Slots || len(out.OffsetHi) != Slots {
		return fmt.Errorf("%w: slot tables must hold %d bytes", ErrInvalidBundle, Slots)
	}

	*t = out
	return nil
}

// Bundle returns the binary form wrapped in a compressed block.
func (t *Tables) Bundle(c Compression) ([]byte, error) {
	raw, err := t.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return compress.Encode(raw, c)
}

// OpenBundle decodes a block produced by Bundle.
func OpenBundle(block []byte) (*Tables, error) {
	raw, err := compress.Decode(block)
	if err != nil {
		return nil, err
	}
	t := &Tables{}
	if err := t.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return t, nil
}
