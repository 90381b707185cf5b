package export

import (
	"fmt"
	"strings"

	"github.com/hupe1980/pokeyvq/hardware"
)

// SpeedMode selects the payload layout.
type SpeedMode int

const (
	// SpeedPacked trades decode time for size.
	SpeedPacked SpeedMode = iota
	// SpeedUnpacked stores one byte per channel sample.
	SpeedUnpacked
)

// String returns "packed" or "unpacked".
func (m SpeedMode) String() string {
	switch m {
	case SpeedPacked:
		return "packed"
	case SpeedUnpacked:
		return "unpacked"
	default:
		return fmt.Sprintf("SpeedMode(%d)", int(m))
	}
}

// ParseSpeedMode parses "packed" or "unpacked" ("fast" is an alias).
func ParseSpeedMode(s string) (SpeedMode, error) {
	switch strings.ToLower(s) {
	case "packed", "size":
		return SpeedPacked, nil
	case "unpacked", "fast", "speed":
		return SpeedUnpacked, nil
	default:
		return SpeedPacked, fmt.Errorf("export: unknown speed mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m SpeedMode) MarshalText() ([]byte, error) {
	if m != SpeedPacked && m != SpeedUnpacked {
		return nil, fmt.Errorf("export: invalid speed mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SpeedMode) UnmarshalText(text []byte) error {
	v, err := ParseSpeedMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ClipMode distinguishes directory entries.
type ClipMode uint8

const (
	// ModeVQ clips index into the index stream.
	ModeVQ ClipMode = 0
	// ModeRaw clips index into the raw payload table.
	ModeRaw ClipMode = 1
)

// String returns "vq" or "raw".
func (m ClipMode) String() string {
	if m == ModeRaw {
		return "raw"
	}
	return "vq"
}

// Clip is one directory entry.
type Clip struct {
	Mode ClipMode
	// Vectors is the number of index-stream entries of a VQ clip.
	Vectors int
	// Raw is the encoded payload of a raw clip.
	Raw []byte
}

// Options configures an export.
type Options struct {
	// Channels is 1 or 2.
	Channels int
	Speed    SpeedMode
	// Constrained rejects entry values that are not table levels instead of
	// rounding them.
	Constrained bool
	// Prebake sets the AUDC volume-only bit in unpacked bytes.
	Prebake bool
	// Table overrides the default table for Channels.
	Table *hardware.Table
}

func (o Options) table() (*hardware.Table, error) {
	if o.Table == nil {
		return hardware.ForChannels(o.Channels)
	}
	if o.Table.Channels() != o.Channels {
		return nil, fmt.Errorf("export: %d-channel table for %d channels", o.Table.Channels(), o.Channels)
	}
	return o.Table, nil
}
