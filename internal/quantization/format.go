package quantization

import (
	"fmt"

	"github.com/hupe1980/pokeyvq/hardware"
)

// Format selects one of the payload layouts.
type Format struct {
	// Channels is 1 or 2.
	Channels int
	// Packed selects the nibble layouts.
	Packed bool
	// Prebake sets the AUDC volume-only bit in unpacked bytes.
	Prebake bool
	// Table maps level indices to channel volumes.
	Table *hardware.Table
}

// Validate checks that the format is usable.
func (f Format) Validate() error {
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("quantization: unsupported channel count %d", f.Channels)
	}
	if f.Table == nil {
		return fmt.Errorf("quantization: no voltage table")
	}
	if f.Table.Channels() != f.Channels {
		return fmt.Errorf("quantization: %d-channel table for %d-channel format", f.Table.Channels(), f.Channels)
	}
	return nil
}

// Size returns the payload size of n samples.
func (f Format) Size(n int) int {
	switch {
	case f.Channels == 1 && f.Packed:
		return (n + 1) / 2
	case f.Channels == 2 && !f.Packed:
		return 2 * n
	default:
		return n
	}
}

// Append encodes level indices into dst.
func (f Format) Append(dst []byte, levels []uint8) []byte {
	if f.Channels == 1 {
		if f.Packed {
			return PackNibbles(dst, levels)
		}
		return PackBytes(dst, levels, f.Prebake)
	}

	var ctrl byte
	if f.Prebake {
		ctrl = hardware.AUDCVolumeOnly
	}
	for _, l := range levels {
		p := f.Table.Pair(int(l))
		if f.Packed {
			dst = append(dst, p.B<<4|p.A&hardware.AUDCVolumeMask)
			continue
		}
		dst = append(dst, p.A|ctrl, p.B|ctrl)
	}
	return dst
}

// Decode recovers n level indices from a payload.
func (f Format) Decode(payload []byte, n int) ([]uint8, error) {
	if f.Channels == 1 {
		if f.Packed {
			return UnpackNibbles(payload, n)
		}
		return UnpackBytes(payload, n)
	}

	if len(payload) < f.Size(n) {
		return nil, ErrShortPayload
	}
	out := make([]uint8, n)
	for i := range out {
		var p hardware.Pair
		if f.Packed {
			b := payload[i]
			p = hardware.Pair{A: b & hardware.AUDCVolumeMask, B: b >> 4}
		} else {
			p = hardware.Pair{
				A: payload[2*i] & hardware.AUDCVolumeMask,
				B: payload[2*i+1] & hardware.AUDCVolumeMask,
			}
		}
		idx, ok := f.Table.IndexOf(p)
		if !ok {
			return nil, fmt.Errorf("quantization: sample %d volumes (%d,%d) not in table", i, p.A, p.B)
		}
		out[i] = uint8(idx)
	}
	return out, nil
}
