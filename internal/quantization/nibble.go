package quantization

import (
	"errors"

	"github.com/hupe1980/pokeyvq/hardware"
)

// ErrShortPayload is returned when a payload holds fewer samples than requested.
var ErrShortPayload = errors.New("quantization: payload too short")

// PackNibbles appends ceil(len(levels)/2) bytes to dst. Each byte holds two
// consecutive levels: the earlier one in the low nibble. An odd final level
// is padded with a zero high nibble.
func PackNibbles(dst []byte, levels []uint8) []byte {
	for i := 0; i < len(levels); i += 2 {
		lo := levels[i] & hardware.AUDCVolumeMask
		hi := byte(0)
		if i+1 < len(levels) {
			hi = levels[i+1] & hardware.AUDCVolumeMask
		}
		dst = append(dst, hi<<4|lo)
	}
	return dst
}

// UnpackNibbles decodes n levels from a packed payload.
func UnpackNibbles(payload []byte, n int) ([]uint8, error) {
	if len(payload) < (n+1)/2 {
		return nil, ErrShortPayload
	}
	out := make([]uint8, n)
	for i := range out {
		b := payload[i/2]
		if i%2 == 1 {
			b >>= 4
		}
		out[i] = b & hardware.AUDCVolumeMask
	}
	return out, nil
}

// PackBytes appends one byte per level to dst, with the volume-only bit set
// when prebake is true.
func PackBytes(dst []byte, levels []uint8, prebake bool) []byte {
	var ctrl byte
	if prebake {
		ctrl = hardware.AUDCVolumeOnly
	}
	for _, l := range levels {
		dst = append(dst, l&hardware.AUDCVolumeMask|ctrl)
	}
	return dst
}

// UnpackBytes decodes n levels from an unpacked payload.
func UnpackBytes(payload []byte, n int) ([]uint8, error) {
	if len(payload) < n {
		return nil, ErrShortPayload
	}
	out := make([]uint8, n)
	for i := range out {
		out[i] = payload[i] & hardware.AUDCVolumeMask
	}
	return out, nil
}
