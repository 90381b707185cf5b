// Package wav reads PCM and IEEE-float RIFF/WAVE files into mono float
// buffers and writes 16-bit mono previews.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	formatPCM   = 1
	formatFloat = 3
	formatExt   = 0xFFFE
)

// ErrNotWAVE is returned for input without a RIFF/WAVE header.
var ErrNotWAVE = errors.New("wav: not a RIFF/WAVE stream")

// Audio is a decoded mono buffer in [-1, 1].
type Audio struct {
	Rate    int
	Samples []float32
}

type format struct {
	tag      uint16
	channels int
	rate     int
	bits     int
}

// Read decodes a WAVE stream, mixing all channels down to mono.
func Read(r io.Reader) (*Audio, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWAVE, err)
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return nil, ErrNotWAVE
	}

	var f *format
	for {
		var ch [8]byte
		if _, err := io.ReadFull(r, ch[:]); err != nil {
			return nil, fmt.Errorf("wav: missing data chunk: %w", err)
		}
		id := string(ch[0:4])
		size := int64(binary.LittleEndian.Uint32(ch[4:]))

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("wav: fmt chunk: %w", err)
			}
			pf, err := parseFormat(body)
			if err != nil {
				return nil, err
			}
			f = pf
		case "data":
			if f == nil {
				return nil, errors.New("wav: data chunk before fmt chunk")
			}
			data := make([]byte, size)
			n, err := io.ReadFull(r, data)
			if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("wav: data chunk: %w", err)
			}
			return decode(f, data[:n])
		default:
			if _, err := io.CopyN(io.Discard, r, size); err != nil {
				return nil, fmt.Errorf("wav: skip %q chunk: %w", id, err)
			}
		}
		if size%2 == 1 {
			if _, err := io.CopyN(io.Discard, r, 1); err != nil {
				return nil, fmt.Errorf("wav: chunk padding: %w", err)
			}
		}
	}
}

func parseFormat(b []byte) (*format, error) {
	if len(b) < 16 {
		return nil, errors.New("wav: short fmt chunk")
	}
	f := &format{
		tag:      binary.LittleEndian.Uint16(b[0:]),
		channels: int(binary.LittleEndian.Uint16(b[2:])),
		rate:     int(binary.LittleEndian.Uint32(b[4:])),
		bits:     int(binary.LittleEndian.Uint16(b[14:])),
	}
	if f.tag == formatExt && len(b) >= 26 {
		f.tag = binary.LittleEndian.Uint16(b[24:])
	}
	if f.channels < 1 || f.rate < 1 {
		return nil, fmt.Errorf("wav: invalid format: %d channels at %d Hz", f.channels, f.rate)
	}
	switch {
	case f.tag == formatPCM && (f.bits == 8 || f.bits == 16 || f.bits == 24 || f.bits == 32):
	case f.tag == formatFloat && f.bits == 32:
	default:
		return nil, fmt.Errorf("wav: unsupported encoding %d with %d bits", f.tag, f.bits)
	}
	return f, nil
}

func decode(f *format, data []byte) (*Audio, error) {
	width := f.bits / 8
	frame := width * f.channels
	frames := len(data) / frame
	out := &Audio{Rate: f.rate, Samples: make([]float32, frames)}

	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < f.channels; c++ {
			sum += sample(f, data[i*frame+c*width:])
		}
		out.Samples[i] = float32(sum / float64(f.channels))
	}
	return out, nil
}

func sample(f *format, b []byte) float64 {
	switch {
	case f.tag == formatFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case f.bits == 8:
		return (float64(b[0]) - 128) / 128
	case f.bits == 16:
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768
	case f.bits == 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
		return float64(v) / 8388608
	default:
		return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648
	}
}

// Write encodes samples as a 16-bit mono PCM WAVE stream, clamping to [-1, 1].
func Write(w io.Writer, rate int, samples []float32) error {
	dataSize := 2 * len(samples)
	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	for _, v := range []any{
		uint32(16), uint16(formatPCM), uint16(1), uint32(rate), uint32(2 * rate), uint16(2), uint16(16),
	} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataSize))

	for _, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		_ = binary.Write(&buf, binary.LittleEndian, int16(math.Round(v*32767)))
	}
	_, err := w.Write(buf.Bytes())
	return err
}
