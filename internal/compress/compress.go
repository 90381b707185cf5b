// Package compress wraps byte blocks with optional LZ4 or ZSTD compression.
//
// Block format:
//
//	[Type uint8][UncompressedSize uint32][CompressedSize uint32][Data...]
//
// CompressedSize == 0 means Data is stored as is, which also happens when
// compression does not save at least 10%.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores the block uncompressed.
	None Type = 0
	// LZ4 indicates LZ4 block compression (fast).
	LZ4 Type = 1
	// ZSTD indicates ZSTD block compression (better ratio).
	ZSTD Type = 2
)

// String returns the algorithm name.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// ParseType parses an algorithm name as printed by String.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("compress: unknown type %q", s)
	}
}

// HeaderSize is the size of the block header.
const HeaderSize = 9

var (
	// ErrShortBlock is returned when a block is smaller than its header claims.
	ErrShortBlock = errors.New("compress: block too small")
	// ErrSizeMismatch is returned when a block decompresses to the wrong size.
	ErrSizeMismatch = errors.New("compress: decompressed size mismatch")
)

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Encode returns data wrapped in a block of the given type.
func Encode(data []byte, t Type) ([]byte, error) {
	var compressed []byte
	switch t {
	case None:
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("compress: unknown type %d", t)
	}

	stored := compressed
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		stored = nil
	}

	out := make([]byte, HeaderSize, HeaderSize+max(len(stored), len(data)))
	out[0] = byte(t)
	binary.LittleEndian.PutUint32(out[1:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[5:], uint32(len(stored)))
	if stored == nil {
		return append(out, data...), nil
	}
	return append(out, stored...), nil
}

// Decode unwraps a block produced by Encode.
func Decode(block []byte) ([]byte, error) {
	if len(block) < HeaderSize {
		return nil, ErrShortBlock
	}
	t := Type(block[0])
	size := binary.LittleEndian.Uint32(block[1:])
	csize := binary.LittleEndian.Uint32(block[5:])
	body := block[HeaderSize:]

	if csize == 0 {
		if uint32(len(body)) < size {
			return nil, ErrShortBlock
		}
		return append([]byte(nil), body[:size]...), nil
	}
	if uint32(len(body)) < csize {
		return nil, ErrShortBlock
	}
	body = body[:csize]
	out := make([]byte, size)

	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != size {
			return nil, ErrSizeMismatch
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		decoded, err := dec.DecodeAll(body, out[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != size {
			return nil, ErrSizeMismatch
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("compress: unknown type %d", t)
	}
}

// Peek returns the type and uncompressed size recorded in a block header.
func Peek(block []byte) (Type, int, error) {
	if len(block) < HeaderSize {
		return None, 0, ErrShortBlock
	}
	return Type(block[0]), int(binary.LittleEndian.Uint32(block[1:])), nil
}
