// Package codec centralizes the JSON encoding of configuration files and
// published manifests.
//
// Manifests record the codec name so a reader can pick the matching codec
// with ByName.
package codec

import (
	"fmt"
	"io"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Strict is implemented by codecs that can reject unknown fields.
type Strict interface {
	UnmarshalStrict(data []byte, v any) error
}

// Indenter is implemented by codecs that can produce indented output.
type Indenter interface {
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Decode reads all of r and decodes it into v, rejecting unknown fields when
// the codec supports it. A nil codec selects Default.
func Decode(r io.Reader, c Codec, v any) error {
	if c == nil {
		c = Default
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if s, ok := c.(Strict); ok {
		err = s.UnmarshalStrict(data, v)
	} else {
		err = c.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	return nil
}

// Pretty encodes v with two-space indentation when the codec supports it.
func Pretty(c Codec, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	if i, ok := c.(Indenter); ok {
		return i.MarshalIndent(v, "", "  ")
	}
	return c.Marshal(v)
}

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
