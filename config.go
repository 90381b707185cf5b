package pokeyvq

import (
	"io"
	"time"

	"github.com/hupe1980/pokeyvq/codebook"
	"github.com/hupe1980/pokeyvq/codec"
	"github.com/hupe1980/pokeyvq/export"
	"github.com/hupe1980/pokeyvq/hardware"
	"github.com/hupe1980/pokeyvq/vq"
)

// DefaultPreviewRate is the sample rate of rendered previews.
const DefaultPreviewRate = 44100

// Config holds the encoder settings. Field names follow the JSON keys used by
// configuration files.
type Config struct {
	// Rate is the playback rate of the decoder in Hz.
	Rate int `json:"rate"`
	// MinLen and MaxLen bound the vector length in samples.
	// Equal values select fixed-length mode.
	MinLen int `json:"min_len"`
	MaxLen int `json:"max_len"`
	// Lambda is charged per chosen vector; larger values favor long vectors.
	Lambda float64 `json:"lambda"`
	// CodebookSize is the number of entries (at most 256).
	CodebookSize int `json:"codebook_size"`
	// MaxIterations bounds training.
	MaxIterations int `json:"max_iterations"`
	// MaxTimeSeconds bounds training wall-clock time. Zero is unbounded.
	MaxTimeSeconds float64 `json:"max_time_seconds"`
	// Alpha penalizes jumps between adjacent vectors.
	Alpha float64 `json:"alpha"`
	// Constrained keeps every codebook value on a hardware level.
	Constrained bool `json:"constrained"`
	// Channels is 1 (AUDC1) or 2 (AUDC1+AUDC2 summed).
	Channels int `json:"channels"`
	// SpeedMode selects the packed or unpacked payload layout.
	SpeedMode export.SpeedMode `json:"speed_mode"`
	// ImprovedInit selects diversity-seeking codebook initialization.
	ImprovedInit bool `json:"improved_init"`
	// AUDCPrebake sets the volume-only bit in unpacked payload bytes.
	AUDCPrebake bool `json:"audc_prebake"`

	// Seed seeds the training random source unless WithRandSource is used.
	Seed int64 `json:"seed"`
	// Normalize scales every clip to full scale before encoding.
	Normalize bool `json:"normalize"`
	// PreviewRate is the output rate of Encoder.Preview.
	PreviewRate int `json:"preview_rate"`
	// NoiseShaping enables error feedback for raw clips.
	NoiseShaping bool `json:"noise_shaping"`
}

// DefaultConfig returns the settings used by the standard player: one
// channel, 2..8 sample vectors, a full 256 entry codebook.
func DefaultConfig() Config {
	return Config{
		Rate:          hardware.DefaultRate,
		MinLen:        2,
		MaxLen:        8,
		Lambda:        0.01,
		CodebookSize:  codebook.MaxSize,
		MaxIterations: 30,
		Constrained:   true,
		Channels:      1,
		SpeedMode:     export.SpeedPacked,
		Seed:          1,
		PreviewRate:   DefaultPreviewRate,
	}
}

// Validate checks every field and returns the first *ConfigError found.
func (c Config) Validate() error {
	switch {
	case c.Rate <= 0:
		return &ConfigError{Field: "rate", Value: c.Rate, Reason: "must be positive"}
	case c.MinLen < 1:
		return &ConfigError{Field: "min_len", Value: c.MinLen, Reason: "must be at least 1"}
	case c.MaxLen < c.MinLen:
		return &ConfigError{Field: "max_len", Value: c.MaxLen, Reason: "must not be below min_len"}
	case c.MaxLen > 255:
		return &ConfigError{Field: "max_len", Value: c.MaxLen, Reason: "must fit the one-byte length table"}
	case c.Lambda < 0:
		return &ConfigError{Field: "lambda", Value: c.Lambda, Reason: "must not be negative"}
	case c.CodebookSize < 1 || c.CodebookSize > codebook.MaxSize:
		return &ConfigError{Field: "codebook_size", Value: c.CodebookSize, Reason: "must be in [1, 256]"}
	case c.MaxIterations < 1:
		return &ConfigError{Field: "max_iterations", Value: c.MaxIterations, Reason: "must be at least 1"}
	case c.MaxTimeSeconds < 0:
		return &ConfigError{Field: "max_time_seconds", Value: c.MaxTimeSeconds, Reason: "must not be negative"}
	case c.Alpha < 0:
		return &ConfigError{Field: "alpha", Value: c.Alpha, Reason: "must not be negative"}
	case c.Channels != 1 && c.Channels != 2:
		return &ConfigError{Field: "channels", Value: c.Channels, Reason: "must be 1 or 2"}
	case c.SpeedMode != export.SpeedPacked && c.SpeedMode != export.SpeedUnpacked:
		return &ConfigError{Field: "speed_mode", Value: c.SpeedMode, Reason: "must be packed or unpacked"}
	case c.PreviewRate <= 0:
		return &ConfigError{Field: "preview_rate", Value: c.PreviewRate, Reason: "must be positive"}
	}
	return nil
}

// FixedLength reports whether every vector has the same length.
func (c Config) FixedLength() bool { return c.MinLen == c.MaxLen }

// MaxTime returns MaxTimeSeconds as a duration.
func (c Config) MaxTime() time.Duration {
	return time.Duration(c.MaxTimeSeconds * float64(time.Second))
}

func (c Config) exportOptions(table *hardware.Table) export.Options {
	return export.Options{
		Channels:    c.Channels,
		Speed:       c.SpeedMode,
		Constrained: c.Constrained,
		Prebake:     c.AUDCPrebake,
		Table:       table,
	}
}

func (c Config) generatorConfig(table *hardware.Table) vq.Config {
	return vq.Config{
		Size:          c.CodebookSize,
		MinLen:        c.MinLen,
		MaxLen:        c.MaxLen,
		Lambda:        c.Lambda,
		Alpha:         c.Alpha,
		Constrained:   c.Constrained,
		Table:         table,
		ImprovedInit:  c.ImprovedInit,
		MaxIterations: c.MaxIterations,
		MaxTime:       c.MaxTime(),
	}
}

// LoadConfig decodes a configuration file on top of DefaultConfig and
// validates the result. Unknown keys are rejected. A nil codec selects
// codec.Default.
func LoadConfig(r io.Reader, c codec.Codec) (Config, error) {
	cfg := DefaultConfig()
	if err := codec.Decode(r, c, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
