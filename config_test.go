package pokeyvq

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pokeyvq/codec"
	"github.com/hupe1980/pokeyvq/export"
	"github.com/hupe1980/pokeyvq/hardware"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, hardware.DefaultRate, cfg.Rate)
	assert.Equal(t, DefaultPreviewRate, cfg.PreviewRate)
	assert.False(t, cfg.FixedLength())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(*Config)
	}{
		{"Rate", "rate", func(c *Config) { c.Rate = 0 }},
		{"MinLen", "min_len", func(c *Config) { c.MinLen = 0 }},
		{"MaxBelowMin", "max_len", func(c *Config) { c.MinLen, c.MaxLen = 4, 3 }},
		{"MaxLenByte", "max_len", func(c *Config) { c.MaxLen = 256 }},
		{"Lambda", "lambda", func(c *Config) { c.Lambda = -1 }},
		{"CodebookSize", "codebook_size", func(c *Config) { c.CodebookSize = 257 }},
		{"Iterations", "max_iterations", func(c *Config) { c.MaxIterations = 0 }},
		{"MaxTime", "max_time_seconds", func(c *Config) { c.MaxTimeSeconds = -2 }},
		{"Alpha", "alpha", func(c *Config) { c.Alpha = -0.5 }},
		{"Channels", "channels", func(c *Config) { c.Channels = 0 }},
		{"SpeedMode", "speed_mode", func(c *Config) { c.SpeedMode = 7 }},
		{"PreviewRate", "preview_rate", func(c *Config) { c.PreviewRate = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}, nil} {
		name := "default"
		if c != nil {
			name = c.Name()
		}
		t.Run(name, func(t *testing.T) {
			in := `{
				"rate": 7860,
				"min_len": 4,
				"max_len": 4,
				"channels": 2,
				"speed_mode": "unpacked",
				"audc_prebake": true,
				"max_time_seconds": 1.5
			}`
			cfg, err := LoadConfig(strings.NewReader(in), c)
			require.NoError(t, err)

			assert.Equal(t, 7860, cfg.Rate)
			assert.True(t, cfg.FixedLength())
			assert.Equal(t, 2, cfg.Channels)
			assert.Equal(t, export.SpeedUnpacked, cfg.SpeedMode)
			assert.True(t, cfg.AUDCPrebake)
			assert.Equal(t, 1500*time.Millisecond, cfg.MaxTime())
			// Unset keys keep their defaults.
			assert.Equal(t, DefaultConfig().CodebookSize, cfg.CodebookSize)
		})
	}

	t.Run("UnknownKey", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader(`{"lamda": 0.5}`), nil)
		assert.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader(`{"channels": 4}`), nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("BadSpeedMode", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader(`{"speed_mode": "turbo"}`), nil)
		assert.Error(t, err)
	})
}
