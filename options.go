package pokeyvq

import (
	"log/slog"
	"math/rand"

	"github.com/hupe1980/pokeyvq/codec"
	"github.com/hupe1980/pokeyvq/hardware"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	source           rand.Source
	previewRate      int
	table            *hardware.Table
}

// Option configures an Encoder.
type Option func(*options)

// WithCodec configures the codec used to encode quality reports.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
//	metrics := &pokeyvq.BasicMetricsCollector{}
//	enc, _ := pokeyvq.New(cfg, pokeyvq.WithMetricsCollector(metrics))
//	// ... run ...
//	fmt.Println(metrics.GetStats().TrainAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithRandSource overrides the training random source derived from
// Config.Seed. The source is owned by the Encoder afterwards and must not be
// shared with other encoders.
func WithRandSource(src rand.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithPreviewRate overrides Config.PreviewRate.
func WithPreviewRate(hz int) Option {
	return func(o *options) {
		o.previewRate = hz
	}
}

// WithTable replaces the default voltage table for Config.Channels, for
// example with a measured mixing table from hardware.NewLookupTable. Training,
// export, raw clips and the preview all use it. Its channel count must match
// Config.Channels.
func WithTable(t *hardware.Table) Option {
	return func(o *options) {
		o.table = t
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
