package pokeyvq

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/pokeyvq/codebook"
	"github.com/hupe1980/pokeyvq/codec"
	"github.com/hupe1980/pokeyvq/export"
	"github.com/hupe1980/pokeyvq/hardware"
	"github.com/hupe1980/pokeyvq/internal/audio"
	"github.com/hupe1980/pokeyvq/quantization"
	"github.com/hupe1980/pokeyvq/vq"
)

// snrCeiling bounds reported SNR so lossless or silent clips stay finite.
const snrCeiling = 200

// Clip is one input clip in the caller's bipolar [-1, 1] domain.
type Clip struct {
	Name    string
	Samples []float32
	// Raw stores the clip as directly quantized levels instead of vectors.
	Raw bool
}

// ClipResult describes how one input clip was encoded.
type ClipResult struct {
	Name string
	Mode export.ClipMode
	// Boundary is the clip's range in the training signal (VQ clips only).
	Boundary vq.Boundary
	// Vectors is the number of index stream entries of a VQ clip.
	Vectors int
	// Decoded is the reconstruction at the source rate.
	Decoded []float32
}

// Stats summarizes the quality and size of an encode.
type Stats struct {
	Iterations  int           `json:"iterations"`
	Converged   bool          `json:"converged"`
	Cost        float64       `json:"cost"`
	Distortion  float64       `json:"distortion"`
	SNR         float64       `json:"snr_db"`
	Used        int           `json:"used_entries"`
	Vectors     int           `json:"vectors"`
	Samples     int           `json:"samples"`
	EncodedSize int           `json:"encoded_size"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// Result is the output of one encode job.
type Result struct {
	// EncodedSize is the total size of the exported tables in bytes.
	EncodedSize int
	// Decoded is the reconstruction of a single-clip Run at the source rate.
	Decoded  []float32
	Codebook *codebook.Codebook
	Indices  []uint8
	// Starts holds the first training-signal sample of every index.
	Starts     []int
	Boundaries []vq.Boundary
	Clips      []ClipResult
	Tables     *export.Tables
	Stats      Stats
	History    []vq.Iteration
}

// Encoder drives resampling, training, reconstruction and export.
// An Encoder owns its random source and is not safe for concurrent use.
type Encoder struct {
	cfg      Config
	opts     options
	table    *hardware.Table
	rng      *rand.Rand
	exporter *export.Exporter
	raw      *quantization.RawEncoder
}

// New validates cfg and returns an Encoder.
func New(cfg Config, optFns ...Option) (*Encoder, error) {
	o := applyOptions(optFns)
	if o.previewRate != 0 {
		cfg.PreviewRate = o.previewRate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table := o.table
	if table == nil {
		var err error
		if table, err = hardware.ForChannels(cfg.Channels); err != nil {
			return nil, err
		}
	} else if table.Channels() != cfg.Channels {
		return nil, &ConfigError{Field: "channels", Value: cfg.Channels,
			Reason: fmt.Sprintf("does not match the %d-channel voltage table", table.Channels())}
	}
	exporter, err := export.New(cfg.exportOptions(table))
	if err != nil {
		return nil, err
	}

	var rawOpts []quantization.RawOption
	if cfg.NoiseShaping {
		rawOpts = append(rawOpts, quantization.WithNoiseShaping())
	}

	src := o.source
	if src == nil {
		src = rand.NewSource(cfg.Seed)
	}

	return &Encoder{
		cfg:      cfg,
		opts:     o,
		table:    table,
		rng:      rand.New(src),
		exporter: exporter,
		raw:      quantization.NewRawEncoder(table, rawOpts...),
	}, nil
}

// Config returns the effective configuration.
func (e *Encoder) Config() Config { return e.cfg }

// Table returns the voltage table for the configured channel count.
func (e *Encoder) Table() *hardware.Table { return e.table }

// Run encodes a single clip recorded at sourceRate.
func (e *Encoder) Run(ctx context.Context, samples []float32, sourceRate int) (*Result, error) {
	res, err := e.run(ctx, []Clip{{Samples: samples}}, sourceRate, false)
	if err != nil {
		return nil, err
	}
	res.Decoded = res.Clips[0].Decoded
	return res, nil
}

// RunClips trains one codebook for all VQ clips and exports a directory with
// one entry per clip, in order. Raw clips bypass training.
func (e *Encoder) RunClips(ctx context.Context, clips []Clip, sourceRate int) (*Result, error) {
	return e.run(ctx, clips, sourceRate, true)
}

func (e *Encoder) run(ctx context.Context, clips []Clip, sourceRate int, directory bool) (*Result, error) {
	if sourceRate <= 0 {
		return nil, &ConfigError{Field: "source_rate", Value: sourceRate, Reason: "must be positive"}
	}
	start := time.Now()

	prepared := make([][]float32, len(clips))
	res := &Result{Clips: make([]ClipResult, len(clips))}
	var signal []float32

	for i, c := range clips {
		if len(c.Samples) == 0 {
			return nil, &ClipError{Index: i, Name: c.Name, cause: ErrEmptyClip}
		}
		if j := audio.NonFinite(c.Samples); j >= 0 {
			return nil, &ClipError{Index: i, Name: c.Name,
				cause: fmt.Errorf("%w at %d: %v", ErrNonFiniteSample, j, c.Samples[j])}
		}
		x := e.prepare(c.Samples, sourceRate)
		prepared[i] = x
		res.Clips[i].Name = c.Name
		if c.Raw {
			res.Clips[i].Mode = export.ModeRaw
			continue
		}

		if e.cfg.FixedLength() {
			x = audio.PadTo(x, e.cfg.MaxLen)
		}
		b := vq.Boundary{Start: len(signal), End: len(signal) + len(x)}
		signal = append(signal, audio.ToUnipolar(x)...)
		res.Clips[i].Mode = export.ModeVQ
		res.Clips[i].Boundary = b
		res.Boundaries = append(res.Boundaries, b)
	}
	if len(signal) == 0 {
		return nil, ErrNoVQClips
	}

	tr, err := e.train(ctx, signal, res.Boundaries)
	e.opts.metricsCollector.RecordTrain(iterations(tr), time.Since(start), err)
	if err != nil {
		e.opts.logger.LogTrain(ctx, len(signal), nil, err)
		return nil, err
	}
	res.Codebook = tr.Codebook
	res.Indices = tr.Indices
	res.Starts = tr.Starts
	res.History = tr.History

	full, err := tr.Codebook.Reconstruct(tr.Indices, len(signal))
	if err != nil {
		return nil, err
	}

	var ref, dec []float32
	exportClips := make([]export.Clip, len(clips))
	for i, c := range clips {
		cr := &res.Clips[i]
		x := prepared[i]

		if c.Raw {
			u := audio.ToUnipolar(x)
			payload, err := e.raw.Encode(u, e.cfg.SpeedMode == export.SpeedPacked, e.cfg.AUDCPrebake)
			if err != nil {
				return nil, &ClipError{Index: i, Name: c.Name, cause: err}
			}
			exportClips[i] = export.Clip{Mode: export.ModeRaw, Raw: payload}
			e.opts.logger.WithClip(i).DebugContext(ctx, "raw clip quantized", "samples", len(u), "bytes", len(payload))
			cr.Decoded = e.restore(e.raw.Decode(e.raw.Quantize(u)), sourceRate, len(c.Samples))
			continue
		}

		cr.Vectors = countStarts(tr.Starts, cr.Boundary)
		exportClips[i] = export.Clip{Mode: export.ModeVQ, Vectors: cr.Vectors}

		// Padding is dropped; only the clip's own samples are decoded.
		seg := full[cr.Boundary.Start : cr.Boundary.Start+len(x)]
		ref = append(ref, x...)
		dec = append(dec, audio.ToBipolar(seg)...)
		cr.Decoded = e.restore(seg, sourceRate, len(c.Samples))
	}

	if !directory {
		exportClips = nil
	}
	tables, err := e.Export(ctx, tr.Codebook, tr.Indices, exportClips...)
	if err != nil {
		return nil, err
	}
	res.Tables = tables
	res.EncodedSize = tables.Size()

	res.Stats = Stats{
		Iterations:  tr.Iterations,
		Converged:   tr.Converged,
		Cost:        tr.Cost,
		Distortion:  tr.Distortion,
		SNR:         clampSNR(audio.SNR(ref, dec)),
		Used:        usedEntries(tr.Indices),
		Vectors:     len(tr.Indices),
		Samples:     len(signal),
		EncodedSize: res.EncodedSize,
		Elapsed:     time.Since(start),
	}
	e.opts.logger.LogTrain(ctx, len(signal), &res.Stats, nil)
	return res, nil
}

func (e *Encoder) train(ctx context.Context, signal []float32, boundaries []vq.Boundary) (*vq.Result, error) {
	logSometimes := &rate.Sometimes{First: 1, Interval: time.Second}
	gcfg := e.cfg.generatorConfig(e.table)
	gcfg.OnIteration = func(it vq.Iteration) {
		e.opts.metricsCollector.RecordIteration(it.Index, it.Cost, e.cfg.CodebookSize-it.Used, it.Elapsed)
		logSometimes.Do(func() { e.opts.logger.LogIteration(ctx, it) })
	}

	gen, err := vq.NewGenerator(gcfg, e.rng)
	if err != nil {
		return nil, err
	}
	return gen.Train(ctx, signal, boundaries)
}

// Export converts a codebook and index stream into decoder tables using the
// encoder's channel and layout settings.
func (e *Encoder) Export(ctx context.Context, cb *codebook.Codebook, indices []uint8, clips ...export.Clip) (*export.Tables, error) {
	start := time.Now()
	tables, err := e.exporter.Export(cb, indices, clips...)
	size := 0
	if err == nil {
		size = tables.Size()
	}
	e.opts.metricsCollector.RecordExport(size, time.Since(start), err)
	e.opts.logger.LogExport(ctx, size, len(clips), err)
	return tables, err
}

// Report encodes the quality statistics of res with the configured codec.
func (e *Encoder) Report(res *Result) ([]byte, error) {
	return codec.Pretty(e.opts.codec, res.Stats)
}

// prepare normalizes and resamples bipolar input to the codec rate.
func (e *Encoder) prepare(x []float32, sourceRate int) []float32 {
	if e.cfg.Normalize {
		x = audio.Normalize(x)
	}
	return audio.Resample(x, float64(sourceRate), float64(e.cfg.Rate))
}

// restore maps unipolar codec-rate samples back to the caller's domain.
func (e *Encoder) restore(u []float32, sourceRate, n int) []float32 {
	out := audio.Resample(audio.ToBipolar(u), float64(e.cfg.Rate), float64(sourceRate))
	return audio.Fit(out, n)
}

func countStarts(starts []int, b vq.Boundary) int {
	n := 0
	for _, s := range starts {
		if s >= b.Start && s < b.End {
			n++
		}
	}
	return n
}

func usedEntries(indices []uint8) int {
	var seen [codebook.MaxSize]bool
	n := 0
	for _, idx := range indices {
		if !seen[idx] {
			seen[idx] = true
			n++
		}
	}
	return n
}

func clampSNR(db float64) float64 {
	return math.Max(-snrCeiling, math.Min(db, snrCeiling))
}

func iterations(r *vq.Result) int {
	if r == nil {
		return 0
	}
	return r.Iterations
}
