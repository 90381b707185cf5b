// Command pokeyvq encodes WAV clips into POKEY sound banks and publishes
// them to a local directory, S3 or MinIO.
//
// Usage:
//
//	pokeyvq [flags] name clip1.wav [clip2.wav ...]
//
// Destinations:
//
//	-out ./banks                          local directory
//	-out s3://bucket/prefix               Amazon S3 (add -ddb-table for a DynamoDB commit pointer)
//	-out minio://host:port/bucket/prefix  MinIO; credentials from MINIO_ACCESS_KEY / MINIO_SECRET_KEY
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/hupe1980/pokeyvq"
	"github.com/hupe1980/pokeyvq/codec"
	"github.com/hupe1980/pokeyvq/export"
	"github.com/hupe1980/pokeyvq/internal/audio"
	"github.com/hupe1980/pokeyvq/internal/wav"
	"github.com/hupe1980/pokeyvq/publish"
	"github.com/hupe1980/pokeyvq/resource"
)

// errUsage marks command line mistakes; main exits with status 2 for them.
var errUsage = errors.New("usage")

type options struct {
	configPath  string
	out         string
	ddbTable    string
	raw         []string
	preview     string
	compression string
	uploadLimit int64
	logFormat   string
	verbose     bool

	name  string
	clips []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("pokeyvq", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "JSON config file (defaults apply to missing keys)")
	fs.StringVar(&o.out, "out", "out", "destination: directory, s3://bucket/prefix or minio://host/bucket/prefix")
	fs.StringVar(&o.ddbTable, "ddb-table", "", "DynamoDB table for atomic CURRENT commits (s3 only)")
	fs.Func("raw", "WAV clip stored as raw levels (repeatable)", func(s string) error {
		o.raw = append(o.raw, s)
		return nil
	})
	fs.StringVar(&o.preview, "preview", "", "write the hardware preview to this WAV file")
	fs.StringVar(&o.compression, "compression", "zstd", "bundle compression: none, lz4 or zstd")
	fs.Int64Var(&o.uploadLimit, "upload-limit", 0, "output bytes per second for the preview and published artifacts (0 = unlimited)")
	fs.StringVar(&o.logFormat, "log-format", "auto", "log format: auto, text or json")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: pokeyvq [flags] name clip1.wav [clip2.wav ...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	rest := fs.Args()
	if len(rest) < 1 || len(rest)+len(o.raw) < 2 {
		fs.Usage()
		return nil, fmt.Errorf("%w: need a bank name and at least one clip", errUsage)
	}
	o.name, o.clips = rest[0], rest[1:]

	d, err := parseDestination(o.out)
	if err != nil {
		return nil, err
	}
	if o.ddbTable != "" && d.scheme != "s3" {
		return nil, fmt.Errorf("%w: -ddb-table requires an s3:// destination", errUsage)
	}
	return o, nil
}

func newLogger(format string, verbose bool, stderr io.Writer) (*pokeyvq.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if format == "auto" {
		format = "json"
		if f, ok := stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = "text"
		}
	}
	switch format {
	case "text":
		return pokeyvq.NewLogger(slog.NewTextHandler(stderr, opts)), nil
	case "json":
		return pokeyvq.NewLogger(slog.NewJSONHandler(stderr, opts)), nil
	default:
		return nil, fmt.Errorf("%w: unknown log format %q", errUsage, format)
	}
}

func loadConfig(path string) (pokeyvq.Config, error) {
	if path == "" {
		return pokeyvq.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return pokeyvq.Config{}, err
	}
	defer f.Close()
	return pokeyvq.LoadConfig(f, codec.Default)
}

func readWAV(path string) (*wav.Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := wav.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// readClips loads every clip and resamples it to the rate of the first one.
func readClips(vqPaths, rawPaths []string) ([]pokeyvq.Clip, int, error) {
	var (
		clips []pokeyvq.Clip
		rate  int
	)
	add := func(path string, raw bool) error {
		a, err := readWAV(path)
		if err != nil {
			return err
		}
		if rate == 0 {
			rate = a.Rate
		}
		clips = append(clips, pokeyvq.Clip{
			Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Samples: audio.Resample(a.Samples, float64(a.Rate), float64(rate)),
			Raw:     raw,
		})
		return nil
	}
	for _, p := range vqPaths {
		if err := add(p, false); err != nil {
			return nil, 0, err
		}
	}
	for _, p := range rawPaths {
		if err := add(p, true); err != nil {
			return nil, 0, err
		}
	}
	return clips, rate, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger, err := newLogger(o.logFormat, o.verbose, stderr)
	if err != nil {
		return err
	}
	compression, err := export.ParseCompression(o.compression)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	clips, rate, err := readClips(o.clips, o.raw)
	if err != nil {
		return err
	}

	metrics := &pokeyvq.BasicMetricsCollector{}
	enc, err := pokeyvq.New(cfg,
		pokeyvq.WithLogger(logger.WithJob(o.name)),
		pokeyvq.WithMetricsCollector(metrics),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := enc.RunClips(ctx, clips, rate)
	if err != nil {
		return err
	}
	report, err := enc.Report(res)
	if err != nil {
		return err
	}

	rc := resource.NewController(resource.Config{UploadBytesPerSec: o.uploadLimit})
	if o.preview != "" && res.Codebook != nil {
		if err := writePreview(ctx, enc, res, o.preview, rc); err != nil {
			return err
		}
	}

	store, err := openStore(ctx, o.out, o.ddbTable)
	if err != nil {
		return err
	}
	pub := publish.New(store,
		publish.WithCompression(compression),
		publish.WithLogger(logger),
		publish.WithResourceController(rc),
	)
	m, err := pub.Publish(ctx, o.name, res.Tables, report)
	if err != nil {
		return err
	}

	st := metrics.GetStats()
	fmt.Fprintf(stdout, "%s: version %d, %d vectors, %d bytes, SNR %.1f dB, %d iterations in %s\n",
		o.name, m.ID, res.Stats.Vectors, res.Stats.EncodedSize, res.Stats.SNR,
		st.TrainIterations, time.Since(start).Round(time.Millisecond))
	return nil
}

func writePreview(ctx context.Context, enc *pokeyvq.Encoder, res *pokeyvq.Result, path string, rc *resource.Controller) error {
	samples, err := enc.Preview(res.Codebook, res.Indices)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := resource.NewRateLimitedWriter(ctx, f, rc)
	if err := wav.Write(w, enc.Config().PreviewRate, samples); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "pokeyvq:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
