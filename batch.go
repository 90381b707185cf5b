package pokeyvq

import (
	"context"
	"errors"
	"math/rand"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pokeyvq/resource"
)

// Job is one independent encode, typically one instrument.
type Job struct {
	Name       string
	Config     Config
	Clips      []Clip
	SourceRate int
}

// JobResult pairs a job with its outcome.
type JobResult struct {
	Name   string
	Result *Result
	Err    error
}

// BatchEncoder runs jobs in parallel. Jobs share no state: every job gets its
// own Encoder and a random source seeded from its Config.Seed.
type BatchEncoder struct {
	rc     *resource.Controller
	opts   []Option
	logger *Logger
}

// NewBatchEncoder returns a BatchEncoder whose concurrency and memory are
// bounded by rc. A nil rc runs every job at once.
func NewBatchEncoder(rc *resource.Controller, opts ...Option) *BatchEncoder {
	return &BatchEncoder{
		rc:     rc,
		opts:   opts,
		logger: applyOptions(opts).logger,
	}
}

// EncodeAll encodes every job and returns the results in job order. A failed
// job does not stop the others; its error is recorded in the JobResult and
// joined into the returned error. Only cancellation of ctx aborts the batch.
func (b *BatchEncoder) EncodeAll(ctx context.Context, jobs []Job) ([]JobResult, error) {
	results := make([]JobResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)

	for i, job := range jobs {
		results[i].Name = job.Name
		g.Go(func() error {
			if err := b.rc.AcquireJob(gctx); err != nil {
				return err
			}
			defer b.rc.ReleaseJob()

			mem := job.Config.estimateBytes(job.samples())
			if err := b.rc.AcquireMemory(gctx, mem); err != nil {
				return err
			}
			defer b.rc.ReleaseMemory(mem)

			res, err := b.encode(gctx, job)
			if err != nil {
				results[i].Err = &JobError{Name: job.Name, cause: err}
				return nil
			}
			results[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

func (b *BatchEncoder) encode(ctx context.Context, job Job) (*Result, error) {
	opts := append(slices.Clone(b.opts),
		WithLogger(b.logger.WithJob(job.Name)),
		WithRandSource(rand.NewSource(job.Config.Seed)),
	)
	enc, err := New(job.Config, opts...)
	if err != nil {
		return nil, err
	}
	return enc.RunClips(ctx, job.Clips, job.SourceRate)
}

// samples estimates the training signal length at the codec rate.
func (j Job) samples() int {
	n := 0
	for _, c := range j.Clips {
		n += len(c.Samples)
	}
	if j.SourceRate > 0 && j.Config.Rate > 0 {
		n = n * j.Config.Rate / j.SourceRate
	}
	return n
}

// estimateBytes approximates the training buffers for a signal of n samples:
// one distance and one argmin table per vector length plus the signal,
// reconstruction and DP arrays.
func (c Config) estimateBytes(n int) int64 {
	lengths := int64(max(1, c.MaxLen-c.MinLen+1))
	return int64(n) * (12*lengths + 40)
}
