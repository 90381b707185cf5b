package pokeyvq

import (
	"math"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting encoder metrics.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordIteration is called after every training iteration.
	// dead is the number of entries no vector selected.
	RecordIteration(iteration int, cost float64, dead int, duration time.Duration)

	// RecordTrain is called after each training run.
	RecordTrain(iterations int, duration time.Duration, err error)

	// RecordExport is called after each export with the table size in bytes.
	RecordExport(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIteration(int, float64, int, time.Duration) {}
func (NoopMetricsCollector) RecordTrain(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordExport(int, time.Duration, error)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	IterationCount   atomic.Int64
	DeadEntries      atomic.Int64
	lastCostBits     atomic.Uint64
	TrainCount       atomic.Int64
	TrainErrors      atomic.Int64
	TrainIterations  atomic.Int64
	TrainTotalNanos  atomic.Int64
	ExportCount      atomic.Int64
	ExportErrors     atomic.Int64
	ExportBytes      atomic.Int64
	ExportTotalNanos atomic.Int64
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(_ int, cost float64, dead int, _ time.Duration) {
	b.IterationCount.Add(1)
	b.DeadEntries.Add(int64(dead))
	b.lastCostBits.Store(math.Float64bits(cost))
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(iterations int, duration time.Duration, err error) {
	b.TrainCount.Add(1)
	b.TrainTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TrainErrors.Add(1)
		return
	}
	b.TrainIterations.Add(int64(iterations))
}

// RecordExport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExport(bytes int, duration time.Duration, err error) {
	b.ExportCount.Add(1)
	b.ExportTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ExportErrors.Add(1)
		return
	}
	b.ExportBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IterationCount:  b.IterationCount.Load(),
		DeadEntries:     b.DeadEntries.Load(),
		LastCost:        math.Float64frombits(b.lastCostBits.Load()),
		TrainCount:      b.TrainCount.Load(),
		TrainErrors:     b.TrainErrors.Load(),
		TrainIterations: b.TrainIterations.Load(),
		TrainAvgNanos:   avg(b.TrainTotalNanos.Load(), b.TrainCount.Load()),
		ExportCount:     b.ExportCount.Load(),
		ExportErrors:    b.ExportErrors.Load(),
		ExportBytes:     b.ExportBytes.Load(),
		ExportAvgNanos:  avg(b.ExportTotalNanos.Load(), b.ExportCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IterationCount  int64
	DeadEntries     int64
	LastCost        float64
	TrainCount      int64
	TrainErrors     int64
	TrainIterations int64
	TrainAvgNanos   int64
	ExportCount     int64
	ExportErrors    int64
	ExportBytes     int64
	ExportAvgNanos  int64
}
