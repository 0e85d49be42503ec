package ensemble

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting clustering metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    passCounter  *prometheus.CounterVec
//	    runHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordPass(strategy string, iteration, clusters int, d time.Duration) {
//	    p.passCounter.WithLabelValues(strategy).Inc()
//	}
type MetricsCollector interface {
	// RecordSearch is called after each nearest-cluster search.
	// blocks is the number of candidate blocks scanned.
	RecordSearch(blocks int, duration time.Duration)

	// RecordDistanceFault is called when a distance function fails.
	RecordDistanceFault(feature string)

	// RecordPass is called after each assignment pass.
	RecordPass(strategy string, iteration, clusters int, duration time.Duration)

	// RecordRun is called after each clustering run, err is nil if successful.
	RecordRun(strategy string, iterations, clusters int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSearch(int, time.Duration)                  {}
func (NoopMetricsCollector) RecordDistanceFault(string)                       {}
func (NoopMetricsCollector) RecordPass(string, int, int, time.Duration)       {}
func (NoopMetricsCollector) RecordRun(string, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SearchCount      atomic.Int64
	SearchBlocks     atomic.Int64
	SearchTotalNanos atomic.Int64
	DistanceFaults   atomic.Int64
	PassCount        atomic.Int64
	PassTotalNanos   atomic.Int64
	RunCount         atomic.Int64
	RunErrors        atomic.Int64
	RunIterations    atomic.Int64
	RunTotalNanos    atomic.Int64
	LastClusters     atomic.Int64
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(blocks int, duration time.Duration) {
	b.SearchCount.Add(1)
	b.SearchBlocks.Add(int64(blocks))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
}

// RecordDistanceFault implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDistanceFault(string) {
	b.DistanceFaults.Add(1)
}

// RecordPass implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPass(_ string, _ int, clusters int, duration time.Duration) {
	b.PassCount.Add(1)
	b.PassTotalNanos.Add(duration.Nanoseconds())
	b.LastClusters.Store(int64(clusters))
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ string, iterations, clusters int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunIterations.Add(int64(iterations))
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
		return
	}
	b.LastClusters.Store(int64(clusters))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SearchCount:    b.SearchCount.Load(),
		SearchBlocks:   b.SearchBlocks.Load(),
		SearchAvgNanos: avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		DistanceFaults: b.DistanceFaults.Load(),
		PassCount:      b.PassCount.Load(),
		PassAvgNanos:   avg(b.PassTotalNanos.Load(), b.PassCount.Load()),
		RunCount:       b.RunCount.Load(),
		RunErrors:      b.RunErrors.Load(),
		RunIterations:  b.RunIterations.Load(),
		RunAvgNanos:    avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		LastClusters:   b.LastClusters.Load(),
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
	SearchCount    int64
	SearchBlocks   int64
	SearchAvgNanos int64
	DistanceFaults int64
	PassCount      int64
	PassAvgNanos   int64
	RunCount       int64
	RunErrors      int64
	RunIterations  int64
	RunAvgNanos    int64
	LastClusters   int64
}

// engineObserver forwards engine events to a MetricsCollector.
type engineObserver struct {
	mc MetricsCollector
}

func (o engineObserver) OnSearch(blocks int, duration time.Duration) {
	o.mc.RecordSearch(blocks, duration)
}

func (o engineObserver) OnDistanceFault(name string) {
	o.mc.RecordDistanceFault(name)
}
