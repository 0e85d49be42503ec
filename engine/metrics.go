package engine

import "time"

// MetricsObserver receives engine events.
type MetricsObserver interface {
	// OnSearch is called after every BestCluster call.
	OnSearch(blocks int, duration time.Duration)

	// OnDistanceFault is called when a distance function fails for a feature.
	OnDistanceFault(name string)
}

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnSearch(blocks int, duration time.Duration) {}
func (NoopMetricsObserver) OnDistanceFault(name string)                 {}
