package engine

import (
	"log/slog"

	"github.com/hupe1980/ensemble/internal/workpool"
)

// DefaultBlockSize is the number of candidates scanned per pool task.
const DefaultBlockSize = 100

type options struct {
	blockSize       int
	penalizeMissing bool
	logger          *slog.Logger
	observer        MetricsObserver
	pool            func() *workpool.Pool
}

// Option configures an Engine.
type Option func(*options)

// WithBlockSize sets the number of candidates per search block.
func WithBlockSize(n int) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

// WithPenalizeMissing controls how a feature missing on one side is scored.
// When true it contributes the feature weight, otherwise nothing.
func WithPenalizeMissing(penalize bool) Option {
	return func(o *options) {
		o.penalizeMissing = penalize
	}
}

// WithLogger sets the logger for distance faults and pool fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsObserver sets the observer for engine events.
func WithMetricsObserver(obs MetricsObserver) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithPool overrides the worker pool used for block scans.
func WithPool(p *workpool.Pool) Option {
	return func(o *options) {
		if p != nil {
			o.pool = func() *workpool.Pool { return p }
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		blockSize:       DefaultBlockSize,
		penalizeMissing: true,
		logger:          slog.New(slog.DiscardHandler),
		observer:        NoopMetricsObserver{},
		pool:            workpool.Default,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
