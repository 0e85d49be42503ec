package ensemble

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hupe1980/ensemble/engine"
)

const (
	// DefaultMaxIterations caps the passes of the iterative strategies.
	DefaultMaxIterations = 100

	// DefaultConvergenceTest is the minimum distortion improvement DPMeans
	// needs to keep iterating.
	DefaultConvergenceTest = 1e-3
)

type options struct {
	maxIterations    int
	convergenceTest  float64
	firstCandidate   bool
	onlineUpdate     *bool
	penalizeMissing  bool
	blockSize        int
	seed             *int64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a clustering strategy.
type Option func(*options)

// WithMaxIterations caps the number of passes of KMeans and DPMeans.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithConvergenceTest sets the minimum decrease in DPMeans distortion between
// two passes below which the run stops.
func WithConvergenceTest(eps float64) Option {
	return func(o *options) {
		o.convergenceTest = eps
	}
}

// WithFirstCandidate makes the search stop at the first admissible cluster
// instead of the best one. Results then depend on scheduling.
func WithFirstCandidate(first bool) Option {
	return func(o *options) {
		o.firstCandidate = first
	}
}

// WithOnlineUpdate controls whether centroids are recomputed after every
// assignment (true) or once per pass (false). Threshold defaults to online,
// KMeans and DPMeans to batch updates.
func WithOnlineUpdate(online bool) Option {
	return func(o *options) {
		o.onlineUpdate = &online
	}
}

// WithPenalizeMissingFeatures controls whether a feature missing on one side
// of a comparison adds its weight to the distance (default true).
func WithPenalizeMissingFeatures(penalize bool) Option {
	return func(o *options) {
		o.penalizeMissing = penalize
	}
}

// WithBlockSize sets the number of candidate clusters scanned per pool task.
func WithBlockSize(n int) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

// WithSeed makes the random choices of KMeans and DPMeans reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &ensemble.BasicMetricsCollector{}
//	km, _ := ensemble.NewKMeans(reg, 8, ensemble.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Passes: %d, Avg search: %dns\n", stats.PassCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := ensemble.NewJSONLogger(slog.LevelInfo)
//	th, _ := ensemble.NewThreshold(reg, 0.3, ensemble.WithLogger(logger))
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

func applyOptions(optFns []Option) options {
	o := options{
		maxIterations:    DefaultMaxIterations,
		convergenceTest:  DefaultConvergenceTest,
		penalizeMissing:  true,
		blockSize:        engine.DefaultBlockSize,
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

func (o *options) validate() error {
	if o.maxIterations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxIterations, o.maxIterations)
	}
	if math.IsNaN(o.convergenceTest) || o.convergenceTest < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConvergenceTest, o.convergenceTest)
	}
	if o.blockSize <= 0 {
		return fmt.Errorf("%w: %d", engine.ErrInvalidBlockSize, o.blockSize)
	}
	return nil
}

func (o *options) online(def bool) bool {
	if o.onlineUpdate == nil {
		return def
	}
	return *o.onlineUpdate
}
