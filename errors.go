package ensemble

import "errors"

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidThreshold is returned for a negative or NaN distance threshold.
	ErrInvalidThreshold = errors.New("threshold must be a non-negative number")

	// ErrInvalidMaxIterations is returned when the iteration cap is not positive.
	ErrInvalidMaxIterations = errors.New("max iterations must be positive")

	// ErrInvalidConvergenceTest is returned for a negative or NaN convergence test.
	ErrInvalidConvergenceTest = errors.New("convergence test must be a non-negative number")

	// ErrNilRegistry is returned when a strategy is created without a feature registry.
	ErrNilRegistry = errors.New("feature registry is required")

	// ErrIncrementalUnsupported is returned by ClusterIncremental.
	ErrIncrementalUnsupported = errors.New("incremental clustering is not supported")

	// ErrUnknownAlgorithm is returned by config for an unrecognized algorithm name.
	ErrUnknownAlgorithm = errors.New("unknown clustering algorithm")

	// ErrNilConfig is returned by New when no config is given.
	ErrNilConfig = errors.New("config is required")
)
