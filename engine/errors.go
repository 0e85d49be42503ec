package engine

import "errors"

var (
	// ErrNilRegistry is returned by New when no feature registry is given.
	ErrNilRegistry = errors.New("engine: nil feature registry")

	// ErrInvalidBlockSize is returned by New for a non-positive block size.
	ErrInvalidBlockSize = errors.New("engine: block size must be positive")

	// ErrNilPredicate is returned by New when the policy has no Accept predicate.
	ErrNilPredicate = errors.New("engine: nil acceptance predicate")
)
