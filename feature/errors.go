package feature

import "errors"

var (
	// ErrKindMismatch is returned when a feature does not have the kind its
	// definition was registered with.
	ErrKindMismatch = errors.New("feature kind mismatch")

	// ErrDistanceFault is returned when a distance function panics.
	ErrDistanceFault = errors.New("distance function fault")

	// ErrInvalidDefinition is returned by Build for malformed registrations.
	ErrInvalidDefinition = errors.New("invalid feature definition")

	// ErrDuplicateFeature is returned by Build when a feature name is registered twice.
	ErrDuplicateFeature = errors.New("duplicate feature name")
)
