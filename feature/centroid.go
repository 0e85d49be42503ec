package feature

import "fmt"

// Centroid aggregates features of kind F.
//
// Add followed by Remove of the same feature must restore the prior state
// (within floating-point tolerance) unless the resulting weight is exactly zero.
type Centroid[F Feature] interface {
	Add(f F)
	Remove(f F)
	Reset()
	// Centroid returns the current representative feature.
	// It returns false while the centroid is empty.
	Centroid() (F, bool)
	// Aggregate returns partial aggregates that, added to another centroid of
	// the same kind, merge this centroid into it.
	Aggregate() []F
}

// CentroidFactory creates an empty centroid that emits features named name.
type CentroidFactory[F Feature] func(name string) Centroid[F]

// DistanceFunc scores the dissimilarity between two features of kind F.
type DistanceFunc[F Feature] func(a, b F) float64

// Aggregator is the kind-erased view of a Centroid used by clusters.
type Aggregator interface {
	Add(f Feature) error
	Remove(f Feature) error
	Reset()
	Current() (Feature, bool)
	// Merge folds the aggregate of other into this aggregator.
	Merge(other Aggregator) error
	partials() []Feature
}

type aggregator[F Feature] struct {
	name string
	c    Centroid[F]
}

func (a *aggregator[F]) cast(f Feature) (F, error) {
	v, ok := f.(F)
	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %q expects %T, got %T", ErrKindMismatch, a.name, zero, f)
	}
	return v, nil
}

func (a *aggregator[F]) Add(f Feature) error {
	v, err := a.cast(f)
	if err != nil {
		return err
	}
	a.c.Add(v)
	return nil
}

func (a *aggregator[F]) Remove(f Feature) error {
	v, err := a.cast(f)
	if err != nil {
		return err
	}
	a.c.Remove(v)
	return nil
}

func (a *aggregator[F]) Reset() { a.c.Reset() }

func (a *aggregator[F]) Current() (Feature, bool) {
	v, ok := a.c.Centroid()
	if !ok {
		return nil, false
	}
	return v, true
}

func (a *aggregator[F]) Merge(other Aggregator) error {
	for _, p := range other.partials() {
		if err := a.Add(p); err != nil {
			return err
		}
	}
	return nil
}

func (a *aggregator[F]) partials() []Feature {
	agg := a.c.Aggregate()
	out := make([]Feature, len(agg))
	for i, f := range agg {
		out[i] = f
	}
	return out
}
