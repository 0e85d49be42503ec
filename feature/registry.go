package feature

import (
	"errors"
	"fmt"
	"math"
)

// Definition binds a feature name to a centroid factory, a distance function
// and a type-level weight. Definitions are immutable.
type Definition struct {
	name        string
	weight      float64
	distance    func(a, b Feature) (float64, error)
	newCentroid func() Aggregator
}

// Name returns the feature name.
func (d *Definition) Name() string { return d.name }

// Weight returns the type-level weight.
func (d *Definition) Weight() float64 { return d.weight }

// Distance scores a against b with the registered distance function.
// The result is not multiplied by the weight. A kind mismatch or a panic
// inside the distance function is returned as an error.
func (d *Definition) Distance(a, b Feature) (dist float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			dist, err = 0, fmt.Errorf("%w: %q: %v", ErrDistanceFault, d.name, r)
		}
	}()
	return d.distance(a, b)
}

// NewAggregator creates an empty centroid for this feature type.
func (d *Definition) NewAggregator() Aggregator { return d.newCentroid() }

// Type is a typed handle to a registered feature.
type Type[F Feature] struct {
	def *Definition
}

// Name returns the feature name.
func (t Type[F]) Name() string { return t.def.name }

// Weight returns the type-level weight.
func (t Type[F]) Weight() float64 { return t.def.weight }

// Definition returns the underlying definition.
func (t Type[F]) Definition() *Definition { return t.def }

// Get returns the feature of r registered under this type.
// It returns false if r has no such feature or it has a different kind.
func (t Type[F]) Get(r Record) (F, bool) {
	var zero F
	f, ok := r.Feature(t.def.name)
	if !ok {
		return zero, false
	}
	v, ok := f.(F)
	return v, ok
}

// Builder collects feature definitions and produces an immutable Registry.
type Builder struct {
	defs []*Definition
	errs []error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Register adds a feature type to b and returns its typed handle.
// Validation errors are reported by Build.
func Register[F Feature](b *Builder, name string, newCentroid CentroidFactory[F], dist DistanceFunc[F], weight float64) Type[F] {
	def := &Definition{name: name, weight: weight}

	switch {
	case name == "":
		b.errs = append(b.errs, fmt.Errorf("%w: empty name", ErrInvalidDefinition))
	case newCentroid == nil:
		b.errs = append(b.errs, fmt.Errorf("%w: %q: nil centroid factory", ErrInvalidDefinition, name))
	case dist == nil:
		b.errs = append(b.errs, fmt.Errorf("%w: %q: nil distance function", ErrInvalidDefinition, name))
	case math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0:
		b.errs = append(b.errs, fmt.Errorf("%w: %q: weight %v", ErrInvalidDefinition, name, weight))
	}

	def.distance = func(x, y Feature) (float64, error) {
		fx, ok := x.(F)
		if !ok {
			var zero F
			return 0, fmt.Errorf("%w: %q expects %T, got %T", ErrKindMismatch, name, zero, x)
		}
		fy, ok := y.(F)
		if !ok {
			var zero F
			return 0, fmt.Errorf("%w: %q expects %T, got %T", ErrKindMismatch, name, zero, y)
		}
		return dist(fx, fy), nil
	}
	def.newCentroid = func() Aggregator {
		return &aggregator[F]{name: name, c: newCentroid(name)}
	}

	b.defs = append(b.defs, def)
	return Type[F]{def: def}
}

// Clear removes every registered feature type.
func (b *Builder) Clear() {
	b.defs = nil
	b.errs = nil
}

// Build validates the registrations and returns the Registry.
// Later changes to b do not affect the returned Registry.
func (b *Builder) Build() (*Registry, error) {
	errs := append([]error(nil), b.errs...)

	byName := make(map[string]*Definition, len(b.defs))
	for _, d := range b.defs {
		if d.name == "" {
			continue
		}
		if _, dup := byName[d.name]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateFeature, d.name))
			continue
		}
		byName[d.name] = d
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Registry{
		defs:   append([]*Definition(nil), b.defs...),
		byName: byName,
	}, nil
}

// Registry is the immutable set of feature definitions of a run.
type Registry struct {
	defs   []*Definition
	byName map[string]*Definition
}

// Len returns the number of registered feature types.
func (r *Registry) Len() int { return len(r.defs) }

// At returns the i-th definition in registration order.
func (r *Registry) At(i int) *Definition { return r.defs[i] }

// Definitions returns the definitions in registration order.
func (r *Registry) Definitions() []*Definition {
	return append([]*Definition(nil), r.defs...)
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the feature names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.defs))
	for i, d := range r.defs {
		names[i] = d.name
	}
	return names
}
