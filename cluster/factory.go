package cluster

import (
	"github.com/google/uuid"

	"github.com/hupe1980/ensemble/feature"
)

// Factory creates clusters that share a registry and an update mode.
type Factory struct {
	registry *feature.Registry
	online   bool
	newID    func() string
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithIDGenerator replaces the default UUID cluster ids.
func WithIDGenerator(fn func() string) FactoryOption {
	return func(f *Factory) {
		f.newID = fn
	}
}

// NewFactory returns a Factory for clusters over reg.
func NewFactory(reg *feature.Registry, online bool, optFns ...FactoryOption) *Factory {
	f := &Factory{
		registry: reg,
		online:   online,
		newID:    uuid.NewString,
	}
	for _, fn := range optFns {
		fn(f)
	}
	return f
}

// New creates an empty cluster.
func (f *Factory) New() *Cluster {
	return New(f.newID(), f.registry, f.online)
}

// Registry returns the registry shared by the created clusters.
func (f *Factory) Registry() *feature.Registry { return f.registry }

// Online reports whether created clusters republish centroids on every change.
func (f *Factory) Online() bool { return f.online }
