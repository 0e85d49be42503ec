package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/hupe1980/ensemble/feature"
)

// Instance is a uniquely identified record holding a set of features.
// Instances are immutable; the With* methods return modified copies.
type Instance struct {
	id       string
	label    string
	names    []string
	features map[string]feature.Feature
}

// NewInstance creates an instance. An empty id is replaced by a random UUID.
// If several features share a name, the last one wins.
func NewInstance(id string, features ...feature.Feature) *Instance {
	if id == "" {
		id = uuid.NewString()
	}
	inst := &Instance{
		id:       id,
		features: make(map[string]feature.Feature, len(features)),
	}
	for _, f := range features {
		inst.set(f)
	}
	return inst
}

func (i *Instance) set(f feature.Feature) {
	if _, ok := i.features[f.Name()]; !ok {
		i.names = append(i.names, f.Name())
	}
	i.features[f.Name()] = f
}

// ID implements feature.Record.
func (i *Instance) ID() string { return i.id }

// Feature implements feature.Record.
func (i *Instance) Feature(name string) (feature.Feature, bool) {
	f, ok := i.features[name]
	return f, ok
}

// Features returns the features in insertion order.
func (i *Instance) Features() []feature.Feature {
	out := make([]feature.Feature, len(i.names))
	for k, n := range i.names {
		out[k] = i.features[n]
	}
	return out
}

// Len returns the number of features.
func (i *Instance) Len() int { return len(i.names) }

// Label returns the optional class label.
func (i *Instance) Label() string { return i.label }

// WithLabel returns a copy of i carrying the class label.
func (i *Instance) WithLabel(label string) *Instance {
	c := i.clone()
	c.label = label
	return c
}

// With returns a copy of i with f added or replaced.
func (i *Instance) With(f feature.Feature) *Instance {
	c := i.clone()
	c.set(f)
	return c
}

func (i *Instance) clone() *Instance {
	c := &Instance{
		id:       i.id,
		label:    i.label,
		names:    slices.Clone(i.names),
		features: make(map[string]feature.Feature, len(i.features)),
	}
	for n, f := range i.features {
		c.features[n] = f
	}
	return c
}

func (i *Instance) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "id:%s", i.id)
	for _, f := range i.Features() {
		fmt.Fprintf(&sb, ",%v", f)
	}
	return sb.String()
}
