package centroid

import (
	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/ensemble/feature"
)

// Mean is the weighted arithmetic mean of numeric vectors.
//
// The dimension is fixed by the first vector added after a reset; vectors of a
// different dimension are ignored.
type Mean struct {
	name   string
	weight float64
	sum    []float64
}

// NewMean returns an empty Mean. It satisfies feature.CentroidFactory.
func NewMean(name string) feature.Centroid[feature.Vector] {
	return &Mean{name: name}
}

// Add implements feature.Centroid.
func (m *Mean) Add(v feature.Vector) {
	if m.sum == nil {
		m.sum = make([]float64, v.Dim())
	}
	if len(m.sum) != v.Dim() {
		return
	}
	w := v.Weight()
	floats.AddScaled(m.sum, w, v.Values())
	m.weight += w
}

// Remove implements feature.Centroid.
func (m *Mean) Remove(v feature.Vector) {
	if m.weight == 0 || len(m.sum) != v.Dim() {
		return
	}
	w := v.Weight()
	floats.AddScaled(m.sum, -w, v.Values())
	m.weight -= w
	if m.weight < vanishing {
		m.Reset()
	}
}

// Reset implements feature.Centroid.
func (m *Mean) Reset() {
	m.weight = 0
	m.sum = nil
}

// Weight returns the accumulated weight.
func (m *Mean) Weight() float64 { return m.weight }

// Centroid implements feature.Centroid.
func (m *Mean) Centroid() (feature.Vector, bool) {
	if m.weight <= 0 {
		return feature.Vector{}, false
	}
	mean := make([]float64, len(m.sum))
	floats.ScaleTo(mean, 1/m.weight, m.sum)
	return feature.NewVector(m.name, mean...).WithWeight(m.weight), true
}

// Aggregate implements feature.Centroid. The mean carries the total weight,
// so adding it to another Mean merges both.
func (m *Mean) Aggregate() []feature.Vector {
	c, ok := m.Centroid()
	if !ok {
		return nil
	}
	return []feature.Vector{c}
}
