package centroid

import (
	"cmp"
	"maps"
	"slices"

	"github.com/hupe1980/ensemble/feature"
)

// DefaultTopTerms is the number of terms kept in a Bag centroid.
const DefaultTopTerms = 10

// vanishing is the weight or term frequency below which removals have left
// only rounding noise.
const vanishing = 1e-12

// Bag aggregates bag-of-words features into a weighted term frequency table.
// The centroid is the bag of the top-N most frequent terms.
type Bag struct {
	name   string
	topN   int
	weight float64
	counts map[string]float64
}

// NewBag returns an empty Bag keeping DefaultTopTerms terms.
// It satisfies feature.CentroidFactory.
func NewBag(name string) feature.Centroid[feature.Bag] {
	return &Bag{name: name, topN: DefaultTopTerms, counts: map[string]float64{}}
}

// BagFactory returns a factory for Bag centroids keeping topN terms.
// A non-positive topN keeps every term.
func BagFactory(topN int) feature.CentroidFactory[feature.Bag] {
	return func(name string) feature.Centroid[feature.Bag] {
		return &Bag{name: name, topN: topN, counts: map[string]float64{}}
	}
}

// Add implements feature.Centroid.
func (c *Bag) Add(b feature.Bag) {
	w := b.Weight()
	for _, t := range b.Terms() {
		c.counts[t] += b.Count(t) * w
	}
	c.weight += w
}

// Remove implements feature.Centroid.
func (c *Bag) Remove(b feature.Bag) {
	if c.weight <= 0 {
		return
	}
	w := b.Weight()
	for _, t := range b.Terms() {
		n := c.counts[t] - b.Count(t)*w
		if n <= vanishing {
			delete(c.counts, t)
			continue
		}
		c.counts[t] = n
	}
	c.weight -= w
	if c.weight < vanishing {
		c.Reset()
	}
}

// Reset implements feature.Centroid.
func (c *Bag) Reset() {
	c.weight = 0
	clear(c.counts)
}

// Count returns the accumulated frequency of term.
func (c *Bag) Count(term string) float64 { return c.counts[term] }

// Centroid implements feature.Centroid.
func (c *Bag) Centroid() (feature.Bag, bool) {
	if c.weight <= 0 {
		return feature.Bag{}, false
	}

	terms := slices.SortedFunc(maps.Keys(c.counts), func(a, b string) int {
		if n := cmp.Compare(c.counts[b], c.counts[a]); n != 0 {
			return n
		}
		return cmp.Compare(a, b)
	})
	if c.topN > 0 && len(terms) > c.topN {
		terms = terms[:c.topN]
	}

	top := make(map[string]float64, len(terms))
	for _, t := range terms {
		top[t] = c.counts[t]
	}
	return feature.NewBag(c.name, top).WithWeight(c.weight), true
}

// Aggregate implements feature.Centroid. It returns the full frequency table,
// scaled so that adding it back with its weight restores the counts.
func (c *Bag) Aggregate() []feature.Bag {
	if c.weight <= 0 {
		return nil
	}
	scaled := make(map[string]float64, len(c.counts))
	for t, n := range c.counts {
		scaled[t] = n / c.weight
	}
	return []feature.Bag{feature.NewBag(c.name, scaled).WithWeight(c.weight)}
}
