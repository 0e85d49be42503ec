package centroid

import (
	"github.com/hupe1980/ensemble/feature"
)

// Mode aggregates string features into a weighted frequency table; the
// centroid is the most frequent value, ties broken lexically.
type Mode struct {
	name   string
	weight float64
	counts map[string]float64
}

// NewMode returns an empty Mode. It satisfies feature.CentroidFactory.
func NewMode(name string) feature.Centroid[feature.Text] {
	return &Mode{name: name, counts: map[string]float64{}}
}

// Add implements feature.Centroid.
func (c *Mode) Add(t feature.Text) {
	c.counts[t.Value()] += t.Weight()
	c.weight += t.Weight()
}

// Remove implements feature.Centroid.
func (c *Mode) Remove(t feature.Text) {
	n, ok := c.counts[t.Value()]
	if !ok {
		return
	}
	n -= t.Weight()
	if n <= vanishing {
		delete(c.counts, t.Value())
	} else {
		c.counts[t.Value()] = n
	}
	c.weight -= t.Weight()
	if c.weight < vanishing || len(c.counts) == 0 {
		c.Reset()
	}
}

// Reset implements feature.Centroid.
func (c *Mode) Reset() {
	c.weight = 0
	clear(c.counts)
}

// Centroid implements feature.Centroid.
func (c *Mode) Centroid() (feature.Text, bool) {
	if c.weight <= 0 || len(c.counts) == 0 {
		return feature.Text{}, false
	}
	var (
		best  string
		count float64
		found bool
	)
	for v, n := range c.counts {
		if !found || n > count || (n == count && v < best) {
			best, count, found = v, n, true
		}
	}
	return feature.NewText(c.name, best).WithWeight(c.weight), true
}

// Aggregate implements feature.Centroid. It returns one weighted feature per
// distinct value.
func (c *Mode) Aggregate() []feature.Text {
	out := make([]feature.Text, 0, len(c.counts))
	for v, n := range c.counts {
		out = append(out, feature.NewText(c.name, v).WithWeight(n))
	}
	return out
}
