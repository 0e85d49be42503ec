package centroid

import (
	"math"
	"time"

	"github.com/hupe1980/ensemble/feature"
)

// Interval is the weighted mean of interval start and end times.
type Interval struct {
	name       string
	weight     float64
	start, end float64 // weighted sums of unix seconds
}

// NewInterval returns an empty Interval centroid. It satisfies feature.CentroidFactory.
func NewInterval(name string) feature.Centroid[feature.Interval] {
	return &Interval{name: name}
}

func seconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func fromSeconds(s float64) time.Time {
	sec := math.Floor(s)
	nsec := math.Round((s - sec) * 1e9)
	return time.Unix(int64(sec), int64(nsec)).UTC()
}

// Add implements feature.Centroid.
func (c *Interval) Add(iv feature.Interval) {
	w := iv.Weight()
	c.start += seconds(iv.Start()) * w
	c.end += seconds(iv.End()) * w
	c.weight += w
}

// Remove implements feature.Centroid.
func (c *Interval) Remove(iv feature.Interval) {
	if c.weight <= 0 {
		return
	}
	w := iv.Weight()
	c.start -= seconds(iv.Start()) * w
	c.end -= seconds(iv.End()) * w
	c.weight -= w
	if c.weight < vanishing {
		c.Reset()
	}
}

// Reset implements feature.Centroid.
func (c *Interval) Reset() {
	c.weight, c.start, c.end = 0, 0, 0
}

// Centroid implements feature.Centroid.
func (c *Interval) Centroid() (feature.Interval, bool) {
	if c.weight <= 0 {
		return feature.Interval{}, false
	}
	iv := feature.NewInterval(c.name, fromSeconds(c.start/c.weight), fromSeconds(c.end/c.weight))
	return iv.WithWeight(c.weight), true
}

// Aggregate implements feature.Centroid.
func (c *Interval) Aggregate() []feature.Interval {
	iv, ok := c.Centroid()
	if !ok {
		return nil
	}
	return []feature.Interval{iv}
}
