package feature

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Feature is a named, weighted value attached to a Record.
// Implementations must be immutable once constructed.
type Feature interface {
	Name() string
	Weight() float64
}

// Record is anything that carries features and a unique id.
// Instances and clusters are both records.
type Record interface {
	ID() string
	Feature(name string) (Feature, bool)
}

type base struct {
	name   string
	weight float64
}

// Name returns the feature name.
func (b base) Name() string { return b.name }

// Weight returns the feature weight (1 unless overridden).
func (b base) Weight() float64 { return b.weight }

// Vector is a numeric vector feature.
type Vector struct {
	base
	values []float64
}

// NewVector creates a vector feature. The values are copied.
func NewVector(name string, values ...float64) Vector {
	return Vector{base: base{name: name, weight: 1}, values: slices.Clone(values)}
}

// Values returns the vector components.
// The returned slice is shared and must not be modified.
func (v Vector) Values() []float64 { return v.values }

// Dim returns the number of components.
func (v Vector) Dim() int { return len(v.values) }

// WithWeight returns a copy of v with the given weight.
func (v Vector) WithWeight(w float64) Vector {
	v.weight = w
	return v
}

func (v Vector) String() string {
	parts := make([]string, len(v.values))
	for i, x := range v.values {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return fmt.Sprintf("%s:[%s]", v.name, strings.Join(parts, ";"))
}

// Text is a string feature.
type Text struct {
	base
	value string
}

// NewText creates a string feature.
func NewText(name, value string) Text {
	return Text{base: base{name: name, weight: 1}, value: value}
}

// Value returns the string value.
func (t Text) Value() string { return t.value }

// WithWeight returns a copy of t with the given weight.
func (t Text) WithWeight(w float64) Text {
	t.weight = w
	return t
}

func (t Text) String() string { return t.name + ":" + t.value }

// Geo is a geographic point feature.
type Geo struct {
	base
	point orb.Point
}

// NewGeo creates a geographic feature from latitude and longitude in degrees.
func NewGeo(name string, lat, lon float64) Geo {
	return Geo{base: base{name: name, weight: 1}, point: orb.Point{lon, lat}}
}

// Point returns the location as an orb.Point (longitude, latitude).
func (g Geo) Point() orb.Point { return g.point }

// Lat returns the latitude in degrees.
func (g Geo) Lat() float64 { return g.point.Lat() }

// Lon returns the longitude in degrees.
func (g Geo) Lon() float64 { return g.point.Lon() }

// WithWeight returns a copy of g with the given weight.
func (g Geo) WithWeight(w float64) Geo {
	g.weight = w
	return g
}

func (g Geo) String() string {
	return fmt.Sprintf("%s:(%g,%g)", g.name, g.Lat(), g.Lon())
}

// Interval is a temporal feature spanning [Start, End].
type Interval struct {
	base
	start, end time.Time
}

// NewInterval creates a temporal feature. Start and end are swapped if given in reverse.
func NewInterval(name string, start, end time.Time) Interval {
	if end.Before(start) {
		start, end = end, start
	}
	return Interval{base: base{name: name, weight: 1}, start: start, end: end}
}

// NewInstant creates a temporal feature covering a single point in time.
func NewInstant(name string, t time.Time) Interval {
	return NewInterval(name, t, t)
}

// Start returns the beginning of the interval.
func (i Interval) Start() time.Time { return i.start }

// End returns the end of the interval.
func (i Interval) End() time.Time { return i.end }

// Duration returns End - Start.
func (i Interval) Duration() time.Duration { return i.end.Sub(i.start) }

// WithWeight returns a copy of i with the given weight.
func (i Interval) WithWeight(w float64) Interval {
	i.weight = w
	return i
}

func (i Interval) String() string {
	return fmt.Sprintf("%s:[%s,%s]", i.name, i.start.Format(time.RFC3339), i.end.Format(time.RFC3339))
}

// Bag is a bag-of-words feature mapping terms to frequencies.
type Bag struct {
	base
	counts map[string]float64
}

// NewBag creates a bag-of-words feature. The map is copied and
// non-positive frequencies are dropped.
func NewBag(name string, counts map[string]float64) Bag {
	c := make(map[string]float64, len(counts))
	for term, n := range counts {
		if n > 0 {
			c[term] = n
		}
	}
	return Bag{base: base{name: name, weight: 1}, counts: c}
}

// NewBagOfTerms creates a bag counting each occurrence of the given terms once.
func NewBagOfTerms(name string, terms ...string) Bag {
	c := make(map[string]float64, len(terms))
	for _, t := range terms {
		c[t]++
	}
	return Bag{base: base{name: name, weight: 1}, counts: c}
}

// Count returns the frequency of term.
func (b Bag) Count(term string) float64 { return b.counts[term] }

// Terms returns the terms in lexical order.
func (b Bag) Terms() []string {
	return slices.Sorted(maps.Keys(b.counts))
}

// Len returns the number of distinct terms.
func (b Bag) Len() int { return len(b.counts) }

// WithWeight returns a copy of b with the given weight.
func (b Bag) WithWeight(w float64) Bag {
	b.weight = w
	return b
}

func (b Bag) String() string {
	terms := b.Terms()
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = fmt.Sprintf("%s=%g", t, b.counts[t])
	}
	return fmt.Sprintf("%s:{%s}", b.name, strings.Join(parts, ","))
}
