package distance

import (
	"math"
	"strings"
	"time"

	"github.com/hupe1980/ensemble/feature"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// VectorFunc returns a vector distance function for the given metric.
// Unknown metrics fall back to MetricEuclidean.
func VectorFunc(m Metric) feature.DistanceFunc[feature.Vector] {
	fn, err := Provider(m)
	if err != nil {
		fn = Euclidean
	}
	return func(a, b feature.Vector) float64 {
		return fn(a.Values(), b.Values())
	}
}

// ExactMatch returns 0 for case-insensitively equal strings and 1 otherwise.
func ExactMatch(a, b feature.Text) float64 {
	if strings.EqualFold(a.Value(), b.Value()) {
		return 0
	}
	return 1
}

// EditDistance returns the normalized Levenshtein distance of two strings.
func EditDistance(a, b feature.Text) float64 {
	return NormalizedLevenshtein(a.Value(), b.Value())
}

// Haversine returns the great-circle distance of two points normalized by
// half the earth circumference, in [0, 1].
func Haversine(a, b feature.Geo) float64 {
	return HaversinePoints(a.Point(), b.Point())
}

// HaversinePoints is the normalized great-circle distance of two orb points.
func HaversinePoints(a, b orb.Point) float64 {
	d := geo.DistanceHaversine(a, b) / (math.Pi * orb.EarthRadius)
	return math.Min(1, math.Max(0, d))
}

// dayDuration is the length assumed for zero-length intervals.
const dayDuration = 24 * time.Hour

// Overlap returns 1 - 2*overlap/(len(a)+len(b)) for two intervals.
// Disjoint intervals are at distance 1, identical ones at 0.
// Instants count as one day long.
func Overlap(a, b feature.Interval) float64 {
	if b.Start().After(a.End()) || a.Start().After(b.End()) {
		return 1
	}
	if a.Start().Equal(b.Start()) && a.End().Equal(b.End()) {
		return 0
	}

	s := a.Start()
	if b.Start().After(s) {
		s = b.Start()
	}
	e := a.End()
	if b.End().Before(e) {
		e = b.End()
	}

	d := 1 - 2*spanOf(s, e)/(spanOf(a.Start(), a.End())+spanOf(b.Start(), b.End()))
	return math.Min(1, math.Max(0, d))
}

func spanOf(start, end time.Time) float64 {
	d := end.Sub(start)
	if d == 0 {
		d = dayDuration
	}
	return float64(d)
}

// BagCosine returns 1 - cosine similarity of two term frequency bags.
// Two empty bags are at distance 1.
func BagCosine(a, b feature.Bag) float64 {
	var dot, na, nb float64
	for _, t := range a.Terms() {
		x := a.Count(t)
		na += x * x
		dot += x * b.Count(t)
	}
	for _, t := range b.Terms() {
		y := b.Count(t)
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
	return math.Min(1, math.Max(0, d))
}
