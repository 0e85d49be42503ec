// Package feature defines the plugin contract of the clustering engine.
//
// A Feature is an immutable, named and weighted value attached to a record.
// A Centroid aggregates features of one kind, and a DistanceFunc scores the
// dissimilarity of two features of one kind. Both are bound to a feature name
// by registering them on a Builder:
//
//	b := feature.NewBuilder()
//	pos := feature.Register(b, "position", centroid.NewMean, distance.VectorFunc(distance.MetricEuclidean), 1.0)
//	reg, err := b.Build()
//
// The resulting Registry is immutable and shared by reference by every
// cluster of a run. The returned Type handle gives typed access to the
// feature of a record without downcasts at the call site:
//
//	v, ok := pos.Get(instance)
//
// # Built-in Kinds
//
//   - Vector: numeric vector
//   - Text: string
//   - Geo: geographic point (github.com/paulmach/orb)
//   - Interval: temporal interval
//   - Bag: bag of words (term frequencies)
//
// Any other type implementing Feature can be registered as well.
package feature
