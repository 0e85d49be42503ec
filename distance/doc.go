// Package distance provides distance functions for the built-in feature kinds.
//
// Raw metrics operate on plain values and are backed by gonum for vectors and
// orb for geographic points. Feature-level functions wrap them into
// feature.DistanceFunc values ready to be registered.
//
// # Supported Metrics
//
//   - MetricEuclidean: Euclidean distance, range [0, +Inf)
//   - MetricSquaredL2: Squared Euclidean distance, range [0, +Inf)
//   - MetricManhattan: L1 distance, range [0, +Inf)
//   - MetricCosine: 1 - cosine similarity, range [0, 2]
//
// Every other built-in function is normalized to [0, 1].
//
// # Usage
//
//	b := feature.NewBuilder()
//	feature.Register(b, "pos", centroid.NewMean, distance.VectorFunc(distance.MetricEuclidean), 1)
//	feature.Register(b, "loc", centroid.NewGeo, distance.Haversine, 0.5)
//	feature.Register(b, "name", centroid.NewMode, distance.EditDistance, 0.5)
package distance
