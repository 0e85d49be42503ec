// Package centroid implements feature.Centroid for the built-in feature kinds.
//
// Every centroid is weighted: a feature contributes proportionally to its
// Weight, and removing a previously added feature restores the prior state.
// Aggregate returns partial aggregates suitable for merging centroids that
// were built on separate partitions of a dataset.
package centroid
