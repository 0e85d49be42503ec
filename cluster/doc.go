// Package cluster provides the Cluster record, its factory and the Result of a
// clustering run.
//
// A Cluster is itself a feature.Record: its features are the centroids of its
// members, so distance functions compare records and clusters uniformly.
// Membership is tracked by dataset index in a roaring bitmap.
package cluster
