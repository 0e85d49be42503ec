// Package model defines the records that are clustered.
//
// # Identity
//
//   - Instance: an id plus an ordered set of named features
//   - Dataset: the arena holding the records of a run; records are addressed
//     by their dense index, which is what clusters store as membership
//
// Datasets may hold any feature.Record, including clusters from a previous
// run, which is how hierarchical clusterings are built.
package model
