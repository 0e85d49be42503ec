// Package testutil provides testing utilities for ensemble.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source, synthetic datasets with known
// structure and a purity score to check clusterings against it.
//
// # Synthetic Data
//
//	rng := testutil.NewRNG(seed)
//	ds := rng.Blobs("pos", [][]float64{{0, 0}, {10, 10}}, 50, 0.5)
//
// # Verification
//
//	purity := testutil.Purity(testutil.Labels(ds), res.Assignments())
package testutil
