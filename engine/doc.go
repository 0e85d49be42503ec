// Package engine finds the nearest admissible cluster for a record and runs
// assignment passes over a dataset.
//
// BestCluster splits the candidate list into blocks and scans them on the
// process-wide worker pool. Block results are folded in completion order with
// a min-reduction that breaks score ties by candidate position, so the parallel
// search selects the same cluster as a sequential scan.
//
//	eng, err := engine.New(reg, policy, engine.WithBlockSize(64))
//	match, err := eng.BestCluster(ctx, rec, clusters)
package engine
