// Package ensemble provides unsupervised clustering of records described by
// heterogeneous, weighted features.
//
// # Features
//
// A feature type binds a name to a centroid and a distance function. Types are
// registered once and frozen into a Registry:
//
//	b := feature.NewBuilder()
//	pos := feature.Register(b, "pos", centroid.NewMean, distance.VectorFunc(distance.MetricEuclidean), 1)
//	name := feature.Register(b, "name", centroid.NewMode, distance.EditDistance, 0.5)
//	reg, err := b.Build()
//
// The distance between two records is the weighted sum of the per-feature
// distances. Features missing on one side add their weight unless
// WithPenalizeMissingFeatures(false) is set.
//
// # Strategies
//
// Three strategies share one nearest-cluster engine:
//
//	// Single pass, order dependent.
//	th, _ := ensemble.NewThreshold(reg, 0.4)
//
//	// Iterative k-means with K-Means++ seeding.
//	km, _ := ensemble.NewKMeans(reg, 8, ensemble.WithMaxIterations(50), ensemble.WithSeed(1))
//
//	// Nonparametric k-means: new clusters beyond the threshold.
//	dp, _ := ensemble.NewDPMeans(reg, 0.4)
//
//	res, err := km.Cluster(ctx, ds)
//	for c := range res.All() {
//	    fmt.Println(c.ID(), c.Len())
//	}
//
// A strategy can also be built from a YAML file with LoadConfig and New.
//
// # Concurrency
//
// Candidate clusters are scanned in blocks on a process-wide worker pool
// sized to GOMAXPROCS. The pool starts lazily; call Terminate before the
// program exits. Block results are reduced so that the chosen cluster is the
// same as with a sequential scan, unless WithFirstCandidate is set.
//
// A Result's clusters are themselves records, so Result.AsDataset can be
// clustered again to build a hierarchy.
package ensemble
