package cluster

import (
	"iter"
	"slices"

	"github.com/hupe1980/ensemble/feature"
	"github.com/hupe1980/ensemble/model"
)

// Result is the outcome of a clustering run: the final clusters over a dataset.
type Result struct {
	dataset    *model.Dataset
	clusters   []*Cluster
	iterations int
}

// NewResult creates a Result. The clusters slice is copied.
func NewResult(ds *model.Dataset, clusters []*Cluster, iterations int) *Result {
	return &Result{
		dataset:    ds,
		clusters:   slices.Clone(clusters),
		iterations: iterations,
	}
}

// Len returns the number of clusters.
func (r *Result) Len() int { return len(r.clusters) }

// At returns the i-th cluster.
func (r *Result) At(i int) *Cluster { return r.clusters[i] }

// Clusters returns a copy of the cluster list.
func (r *Result) Clusters() []*Cluster { return slices.Clone(r.clusters) }

// All iterates over the clusters.
func (r *Result) All() iter.Seq[*Cluster] {
	return func(yield func(*Cluster) bool) {
		for _, c := range r.clusters {
			if !yield(c) {
				return
			}
		}
	}
}

// Iterations returns the number of passes the run performed.
func (r *Result) Iterations() int { return r.iterations }

// Dataset returns the clustered dataset.
func (r *Result) Dataset() *model.Dataset { return r.dataset }

// Members returns the member records of c in dataset order.
func (r *Result) Members(c *Cluster) []feature.Record {
	out := make([]feature.Record, 0, c.Len())
	for idx := range c.All() {
		out = append(out, r.dataset.At(idx))
	}
	return out
}

// Assignments maps every dataset index to the position of its cluster in the
// result, or -1 if the record belongs to none.
func (r *Result) Assignments() []int {
	out := make([]int, r.dataset.Len())
	for i := range out {
		out[i] = -1
	}
	for ci, c := range r.clusters {
		for idx := range c.All() {
			if idx < len(out) {
				out[idx] = ci
			}
		}
	}
	return out
}

// AsDataset returns the clusters as a dataset of records, ready to be
// clustered again.
func (r *Result) AsDataset() *model.Dataset {
	ds := model.NewDataset()
	for _, c := range r.clusters {
		ds.Add(c)
	}
	return ds
}
