package model

import (
	"iter"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/ensemble/feature"
)

// Dataset is an ordered arena of records with unique ids.
// Iteration order is insertion order, which single-pass algorithms depend on.
type Dataset struct {
	records []feature.Record
	index   map[string]int
}

// NewDataset creates a dataset holding the given records.
func NewDataset(records ...feature.Record) *Dataset {
	ds := &Dataset{index: make(map[string]int, len(records))}
	for _, r := range records {
		ds.Add(r)
	}
	return ds
}

// Add appends r and returns its index. A record with an id already present
// replaces the old one in place; replaced reports whether that happened.
func (d *Dataset) Add(r feature.Record) (idx int, replaced bool) {
	if i, ok := d.index[r.ID()]; ok {
		d.records[i] = r
		return i, true
	}
	d.records = append(d.records, r)
	d.index[r.ID()] = len(d.records) - 1
	return len(d.records) - 1, false
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the record at index i.
func (d *Dataset) At(i int) feature.Record { return d.records[i] }

// Get returns the record with the given id.
func (d *Dataset) Get(id string) (feature.Record, bool) {
	i, ok := d.index[id]
	if !ok {
		return nil, false
	}
	return d.records[i], true
}

// Index returns the arena index of the record with the given id.
func (d *Dataset) Index(id string) (int, bool) {
	i, ok := d.index[id]
	return i, ok
}

// Contains reports whether a record with the given id is present.
func (d *Dataset) Contains(id string) bool {
	_, ok := d.index[id]
	return ok
}

// All iterates over the records in order.
func (d *Dataset) All() iter.Seq2[int, feature.Record] {
	return func(yield func(int, feature.Record) bool) {
		for i, r := range d.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Records returns a copy of the record slice.
func (d *Dataset) Records() []feature.Record {
	return append([]feature.Record(nil), d.records...)
}

// Shuffler is the subset of *rand.Rand used to sample and fold datasets.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

func permutation(rng Shuffler, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	swap := func(i, j int) { perm[i], perm[j] = perm[j], perm[i] }
	if rng == nil {
		rand.Shuffle(n, swap)
	} else {
		rng.Shuffle(n, swap)
	}
	return perm
}

// Sample returns a random subset holding round(Len*fraction) records.
// Fractions above 1 are clamped; a non-positive fraction yields an empty dataset.
// A nil rng uses the global source.
func (d *Dataset) Sample(rng Shuffler, fraction float64) *Dataset {
	sample := NewDataset()
	if fraction <= 0 || len(d.records) == 0 {
		return sample
	}
	fraction = math.Min(fraction, 1)

	n := int(math.Round(float64(len(d.records)) * fraction))
	for _, i := range permutation(rng, len(d.records))[:n] {
		sample.Add(d.records[i])
	}
	return sample
}

// Folds partitions the records randomly into n folds of near-equal size; the
// remainder is spread over the first folds. It returns nil if n < 1 or n > Len.
func (d *Dataset) Folds(rng Shuffler, n int) []*Dataset {
	if n < 1 || n > len(d.records) {
		return nil
	}

	perm := permutation(rng, len(d.records))
	size, extra := len(d.records)/n, len(d.records)%n

	folds := make([]*Dataset, n)
	for i := range folds {
		folds[i] = NewDataset()
		for _, j := range perm[i*size : (i+1)*size] {
			folds[i].Add(d.records[j])
		}
	}
	for i := range extra {
		folds[i].Add(d.records[perm[len(perm)-extra+i]])
	}
	return folds
}

// Normalize returns a copy of d in which the vector feature called name is
// z-score normalized per dimension across all instances. Only *Instance
// records whose vector has the dimension of the first one are rewritten.
// Dimensions with zero deviation are only centered. If no instance carries a
// vector feature of that name, d itself is returned.
func (d *Dataset) Normalize(name string) *Dataset {
	var (
		idx  []int
		vecs []feature.Vector
	)
	for i, r := range d.records {
		inst, ok := r.(*Instance)
		if !ok {
			continue
		}
		f, ok := inst.Feature(name)
		if !ok {
			continue
		}
		v, ok := f.(feature.Vector)
		if !ok || (len(vecs) > 0 && v.Dim() != vecs[0].Dim()) {
			continue
		}
		idx = append(idx, i)
		vecs = append(vecs, v)
	}
	if len(vecs) == 0 {
		return d
	}

	dim := vecs[0].Dim()
	means, stds := make([]float64, dim), make([]float64, dim)
	col := make([]float64, len(vecs))
	for j := range dim {
		for k, v := range vecs {
			col[k] = v.Values()[j]
		}
		means[j], stds[j] = stat.MeanStdDev(col, nil)
		if stds[j] == 0 || math.IsNaN(stds[j]) {
			stds[j] = 1
		}
	}

	out := &Dataset{
		records: append([]feature.Record(nil), d.records...),
		index:   make(map[string]int, len(d.index)),
	}
	for id, i := range d.index {
		out.index[id] = i
	}
	for k, i := range idx {
		vals := make([]float64, dim)
		for j, x := range vecs[k].Values() {
			vals[j] = (x - means[j]) / stds[j]
		}
		nv := feature.NewVector(name, vals...).WithWeight(vecs[k].Weight())
		out.records[i] = out.records[i].(*Instance).With(nv)
	}
	return out
}
