package dataset

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"
)

// Dataset is an immutable labeled feature matrix.
type Dataset struct {
	features *mat.Dense
	labels   []string
	classes  []string
	rows     map[string]*roaring.Bitmap
}

// New pairs features with labels. Row i of features belongs to labels[i].
// The Dataset takes ownership of both arguments.
func New(features *mat.Dense, labels []string) (*Dataset, error) {
	if features == nil || features.IsEmpty() {
		return nil, fmt.Errorf("%w: empty feature matrix", ErrInvalidDataset)
	}
	r, _ := features.Dims()
	if r != len(labels) {
		return nil, fmt.Errorf("%w: %d rows but %d labels", ErrInvalidDataset, r, len(labels))
	}

	ds := &Dataset{
		features: features,
		labels:   labels,
		rows:     make(map[string]*roaring.Bitmap),
	}
	for i, label := range labels {
		bm, ok := ds.rows[label]
		if !ok {
			bm = roaring.New()
			ds.rows[label] = bm
			ds.classes = append(ds.classes, label)
		}
		bm.Add(uint32(i))
	}
	for _, bm := range ds.rows {
		bm.RunOptimize()
	}
	return ds, nil
}

// Features returns the N×L feature matrix. Callers must not modify it.
func (ds *Dataset) Features() *mat.Dense { return ds.features }

// Labels returns a copy of the label vector.
func (ds *Dataset) Labels() []string {
	out := make([]string, len(ds.labels))
	copy(out, ds.labels)
	return out
}

// Label returns the label of row i.
func (ds *Dataset) Label(i int) string { return ds.labels[i] }

// Dims returns the number of samples and features.
func (ds *Dataset) Dims() (rows, cols int) { return ds.features.Dims() }

// Len returns the number of samples.
func (ds *Dataset) Len() int { return len(ds.labels) }

// Row returns a copy of the feature vector of row i.
func (ds *Dataset) Row(i int) []float64 {
	return mat.Row(nil, i, ds.features)
}

// Classes returns the labels present in the dataset in row order of first appearance.
func (ds *Dataset) Classes() []string {
	out := make([]string, len(ds.classes))
	copy(out, ds.classes)
	return out
}

// Rows returns the row indices of label. The result is a copy.
// Labels without rows yield an empty bitmap.
func (ds *Dataset) Rows(label string) *roaring.Bitmap {
	bm, ok := ds.rows[label]
	if !ok {
		return roaring.New()
	}
	return bm.Clone()
}

// ClassCounts returns the number of rows per present label.
func (ds *Dataset) ClassCounts() map[string]int {
	out := make(map[string]int, len(ds.rows))
	for label, bm := range ds.rows {
		out[label] = int(bm.GetCardinality())
	}
	return out
}

// Summary returns a one-line human-readable description of the shapes.
func (ds *Dataset) Summary() string {
	r, c := ds.Dims()
	return fmt.Sprintf("Dataset ready. X.shape = (%d, %d), y.shape = (%d,)", r, c, len(ds.labels))
}

// Equal reports whether both datasets have identical features and labels.
func (ds *Dataset) Equal(other *Dataset) bool {
	if ds == nil || other == nil {
		return ds == other
	}
	if len(ds.labels) != len(other.labels) {
		return false
	}
	for i := range ds.labels {
		if ds.labels[i] != other.labels[i] {
			return false
		}
	}
	r1, c1 := ds.Dims()
	r2, c2 := other.Dims()
	return r1 == r2 && c1 == c2 && mat.Equal(ds.features, other.features)
}
