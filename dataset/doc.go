// Package dataset stacks per-sample feature vectors into a labeled matrix.
//
// A Dataset pairs an N×L feature matrix (gonum mat.Dense) with a label vector
// of length N. Row i of the matrix belongs to label i. Rows of one class are
// indexed by a roaring bitmap, so class slices can be taken without scanning
// the label vector.
//
// # Building
//
//	b := dataset.NewBuilder(samples,
//		dataset.WithWorkers(8),
//		dataset.WithResourceController(rc),
//	)
//	ds, err := b.Build(ctx)
//	switch {
//	case errors.Is(err, dataset.ErrEmptyDataset):
//		// nothing ingested yet
//	case errors.Is(err, dataset.ErrShapeMismatch):
//		// ragged images
//	}
//	fmt.Println(ds.Summary()) // Dataset ready. X.shape = (3, 16), y.shape = (3,)
package dataset
