package index

import (
	"github.com/AndersHogqvist/flann/errs"
	"github.com/AndersHogqvist/flann/format"
	"github.com/AndersHogqvist/flann/serial"
)

// LinearIndex is the persisted form of the brute-force index. It has no
// acceleration structure of its own; the only state worth persisting is the
// fingerprint of the dataset it was built over.
type LinearIndex[T Element] struct {
	// Checksum is the dataset fingerprint recorded at save time.
	Checksum uint64

	dataset *Matrix[T]
}

var _ Index = (*LinearIndex[float32])(nil)

// NewLinearIndex creates a linear index over dataset. A nil dataset is
// allowed for load-then-attach flows, but saving requires one.
func NewLinearIndex[T Element](dataset *Matrix[T]) *LinearIndex[T] {
	return &LinearIndex[T]{dataset: dataset}
}

// Dataset returns the attached dataset, or nil.
func (x *LinearIndex[T]) Dataset() *Matrix[T] {
	return x.dataset
}

// Algorithm returns format.AlgorithmLinear.
func (x *LinearIndex[T]) Algorithm() format.Algorithm {
	return format.AlgorithmLinear
}

// DataType returns the dataset element tag.
func (x *LinearIndex[T]) DataType() format.DataType {
	return DataTypeOf[T]()
}

// Rows returns the attached dataset's row count, or zero.
func (x *LinearIndex[T]) Rows() uint64 {
	if x.dataset == nil {
		return 0
	}

	return x.dataset.Rows
}

// Cols returns the attached dataset's column count, or zero.
func (x *LinearIndex[T]) Cols() uint64 {
	if x.dataset == nil {
		return 0
	}

	return x.dataset.Cols
}

// Walk visits the persisted fields. On save the dataset fingerprint is
// recomputed first; on load it is verified against the attached dataset, if
// one is attached.
func (x *LinearIndex[T]) Walk(ar serial.Archive) error {
	// The dataset itself is a non-owned reference and stays off the wire.
	if err := serial.Ref(ar, &x.dataset); err != nil {
		return err
	}

	if !ar.IsLoading() {
		if x.dataset == nil {
			return errs.ErrNoDataset
		}
		x.Checksum = x.dataset.Fingerprint()
	}

	if err := serial.Scalar(ar, &x.Checksum); err != nil {
		return err
	}

	if ar.IsLoading() && x.dataset != nil && x.dataset.Fingerprint() != x.Checksum {
		return errs.ErrChecksumMismatch
	}

	return nil
}
