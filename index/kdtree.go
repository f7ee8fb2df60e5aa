package index

import (
	"github.com/AndersHogqvist/flann/errs"
	"github.com/AndersHogqvist/flann/format"
	"github.com/AndersHogqvist/flann/serial"
)

// SplitNode is one node of a flattened randomized kd-tree. Interior nodes
// split on DivFeat at DivVal; leaves carry the dataset row in PointIndex and
// have DivFeat == -1. Child links are indexes into the owning tree's node
// slice, -1 when absent.
type SplitNode struct {
	DivFeat    int32
	DivVal     float32
	Left       int32
	Right      int32
	PointIndex int32
}

// Walk visits all node fields in a fixed order.
func (n *SplitNode) Walk(ar serial.Archive) error {
	if err := serial.Scalar(ar, &n.DivFeat); err != nil {
		return err
	}
	if err := serial.Scalar(ar, &n.DivVal); err != nil {
		return err
	}
	if err := serial.Scalar(ar, &n.Left); err != nil {
		return err
	}
	if err := serial.Scalar(ar, &n.Right); err != nil {
		return err
	}

	return serial.Scalar(ar, &n.PointIndex)
}

// Tree is one randomized kd-tree in flattened form.
type Tree struct {
	Root  int32
	Nodes []SplitNode
}

// Walk visits the root index, then the flattened node array.
func (t *Tree) Walk(ar serial.Archive) error {
	if err := serial.Scalar(ar, &t.Root); err != nil {
		return err
	}

	return serial.Slice(ar, &t.Nodes, serial.Struct[SplitNode])
}

// KDTreeIndex is the persisted form of the randomized kd-tree forest index.
type KDTreeIndex[T Element] struct {
	// Checksum is the dataset fingerprint recorded at save time.
	Checksum uint64

	// Trees holds the flattened randomized trees.
	Trees []Tree

	// Vind is the shuffled dataset row permutation the trees were built over.
	Vind []int32

	dataset *Matrix[T]
}

var (
	_ Index          = (*KDTreeIndex[float32])(nil)
	_ serial.Codable = (*Tree)(nil)
	_ serial.Codable = (*SplitNode)(nil)
)

// NewKDTreeIndex creates a kd-tree index over dataset. A nil dataset is
// allowed for load-then-attach flows, but saving requires one.
func NewKDTreeIndex[T Element](dataset *Matrix[T]) *KDTreeIndex[T] {
	return &KDTreeIndex[T]{dataset: dataset}
}

// Dataset returns the attached dataset, or nil.
func (x *KDTreeIndex[T]) Dataset() *Matrix[T] {
	return x.dataset
}

// Algorithm returns format.AlgorithmKDTree.
func (x *KDTreeIndex[T]) Algorithm() format.Algorithm {
	return format.AlgorithmKDTree
}

// DataType returns the dataset element tag.
func (x *KDTreeIndex[T]) DataType() format.DataType {
	return DataTypeOf[T]()
}

// Rows returns the attached dataset's row count, or zero.
func (x *KDTreeIndex[T]) Rows() uint64 {
	if x.dataset == nil {
		return 0
	}

	return x.dataset.Rows
}

// Cols returns the attached dataset's column count, or zero.
func (x *KDTreeIndex[T]) Cols() uint64 {
	if x.dataset == nil {
		return 0
	}

	return x.dataset.Cols
}

// Walk visits the persisted fields: fingerprint, tree forest, and row
// permutation. The dataset reference stays off the wire.
func (x *KDTreeIndex[T]) Walk(ar serial.Archive) error {
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
	if err := serial.Slice(ar, &x.Trees, serial.Struct[Tree]); err != nil {
		return err
	}
	if err := serial.ScalarSlice(ar, &x.Vind); err != nil {
		return err
	}

	if ar.IsLoading() && x.dataset != nil && x.dataset.Fingerprint() != x.Checksum {
		return errs.ErrChecksumMismatch
	}

	return nil
}
