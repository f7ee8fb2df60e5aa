package index

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/AndersHogqvist/flann/internal/hash"
	"github.com/AndersHogqvist/flann/serial"
)

// Matrix is a dense row-major rows x cols dataset over a flat slice.
//
// The element data is caller-owned: a Matrix handed to an index is only ever
// read through, never freed or mutated by the persistence layer.
type Matrix[T Element] struct {
	Rows uint64
	Cols uint64
	Data []T
}

// NewMatrix creates a matrix over data, which must hold exactly rows*cols
// elements.
func NewMatrix[T Element](rows, cols uint64, data []T) (*Matrix[T], error) {
	if uint64(len(data)) != rows*cols {
		return nil, fmt.Errorf("matrix data holds %d elements, want %d (%dx%d)", len(data), rows*cols, rows, cols)
	}

	return &Matrix[T]{Rows: rows, Cols: cols, Data: data}, nil
}

// Row returns the i-th row as a sub-slice of the backing data.
func (m *Matrix[T]) Row(i uint64) []T {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Fingerprint computes the xxHash64 of the element bytes. Indexes record it
// on save and verify it against the re-attached dataset on load.
func (m *Matrix[T]) Fingerprint() uint64 {
	return hash.Fingerprint(m.bytes())
}

// matrixChunkElems bounds how many elements a loading Walk grows the data
// slice by per read. The shape comes off the wire and may be corrupt, so the
// allocation must track what the stream actually delivers.
const matrixChunkElems = 1 << 16

// Walk serializes the shape followed by the element data as one raw blob,
// bypassing per-element dispatch.
func (m *Matrix[T]) Walk(ar serial.Archive) error {
	if err := serial.Scalar(ar, &m.Rows); err != nil {
		return err
	}
	if err := serial.Scalar(ar, &m.Cols); err != nil {
		return err
	}
	if !ar.IsLoading() {
		return serial.RawScalars(ar, m.Data)
	}

	if m.Cols != 0 && m.Rows > math.MaxUint64/m.Cols {
		return fmt.Errorf("matrix shape %dx%d overflows element count", m.Rows, m.Cols)
	}

	m.Data = nil
	for remaining := m.Rows * m.Cols; remaining > 0; {
		chunk := remaining
		if chunk > matrixChunkElems {
			chunk = matrixChunkElems
		}
		start := len(m.Data)
		m.Data = append(m.Data, make([]T, int(chunk))...)
		if err := serial.RawScalars(ar, m.Data[start:]); err != nil {
			return err
		}
		remaining -= chunk
	}

	return nil
}

var _ serial.Codable = (*Matrix[float32])(nil)

// bytes returns a read-only byte view over the element data.
func (m *Matrix[T]) bytes() []byte {
	if len(m.Data) == 0 {
		return nil
	}
	var zero T

	return unsafe.Slice((*byte)(unsafe.Pointer(&m.Data[0])), uintptr(len(m.Data))*unsafe.Sizeof(zero))
}
