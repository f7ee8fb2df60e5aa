// Package flann persists nearest-neighbor index structures to a compact,
// block-compressed binary format and reconstructs them later.
//
// The format frames serialized data into 64 KiB blocks, compresses each
// block (LZ4 by default; Zstd, S2 and a pass-through codec are also
// available), and remains readable for files written by the earlier v1.0
// single-block format.
//
// # Basic Usage
//
// Saving an index:
//
//	dataset, _ := index.NewMatrix[float32](rows, cols, data)
//	idx := index.NewLinearIndex(dataset)
//	if err := flann.SaveIndexFile("index.flann", idx); err != nil {
//	    return err
//	}
//
// Loading it back requires attaching the same dataset; the dataset itself is
// not stored in the file, only its fingerprint:
//
//	idx := index.NewLinearIndex(dataset)
//	if err := flann.LoadIndexFile("index.flann", idx); err != nil {
//	    return err
//	}
//
// New persisted types only need a Walk method; see the serial package.
package flann

import (
	"fmt"
	"io"
	"os"

	"github.com/AndersHogqvist/flann/errs"
	"github.com/AndersHogqvist/flann/format"
	"github.com/AndersHogqvist/flann/index"
	"github.com/AndersHogqvist/flann/serial"
)

// Option configures the save path. It aliases serial.Option so callers can
// use flann.WithCompression without importing serial.
type Option = serial.Option

// WithCompression selects the block codec for a save. The default is LZ4.
func WithCompression(compressionType format.CompressionType) Option {
	return serial.WithCompression(compressionType)
}

// SaveIndex serializes idx to w in the current block-framed format.
//
// Parameters:
//   - w: Destination stream
//   - idx: Index to persist; must have a dataset attached
//   - opts: Optional configuration (WithCompression)
//
// Returns:
//   - error: Serialization, compression, or stream write error
func SaveIndex(w io.Writer, idx index.Index, opts ...Option) error {
	header := format.NewHeader(idx.DataType(), idx.Algorithm(), idx.Rows(), idx.Cols())

	ar, err := serial.NewSaveArchive(w, header, opts...)
	if err != nil {
		return err
	}

	walkErr := serial.Value(ar, idx)
	closeErr := ar.Close()
	if walkErr != nil {
		return walkErr
	}

	return closeErr
}

// SaveIndexFile serializes idx to a new file at path.
func SaveIndexFile(path string, idx index.Index, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	saveErr := SaveIndex(f, idx, opts...)
	closeErr := f.Close()
	if saveErr != nil {
		return saveErr
	}

	return closeErr
}

// LoadIndexInto deserializes an index from r into idx, which must be of the
// same algorithm and element type the file was written with. If idx has a
// dataset attached, the file's recorded shape and fingerprint are verified
// against it.
//
// Loading a legacy v1.0 file additionally requires r to implement io.Seeker.
//
// Returns:
//   - error: Header mismatch, format/corruption, or stream read error
func LoadIndexInto(r io.Reader, idx index.Index) error {
	ar, err := serial.NewLoadArchive(r)
	if err != nil {
		return err
	}

	if err := validateHeader(ar.Header(), idx); err != nil {
		_ = ar.Close()
		return err
	}

	walkErr := serial.Value(ar, idx)
	closeErr := ar.Close()
	if walkErr != nil {
		return walkErr
	}

	return closeErr
}

// LoadIndexFile deserializes an index from the file at path into idx.
func LoadIndexFile(path string, idx index.Index) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return LoadIndexInto(f, idx)
}

// IndexSize returns the exact number of payload bytes SaveIndex would place
// into its blocks for idx, excluding the file header and block framing.
func IndexSize(idx index.Index) (uint64, error) {
	ar := serial.NewSizeArchive()
	if err := serial.Value(ar, idx); err != nil {
		return 0, err
	}

	return ar.Size(), nil
}

// ReadIndexHeader reads only the header of an index file, without touching
// the payload. Useful for inspection tooling.
func ReadIndexHeader(r io.Reader) (*format.Header, error) {
	return format.ReadHeader(r)
}

func validateHeader(h *format.Header, idx index.Index) error {
	if h.DataType != idx.DataType() {
		return fmt.Errorf("%w: file has %s, index wants %s", errs.ErrDataTypeMismatch, h.DataType, idx.DataType())
	}
	if h.Algorithm != idx.Algorithm() {
		return fmt.Errorf("%w: file has %s, index wants %s", errs.ErrAlgorithmMismatch, h.Algorithm, idx.Algorithm())
	}
	if idx.Rows() != 0 && (h.Rows != idx.Rows() || h.Cols != idx.Cols()) {
		return fmt.Errorf("%w: file has %dx%d, attached dataset is %dx%d",
			errs.ErrShapeMismatch, h.Rows, h.Cols, idx.Rows(), idx.Cols())
	}

	return nil
}
