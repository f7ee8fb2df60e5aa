// Package errs defines the sentinel errors shared across the flann packages.
//
// All errors are fatal for the operation that raised them: a failed save or
// load leaves the archive unusable and the file on disk should be treated as
// invalid. Callers can match specific failures with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidSignature indicates the file does not start with a FLANN index signature.
	ErrInvalidSignature = errors.New("invalid index file: bad signature")

	// ErrCompressionNotSupported indicates the header carries a compression tag
	// with no registered codec. This is the forward-compatibility guard for
	// future format revisions.
	ErrCompressionNotSupported = errors.New("compression type not supported")

	// ErrBlockSizeTooLarge indicates a compressed block's declared size exceeds
	// the worst-case bound for one block, which can only happen on a corrupt or
	// truncated file.
	ErrBlockSizeTooLarge = errors.New("requested block size too large")

	// ErrDecompressedSizeMismatch indicates a legacy payload did not decompress
	// to the size declared in its header.
	ErrDecompressedSizeMismatch = errors.New("unexpected decompression size")

	// ErrReadPastEnd indicates a read was requested beyond the last block of
	// the stream. The caller asked to deserialize more than was written.
	ErrReadPastEnd = errors.New("requested to read next block past end of stream")

	// ErrBadEndMarker indicates the end-of-stream sentinel was missing or
	// non-zero, typically because the file was truncated or has trailing data.
	ErrBadEndMarker = errors.New("invalid index file: last block not zero length")

	// ErrValueTooLarge indicates a single scalar value did not fit in one
	// block. This is a programming-contract violation, not a recoverable
	// condition: no value may be as large as the block capacity.
	ErrValueTooLarge = errors.New("single value exceeds block capacity")

	// ErrUnseekableLegacyStream indicates a legacy-format file was presented on
	// a stream that does not implement io.Seeker. The legacy decoder needs to
	// query the remaining stream length.
	ErrUnseekableLegacyStream = errors.New("legacy index format requires a seekable stream")

	// ErrArchiveClosed indicates use of an archive after Close.
	ErrArchiveClosed = errors.New("archive is closed")

	// ErrChecksumMismatch indicates the dataset attached to an index does not
	// match the fingerprint recorded when the index was saved.
	ErrChecksumMismatch = errors.New("dataset checksum mismatch")

	// ErrDataTypeMismatch indicates the element type recorded in the file does
	// not match the index being loaded into.
	ErrDataTypeMismatch = errors.New("index data type mismatch")

	// ErrAlgorithmMismatch indicates the index algorithm recorded in the file
	// does not match the index being loaded into.
	ErrAlgorithmMismatch = errors.New("index algorithm mismatch")

	// ErrShapeMismatch indicates the dataset shape recorded in the file does
	// not match the dataset attached to the index being loaded into.
	ErrShapeMismatch = errors.New("dataset shape mismatch")

	// ErrNoDataset indicates an index operation that needs an attached dataset
	// was invoked without one.
	ErrNoDataset = errors.New("index has no dataset attached")
)
