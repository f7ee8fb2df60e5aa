package compress

import (
	"github.com/AndersHogqvist/flann/errs"
	"github.com/AndersHogqvist/flann/format"
)

// BlockCompressor compresses one block of serialized index data at a time.
//
// Implementations may carry internal state across calls (hash tables,
// history windows), so a compressor instance must be owned by exactly one
// archive and used from a single goroutine for a single linear pass over a
// single stream.
type BlockCompressor interface {
	// Compress compresses src into dst and returns the number of bytes
	// written. dst must be at least Bound(len(src)) bytes long; the result is
	// always non-empty and self-contained, so the matching BlockDecompressor
	// can decode it without out-of-band information.
	Compress(src, dst []byte) (int, error)

	// Bound returns the worst-case compressed size for n input bytes.
	Bound(n int) int
}

// BlockDecompressor decompresses blocks produced by the matching
// BlockCompressor. Like compressors, an instance belongs to exactly one
// archive.
type BlockDecompressor interface {
	// Decompress decompresses src into dst and returns the number of bytes
	// produced. dst must be large enough for the decompressed block; a block
	// never decompresses to more than serial.BlockBytes bytes in the current
	// format.
	Decompress(src, dst []byte) (int, error)

	// Bound returns the worst-case compressed size for n input bytes. The
	// load path uses it to reject corrupt length prefixes before reading.
	Bound(n int) int
}

// NewBlockCompressor creates a fresh compressor for the given tag.
//
// Parameters:
//   - compressionType: Wire tag (LZ4, Zstd, S2 or None)
//
// Returns:
//   - BlockCompressor: New compressor instance owned by the caller
//   - error: errs.ErrCompressionNotSupported for unknown tags
func NewBlockCompressor(compressionType format.CompressionType) (BlockCompressor, error) {
	switch compressionType {
	case format.CompressionLZ4:
		return NewLZ4BlockCompressor(), nil
	case format.CompressionZstd:
		return NewZstdBlockCompressor(), nil
	case format.CompressionS2:
		return NewS2BlockCompressor(), nil
	case format.CompressionNone:
		return NewNoOpBlockCodec(), nil
	default:
		return nil, errs.ErrCompressionNotSupported
	}
}

// NewBlockDecompressor creates a fresh decompressor for the given tag.
//
// Returns:
//   - BlockDecompressor: New decompressor instance owned by the caller
//   - error: errs.ErrCompressionNotSupported for unknown tags
func NewBlockDecompressor(compressionType format.CompressionType) (BlockDecompressor, error) {
	switch compressionType {
	case format.CompressionLZ4:
		return NewLZ4BlockDecompressor(), nil
	case format.CompressionZstd:
		return NewZstdBlockDecompressor(), nil
	case format.CompressionS2:
		return NewS2BlockDecompressor(), nil
	case format.CompressionNone:
		return NewNoOpBlockCodec(), nil
	default:
		return nil, errs.ErrCompressionNotSupported
	}
}
