package serial

import (
	"fmt"
	"io"

	"github.com/AndersHogqvist/flann/compress"
	"github.com/AndersHogqvist/flann/endian"
	"github.com/AndersHogqvist/flann/errs"
	"github.com/AndersHogqvist/flann/format"
	"github.com/AndersHogqvist/flann/internal/options"
	"github.com/AndersHogqvist/flann/internal/pool"
)

// Option configures a SaveArchive at construction.
type Option = options.Option[*SaveArchive]

// WithCompression selects the block codec recorded in the header and used
// for every block. The default is LZ4.
func WithCompression(compressionType format.CompressionType) Option {
	return options.NoError(func(a *SaveArchive) {
		a.compression = compressionType
	})
}

// SaveArchive is the writing-role archive. It accumulates serialized bytes
// into a fixed-capacity block, compresses each block as it fills, and frames
// the compressed chunks onto the output stream.
//
// The two block buffers alternate on every flush: the block just flushed
// stays intact while the next one fills, so a codec that uses the previous
// block as compression history always finds it materialized. The
// compression context lives in the archive's own codec instance and is never
// shared with another archive.
//
// A SaveArchive serializes exactly one stream in one linear pass. It is not
// safe for concurrent use. Close flushes the final partial block, writes the
// end-of-stream sentinel, and releases the buffers; after a failed write the
// archive must be discarded and the output treated as unusable.
type SaveArchive struct {
	w      io.Writer
	header *format.Header

	compression format.CompressionType
	compressor  compress.BlockCompressor

	blocks  [2]*pool.ByteBuffer
	staging *pool.ByteBuffer
	active  int
	offset  int

	firstBlock bool
	closed     bool
}

var _ Archive = (*SaveArchive)(nil)

// NewSaveArchive creates a saving archive over w.
//
// The header is written as part of the first block; its Compression and
// FirstBlockSize fields are patched when that block is flushed, so the
// caller only fills in the identity and shape fields.
//
// Parameters:
//   - w: Destination stream
//   - header: Header for the new file; retained and patched by the archive
//   - opts: Optional configuration (WithCompression)
//
// Returns:
//   - *SaveArchive: Open archive positioned after the header
//   - error: Invalid option or unsupported compression tag
func NewSaveArchive(w io.Writer, header *format.Header, opts ...Option) (*SaveArchive, error) {
	a := &SaveArchive{
		w:           w,
		header:      header,
		compression: format.CompressionLZ4,
		firstBlock:  true,
	}
	if err := options.Apply(a, opts...); err != nil {
		return nil, err
	}

	compressor, err := compress.NewBlockCompressor(a.compression)
	if err != nil {
		return nil, err
	}
	a.compressor = compressor

	for i := range a.blocks {
		a.blocks[i] = pool.GetBlockBuffer()
		a.blocks[i].SetLength(BlockBytes)
	}
	a.staging = pool.GetStagingBuffer()
	a.staging.SetLength(format.HeaderSize + a.compressor.Bound(BlockBytes))

	// The header occupies the front of block 0; the write cursor starts
	// right behind it.
	copy(a.blocks[0].B[:format.HeaderSize], header.Bytes())
	a.offset = format.HeaderSize

	return a, nil
}

// IsLoading reports false.
func (a *SaveArchive) IsLoading() bool {
	return false
}

func (a *SaveArchive) transfer(p []byte) error {
	if a.closed {
		return errs.ErrArchiveClosed
	}
	if len(p) >= BlockBytes {
		return fmt.Errorf("%w: %d bytes", errs.ErrValueTooLarge, len(p))
	}

	if a.offset+len(p) > BlockBytes {
		if err := a.flushBlock(); err != nil {
			return err
		}
	}
	copy(a.blocks[a.active].B[a.offset:], p)
	a.offset += len(p)

	return nil
}

func (a *SaveArchive) transferBinary(p []byte) error {
	if a.closed {
		return errs.ErrArchiveClosed
	}

	for len(p) > 0 {
		if a.offset == BlockBytes {
			if err := a.flushBlock(); err != nil {
				return err
			}
		}
		n := min(BlockBytes-a.offset, len(p))
		copy(a.blocks[a.active].B[a.offset:], p[:n])
		a.offset += n
		p = p[n:]
	}

	return nil
}

// flushBlock compresses the accumulated bytes of the active block, frames
// and writes the compressed chunk, and swaps to the other block.
func (a *SaveArchive) flushBlock() error {
	block := a.blocks[a.active].B
	staging := a.staging.B

	var chunk []byte
	if a.firstBlock {
		// The first chunk is framed by the file header instead of a length
		// prefix: patch the compression tag and compressed size into the
		// header and prepend its bytes verbatim, uncompressed.
		headSz := format.HeaderSize
		compSz, err := a.compressor.Compress(block[headSz:a.offset], staging[headSz:])
		if err != nil {
			return fmt.Errorf("error compressing first block: %w", err)
		}

		a.header.Compression = a.compression
		a.header.FirstBlockSize = uint64(compSz)
		copy(staging[:headSz], a.header.Bytes())

		chunk = staging[:headSz+compSz]
		a.firstBlock = false
	} else {
		compSz, err := a.compressor.Compress(block[:a.offset], staging[prefixSize:])
		if err != nil {
			return fmt.Errorf("error compressing block: %w", err)
		}

		endian.GetNativeEngine().PutUint64(staging[:prefixSize], uint64(compSz))
		chunk = staging[:prefixSize+compSz]
	}

	if _, err := a.w.Write(chunk); err != nil {
		return fmt.Errorf("cannot write block to stream: %w", err)
	}

	// Swap to the other block so the flushed bytes stay available as
	// compression history for the next flush.
	a.active = 1 - a.active
	a.offset = 0

	return nil
}

// Close flushes the remaining partial block, writes the zero-length
// end-of-stream sentinel, and releases the archive's buffers. Close is
// idempotent; the first call's error stands.
func (a *SaveArchive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	defer a.release()

	// The first block always has at least the header pending, so an archive
	// with no serialized values still produces a well-formed file.
	if a.offset > 0 {
		if err := a.flushBlock(); err != nil {
			return err
		}
	}

	var sentinel [prefixSize]byte
	if _, err := a.w.Write(sentinel[:]); err != nil {
		return fmt.Errorf("cannot write end marker to stream: %w", err)
	}

	return nil
}

func (a *SaveArchive) release() {
	for i := range a.blocks {
		pool.PutBlockBuffer(a.blocks[i])
		a.blocks[i] = nil
	}
	pool.PutStagingBuffer(a.staging)
	a.staging = nil
}
