package serial

import (
	"fmt"
	"io"

	"github.com/AndersHogqvist/flann/compress"
	"github.com/AndersHogqvist/flann/endian"
	"github.com/AndersHogqvist/flann/errs"
	"github.com/AndersHogqvist/flann/format"
	"github.com/AndersHogqvist/flann/internal/pool"
)

// LoadArchive is the reading-role archive. At construction it reads the file
// header, routes between the current block-framed format and the legacy
// single-block format, and decompresses the first block; after that, reads
// are satisfied from the active block, pulling in further blocks on demand.
//
// Like SaveArchive it owns its decompression context and buffers, reads one
// stream in one linear pass, and is not safe for concurrent use. A load that
// returns an error leaves the archive unusable; it must be closed and
// discarded, never retried.
type LoadArchive struct {
	r      io.Reader
	header format.Header

	decompressor compress.BlockDecompressor

	blocks  [2]*pool.ByteBuffer
	staging *pool.ByteBuffer
	active  int

	// flat replaces the double buffer on the legacy path: the whole payload
	// is decompressed up front into one buffer and never advanced.
	flat     *pool.ByteBuffer
	isLegacy bool

	cursor int
	valid  int
	closed bool
}

var _ Archive = (*LoadArchive)(nil)

// NewLoadArchive creates a loading archive over r and reads the stream up to
// the end of the first block.
//
// Legacy-format files additionally require r to implement io.Seeker, because
// the one-shot decoder has to query the remaining stream length; unseekable
// streams fail with errs.ErrUnseekableLegacyStream.
//
// Returns:
//   - *LoadArchive: Open archive positioned after the header
//   - error: Header, signature, compression tag, or first-block decode error
func NewLoadArchive(r io.Reader) (*LoadArchive, error) {
	a := &LoadArchive{r: r}
	if err := a.initBlock(); err != nil {
		a.release()
		return nil, err
	}

	return a, nil
}

// Header returns the header read from the stream.
func (a *LoadArchive) Header() *format.Header {
	return &a.header
}

// IsLegacyFormat reports whether the stream was written by the legacy v1.0
// single-block format.
func (a *LoadArchive) IsLegacyFormat() bool {
	return a.isLegacy
}

// IsLoading reports true.
func (a *LoadArchive) IsLoading() bool {
	return true
}

func (a *LoadArchive) initBlock() error {
	var headBuf [format.HeaderSize]byte
	if _, err := io.ReadFull(a.r, headBuf[:]); err != nil {
		return fmt.Errorf("invalid index file, cannot read header: %w", err)
	}
	if err := a.header.Parse(headBuf[:]); err != nil {
		return err
	}

	if a.header.IsLegacy() {
		return a.initLegacy(headBuf[:])
	}

	decompressor, err := compress.NewBlockDecompressor(a.header.Compression)
	if err != nil {
		return err
	}
	a.decompressor = decompressor

	for i := range a.blocks {
		a.blocks[i] = pool.GetBlockBuffer()
		a.blocks[i].SetLength(BlockBytes)
	}
	a.staging = pool.GetStagingBuffer()
	a.staging.SetLength(a.decompressor.Bound(BlockBytes))

	if a.header.FirstBlockSize > uint64(a.decompressor.Bound(BlockBytes)) {
		return errs.ErrBlockSizeTooLarge
	}

	// The header bytes sit at the front of the first block, exactly as the
	// save path laid them out; the payload decompresses in behind them.
	block := a.blocks[a.active].B
	copy(block[:format.HeaderSize], headBuf[:])
	n, err := a.loadBlock(block[format.HeaderSize:], int(a.header.FirstBlockSize))
	if err != nil {
		return err
	}
	a.valid = format.HeaderSize + n
	a.cursor = format.HeaderSize

	return nil
}

// loadBlock reads compSz compressed bytes from the stream and decompresses
// them into dst, returning the decompressed size.
func (a *LoadArchive) loadBlock(dst []byte, compSz int) (int, error) {
	staging := a.staging.B[:compSz]
	if _, err := io.ReadFull(a.r, staging); err != nil {
		return 0, fmt.Errorf("invalid index file, cannot read block: %w", err)
	}

	n, err := a.decompressor.Decompress(staging, dst)
	if err != nil {
		return 0, fmt.Errorf("invalid index file, cannot decompress block: %w", err)
	}

	return n, nil
}

// advance swaps to the other block, reads the next length prefix, and
// decompresses the next block. It is called whenever a read would cross past
// the end of the valid bytes in the active block.
func (a *LoadArchive) advance() error {
	if a.isLegacy {
		// The legacy format is one flat buffer; there is nothing after it.
		return errs.ErrReadPastEnd
	}

	a.active = 1 - a.active

	var prefix [prefixSize]byte
	if _, err := io.ReadFull(a.r, prefix[:]); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrReadPastEnd, err)
	}
	compSz := endian.GetNativeEngine().Uint64(prefix[:])
	if compSz == 0 {
		return errs.ErrReadPastEnd
	}
	if compSz > uint64(a.decompressor.Bound(BlockBytes)) {
		return errs.ErrBlockSizeTooLarge
	}

	n, err := a.loadBlock(a.blocks[a.active].B[:BlockBytes], int(compSz))
	if err != nil {
		return err
	}
	a.valid = n
	a.cursor = 0

	return nil
}

// buf returns the buffer reads are currently served from.
func (a *LoadArchive) buf() []byte {
	if a.isLegacy {
		return a.flat.B
	}

	return a.blocks[a.active].B
}

func (a *LoadArchive) transfer(p []byte) error {
	if a.closed {
		return errs.ErrArchiveClosed
	}
	if len(p) >= BlockBytes {
		return fmt.Errorf("%w: %d bytes", errs.ErrValueTooLarge, len(p))
	}

	if a.cursor+len(p) > a.valid {
		if err := a.advance(); err != nil {
			return err
		}
		if len(p) > a.valid {
			// The writer never splits a single value across blocks, so a
			// value overrunning a fresh block means the stream is corrupt.
			return errs.ErrReadPastEnd
		}
	}
	copy(p, a.buf()[a.cursor:a.cursor+len(p)])
	a.cursor += len(p)

	return nil
}

func (a *LoadArchive) transferBinary(p []byte) error {
	if a.closed {
		return errs.ErrArchiveClosed
	}

	for len(p) > 0 {
		if a.cursor == a.valid {
			if err := a.advance(); err != nil {
				return err
			}
		}
		n := min(a.valid-a.cursor, len(p))
		copy(p[:n], a.buf()[a.cursor:])
		a.cursor += n
		p = p[n:]
	}

	return nil
}

// initLegacy decodes a legacy v1.0 file: the entire remainder of the stream
// is one compressed payload, decompressed in a single call into a flat
// buffer sized by the header's declared uncompressed size.
func (a *LoadArchive) initLegacy(headBuf []byte) error {
	a.isLegacy = true

	seeker, ok := a.r.(io.Seeker)
	if !ok {
		return errs.ErrUnseekableLegacyStream
	}

	// Legacy files predate the compression tag enum; LZ4 is the only value
	// ever written.
	if a.header.Compression != format.CompressionLZ4 {
		return errs.ErrCompressionNotSupported
	}

	headSz := uint64(format.HeaderSize)
	if a.header.FirstBlockSize < headSz {
		return fmt.Errorf("%w: declared size %d smaller than header", errs.ErrDecompressedSizeMismatch, a.header.FirstBlockSize)
	}
	uncompressedSz := a.header.FirstBlockSize - headSz

	// Determine how many compressed bytes remain past the header.
	pos, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("invalid index file, cannot query stream position: %w", err)
	}
	end, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("invalid index file, cannot query stream length: %w", err)
	}
	if _, err := seeker.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("invalid index file, cannot reposition stream: %w", err)
	}
	compressedSz := end - pos

	compBuf := pool.GetStagingBuffer()
	defer pool.PutStagingBuffer(compBuf)
	compBuf.SetLength(int(compressedSz))
	if _, err := io.ReadFull(a.r, compBuf.B); err != nil {
		return fmt.Errorf("invalid index file, cannot read legacy payload: %w", err)
	}

	a.flat = pool.GetStagingBuffer()
	a.flat.SetLength(int(headSz + uncompressedSz))

	decompressor := compress.NewLZ4BlockDecompressor()
	n, err := decompressor.Decompress(compBuf.B, a.flat.B[headSz:])
	if err != nil {
		return fmt.Errorf("invalid index file, cannot decompress legacy payload: %w", err)
	}
	if uint64(n) != uncompressedSz {
		return fmt.Errorf("%w: got %d, want %d", errs.ErrDecompressedSizeMismatch, n, uncompressedSz)
	}

	// Keep the header bytes in front of the payload, mirroring the current
	// format's first-block layout.
	copy(a.flat.B[:headSz], headBuf)
	a.valid = len(a.flat.B)
	a.cursor = int(headSz)

	return nil
}

// Close verifies the end-of-stream sentinel (current format only) and
// releases the archive's buffers. Close is idempotent; the first call's
// error stands.
func (a *LoadArchive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	defer a.release()

	if !a.isLegacy {
		var prefix [prefixSize]byte
		if _, err := io.ReadFull(a.r, prefix[:]); err != nil {
			return fmt.Errorf("%w: cannot read end marker: %v", errs.ErrBadEndMarker, err)
		}
		if endian.GetNativeEngine().Uint64(prefix[:]) != 0 {
			return errs.ErrBadEndMarker
		}
	}

	return nil
}

func (a *LoadArchive) release() {
	for i := range a.blocks {
		pool.PutBlockBuffer(a.blocks[i])
		a.blocks[i] = nil
	}
	pool.PutStagingBuffer(a.staging)
	a.staging = nil
	pool.PutStagingBuffer(a.flat)
	a.flat = nil
}
