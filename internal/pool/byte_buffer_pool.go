// Package pool provides reusable byte buffers for the archive layer.
//
// Every open archive owns two block buffers and one compression staging
// buffer for its whole lifetime. Archives are typically short-lived (open,
// one pass, close), so the buffers are pooled to keep repeated save/load
// cycles allocation-free.
package pool

import (
	"io"
	"sync"
)

const (
	// BlockBufferSize matches the archive block capacity (64 KiB).
	BlockBufferSize = 1024 * 64

	// StagingBufferSize covers the worst-case compressed size of one block
	// plus the 8-byte length prefix, rounded up. Codec bounds for a 64 KiB
	// block stay well under this.
	StagingBufferSize = BlockBufferSize + BlockBufferSize/255 + 1024

	// stagingMaxThreshold discards oversized staging buffers on Put. Only the
	// legacy load path ever grows a buffer past the default size.
	stagingMaxThreshold = StagingBufferSize * 4
)

// ByteBuffer is a length-tracked byte slice handed out by the pools.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// SetLength sets the length of the buffer to n, growing the allocation when
// the current capacity is insufficient. Existing content is preserved up to
// the previous length.
func (bb *ByteBuffer) SetLength(n int) {
	if n <= cap(bb.B) {
		bb.B = bb.B[:n]
		return
	}

	newBuf := make([]byte, n)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally. The pool can be configured with a maximum
// capacity threshold to avoid retaining overly large buffers.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	blockDefaultPool   = NewByteBufferPool(BlockBufferSize, BlockBufferSize)
	stagingDefaultPool = NewByteBufferPool(StagingBufferSize, stagingMaxThreshold)
)

// GetBlockBuffer retrieves a block-sized ByteBuffer from the default pool.
func GetBlockBuffer() *ByteBuffer {
	return blockDefaultPool.Get()
}

// PutBlockBuffer returns a block buffer to the default pool.
func PutBlockBuffer(bb *ByteBuffer) {
	blockDefaultPool.Put(bb)
}

// GetStagingBuffer retrieves a staging ByteBuffer from the default pool.
func GetStagingBuffer() *ByteBuffer {
	return stagingDefaultPool.Get()
}

// PutStagingBuffer returns a staging buffer to the default pool.
func PutStagingBuffer(bb *ByteBuffer) {
	stagingDefaultPool.Put(bb)
}
