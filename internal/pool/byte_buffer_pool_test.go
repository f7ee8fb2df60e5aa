package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferSetLength(t *testing.T) {
	require := require.New(t)

	bb := NewByteBuffer(16)
	require.Equal(0, bb.Len())
	require.Equal(16, bb.Cap())

	bb.SetLength(8)
	require.Equal(8, bb.Len())
	require.Equal(16, bb.Cap())

	// Growing past the capacity reallocates and preserves existing content.
	copy(bb.B, []byte("12345678"))
	bb.SetLength(64)
	require.Equal(64, bb.Len())
	require.GreaterOrEqual(bb.Cap(), 64)
	require.Equal([]byte("12345678"), bb.B[:8])
}

func TestByteBufferWrite(t *testing.T) {
	require := require.New(t)

	bb := NewByteBuffer(4)
	n, err := bb.Write([]byte("hello"))
	require.NoError(err)
	require.Equal(5, n)
	require.Equal([]byte("hello"), bb.Bytes())

	var out bytes.Buffer
	written, err := bb.WriteTo(&out)
	require.NoError(err)
	require.Equal(int64(5), written)
	require.Equal("hello", out.String())

	bb.Reset()
	require.Equal(0, bb.Len())
}

func TestByteBufferPoolReuse(t *testing.T) {
	require := require.New(t)

	p := NewByteBufferPool(32, 64)

	bb := p.Get()
	require.NotNil(bb)
	require.Equal(32, bb.Cap())

	bb.SetLength(16)
	p.Put(bb)

	// Buffers come back reset.
	again := p.Get()
	require.Equal(0, again.Len())
	p.Put(again)
}

func TestByteBufferPoolDiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	bb := p.Get()
	bb.SetLength(128)
	p.Put(bb) // over threshold, dropped

	require.LessOrEqual(t, p.Get().Cap(), 16)
}

func TestByteBufferPoolPutNil(t *testing.T) {
	p := NewByteBufferPool(8, 16)
	p.Put(nil)

	PutBlockBuffer(nil)
	PutStagingBuffer(nil)
}

func TestDefaultPools(t *testing.T) {
	require := require.New(t)

	block := GetBlockBuffer()
	require.Equal(BlockBufferSize, block.Cap())
	block.SetLength(BlockBufferSize)
	PutBlockBuffer(block)

	staging := GetStagingBuffer()
	require.GreaterOrEqual(staging.Cap(), StagingBufferSize)
	PutStagingBuffer(staging)
}
