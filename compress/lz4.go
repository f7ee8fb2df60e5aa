package compress

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// LZ4BlockCompressor compresses blocks with LZ4 at the high-compression
// level used by the original C implementation (level 9).
//
// The embedded lz4.CompressorHC keeps internal match tables between calls
// and is not safe for concurrent use, which is exactly the streaming
// compression context the archive model calls for: one instance per open
// archive, never shared.
type LZ4BlockCompressor struct {
	hc lz4.CompressorHC
}

var _ BlockCompressor = (*LZ4BlockCompressor)(nil)

// NewLZ4BlockCompressor creates a new LZ4 block compressor with its own
// compression context.
func NewLZ4BlockCompressor() *LZ4BlockCompressor {
	return &LZ4BlockCompressor{
		hc: lz4.CompressorHC{Level: lz4.Level9},
	}
}

// Compress compresses src into dst using LZ4 HC.
//
// lz4.CompressorHC reports incompressible input by returning zero bytes, but
// the block framing needs every block to produce a non-empty self-contained
// chunk (a zero length on the wire is the end-of-stream sentinel). For that
// case the input is stored as a single literal-only LZ4 sequence, which any
// LZ4 block decoder accepts and which always fits within Bound(len(src)).
func (c *LZ4BlockCompressor) Compress(src, dst []byte) (int, error) {
	n, err := c.hc.CompressBlock(src, dst)
	if err != nil {
		return 0, fmt.Errorf("lz4 block compression failed: %w", err)
	}
	if n == 0 {
		n = appendLiteralBlock(src, dst)
	}

	return n, nil
}

// Bound returns the worst-case LZ4 output size for n input bytes.
func (c *LZ4BlockCompressor) Bound(n int) int {
	return lz4.CompressBlockBound(n)
}

// appendLiteralBlock encodes src as one literal-only LZ4 sequence in dst and
// returns the encoded size. A block whose final (and only) sequence has no
// match part is valid per the LZ4 block format.
func appendLiteralBlock(src, dst []byte) int {
	n := len(src)
	i := 0
	if n < 15 {
		dst[0] = byte(n) << 4
		i = 1
	} else {
		dst[0] = 0xF0
		i = 1
		rem := n - 15
		for rem >= 255 {
			dst[i] = 255
			i++
			rem -= 255
		}
		dst[i] = byte(rem)
		i++
	}
	copy(dst[i:], src)

	return i + n
}

// LZ4BlockDecompressor decompresses LZ4 blocks.
type LZ4BlockDecompressor struct{}

var _ BlockDecompressor = (*LZ4BlockDecompressor)(nil)

// NewLZ4BlockDecompressor creates a new LZ4 block decompressor.
func NewLZ4BlockDecompressor() *LZ4BlockDecompressor {
	return &LZ4BlockDecompressor{}
}

// Decompress decompresses src into dst and returns the decompressed size.
func (d *LZ4BlockDecompressor) Decompress(src, dst []byte) (int, error) {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return 0, fmt.Errorf("lz4 block decompression failed: %w", err)
	}

	return n, nil
}

// Bound returns the worst-case LZ4 output size for n input bytes.
func (d *LZ4BlockDecompressor) Bound(n int) int {
	return lz4.CompressBlockBound(n)
}
