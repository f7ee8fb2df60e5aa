package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2BlockCompressor compresses blocks with S2, the Snappy-compatible format
// from klauspost/compress. It is the fastest of the supported codecs at a
// lower compression ratio.
type S2BlockCompressor struct{}

var _ BlockCompressor = (*S2BlockCompressor)(nil)

// NewS2BlockCompressor creates a new S2 block compressor.
func NewS2BlockCompressor() *S2BlockCompressor {
	return &S2BlockCompressor{}
}

// Compress compresses src into dst using S2 and returns the compressed size.
func (c *S2BlockCompressor) Compress(src, dst []byte) (int, error) {
	out := s2.Encode(dst, src)
	if len(out) > len(dst) {
		return 0, fmt.Errorf("s2 block compression exceeded bound: %d > %d", len(out), len(dst))
	}

	return len(out), nil
}

// Bound returns the worst-case S2 output size for n input bytes.
func (c *S2BlockCompressor) Bound(n int) int {
	return s2.MaxEncodedLen(n)
}

// S2BlockDecompressor decompresses S2 blocks.
type S2BlockDecompressor struct{}

var _ BlockDecompressor = (*S2BlockDecompressor)(nil)

// NewS2BlockDecompressor creates a new S2 block decompressor.
func NewS2BlockDecompressor() *S2BlockDecompressor {
	return &S2BlockDecompressor{}
}

// Decompress decompresses src into dst and returns the decompressed size.
func (d *S2BlockDecompressor) Decompress(src, dst []byte) (int, error) {
	out, err := s2.Decode(dst, src)
	if err != nil {
		return 0, fmt.Errorf("s2 block decompression failed: %w", err)
	}
	if len(out) > len(dst) {
		return 0, fmt.Errorf("s2 block decompressed past destination: %d > %d", len(out), len(dst))
	}

	return len(out), nil
}

// Bound returns the worst-case S2 output size for n input bytes.
func (d *S2BlockDecompressor) Bound(n int) int {
	return s2.MaxEncodedLen(n)
}
