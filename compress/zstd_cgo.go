//go:build flann_cgo_zstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// Compress compresses src into dst using the libzstd bindings and returns
// the compressed size.
func (c *ZstdBlockCompressor) Compress(src, dst []byte) (int, error) {
	out := gozstd.CompressLevel(dst[:0], src, 3)
	if len(out) > len(dst) {
		return 0, fmt.Errorf("zstd block compression exceeded bound: %d > %d", len(out), len(dst))
	}
	copy(dst, out)

	return len(out), nil
}

// Decompress decompresses src into dst and returns the decompressed size.
func (d *ZstdBlockDecompressor) Decompress(src, dst []byte) (int, error) {
	out, err := gozstd.Decompress(dst[:0], src)
	if err != nil {
		return 0, fmt.Errorf("zstd block decompression failed: %w", err)
	}
	if len(out) > len(dst) {
		return 0, fmt.Errorf("zstd block decompressed past destination: %d > %d", len(out), len(dst))
	}
	copy(dst, out)

	return len(out), nil
}
