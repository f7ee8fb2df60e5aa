package compress

import "fmt"

// NoOpBlockCodec passes blocks through unchanged. It is useful for
// debugging the framing layer, for baseline benchmarks, and for data that is
// already compressed.
//
// Pass-through blocks still go through the normal length-prefix framing, so
// files written with this codec remain self-describing.
type NoOpBlockCodec struct{}

var (
	_ BlockCompressor   = (*NoOpBlockCodec)(nil)
	_ BlockDecompressor = (*NoOpBlockCodec)(nil)
)

// NewNoOpBlockCodec creates a new pass-through codec.
func NewNoOpBlockCodec() *NoOpBlockCodec {
	return &NoOpBlockCodec{}
}

// Compress copies src into dst and returns its length.
func (c *NoOpBlockCodec) Compress(src, dst []byte) (int, error) {
	if len(src) > len(dst) {
		return 0, fmt.Errorf("pass-through block exceeds destination: %d > %d", len(src), len(dst))
	}
	copy(dst, src)

	return len(src), nil
}

// Decompress copies src into dst and returns its length.
func (c *NoOpBlockCodec) Decompress(src, dst []byte) (int, error) {
	if len(src) > len(dst) {
		return 0, fmt.Errorf("pass-through block exceeds destination: %d > %d", len(src), len(dst))
	}
	copy(dst, src)

	return len(src), nil
}

// Bound returns n: pass-through output never grows.
func (c *NoOpBlockCodec) Bound(n int) int {
	return n
}
