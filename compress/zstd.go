package compress

// ZstdBlockCompressor compresses blocks with Zstandard. It trades some
// compression speed for a better ratio than the default LZ4 codec, which
// suits indexes that are written once and loaded many times.
//
// Two implementations exist: the default pure-Go one built on
// klauspost/compress, and a cgo one built on valyala/gozstd selected with
// the flann_cgo_zstd build tag.
type ZstdBlockCompressor struct{}

var _ BlockCompressor = (*ZstdBlockCompressor)(nil)

// NewZstdBlockCompressor creates a new Zstd block compressor.
func NewZstdBlockCompressor() *ZstdBlockCompressor {
	return &ZstdBlockCompressor{}
}

// Bound returns the worst-case Zstd output size for n input bytes: input
// size plus frame and raw-block overhead. Blocks handed to this codec are at
// most 64 KiB, well inside a single Zstd block.
func (c *ZstdBlockCompressor) Bound(n int) int {
	return n + n/255 + 64
}

// ZstdBlockDecompressor decompresses Zstd blocks.
type ZstdBlockDecompressor struct{}

var _ BlockDecompressor = (*ZstdBlockDecompressor)(nil)

// NewZstdBlockDecompressor creates a new Zstd block decompressor.
func NewZstdBlockDecompressor() *ZstdBlockDecompressor {
	return &ZstdBlockDecompressor{}
}

// Bound returns the worst-case Zstd output size for n input bytes.
func (d *ZstdBlockDecompressor) Bound(n int) int {
	return n + n/255 + 64
}
