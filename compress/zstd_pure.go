//go:build !flann_cgo_zstd

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdEncoderPool pools zstd encoders for reuse to eliminate allocation
// overhead. EncodeAll is stateless, so pooled encoders carry no per-stream
// history and sharing the pool across archives is safe.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			// This should never happen with valid options
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}
		return encoder
	},
}

// zstdDecoderPool pools zstd decoders for reuse. The klauspost decoder is
// designed to operate without allocations after a warmup.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			// This should never happen with valid options
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}
		return decoder
	},
}

// Compress compresses src into dst using Zstandard and returns the
// compressed size.
func (c *ZstdBlockCompressor) Compress(src, dst []byte) (int, error) {
	encoder := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	out := encoder.EncodeAll(src, dst[:0])
	if len(out) > len(dst) {
		return 0, fmt.Errorf("zstd block compression exceeded bound: %d > %d", len(out), len(dst))
	}
	// EncodeAll only reallocates when dst was too small, so this copy is
	// normally a no-op onto the same backing array.
	copy(dst, out)

	return len(out), nil
}

// Decompress decompresses src into dst and returns the decompressed size.
func (d *ZstdBlockDecompressor) Decompress(src, dst []byte) (int, error) {
	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	out, err := decoder.DecodeAll(src, dst[:0])
	if err != nil {
		return 0, fmt.Errorf("zstd block decompression failed: %w", err)
	}
	if len(out) > len(dst) {
		return 0, fmt.Errorf("zstd block decompressed past destination: %d > %d", len(out), len(dst))
	}
	copy(dst, out)

	return len(out), nil
}
