// Package compress provides the block compression codecs used by the index
// serialization layer.
//
// A codec operates on one block at a time: the save archive hands it an
// uncompressed block of at most serial.BlockBytes bytes and a destination
// buffer sized to the codec's worst-case bound, and the load archive hands
// the compressed bytes back with a destination block to fill. Codecs are
// created fresh per archive via NewBlockCompressor / NewBlockDecompressor so
// that any state a codec carries (the LZ4 high-compression context in
// particular) is never shared between two archives that are open at the same
// time.
//
// Supported codecs and their wire tags:
//
//   - LZ4 (tag 1): default, and the only tag accepted in legacy files
//   - Zstd (tag 2)
//   - S2 (tag 3)
//   - None (tag 4): pass-through, mainly for debugging and baselines
//
// Any other tag fails codec creation with errs.ErrCompressionNotSupported.
package compress
