// Package serial implements the generic serialization layer behind index
// persistence: a type-driven dispatch API over three archive roles, and the
// block-compressed stream format the save and load archives speak.
//
// # Dispatch
//
// A persisted type implements Codable with a single Walk method that visits
// its fields in a fixed order through the package-level helpers. The same
// method serves saving and loading; the direction is decided by the archive
// it is handed:
//
//	type Params struct {
//		Trees    int32
//		Branches []int32
//	}
//
//	func (p *Params) Walk(ar serial.Archive) error {
//		if err := serial.Scalar(ar, &p.Trees); err != nil {
//			return err
//		}
//		return serial.ScalarSlice(ar, &p.Branches)
//	}
//
// Fields with no built-in helper and no Walk method simply do not compile
// against this API; there is no runtime registry and no reflection.
//
// # Stream format
//
// SaveArchive serializes values into 64 KiB blocks, compresses each full
// block, and frames the compressed chunks with 8-byte length prefixes; the
// stream opens with a fixed 80-byte header and ends with a zero-length
// sentinel. LoadArchive reads the same framing, and falls back to a one-shot
// decoder for files written by the legacy v1.0 single-block format.
//
// Archives are single-threaded, single-pass objects: one archive per stream,
// constructed, walked once, and closed.
package serial
