package serial

// BlockBytes is the capacity of one uncompressed block, the unit of
// compression. It is a compile-time constant shared by the save and load
// paths and is deliberately not recorded in the file header, so every
// implementation reading these files must agree on it.
const BlockBytes = 1024 * 64

// prefixSize is the width of the compressed-length prefix framing every
// block after the first, and of the zero end-of-stream sentinel.
const prefixSize = 8

// Archive is the abstract stream a Walk method serializes through. Exactly
// three implementations exist: SaveArchive and SizeArchive in the saving
// role, and LoadArchive in the loading role. The interface is sealed; user
// code interacts with it only through the package-level dispatch helpers.
type Archive interface {
	// IsLoading reports the archive role. Walk methods that need to do
	// direction-specific work (recompute a checksum on save, rebuild derived
	// state on load) branch on it; plain field visits do not need it.
	IsLoading() bool

	// transfer moves len(p) bytes between the stream and p. The value must be
	// smaller than one block.
	transfer(p []byte) error

	// transferBinary moves len(p) bytes of raw blob data, splitting across
	// blocks as needed. Any length is accepted.
	transferBinary(p []byte) error
}

// Codable is implemented by any type that persists itself through an
// archive. Walk must visit the same fields in the same order regardless of
// the archive role.
type Codable interface {
	Walk(ar Archive) error
}
