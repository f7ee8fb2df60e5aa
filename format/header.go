package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/AndersHogqvist/flann/endian"
	"github.com/AndersHogqvist/flann/errs"
)

const (
	// HeaderSize is the fixed size of the header at the start of every index file.
	HeaderSize = 80

	// SignatureSize and VersionSize are the widths of the two text fields.
	SignatureSize = 24
	VersionSize   = 16

	// Signature identifies the current block-framed format. Legacy files carry
	// LegacySignature in the same field and are routed to the one-shot decoder.
	Signature       = "FLANN_INDEX_v1.1"
	LegacySignature = "FLANN_INDEX_v1.0"

	// Version is the library version recorded in new files. It is informational
	// and not inspected on load.
	Version = "1.9.2"

	signaturePrefix = "FLANN_INDEX"
)

// Header is the fixed-layout record at the start of every index file.
//
// All fields are stored in native byte order, matching the raw scalar
// encoding used by the serialization layer for everything after the header.
type Header struct {
	Signature [SignatureSize]byte // byte offset 0-23
	Version   [VersionSize]byte   // byte offset 24-39
	DataType  DataType            // byte offset 40-43
	Algorithm Algorithm           // byte offset 44-47
	Rows      uint64              // byte offset 48-55
	Cols      uint64              // byte offset 56-63
	// Compression is the block codec tag. It starts at zero and is patched to
	// the effective tag when the first block is flushed.
	Compression CompressionType // byte offset 64-71
	// FirstBlockSize is the compressed size of block 0 in the current format.
	// In the legacy format it holds the uncompressed payload size plus the
	// header size.
	FirstBlockSize uint64 // byte offset 72-79
}

// NewHeader creates a header for a new index file with the current signature
// and version. Compression and FirstBlockSize are filled in by the save
// archive when the first block is flushed.
func NewHeader(dataType DataType, algorithm Algorithm, rows, cols uint64) *Header {
	h := &Header{
		DataType:  dataType,
		Algorithm: algorithm,
		Rows:      rows,
		Cols:      cols,
	}
	copy(h.Signature[:], Signature)
	copy(h.Version[:], Version)

	return h
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 80 bytes)
//
// Returns:
//   - error: ErrInvalidSignature if the data does not carry a FLANN signature
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, want %d", errs.ErrInvalidSignature, len(data), HeaderSize)
	}

	copy(h.Signature[:], data[0:24])
	copy(h.Version[:], data[24:40])

	if !bytes.HasPrefix(h.Signature[:], []byte(signaturePrefix)) {
		return errs.ErrInvalidSignature
	}

	engine := endian.GetNativeEngine()
	h.DataType = DataType(int32(engine.Uint32(data[40:44])))
	h.Algorithm = Algorithm(int32(engine.Uint32(data[44:48])))
	h.Rows = engine.Uint64(data[48:56])
	h.Cols = engine.Uint64(data[56:64])
	h.Compression = CompressionType(engine.Uint64(data[64:72]))
	h.FirstBlockSize = engine.Uint64(data[72:80])

	return nil
}

// Bytes serializes the header into a freshly allocated 80-byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	copy(b[0:24], h.Signature[:])
	copy(b[24:40], h.Version[:])

	engine := endian.GetNativeEngine()
	engine.PutUint32(b[40:44], uint32(h.DataType))
	engine.PutUint32(b[44:48], uint32(h.Algorithm))
	engine.PutUint64(b[48:56], h.Rows)
	engine.PutUint64(b[56:64], h.Cols)
	engine.PutUint64(b[64:72], uint64(h.Compression))
	engine.PutUint64(b[72:80], h.FirstBlockSize)

	return b
}

// IsLegacy reports whether the signature marks the legacy single-block
// format. Legacy files were written with signature "FLANN_INDEX_v1.0"; the
// two version-digit bytes at offsets 13 and 15 distinguish it from every
// later signature.
func (h *Header) IsLegacy() bool {
	return h.Signature[13] == '1' && h.Signature[15] == '0'
}

// SignatureString returns the signature with trailing NULs stripped.
func (h *Header) SignatureString() string {
	return string(bytes.TrimRight(h.Signature[:], "\x00"))
}

// VersionString returns the version with trailing NULs stripped.
func (h *Header) VersionString() string {
	return string(bytes.TrimRight(h.Version[:], "\x00"))
}

// ReadHeader reads and parses one header from the start of r.
//
// Returns:
//   - *Header: Parsed header
//   - error: Read or signature validation error
func ReadHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("invalid index file, cannot read header: %w", err)
	}

	var h Header
	if err := h.Parse(buf); err != nil {
		return nil, err
	}

	return &h, nil
}
