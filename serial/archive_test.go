package serial

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AndersHogqvist/flann/compress"
	"github.com/AndersHogqvist/flann/endian"
	"github.com/AndersHogqvist/flann/errs"
	"github.com/AndersHogqvist/flann/format"
)

func TestSaveArchiveHeaderFraming(t *testing.T) {
	require := require.New(t)

	data := saveBytes(t, newSampleState())

	// Block 0 opens with the verbatim header; its Compression and
	// FirstBlockSize fields were patched at the first flush.
	h, err := format.ReadHeader(bytes.NewReader(data))
	require.NoError(err)
	require.Equal(format.Signature, h.SignatureString())
	require.Equal(format.CompressionLZ4, h.Compression)
	require.Positive(h.FirstBlockSize)
	require.Equal(uint64(4), h.Rows)
	require.Equal(uint64(2), h.Cols)

	// One compressed chunk plus the zero sentinel.
	require.Equal(format.HeaderSize+int(h.FirstBlockSize)+prefixSize, len(data))
	sentinel := endian.GetNativeEngine().Uint64(data[len(data)-prefixSize:])
	require.Equal(uint64(0), sentinel)
}

func TestSaveArchiveUnsupportedCompression(t *testing.T) {
	header := format.NewHeader(format.DataTypeFloat32, format.AlgorithmLinear, 1, 1)
	_, err := NewSaveArchive(&bytes.Buffer{}, header, WithCompression(format.CompressionType(99)))
	require.ErrorIs(t, err, errs.ErrCompressionNotSupported)
}

func TestSaveArchiveValueTooLarge(t *testing.T) {
	require := require.New(t)

	header := format.NewHeader(format.DataTypeFloat32, format.AlgorithmLinear, 1, 1)
	ar, err := NewSaveArchive(&bytes.Buffer{}, header)
	require.NoError(err)
	defer ar.Close()

	require.ErrorIs(ar.transfer(make([]byte, BlockBytes)), errs.ErrValueTooLarge)
}

func TestSaveArchiveClosed(t *testing.T) {
	require := require.New(t)

	header := format.NewHeader(format.DataTypeFloat32, format.AlgorithmLinear, 1, 1)
	ar, err := NewSaveArchive(&bytes.Buffer{}, header)
	require.NoError(err)

	require.NoError(ar.Close())
	require.NoError(ar.Close(), "Close must be idempotent")

	var v uint64
	require.ErrorIs(Scalar(ar, &v), errs.ErrArchiveClosed)
}

func TestLoadArchiveInvalidSignature(t *testing.T) {
	garbage := make([]byte, 256)
	for i := range garbage {
		garbage[i] = byte(i)
	}

	_, err := NewLoadArchive(bytes.NewReader(garbage))
	require.ErrorIs(t, err, errs.ErrInvalidSignature)
}

func TestLoadArchiveTruncatedHeader(t *testing.T) {
	_, err := NewLoadArchive(bytes.NewReader(make([]byte, 20)))
	require.Error(t, err)
}

func TestLoadArchiveUnsupportedCompression(t *testing.T) {
	data := saveBytes(t, newSampleState())

	// Patch the compression tag to an unknown value.
	endian.GetNativeEngine().PutUint64(data[64:72], 99)

	_, err := NewLoadArchive(bytes.NewReader(data))
	require.ErrorIs(t, err, errs.ErrCompressionNotSupported)
}

func TestLoadArchiveFirstBlockTooLarge(t *testing.T) {
	data := saveBytes(t, newSampleState())

	// Patch FirstBlockSize past the codec bound for one block.
	endian.GetNativeEngine().PutUint64(data[72:80], 1<<32)

	_, err := NewLoadArchive(bytes.NewReader(data))
	require.ErrorIs(t, err, errs.ErrBlockSizeTooLarge)
}

func TestLoadArchiveCorruptBlockPrefix(t *testing.T) {
	require := require.New(t)

	// Multi-block stream so a second chunk with a length prefix exists.
	want := &blobStream{Payload: make([]byte, 2*BlockBytes)}
	data := saveBytes(t, want)

	h, err := format.ReadHeader(bytes.NewReader(data))
	require.NoError(err)
	prefixOff := format.HeaderSize + int(h.FirstBlockSize)
	endian.GetNativeEngine().PutUint64(data[prefixOff:prefixOff+prefixSize], 1<<40)

	ar, err := NewLoadArchive(bytes.NewReader(data))
	require.NoError(err)
	defer ar.Close()

	var got blobStream
	require.ErrorIs(Value(ar, &got), errs.ErrBlockSizeTooLarge)
}

func TestLoadArchiveReadPastEnd(t *testing.T) {
	require := require.New(t)

	// A stream holding one value, read back as two.
	one := &scalarStream{Values: []uint64{7}}
	data := saveBytes(t, one)

	ar, err := NewLoadArchive(bytes.NewReader(data))
	require.NoError(err)
	defer ar.Close()

	var got scalarStream
	require.NoError(Value(ar, &got))

	var extra uint64
	require.ErrorIs(Scalar(ar, &extra), errs.ErrReadPastEnd)
}

func TestLoadArchiveMissingSentinel(t *testing.T) {
	require := require.New(t)

	data := saveBytes(t, newSampleState())
	truncated := data[:len(data)-prefixSize]

	ar, err := NewLoadArchive(bytes.NewReader(truncated))
	require.NoError(err)

	var got sampleState
	require.NoError(Value(ar, &got))
	require.ErrorIs(ar.Close(), errs.ErrBadEndMarker)
}

func TestLoadArchiveBadSentinel(t *testing.T) {
	require := require.New(t)

	data := saveBytes(t, &emptyState{})
	data[len(data)-1] ^= 0xFF

	ar, err := NewLoadArchive(bytes.NewReader(data))
	require.NoError(err)

	var got emptyState
	require.NoError(Value(ar, &got))
	require.ErrorIs(ar.Close(), errs.ErrBadEndMarker)
}

func TestLoadArchiveClosed(t *testing.T) {
	require := require.New(t)

	data := saveBytes(t, &emptyState{})
	ar, err := NewLoadArchive(bytes.NewReader(data))
	require.NoError(err)
	require.NoError(ar.Close())
	require.NoError(ar.Close(), "Close must be idempotent")

	var v uint64
	require.ErrorIs(Scalar(ar, &v), errs.ErrArchiveClosed)
}

func TestLoadArchiveHeaderAccess(t *testing.T) {
	require := require.New(t)

	data := saveBytes(t, &emptyState{})
	ar, err := NewLoadArchive(bytes.NewReader(data))
	require.NoError(err)
	defer ar.Close()

	require.False(ar.IsLegacyFormat())
	require.Equal(format.DataTypeFloat32, ar.Header().DataType)
	require.Equal(format.AlgorithmLinear, ar.Header().Algorithm)
}

// legacyRecord mirrors the scalar layout used by buildLegacyStream.
type legacyRecord struct {
	Count  uint64
	Offset int32
	Scale  float32
}

func (r *legacyRecord) Walk(ar Archive) error {
	if err := Scalar(ar, &r.Count); err != nil {
		return err
	}
	if err := Scalar(ar, &r.Offset); err != nil {
		return err
	}

	return Scalar(ar, &r.Scale)
}

// buildLegacyStream writes a legacy v1.0 single-block file: 80-byte header
// with the legacy signature, followed by the whole payload as one LZ4 block,
// no length prefixes and no sentinel.
func buildLegacyStream(t *testing.T, r *legacyRecord, compression format.CompressionType) []byte {
	t.Helper()
	require := require.New(t)

	engine := endian.GetNativeEngine()
	payload := make([]byte, 16)
	engine.PutUint64(payload[0:8], r.Count)
	engine.PutUint32(payload[8:12], uint32(r.Offset))
	engine.PutUint32(payload[12:16], math.Float32bits(r.Scale))

	var h format.Header
	copy(h.Signature[:], format.LegacySignature)
	copy(h.Version[:], "1.8.4")
	h.DataType = format.DataTypeFloat32
	h.Algorithm = format.AlgorithmLinear
	h.Rows = 4
	h.Cols = 2
	h.Compression = compression
	h.FirstBlockSize = uint64(format.HeaderSize + len(payload))

	c := compress.NewLZ4BlockCompressor()
	compressed := make([]byte, c.Bound(len(payload)))
	compSz, err := c.Compress(payload, compressed)
	require.NoError(err)

	return append(h.Bytes(), compressed[:compSz]...)
}

func TestLoadArchiveLegacyFormat(t *testing.T) {
	require := require.New(t)

	want := &legacyRecord{Count: 123456, Offset: -42, Scale: 1.5}
	data := buildLegacyStream(t, want, format.CompressionLZ4)

	ar, err := NewLoadArchive(bytes.NewReader(data))
	require.NoError(err)
	require.True(ar.IsLegacyFormat())
	require.Equal(format.LegacySignature, ar.Header().SignatureString())

	var got legacyRecord
	require.NoError(Value(ar, &got))
	require.Equal(*want, got)

	// No sentinel in the legacy format; Close succeeds at end of payload.
	require.NoError(ar.Close())
}

func TestLoadArchiveLegacyReadPastEnd(t *testing.T) {
	require := require.New(t)

	data := buildLegacyStream(t, &legacyRecord{Count: 1}, format.CompressionLZ4)

	ar, err := NewLoadArchive(bytes.NewReader(data))
	require.NoError(err)
	defer ar.Close()

	var got legacyRecord
	require.NoError(Value(ar, &got))

	var extra uint64
	require.ErrorIs(Scalar(ar, &extra), errs.ErrReadPastEnd)
}

func TestLoadArchiveLegacyUnseekable(t *testing.T) {
	data := buildLegacyStream(t, &legacyRecord{Count: 9}, format.CompressionLZ4)

	// bytes.Buffer is a plain io.Reader without Seek.
	_, err := NewLoadArchive(bytes.NewBuffer(data))
	require.ErrorIs(t, err, errs.ErrUnseekableLegacyStream)
}

func TestLoadArchiveLegacyRejectsNonLZ4(t *testing.T) {
	data := buildLegacyStream(t, &legacyRecord{Count: 9}, format.CompressionZstd)

	_, err := NewLoadArchive(bytes.NewReader(data))
	require.ErrorIs(t, err, errs.ErrCompressionNotSupported)
}

func TestLoadArchiveLegacySizeMismatch(t *testing.T) {
	require := require.New(t)

	data := buildLegacyStream(t, &legacyRecord{Count: 9}, format.CompressionLZ4)

	// Declare a larger uncompressed size than the payload decodes to.
	endian.GetNativeEngine().PutUint64(data[72:80], uint64(format.HeaderSize+1024))

	_, err := NewLoadArchive(bytes.NewReader(data))
	require.ErrorIs(err, errs.ErrDecompressedSizeMismatch)
}
