package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	// Verify the result matches the actual system endianness
	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, result, "CheckEndianness() should return BigEndian")
	case 0x02:
		require.Equal(binary.LittleEndian, result, "CheckEndianness() should return LittleEndian")
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestIsNativePredicates(t *testing.T) {
	require := require.New(t)

	require.Equal(CheckEndianness() == binary.LittleEndian, IsNativeLittleEndian())
	require.Equal(CheckEndianness() == binary.BigEndian, IsNativeBigEndian())
	require.NotEqual(IsNativeLittleEndian(), IsNativeBigEndian())
}

func TestGetNativeEngine(t *testing.T) {
	require := require.New(t)

	engine := GetNativeEngine()
	if IsNativeLittleEndian() {
		require.Equal(binary.LittleEndian, engine)
	} else {
		require.Equal(binary.BigEndian, engine)
	}

	// Round trip through the native engine must reproduce the in-memory bytes.
	var v uint64 = 0x0102030405060708
	raw := (*[8]byte)(unsafe.Pointer(&v))

	var buf [8]byte
	engine.PutUint64(buf[:], v)
	require.Equal(raw[:], buf[:])
	require.Equal(v, engine.Uint64(buf[:]))
}

func TestGetFixedEngines(t *testing.T) {
	require := require.New(t)

	var buf [4]byte
	GetLittleEndianEngine().PutUint32(buf[:], 0x01020304)
	require.Equal([]byte{0x04, 0x03, 0x02, 0x01}, buf[:])

	GetBigEndianEngine().PutUint32(buf[:], 0x01020304)
	require.Equal([]byte{0x01, 0x02, 0x03, 0x04}, buf[:])
}
