// Package index provides the persisted forms of the nearest-neighbor index
// structures: the dataset matrix and per-algorithm index snapshots that know
// how to walk their fields through a serial.Archive.
//
// Index types hold their dataset as a non-owned reference. The reference is
// excluded from the wire format; callers attach the dataset again when
// loading, and the recorded fingerprint is verified against it to catch
// dataset drift between save and load.
package index

import (
	"github.com/AndersHogqvist/flann/format"
	"github.com/AndersHogqvist/flann/serial"
)

// Index is the contract between a persisted index structure and the archive
// facade: one symmetric field-walking method plus the identity and shape
// metadata recorded in the file header.
type Index interface {
	serial.Codable

	// Algorithm identifies the index structure.
	Algorithm() format.Algorithm

	// DataType identifies the dataset element type.
	DataType() format.DataType

	// Rows and Cols describe the attached dataset's shape; both are zero
	// when no dataset is attached.
	Rows() uint64
	Cols() uint64
}

// Element bounds the dataset element types an index can be built over.
// The types are listed without approximation so the element type maps
// one-to-one onto a format.DataType tag.
type Element interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// DataTypeOf returns the wire tag for element type T.
func DataTypeOf[T Element]() format.DataType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return format.DataTypeInt8
	case int16:
		return format.DataTypeInt16
	case int32:
		return format.DataTypeInt32
	case int64:
		return format.DataTypeInt64
	case uint8:
		return format.DataTypeUint8
	case uint16:
		return format.DataTypeUint16
	case uint32:
		return format.DataTypeUint32
	case uint64:
		return format.DataTypeUint64
	case float32:
		return format.DataTypeFloat32
	case float64:
		return format.DataTypeFloat64
	default:
		return format.DataTypeNone
	}
}
