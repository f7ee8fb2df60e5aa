package format

type (
	// DataType identifies the element type of the dataset an index was built over.
	DataType int32
	// Algorithm identifies the index algorithm stored in a file.
	Algorithm int32
	// CompressionType identifies the block compression codec recorded in the
	// header. It is stored as a 64-bit field on the wire.
	CompressionType uint64
)

const (
	DataTypeNone    DataType = -1
	DataTypeInt8    DataType = 0
	DataTypeInt16   DataType = 1
	DataTypeInt32   DataType = 2
	DataTypeInt64   DataType = 3
	DataTypeUint8   DataType = 4
	DataTypeUint16  DataType = 5
	DataTypeUint32  DataType = 6
	DataTypeUint64  DataType = 7
	DataTypeFloat32 DataType = 8
	DataTypeFloat64 DataType = 9
)

const (
	AlgorithmLinear       Algorithm = 0
	AlgorithmKDTree       Algorithm = 1
	AlgorithmKMeans       Algorithm = 2
	AlgorithmComposite    Algorithm = 3
	AlgorithmKDTreeSingle Algorithm = 4
	AlgorithmHierarchical Algorithm = 5
	AlgorithmLSH          Algorithm = 6
	AlgorithmSaved        Algorithm = 254
	AlgorithmAutotuned    Algorithm = 255
)

const (
	// CompressionLZ4 is the default codec and the only tag a legacy file may carry.
	CompressionLZ4  CompressionType = 1
	CompressionZstd CompressionType = 2
	CompressionS2   CompressionType = 3
	CompressionNone CompressionType = 4
)

func (d DataType) String() string {
	switch d {
	case DataTypeInt8:
		return "Int8"
	case DataTypeInt16:
		return "Int16"
	case DataTypeInt32:
		return "Int32"
	case DataTypeInt64:
		return "Int64"
	case DataTypeUint8:
		return "Uint8"
	case DataTypeUint16:
		return "Uint16"
	case DataTypeUint32:
		return "Uint32"
	case DataTypeUint64:
		return "Uint64"
	case DataTypeFloat32:
		return "Float32"
	case DataTypeFloat64:
		return "Float64"
	default:
		return "Unknown"
	}
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmLinear:
		return "Linear"
	case AlgorithmKDTree:
		return "KDTree"
	case AlgorithmKMeans:
		return "KMeans"
	case AlgorithmComposite:
		return "Composite"
	case AlgorithmKDTreeSingle:
		return "KDTreeSingle"
	case AlgorithmHierarchical:
		return "Hierarchical"
	case AlgorithmLSH:
		return "LSH"
	case AlgorithmSaved:
		return "Saved"
	case AlgorithmAutotuned:
		return "Autotuned"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionLZ4:
		return "LZ4"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionNone:
		return "None"
	default:
		return "Unknown"
	}
}
