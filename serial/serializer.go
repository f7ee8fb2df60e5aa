package serial

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// ScalarValue bounds the types that serialize as raw fixed-width byte
// copies in native byte order.
type ScalarValue interface {
	constraints.Integer | constraints.Float | ~bool
}

// ValueFunc serializes one value of type T through ar. The package-level
// helpers (Scalar, Enum, String, Struct, ...) satisfy it, so element codecs
// compose: serial.Slice(ar, &xs, serial.Scalar[int32]).
type ValueFunc[T any] func(ar Archive, v *T) error

// codablePtr constrains PT to be a pointer to T that implements Codable.
type codablePtr[T any] interface {
	*T
	Codable
}

// preallocBytes caps how much storage a decoded count may reserve before any
// of its elements have been read. Counts are stream data and may be corrupt;
// storage beyond this grows only as decoded elements actually arrive, so a
// bad count ends in a stream error instead of an oversized allocation.
const preallocBytes = 1 << 20

// prealloc returns a bounded initial capacity for n elements of elemSize
// bytes each.
func prealloc(n uint64, elemSize uintptr) int {
	if elemSize == 0 {
		elemSize = 1
	}
	if maxElems := preallocBytes / uint64(elemSize); n > maxElems {
		return int(maxElems)
	}

	return int(n)
}

// readBytes reads n stream bytes, growing the result chunk by chunk so the
// allocation never runs ahead of the data the stream can deliver.
func readBytes(ar Archive, n uint64) ([]byte, error) {
	buf := make([]byte, 0, prealloc(n, 1))
	for remaining := n; remaining > 0; {
		chunk := remaining
		if chunk > preallocBytes {
			chunk = preallocBytes
		}
		start := len(buf)
		buf = append(buf, make([]byte, int(chunk))...)
		if err := ar.transferBinary(buf[start:]); err != nil {
			return nil, err
		}
		remaining -= chunk
	}

	return buf, nil
}

// Value serializes a Codable value through ar.
func Value(ar Archive, v Codable) error {
	return v.Walk(ar)
}

// Struct adapts a Codable struct type to a ValueFunc so it can be used as a
// slice or map element codec. The pointer type is inferred:
//
//	serial.Slice(ar, &t.Nodes, serial.Struct[Node])
func Struct[T any, PT codablePtr[T]](ar Archive, v *T) error {
	return PT(v).Walk(ar)
}

// Scalar serializes a fixed-width value as a raw copy of its in-memory
// bytes. This is the primitive every other helper bottoms out in.
func Scalar[T ScalarValue](ar Archive, v *T) error {
	p := unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
	return ar.transfer(p)
}

// Enum serializes an enumeration as a 4-byte signed integer on the wire,
// regardless of the enum's in-memory width.
func Enum[E constraints.Integer](ar Archive, v *E) error {
	w := int32(*v)
	if err := Scalar(ar, &w); err != nil {
		return err
	}
	if ar.IsLoading() {
		*v = E(w)
	}

	return nil
}

// String serializes a string as a count followed by its bytes.
func String(ar Archive, v *string) error {
	n := uint64(len(*v))
	if err := Scalar(ar, &n); err != nil {
		return err
	}

	if ar.IsLoading() {
		buf, err := readBytes(ar, n)
		if err != nil {
			return err
		}
		*v = string(buf)

		return nil
	}

	return ar.transferBinary([]byte(*v))
}

// Slice serializes a growable sequence: element count, then each element in
// order through fn. Loading appends decoded elements in order, so order is
// preserved exactly and the slice only grows as far as the stream reaches.
func Slice[T any](ar Archive, v *[]T, fn ValueFunc[T]) error {
	n := uint64(len(*v))
	if err := Scalar(ar, &n); err != nil {
		return err
	}
	if ar.IsLoading() {
		var zero T
		out := make([]T, 0, prealloc(n, unsafe.Sizeof(zero)))
		for i := uint64(0); i < n; i++ {
			var elem T
			if err := fn(ar, &elem); err != nil {
				return err
			}
			out = append(out, elem)
		}
		*v = out

		return nil
	}
	for i := range *v {
		if err := fn(ar, &(*v)[i]); err != nil {
			return err
		}
	}

	return nil
}

// Array serializes a fixed-length sequence without a count. The caller
// passes the array as a slice (v[:]); loading fills the elements in place.
func Array[T any](ar Archive, v []T, fn ValueFunc[T]) error {
	for i := range v {
		if err := fn(ar, &v[i]); err != nil {
			return err
		}
	}

	return nil
}

// RawScalars serializes a fixed-length run of scalar values as one raw blob,
// bypassing per-element dispatch. The byte layout matches an element-wise
// Scalar loop, so the two encodings are interchangeable on the wire.
func RawScalars[T ScalarValue](ar Archive, v []T) error {
	if len(v) == 0 {
		return nil
	}
	var zero T
	p := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), uintptr(len(v))*unsafe.Sizeof(zero))

	return ar.transferBinary(p)
}

// ScalarSlice serializes a growable sequence of scalars as a count followed
// by one bulk raw copy. Large numeric arrays should prefer this over Slice
// with Scalar: it avoids per-element overhead entirely.
func ScalarSlice[T ScalarValue](ar Archive, v *[]T) error {
	n := uint64(len(*v))
	if err := Scalar(ar, &n); err != nil {
		return err
	}
	if ar.IsLoading() {
		var zero T
		chunkElems := preallocBytes / uint64(unsafe.Sizeof(zero))
		out := make([]T, 0, prealloc(n, unsafe.Sizeof(zero)))
		for remaining := n; remaining > 0; {
			chunk := remaining
			if chunk > chunkElems {
				chunk = chunkElems
			}
			start := len(out)
			out = append(out, make([]T, int(chunk))...)
			if err := RawScalars(ar, out[start:]); err != nil {
				return err
			}
			remaining -= chunk
		}
		*v = out

		return nil
	}

	return RawScalars(ar, *v)
}

// Map serializes a key->value map: entry count, then each key and its value.
// Write order follows Go map iteration and is therefore unspecified; keys
// are unique, so loading recreates an equal map regardless of the order the
// entries were written in.
func Map[K comparable, V any](ar Archive, m *map[K]V, kf ValueFunc[K], vf ValueFunc[V]) error {
	n := uint64(len(*m))
	if err := Scalar(ar, &n); err != nil {
		return err
	}

	if ar.IsLoading() {
		var zk K
		var zv V
		out := make(map[K]V, prealloc(n, unsafe.Sizeof(zk)+unsafe.Sizeof(zv)))
		for i := uint64(0); i < n; i++ {
			var k K
			var v V
			if err := kf(ar, &k); err != nil {
				return err
			}
			if err := vf(ar, &v); err != nil {
				return err
			}
			out[k] = v
		}
		*m = out

		return nil
	}

	for k, v := range *m {
		k, v := k, v
		if err := kf(ar, &k); err != nil {
			return err
		}
		if err := vf(ar, &v); err != nil {
			return err
		}
	}

	return nil
}

// Blob serializes a raw caller-owned byte range directly, without count or
// per-element framing. The archive never retains or frees p; it only copies
// through it. Blobs of any length are accepted, including zero and lengths
// far beyond the block capacity.
func Blob(ar Archive, p []byte) error {
	return ar.transferBinary(p)
}

// Ref is the pointer-field policy: non-owned references are excluded from
// the wire format. Saving writes nothing and loading leaves *v untouched;
// the owning type is responsible for rebuilding the reference after load.
func Ref[T any](_ Archive, _ **T) error {
	return nil
}
