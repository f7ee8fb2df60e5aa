package serial

// SizeArchive is a saving-role archive that accumulates byte counts instead
// of emitting bytes. Walking a value through it yields exactly the number of
// payload bytes SaveArchive would place into its blocks for the same value,
// excluding the header and block framing overhead — every built-in routine
// emits fixed-width encodings, so the counts always agree.
//
// Typical use is sizing a destination buffer before a real save pass.
type SizeArchive struct {
	size uint64
}

var _ Archive = (*SizeArchive)(nil)

// NewSizeArchive creates a new size-accumulating archive.
func NewSizeArchive() *SizeArchive {
	return &SizeArchive{}
}

// IsLoading reports false: size computation is a saving role.
func (a *SizeArchive) IsLoading() bool {
	return false
}

func (a *SizeArchive) transfer(p []byte) error {
	a.size += uint64(len(p))
	return nil
}

func (a *SizeArchive) transferBinary(p []byte) error {
	a.size += uint64(len(p))
	return nil
}

// Size returns the accumulated byte count.
func (a *SizeArchive) Size() uint64 {
	return a.size
}

// Reset clears the accumulated count so the archive can size another value.
func (a *SizeArchive) Reset() {
	a.size = 0
}
