package memregion

// Flags is the platform independent access set of a page.
type Flags uint8

const (
	Execute Flags = 1 << 0
	Write   Flags = 1 << 1
	Read    Flags = 1 << 2

	None             Flags = 0
	ReadWrite              = Read | Write
	ReadExecute            = Read | Execute
	ReadWriteExecute       = Read | Write | Execute
)

// Has reports whether every bit of other is set in f.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// String renders f the way /proc/self/maps does, e.g. "r-x".
func (f Flags) String() string {
	b := []byte("---")
	if f.Has(Read) {
		b[0] = 'r'
	}
	if f.Has(Write) {
		b[1] = 'w'
	}
	if f.Has(Execute) {
		b[2] = 'x'
	}
	return string(b)
}
