//go:build darwin || dragonfly || freebsd || netbsd || openbsd || solaris

package memregion

// There is no page table source wired up for these systems yet, so regions
// cannot be discovered. Protect and Allocate still work.
func (unixNative) Querier() (Querier, error) {
	return nil, ErrUnsupported
}
