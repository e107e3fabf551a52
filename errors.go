package memregion

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned when the platform has no way to perform the
	// requested native operation.
	ErrUnsupported = errors.New("memregion: not supported on this platform")

	// ErrNoMapping means no page table record covers an address.
	ErrNoMapping = errors.New("memregion: no mapping covers address")

	// ErrAddressOverflow means address+size wraps around the address space.
	ErrAddressOverflow = errors.New("memregion: address range overflows")

	// ErrNotAllocated is returned when freeing memory that is not a live
	// allocation.
	ErrNotAllocated = errors.New("memregion: memory is not allocated")

	errInvalidAllocationSize = errors.New("size must be positive")
)

// PageSizeError means the OS could not report its page size. A context that
// failed to obtain a page size fails every operation.
type PageSizeError struct {
	Err error
}

func (e *PageSizeError) Error() string {
	return fmt.Sprintf("memregion: page size unavailable: %v", e.Err)
}

func (e *PageSizeError) Unwrap() error {
	return e.Err
}

// DiscoveryError is returned when the pages backing an address could not be
// resolved.
type DiscoveryError struct {
	Address uintptr
	Err     error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("memregion: discovering page at %#x: %v", e.Address, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// ProtectError is returned when the native protection change of a page
// failed. Pages before Index have already been changed; the page at Index
// and every page after it were left alone.
type ProtectError struct {
	// Index is the zero based position of the failing page in its region.
	Index   int
	Count   int
	Address uintptr
	Flags   Flags
	Err     error
}

func (e *ProtectError) Error() string {
	return fmt.Sprintf("memregion: changing protection of page %d/%d at %#x to %v: %v",
		e.Index+1, e.Count, e.Address, e.Flags, e.Err)
}

func (e *ProtectError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a native protection value has no abstract
// representation.
type DecodeError struct {
	Protection uint32
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("memregion: unrepresentable native protection %#x", e.Protection)
}

// AllocationError is returned when the OS could not satisfy an allocation.
type AllocationError struct {
	Size uintptr
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("memregion: allocating %d bytes: %v", e.Size, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

func errInvalidPageSize(size uintptr) error {
	return fmt.Errorf("invalid page size %d", size)
}
