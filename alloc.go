package memregion

import (
	"math"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// Allocation is a block of anonymous, page aligned memory.
type Allocation struct {
	ctx *Context
	mem mmap.MMap
}

// Allocate maps at least size bytes of anonymous memory with flags. The size
// is rounded up to a whole number of pages.
func (c *Context) Allocate(size uintptr, flags Flags) (*Allocation, error) {
	pageSize, err := c.PageSize()
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, &AllocationError{Size: size, Err: errInvalidAllocationSize}
	}
	actual := alignUp(size, pageSize)
	if actual < size || actual > uintptr(math.MaxInt) {
		return nil, &AllocationError{Size: size, Err: ErrAddressOverflow}
	}

	mem, err := mmap.MapRegion(nil, int(actual), allocProt, mmap.ANON, 0)
	if err != nil {
		return nil, &AllocationError{Size: actual, Err: err}
	}
	a := &Allocation{ctx: c, mem: mem}

	if err := c.native.Protect(a.Address(), actual, c.native.Codec().Encode(flags)); err != nil {
		_ = mem.Unmap()
		return nil, &AllocationError{Size: actual, Err: err}
	}
	return a, nil
}

// Address returns the first byte of the allocation, or 0 once freed.
func (a *Allocation) Address() uintptr {
	if len(a.mem) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&a.mem[0]))
}

// Size returns the allocated size, which is a multiple of the page size.
func (a *Allocation) Size() uintptr {
	return uintptr(len(a.mem))
}

// Bytes exposes the allocation. Accessing it must respect the protection the
// pages currently have.
func (a *Allocation) Bytes() []byte {
	return a.mem
}

// Region discovers the region covering exactly this allocation.
func (a *Allocation) Region() (*Region, error) {
	if len(a.mem) == 0 {
		return nil, ErrNotAllocated
	}
	return a.ctx.NewRegion(a.Address(), a.Size())
}

// Free unmaps the allocation. Freeing twice returns ErrNotAllocated.
func (a *Allocation) Free() error {
	if len(a.mem) == 0 {
		return ErrNotAllocated
	}
	if err := a.mem.Unmap(); err != nil {
		return err
	}
	a.mem = nil
	return nil
}
