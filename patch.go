package memregion

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/arch/x86/x86asm"
)

const (
	maxInstructionLen = 15
	nop               = 0x90
)

var errNotReadable = errors.New("memory is not readable")

// Patch overwrites memory at address with data and returns the bytes it
// replaced. The pages are made writable for the duration of the copy and
// restored afterward; executable pages stay executable.
func (c *Context) Patch(address uintptr, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	region, err := c.NewRegion(address, uintptr(len(data)))
	if err != nil {
		return nil, err
	}

	flags := ReadWrite
	for _, page := range region.pages {
		if page.Current.Has(Execute) {
			flags = ReadWriteExecute
		}
	}

	old := make([]byte, len(data))
	err = region.WithFlags(flags, func() error {
		// address lies inside the region just discovered, a live mapping of
		// this process.
		mem := unsafe.Slice((*byte)(unsafe.Pointer(address)), len(data))
		copy(old, mem)
		copy(mem, data)
		return nil
	})
	return old, err
}

// PatchCode is Patch for x86-64 machine code. data is padded with NOPs up to
// the end of the last instruction it overlaps, so the patch never leaves a
// partial instruction behind.
func (c *Context) PatchCode(address uintptr, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	region, err := c.NewRegion(address, 0)
	if err != nil {
		return nil, err
	}
	if !region.pages[0].Current.Has(Read) {
		return nil, &DiscoveryError{Address: address, Err: errNotReadable}
	}

	// The read stays within the readable mapping discovered above.
	available := region.Base() + region.Size() - address
	code := unsafe.Slice((*byte)(unsafe.Pointer(address)), min(uintptr(len(data)+maxInstructionLen), available))
	span, err := InstructionSpan(code, len(data))
	if err != nil {
		return nil, err
	}

	padded := append(bytes.Clone(data), bytes.Repeat([]byte{nop}, span-len(data))...)
	return c.Patch(address, padded)
}

// InstructionSpan returns the length of the shortest run of whole x86-64
// instructions at the start of code that is at least minimum bytes long.
func InstructionSpan(code []byte, minimum int) (int, error) {
	n := 0
	for n < minimum {
		inst, err := x86asm.Decode(code[n:], 64)
		if err == nil && inst.Op == 0 {
			// Prefixes with no opcode after them.
			err = x86asm.ErrTruncated
		}
		if err != nil {
			return 0, fmt.Errorf("memregion: decoding instruction at offset %d: %w", n, err)
		}
		n += inst.Len
	}
	return n, nil
}
