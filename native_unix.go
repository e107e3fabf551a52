//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package memregion

import (
	"unsafe"

	"github.com/edsrzf/mmap-go"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
)

// Anonymous allocations start out read-write; Allocate then applies the
// requested flags with mprotect.
const allocProt = mmap.RDWR

type unixNative struct {
	config Config
}

func newNative(config Config) Native {
	return unixNative{config: config}
}

func (unixNative) PageSize() (uintptr, error) {
	size, err := sysconf.Sysconf(sysconf.SC_PAGESIZE)
	if err != nil {
		return 0, err
	}
	return uintptr(size), nil
}

func (unixNative) Codec() Codec {
	return BitCodec{}
}

func (unixNative) Protect(address, size uintptr, protection uint32) error {
	page := unsafe.Slice((*byte)(unsafe.Pointer(address)), size)
	return unix.Mprotect(page, int(protection))
}
