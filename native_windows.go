package memregion

import (
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/windows"
)

// File mapping views can only be made executable later if the view was
// created executable.
const allocProt = mmap.RDWR | mmap.EXEC

type windowsNative struct{}

func newNative(Config) Native {
	return windowsNative{}
}

// The runtime reads the page size from GetSystemInfo at startup.
func (windowsNative) PageSize() (uintptr, error) {
	return uintptr(os.Getpagesize()), nil
}

func (windowsNative) Codec() Codec {
	return LevelCodec{}
}

// https://docs.microsoft.com/en-us/windows/win32/api/memoryapi/nf-memoryapi-virtualprotect
func (windowsNative) Protect(address, size uintptr, protection uint32) error {
	var oldProtection uint32
	return windows.VirtualProtect(address, size, protection, &oldProtection)
}

func (windowsNative) Querier() (Querier, error) {
	return virtualQuerier{}, nil
}

// virtualQuerier asks VirtualQuery for the run of pages with identical
// attributes that starts at the page containing an address.
type virtualQuerier struct{}

// https://docs.microsoft.com/en-us/windows/win32/api/memoryapi/nf-memoryapi-virtualquery
func (virtualQuerier) Query(address uintptr) (Span, error) {
	var info windows.MemoryBasicInformation
	if err := windows.VirtualQuery(address, &info, unsafe.Sizeof(info)); err != nil {
		return Span{}, err
	}
	return Span{
		Start:      info.BaseAddress,
		End:        info.BaseAddress + info.RegionSize,
		Protection: info.Protect,
		Committed:  info.State == windows.MEM_COMMIT,
		Guarded:    info.Protect&windows.PAGE_GUARD != 0,
	}, nil
}
