package memregion

// A Codec translates between Flags and a platform's native protection value.
type Codec interface {
	Encode(flags Flags) uint32
	Decode(protection uint32) (Flags, error)
}

// POSIX mmap/mprotect protection bits. These values are shared by every
// unix Go supports.
const (
	protNone  = 0x0
	protRead  = 0x1
	protWrite = 0x2
	protExec  = 0x4
)

// BitCodec maps Flags onto independent PROT_READ/PROT_WRITE/PROT_EXEC bits.
// Every combination is representable, so Decode(Encode(f)) == f.
type BitCodec struct{}

var protToOS = [...]uint32{
	None:             protNone,
	Read:             protRead,
	Write:            protWrite,
	Execute:          protExec,
	ReadWrite:        protRead | protWrite,
	ReadExecute:      protRead | protExec,
	Write | Execute:  protWrite | protExec,
	ReadWriteExecute: protRead | protWrite | protExec,
}

var osToProt = [...]Flags{
	protNone:                       None,
	protRead:                       Read,
	protWrite:                      Write,
	protExec:                       Execute,
	protRead | protWrite:           ReadWrite,
	protRead | protExec:            ReadExecute,
	protWrite | protExec:           Write | Execute,
	protRead | protWrite | protExec: ReadWriteExecute,
}

func (BitCodec) Encode(flags Flags) uint32 {
	return protToOS[flags&ReadWriteExecute]
}

func (BitCodec) Decode(protection uint32) (Flags, error) {
	if protection >= uint32(len(osToProt)) {
		return None, &DecodeError{Protection: protection}
	}
	return osToProt[protection], nil
}

// Windows memory protection constants.
// https://docs.microsoft.com/en-us/windows/win32/memory/memory-protection-constants
const (
	pageNoAccess         = 0x01
	pageReadOnly         = 0x02
	pageReadWrite        = 0x04
	pageWriteCopy        = 0x08
	pageExecute          = 0x10
	pageExecuteRead      = 0x20
	pageExecuteReadWrite = 0x40
	pageExecuteWriteCopy = 0x80

	pageGuard        = 0x100
	pageNoCache      = 0x200
	pageWriteCombine = 0x400

	pageModifiers = pageGuard | pageNoCache | pageWriteCombine
)

// LevelCodec maps Flags onto the fixed protection levels of Windows.
//
// The mapping is lossy on purpose. Levels only exist for none, r, rw, rx and
// rwx, so any other combination that contains Write or Execute widens to
// PAGE_EXECUTE_READWRITE: Decode(Encode(Write|Execute)) is ReadWriteExecute
// and Decode(Encode(Write)) is ReadWriteExecute too.
type LevelCodec struct{}

func (LevelCodec) Encode(flags Flags) uint32 {
	switch flags & ReadWriteExecute {
	case None:
		return pageNoAccess
	case Read:
		return pageReadOnly
	case ReadWrite:
		return pageReadWrite
	case ReadExecute:
		return pageExecuteRead
	default:
		return pageExecuteReadWrite
	}
}

func (LevelCodec) Decode(protection uint32) (Flags, error) {
	switch protection &^ pageModifiers {
	case pageNoAccess:
		return None, nil
	case pageReadOnly:
		return Read, nil
	case pageReadWrite, pageWriteCopy:
		return ReadWrite, nil
	case pageExecute:
		return Execute, nil
	case pageExecuteRead:
		return ReadExecute, nil
	case pageExecuteReadWrite, pageExecuteWriteCopy:
		return ReadWriteExecute, nil
	}
	return None, &DecodeError{Protection: protection}
}
