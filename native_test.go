package memregion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type protectCall struct {
	address    uintptr
	size       uintptr
	protection uint32
}

// fakeNative serves page state from a fixed list of spans and records every
// protection change instead of performing it.
type fakeNative struct {
	pageSize      uintptr
	pageSizeErr   error
	pageSizeCalls int
	codec         Codec
	spans         []Span
	failAt        map[uintptr]error
	calls         []protectCall
	queries       int
}

func newFakeNative(spans ...Span) *fakeNative {
	return &fakeNative{
		pageSize: testPageSize,
		codec:    BitCodec{},
		spans:    spans,
		failAt:   map[uintptr]error{},
	}
}

const testPageSize = 0x1000

func (f *fakeNative) PageSize() (uintptr, error) {
	f.pageSizeCalls++
	return f.pageSize, f.pageSizeErr
}

func (f *fakeNative) Codec() Codec {
	return f.codec
}

func (f *fakeNative) Protect(address, size uintptr, protection uint32) error {
	if err := f.failAt[address]; err != nil {
		return err
	}
	f.calls = append(f.calls, protectCall{address: address, size: size, protection: protection})
	return nil
}

func (f *fakeNative) Querier() (Querier, error) {
	return f, nil
}

func (f *fakeNative) Query(address uintptr) (Span, error) {
	f.queries++
	for _, span := range f.spans {
		if span.contains(address) {
			return span, nil
		}
	}
	return Span{}, ErrNoMapping
}

func rwSpan(start, end uintptr) Span {
	return Span{Start: start, End: end, Protection: protRead | protWrite, Committed: true}
}

func newFakeContext(native *fakeNative, opts ...Option) *Context {
	return NewContext(append([]Option{WithNative(native)}, opts...)...)
}

func TestPageQuerierClipsToOnePage(t *testing.T) {
	t.Parallel()

	native := newFakeNative(rwSpan(0x10000, 0x20000))
	q := pageQuerier{Querier: native, pageSize: testPageSize}

	span, err := q.Query(0x12345)
	require.NoError(t, err)
	require.Equal(t, uintptr(0x12000), span.Start)
	require.Equal(t, uintptr(0x13000), span.End)
	require.Equal(t, uint32(protRead|protWrite), span.Protection)

	_, err = q.Query(0x30000)
	require.ErrorIs(t, err, ErrNoMapping)
}

func TestMapTableQuery(t *testing.T) {
	t.Parallel()

	table := newMapTable([]mapping{
		{Start: 0x30000, End: 0x31000, Flags: Read},
		{Start: 0x10000, End: 0x12000, Flags: ReadExecute},
		{Start: 0x12000, End: 0x14000, Flags: ReadWrite},
	})

	span, err := table.Query(0x10fff)
	require.NoError(t, err)
	require.Equal(t, Span{Start: 0x10000, End: 0x12000, Protection: protRead | protExec, Committed: true}, span)

	span, err = table.Query(0x12000)
	require.NoError(t, err)
	require.Equal(t, uintptr(0x12000), span.Start)
	require.Equal(t, uint32(protRead|protWrite), span.Protection)

	span, err = table.Query(0x30000)
	require.NoError(t, err)
	require.Equal(t, uint32(protRead), span.Protection)

	for _, address := range []uintptr{0x0, 0xffff, 0x14000, 0x20000, 0x31000} {
		_, err := table.Query(address)
		require.ErrorIs(t, err, ErrNoMapping, "address %#x", address)
	}
}
