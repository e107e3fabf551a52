package memregion

import (
	"cmp"
	"slices"
	"sort"
)

// mapping is one contiguous address range of a page table snapshot.
type mapping struct {
	Start uintptr
	End   uintptr
	Flags Flags
}

// mapTable answers queries from a page table snapshot. Mappings are kept
// sorted by Start and never overlap.
type mapTable []mapping

func newMapTable(mappings []mapping) mapTable {
	t := slices.Clone(mappings)
	slices.SortFunc(t, func(a, b mapping) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return mapTable(t)
}

func (t mapTable) Query(address uintptr) (Span, error) {
	i := sort.Search(len(t), func(i int) bool { return t[i].End > address })
	if i == len(t) || t[i].Start > address {
		return Span{}, ErrNoMapping
	}
	m := t[i]
	return Span{
		Start:      m.Start,
		End:        m.End,
		Protection: BitCodec{}.Encode(m.Flags),
		Committed:  true,
	}, nil
}
