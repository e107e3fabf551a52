package memregion

// Native is the set of operating system primitives a Context builds on.
// Exactly one implementation is compiled in per platform; see newNative.
type Native interface {
	// PageSize returns the size of an OS page in bytes.
	PageSize() (uintptr, error)

	// Codec translates Flags to and from the values Protect and Querier use.
	Codec() Codec

	// Protect changes the protection of [address, address+size) to the
	// native protection value.
	Protect(address, size uintptr, protection uint32) error

	// Querier returns a page state source valid for one discovery pass.
	// Table based implementations take their snapshot here.
	Querier() (Querier, error)
}

// A Span is a run of pages that share one native state.
type Span struct {
	Start      uintptr
	End        uintptr
	Protection uint32
	Committed  bool
	Guarded    bool
}

func (s Span) contains(address uintptr) bool {
	return s.Start <= address && address < s.End
}

func (s Span) sameState(other Span) bool {
	return s.Protection == other.Protection &&
		s.Committed == other.Committed &&
		s.Guarded == other.Guarded
}

// A Querier resolves the span that contains an address.
type Querier interface {
	Query(address uintptr) (Span, error)
}

// pageQuerier clips every span to the single page that was asked for. It is
// the fallback for OS interfaces that only answer one page at a time.
type pageQuerier struct {
	Querier
	pageSize uintptr
}

func (q pageQuerier) Query(address uintptr) (Span, error) {
	span, err := q.Querier.Query(address)
	if err != nil {
		return span, err
	}
	start := address &^ (q.pageSize - 1)
	if start > span.Start {
		span.Start = start
	}
	if end := start + q.pageSize; end > start && end < span.End {
		span.End = end
	}
	return span, nil
}
