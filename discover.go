package memregion

// discover resolves the pages backing address. With size > 0 it returns
// every page overlapping [address, address+size). With size == 0 it returns
// the longest run of pages, starting at the page containing address, whose
// native state equals that of the first page.
func (c *Context) discover(address, size uintptr) ([]Page, error) {
	pageSize, err := c.PageSize()
	if err != nil {
		return nil, err
	}

	start := alignDown(address, pageSize)
	count := 0
	if size > 0 {
		end := address + size
		if end < address || alignUp(end, pageSize) < end {
			return nil, &DiscoveryError{Address: address, Err: ErrAddressOverflow}
		}
		count = int((alignUp(end, pageSize) - start) / pageSize)
	}
	bounded := count > 0

	querier, err := c.native.Querier()
	if err != nil {
		return nil, &DiscoveryError{Address: start, Err: err}
	}
	if c.config.PerPageQuery {
		querier = pageQuerier{Querier: querier, pageSize: pageSize}
	}
	codec := c.native.Codec()

	var (
		pages []Page
		span  Span
		first Span
		flags Flags
	)

	for base := start; !bounded || len(pages) < count; base += pageSize {
		if len(pages) == 0 || !span.contains(base) {
			next, err := querier.Query(base)
			if err == nil && !next.contains(base) {
				err = ErrNoMapping
			}
			if err != nil {
				if !bounded && len(pages) > 0 {
					break
				}
				return nil, &DiscoveryError{Address: base, Err: err}
			}
			if len(pages) == 0 {
				first = next
			} else if !bounded && !next.sameState(first) {
				break
			}
			if flags, err = decodeSpan(codec, next); err != nil {
				return nil, err
			}
			span = next
		}

		pages = append(pages, Page{
			Base:      base,
			Size:      pageSize,
			Initial:   flags,
			Previous:  flags,
			Current:   flags,
			Committed: span.Committed,
			Guarded:   span.Guarded,
		})

		if base+pageSize < base {
			break
		}
	}
	return pages, nil
}

// decodeSpan reads the flags of a span. Uncommitted memory carries no
// meaningful protection and is reported as None.
func decodeSpan(codec Codec, span Span) (Flags, error) {
	if !span.Committed {
		return None, nil
	}
	return codec.Decode(span.Protection)
}
