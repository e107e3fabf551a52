package memregion

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Page is one OS page of a Region.
type Page struct {
	Base uintptr
	Size uintptr

	// Current is the live protection as last observed or set.
	Current Flags
	// Previous is what Current held before the last SetFlags or ResetFlags.
	Previous Flags
	// Initial is the protection found at discovery.
	Initial Flags

	Committed bool
	Guarded   bool
}

// Region is a contiguous, ascending run of equally sized pages. Its page set
// is fixed at construction; only the per-page flags change.
type Region struct {
	ctx   *Context
	pages []Page
}

// NewRegion discovers the pages backing address. If size is zero, the region
// grows over every following page with the same protection as the page that
// contains address.
func (c *Context) NewRegion(address, size uintptr) (*Region, error) {
	pages, err := c.discover(address, size)
	if err != nil {
		return nil, err
	}
	r := &Region{ctx: c, pages: pages}
	c.logger.Debug("discovered memory region",
		zap.String("base", fmt.Sprintf("%#x", r.Base())),
		zap.Int("pages", r.Len()),
		zap.String("size", humanize.IBytes(uint64(r.Size()))),
		zap.Stringer("flags", pages[0].Current))
	return r, nil
}

func (r *Region) Len() int {
	return len(r.pages)
}

// Base returns the address of the first page.
func (r *Region) Base() uintptr {
	return r.pages[0].Base
}

// Size returns the region's length in bytes.
func (r *Region) Size() uintptr {
	return uintptr(len(r.pages)) * r.pages[0].Size
}

func (r *Region) Page(index int) Page {
	return r.pages[index]
}

// Pages returns a copy of the region's pages.
func (r *Region) Pages() []Page {
	pages := make([]Page, len(r.pages))
	copy(pages, r.pages)
	return pages
}

func (r *Region) String() string {
	return fmt.Sprintf("%#x-%#x (%d pages, %s)",
		r.Base(), r.Base()+r.Size(), r.Len(), humanize.IBytes(uint64(r.Size())))
}

// SetFlags changes every page to flags, in address order.
//
// The change is not atomic. If the OS rejects a page, SetFlags stops there
// and returns a *ProtectError: earlier pages keep flags, the failing page and
// everything after it are unchanged. The per-page Current values remain
// accurate either way and ResetFlags works from them.
func (r *Region) SetFlags(flags Flags) error {
	_, err := r.apply(len(r.pages), func(Page) Flags { return flags })
	return err
}

// ResetFlags changes every page back to its Initial flags, or to its
// Previous flags when initial is false. Targets are per page, so they differ
// between pages after a SetFlags that failed part way. Failure behaves as in
// SetFlags.
func (r *Region) ResetFlags(initial bool) error {
	_, err := r.apply(len(r.pages), resetTarget(initial))
	return err
}

// WithFlags sets flags on the region, runs operation and then restores every
// page to its previous flags, even if operation fails or panics.
//
// An error from operation takes priority; a restore error is logged and
// appended to it (see multierr.Errors). If SetFlags itself fails, operation
// is not run and only the pages already changed are restored.
func (r *Region) WithFlags(flags Flags, operation func() error) (err error) {
	changed, err := r.apply(len(r.pages), func(Page) Flags { return flags })
	if err != nil {
		return multierr.Append(err, r.restore(changed))
	}

	defer func() {
		err = multierr.Append(err, r.restore(len(r.pages)))
	}()
	return operation()
}

// Refresh re-reads the live protection of every page into Current. Previous
// and Initial are kept.
func (r *Region) Refresh() error {
	pages, err := r.ctx.discover(r.Base(), r.Size())
	if err != nil {
		return err
	}
	for i := range r.pages {
		r.pages[i].Current = pages[i].Current
	}
	return nil
}

func (r *Region) restore(count int) error {
	_, err := r.apply(count, resetTarget(false))
	if err != nil {
		r.ctx.logger.Error("failed to restore memory protection",
			zap.Stringer("region", r), zap.Error(err))
	}
	return err
}

func resetTarget(initial bool) func(Page) Flags {
	return func(p Page) Flags {
		if initial {
			return p.Initial
		}
		return p.Previous
	}
}

// apply changes the first count pages to target(page) and returns how many
// pages it changed.
func (r *Region) apply(count int, target func(Page) Flags) (int, error) {
	codec := r.ctx.native.Codec()
	for i := 0; i < count; i++ {
		page := &r.pages[i]
		flags := target(*page) & ReadWriteExecute
		if err := r.ctx.native.Protect(page.Base, page.Size, codec.Encode(flags)); err != nil {
			r.ctx.logger.Warn("memory protection change aborted",
				zap.Stringer("region", r),
				zap.Int("page", i),
				zap.String("address", fmt.Sprintf("%#x", page.Base)),
				zap.Error(err))
			return i, &ProtectError{
				Index:   i,
				Count:   len(r.pages),
				Address: page.Base,
				Flags:   flags,
				Err:     err,
			}
		}
		page.Previous = page.Current
		page.Current = flags
	}
	return count, nil
}
