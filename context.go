// Package memregion inspects and changes the protection of the pages that
// back memory in the calling process.
//
// A Region is discovered from an address, either bounded by a byte length or
// grown over every following page that shares the first page's protection.
// Each page remembers its initial, previous and current Flags, so temporary
// changes can be undone with ResetFlags or scoped with WithFlags.
//
// Nothing in this package is synchronized. Protection changes are visible to
// the whole process immediately, and the page table may change between
// discovery and a later SetFlags call. Coordinating access to overlapping
// memory is the caller's job.
package memregion

import (
	"sync"

	"go.uber.org/zap"
)

// Context owns the platform layer and the page size every region and
// allocation is computed with.
type Context struct {
	native   Native
	config   Config
	logger   *zap.Logger
	pageSize func() (uintptr, error)
}

type Option func(*Context)

// WithNative replaces the platform layer.
func WithNative(native Native) Option {
	return func(c *Context) {
		c.native = native
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

func WithConfig(config Config) Option {
	return func(c *Context) {
		c.config = config
	}
}

func NewContext(opts ...Option) *Context {
	c := &Context{
		config: DefaultConfig(),
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.config.ProcMountPoint == "" {
		c.config.ProcMountPoint = DefaultConfig().ProcMountPoint
	}
	if c.native == nil {
		c.native = newNative(c.config)
	}
	c.pageSize = sync.OnceValues(func() (uintptr, error) {
		size, err := c.native.PageSize()
		if err != nil {
			return 0, &PageSizeError{Err: err}
		}
		if size == 0 || size&(size-1) != 0 {
			return 0, &PageSizeError{Err: errInvalidPageSize(size)}
		}
		return size, nil
	})
	return c
}

// PageSize returns the OS page size. It is looked up once; a failure is
// returned by every later call as well.
func (c *Context) PageSize() (uintptr, error) {
	return c.pageSize()
}

func (c *Context) Codec() Codec {
	return c.native.Codec()
}

func alignDown(address, pageSize uintptr) uintptr {
	return address &^ (pageSize - 1)
}

func alignUp(address, pageSize uintptr) uintptr {
	return (address + pageSize - 1) &^ (pageSize - 1)
}
