package memregion

import (
	"fmt"
	"reflect"
)

// FuncAddress returns the entry point of the function fn, which is where a
// hook installer would discover the code region to patch.
func FuncAddress(fn interface{}) (uintptr, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return 0, fmt.Errorf("memregion: %T is not a function", fn)
	}
	if rv.IsNil() {
		return 0, fmt.Errorf("memregion: nil %T has no address", fn)
	}
	return rv.Pointer(), nil
}

// NewFuncRegion discovers the region of equally protected pages that starts
// at the page holding fn's entry point.
func (c *Context) NewFuncRegion(fn interface{}) (*Region, error) {
	address, err := FuncAddress(fn)
	if err != nil {
		return nil, err
	}
	return c.NewRegion(address, 0)
}
