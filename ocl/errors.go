package ocl

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gomlx/gocl/cl"
)

// ErrInfoUnavailable reports an info query the native API answered with a
// zero-byte value: the parameter is valid but the runtime has nothing to
// report for this object. Test with errors.Is.
var ErrInfoUnavailable = errors.New("the requested info is unavailable (its size is 0)")

// QueryError reports a native information query that failed. It wraps the
// native cl.Status, so errors.Is(err, cl.InvalidValue) and friends work on it.
type QueryError struct {
	Class  Class
	Param  uint32
	Status cl.Status
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s info query 0x%04X failed: %s", e.Class, e.Param, e.Status)
}

func (e *QueryError) Unwrap() error { return e.Status }

// IndexError reports a device index past the end of a container's device list.
type IndexError struct {
	Class Class
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("device index %d out of range: %s has %d devices", e.Index, e.Class, e.Count)
}
