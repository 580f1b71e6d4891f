// Package ocl wraps native OpenCL objects in reference-counted Go wrappers.
//
// Every native handle maps to at most one live wrapper: wrapping a handle that
// is already wrapped returns the existing object with its reference count
// increased, so handle equality and wrapper identity always agree. The release
// that brings the count to zero destroys the wrapper and releases the
// underlying OpenCL object.
//
// Information queries ("get info" calls) are memoized per wrapper, so repeated
// queries of immutable properties touch the native API once.
//
// The raw API surface lives in the cl package; ocl loads it on demand through
// GetPlatforms (see cl.Load for how the library is located).
package ocl

import "fmt"

// panicf reports a broken API contract, such as releasing a wrapper more times
// than it was retained.
func panicf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
