// Package cl is the raw (low-level) surface of the OpenCL host API used by gocl.
//
// It loads the system OpenCL library (the ICD loader, typically libOpenCL.so) at runtime
// with purego -- no cgo, no OpenCL headers needed at build time -- and exposes the C entry
// points as package-level function variables, plus the handle types, enums and status codes
// they traffic in.
//
// Most users should use the github.com/gomlx/gocl/ocl package instead, which wraps these
// handles in reference-counted objects. This package is for those who need to make raw
// calls not covered by the wrapper layer.
//
// Call Load before using any function variable; function variables are nil until then.
package cl

// Handle is the common currency for all OpenCL object handles: an opaque pointer-sized
// identity issued by the OpenCL runtime. The typed handles below all convert to it.
type Handle uintptr

// Typed handles for each OpenCL object class. They are opaque: the only valid operations
// are passing them back to the API and comparing them for identity.
type (
	PlatformID   uintptr
	DeviceID     uintptr
	Context      uintptr
	CommandQueue uintptr
	Program      uintptr
	Kernel       uintptr
	Event        uintptr
	Mem          uintptr
	Sampler      uintptr
)

// Bool is the API's cl_bool: a uint32 that is 0 (False) or 1 (True).
type Bool uint32

const (
	False Bool = 0
	True  Bool = 1
)

// ToBool converts a Go bool to a cl.Bool.
func ToBool(b bool) Bool {
	if b {
		return True
	}
	return False
}
