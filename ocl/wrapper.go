package ocl

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/gomlx/gocl/cl"
)

// Wrapper is implemented by every reference-counted wrapper type in this
// package (*Platform, *Device, *Context, *Queue, *Program, *Kernel, *Event,
// *Buffer).
type Wrapper interface {
	// Handle returns the wrapped native handle. No ownership is transferred;
	// the handle stays valid only while the wrapper is alive.
	Handle() cl.Handle

	// Class identifies the kind of native object behind the wrapper.
	Class() Class

	// Retain increments the reference count. Every Retain needs a matching
	// Release.
	Retain()

	// Release decrements the reference count. The release that brings it to
	// zero destroys the wrapper and releases the native object; using the
	// wrapper afterwards is an error. Releasing more times than retained
	// panics.
	Release() error

	// RefCount reports the current reference count, for diagnostics and
	// tests.
	RefCount() int

	base() *wrapperBase
}

// wrapperBase holds the state shared by all wrapper types, which embed it as
// their first field. Its zero value is completed by findOrNew.
type wrapperBase struct {
	reg    *registry
	class  Class
	handle cl.Handle

	// refs is guarded by reg.mu rather than being an atomic: the count must
	// change in the same critical section that looks up or erases the
	// registry entry.
	refs int

	infoMu sync.Mutex
	info   map[infoKey][]byte
}

func (w *wrapperBase) base() *wrapperBase { return w }

// Handle returns the wrapped native handle.
func (w *wrapperBase) Handle() cl.Handle { return w.handle }

// Class identifies the kind of native object behind the wrapper.
func (w *wrapperBase) Class() Class { return w.class }

// RefCount reports the current reference count.
func (w *wrapperBase) RefCount() int {
	w.reg.mu.Lock()
	defer w.reg.mu.Unlock()
	return w.refs
}

// Retain increments the reference count.
func (w *wrapperBase) Retain() {
	w.reg.mu.Lock()
	defer w.reg.mu.Unlock()
	if w.refs <= 0 {
		panicf("retain of a destroyed %s wrapper (handle %#x)", w.class, uintptr(w.handle))
	}
	w.refs++
}

// releaseHandleFunc releases the native object once its wrapper dies. Wrapper
// types whose native objects need no release call (platforms) pass nil.
type releaseHandleFunc func(cl.Handle) cl.Status

// releaseFieldsFunc frees state owned by the concrete wrapper type, such as a
// container's device list, before the native object is released.
type releaseFieldsFunc func()

// release implements Release for the concrete types, with their cleanup
// capabilities as parameters. The decrement and, when the count hits zero, the
// removal of the registry entry happen in one critical section: a concurrent
// wrap of a recycled handle value can never observe the dying wrapper, and two
// racing final releases cannot both win. Cleanup then runs outside the lock,
// fields first, native handle second, cached info buffers last.
func (w *wrapperBase) release(fields releaseFieldsFunc, handle releaseHandleFunc) error {
	w.reg.mu.Lock()
	if w.refs <= 0 {
		w.reg.mu.Unlock()
		panicf("release of an already destroyed %s wrapper (handle %#x)", w.class, uintptr(w.handle))
	}
	w.refs--
	last := w.refs == 0
	if last {
		delete(w.reg.wrappers, w.handle)
	}
	w.reg.mu.Unlock()
	if !last {
		return nil
	}
	if fields != nil {
		fields()
	}
	var err error
	if handle != nil {
		if status := handle(w.handle); status != cl.Success {
			err = errors.WithMessagef(status.Err(), "releasing the native %s behind handle %#x",
				w.class, uintptr(w.handle))
		}
	}
	w.infoMu.Lock()
	w.info = nil
	w.infoMu.Unlock()
	return err
}

// releaser adapts a typed native release function to a releaseHandleFunc.
func releaser[H ~uintptr](call func(H) cl.Status) releaseHandleFunc {
	return func(h cl.Handle) cl.Status { return call(H(h)) }
}
