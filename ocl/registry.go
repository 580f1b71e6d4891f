package ocl

import (
	"sync"

	"github.com/gomlx/gocl/cl"
)

// registry maps live native handles to their wrappers, guaranteeing at most
// one wrapper per handle. Its lock also guards every member wrapper's
// reference count, so lookup, insertion, count changes and removal are atomic
// with respect to each other.
//
// Entries never extend a wrapper's lifetime: a wrapper leaves the map in the
// same critical section in which its count reaches zero.
type registry struct {
	mu       sync.Mutex
	wrappers map[cl.Handle]Wrapper
}

func newRegistry() *registry {
	return &registry{wrappers: make(map[cl.Handle]Wrapper)}
}

// defaultRegistry backs every wrapper created through the exported
// constructors. Tests that need isolation create their own with newRegistry.
var defaultRegistry = newRegistry()

// findOrNew returns the wrapper registered for handle, creating one when there
// is none. An existing wrapper comes back with its reference count raised by
// one; a new wrapper starts at one. newFn must return a zero-valued concrete
// wrapper -- the base fields are filled in here, under the registry lock, so
// two calls racing on the same fresh handle agree on a single winner and the
// loser only ever sees the winner's fully initialized wrapper.
func findOrNew[W Wrapper](r *registry, class Class, handle cl.Handle, newFn func() W) W {
	if handle == 0 {
		panicf("wrapping a null handle as %s", class)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if got, found := r.wrappers[handle]; found {
		if got.Class() != class {
			panicf("handle %#x is already wrapped as %s, requested as %s",
				uintptr(handle), got.Class(), class)
		}
		got.base().refs++
		return got.(W)
	}
	w := newFn()
	b := w.base()
	b.reg = r
	b.class = class
	b.handle = handle
	b.refs = 1
	r.wrappers[handle] = w
	return w
}

// count reports how many wrappers are alive in the registry.
func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.wrappers)
}
