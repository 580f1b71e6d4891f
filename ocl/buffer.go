package ocl

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/gomlx/gocl/cl"
)

// Buffer wraps a cl_mem buffer object.
type Buffer struct {
	wrapperBase
}

// NewBuffer creates an uninitialized device buffer of the given size in
// bytes.
func NewBuffer(ctx *Context, flags cl.MemFlags, size int) (*Buffer, error) {
	var status cl.Status
	handle := cl.CreateBuffer(ctx.native(), flags, uintptr(size), nil, &status)
	if status != cl.Success {
		return nil, errors.WithMessagef(status.Err(), "creating a %d-byte buffer", size)
	}
	return wrapBuffer(ctx.reg, cl.Handle(handle)), nil
}

// NewBufferFrom creates a buffer of len(data)*sizeof(T) bytes initialized
// with a copy of data. cl.MemCopyHostPtr is implied.
func NewBufferFrom[T any](ctx *Context, flags cl.MemFlags, data []T) (*Buffer, error) {
	ptr, size := sliceBytes(data)
	var status cl.Status
	handle := cl.CreateBuffer(ctx.native(), flags|cl.MemCopyHostPtr, size, ptr, &status)
	if status != cl.Success {
		return nil, errors.WithMessagef(status.Err(), "creating a %d-byte buffer from host data", size)
	}
	return wrapBuffer(ctx.reg, cl.Handle(handle)), nil
}

func wrapBuffer(r *registry, handle cl.Handle) *Buffer {
	return findOrNew(r, ClassBuffer, handle, func() *Buffer { return &Buffer{} })
}

func (b *Buffer) native() cl.Mem { return cl.Mem(b.handle) }

// Release undoes NewBuffer, NewBufferFrom or Retain.
func (b *Buffer) Release() error {
	return b.release(nil, releaser(cl.ReleaseMemObject))
}

// Info returns the raw bytes of a memory object parameter, memoized per
// parameter. The buffer is shared with the cache: treat it as read-only.
func (b *Buffer) Info(param cl.MemInfo) ([]byte, error) {
	return b.getInfo(nil, uint32(param), infoFn1(cl.GetMemObjectInfo), true)
}

// Size returns the buffer's size in bytes.
func (b *Buffer) Size() (int, error) {
	v, err := scalarInfo[uintptr](&b.wrapperBase, nil, uint32(cl.MemSizeInfo), infoFn1(cl.GetMemObjectInfo), true)
	return int(v), err
}

// Flags returns the flags the buffer was created with.
func (b *Buffer) Flags() (cl.MemFlags, error) {
	return scalarInfo[cl.MemFlags](&b.wrapperBase, nil, uint32(cl.MemFlagsInfo), infoFn1(cl.GetMemObjectInfo), true)
}

// sliceBytes returns the start address and byte length of a slice's backing
// array.
func sliceBytes[T any](s []T) (unsafe.Pointer, uintptr) {
	var t T
	return unsafe.Pointer(unsafe.SliceData(s)), uintptr(len(s)) * unsafe.Sizeof(t)
}

// EnqueueWriteSlice enqueues a copy of data into b starting at offset bytes.
// When blocking is false the call returns before the transfer runs: data must
// stay valid and unmodified until the returned event (owned by q) completes.
func EnqueueWriteSlice[T any](q *Queue, b *Buffer, blocking bool, offset int, data []T, waits ...*Event) (*Event, error) {
	ptr, size := sliceBytes(data)
	if size == 0 {
		return nil, errors.New("writing an empty slice to a buffer")
	}
	waitPtr, waitN := eventWaitList(waits)
	var ev cl.Event
	status := cl.EnqueueWriteBuffer(q.native(), b.native(), cl.ToBool(blocking), uintptr(offset), size, ptr, waitN, waitPtr, &ev)
	if status != cl.Success {
		return nil, errors.WithMessage(status.Err(), "enqueueing a buffer write")
	}
	return q.produce(ev), nil
}

// EnqueueReadSlice enqueues a copy from b starting at offset bytes into dst.
// When blocking is false the call returns before the transfer runs: dst holds
// the data only after the returned event (owned by q) completes.
func EnqueueReadSlice[T any](q *Queue, b *Buffer, blocking bool, offset int, dst []T, waits ...*Event) (*Event, error) {
	ptr, size := sliceBytes(dst)
	if size == 0 {
		return nil, errors.New("reading into an empty slice")
	}
	waitPtr, waitN := eventWaitList(waits)
	var ev cl.Event
	status := cl.EnqueueReadBuffer(q.native(), b.native(), cl.ToBool(blocking), uintptr(offset), size, ptr, waitN, waitPtr, &ev)
	if status != cl.Success {
		return nil, errors.WithMessage(status.Err(), "enqueueing a buffer read")
	}
	return q.produce(ev), nil
}
