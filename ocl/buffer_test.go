package ocl

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/gocl/cl"
)

func TestBufferCreate(t *testing.T) {
	r := newRegistry()
	ctx := wrapContext(r, 0xC1)

	var gotFlags cl.MemFlags
	var gotSize uintptr
	var gotHost unsafe.Pointer
	stubCL(t, &cl.CreateBuffer,
		func(_ cl.Context, flags cl.MemFlags, size uintptr, hostPtr unsafe.Pointer, errRet *cl.Status) cl.Mem {
			gotFlags, gotSize, gotHost = flags, size, hostPtr
			*errRet = cl.Success
			return 0xB1
		})

	b := capture(NewBuffer(ctx, cl.MemReadWrite, 1024)).Test(t)
	require.Equal(t, cl.Handle(0xB1), b.Handle())
	require.Equal(t, cl.MemReadWrite, gotFlags)
	require.Equal(t, uintptr(1024), gotSize)
	require.Nil(t, gotHost)

	// NewBufferFrom sizes the buffer after the slice and implies the
	// copy-host-pointer flag.
	data := []float32{1, 2, 3}
	capture(NewBufferFrom(ctx, cl.MemReadOnly, data)).Test(t)
	require.Equal(t, cl.MemReadOnly|cl.MemCopyHostPtr, gotFlags)
	require.Equal(t, uintptr(12), gotSize)
	require.Equal(t, unsafe.Pointer(unsafe.SliceData(data)), gotHost)
}

func TestBufferCreateError(t *testing.T) {
	r := newRegistry()
	ctx := wrapContext(r, 0xC2)
	stubCL(t, &cl.CreateBuffer,
		func(_ cl.Context, _ cl.MemFlags, _ uintptr, _ unsafe.Pointer, errRet *cl.Status) cl.Mem {
			*errRet = cl.MemObjectAllocationFailure
			return 0
		})

	_, err := NewBuffer(ctx, cl.MemReadWrite, 1<<40)
	require.ErrorIs(t, err, cl.MemObjectAllocationFailure)
	require.Equal(t, 1, r.count(), "no buffer wrapper is left behind")
}

func TestBufferSizeAndFlags(t *testing.T) {
	r := newRegistry()
	b := wrapBuffer(r, 0xB2)
	stubCL(t, &cl.GetMemObjectInfo,
		func(_ cl.Mem, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status {
			switch cl.MemInfo(param) {
			case cl.MemSizeInfo:
				return serveBytes(scalarBytes(uintptr(4096)), size, value, sizeRet)
			case cl.MemFlagsInfo:
				return serveBytes(scalarBytes(cl.MemReadOnly|cl.MemCopyHostPtr), size, value, sizeRet)
			}
			return cl.InvalidValue
		})

	require.Equal(t, 4096, capture(b.Size()).Test(t))
	require.Equal(t, cl.MemReadOnly|cl.MemCopyHostPtr, capture(b.Flags()).Test(t))
}

func TestBufferEnqueueWriteRead(t *testing.T) {
	r := newRegistry()
	q := wrapQueue(r, 0xC3)
	b := wrapBuffer(r, 0xB3)

	type xfer struct {
		blocking cl.Bool
		offset   uintptr
		size     uintptr
		ptr      unsafe.Pointer
		waitN    uint32
	}
	var write, read xfer
	stubCL(t, &cl.EnqueueWriteBuffer,
		func(_ cl.CommandQueue, _ cl.Mem, blocking cl.Bool, offset, size uintptr, ptr unsafe.Pointer, numWait uint32, _ *cl.Event, event *cl.Event) cl.Status {
			write = xfer{blocking, offset, size, ptr, numWait}
			*event = 0xE1
			return cl.Success
		})
	stubCL(t, &cl.EnqueueReadBuffer,
		func(_ cl.CommandQueue, _ cl.Mem, blocking cl.Bool, offset, size uintptr, ptr unsafe.Pointer, numWait uint32, _ *cl.Event, event *cl.Event) cl.Status {
			read = xfer{blocking, offset, size, ptr, numWait}
			*event = 0xE2
			return cl.Success
		})

	data := []int32{10, 20, 30, 40}
	wrEv := capture(EnqueueWriteSlice(q, b, false, 8, data)).Test(t)
	require.Equal(t, cl.Handle(0xE1), wrEv.Handle())
	require.Equal(t, cl.False, write.blocking)
	require.Equal(t, uintptr(8), write.offset)
	require.Equal(t, uintptr(16), write.size, "four int32 values")
	require.Equal(t, unsafe.Pointer(unsafe.SliceData(data)), write.ptr)
	require.Equal(t, uint32(0), write.waitN)

	dst := make([]int32, 4)
	rdEv := capture(EnqueueReadSlice(q, b, true, 0, dst, wrEv)).Test(t)
	require.Equal(t, cl.Handle(0xE2), rdEv.Handle())
	require.Equal(t, cl.True, read.blocking)
	require.Equal(t, uintptr(16), read.size)
	require.Equal(t, uint32(1), read.waitN)

	require.Equal(t, []*Event{wrEv, rdEv}, q.producedEvents(), "the queue owns both events")
}

func TestBufferEnqueueEmptySlice(t *testing.T) {
	r := newRegistry()
	q := wrapQueue(r, 0xC4)
	b := wrapBuffer(r, 0xB4)

	_, err := EnqueueWriteSlice(q, b, true, 0, []float32{})
	require.EqualError(t, err, "writing an empty slice to a buffer")
	_, err = EnqueueReadSlice(q, b, true, 0, []float32(nil))
	require.EqualError(t, err, "reading into an empty slice")
}
