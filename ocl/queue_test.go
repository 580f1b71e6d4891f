package ocl

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/gocl/cl"
)

// stubQueueInfo serves canned queue parameters for one queue handle.
func stubQueueInfo(t *testing.T, values map[cl.QueueInfo][]byte) {
	stubCL(t, &cl.GetCommandQueueInfo,
		func(_ cl.CommandQueue, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status {
			data, found := values[cl.QueueInfo(param)]
			if !found {
				return cl.InvalidValue
			}
			return serveBytes(data, size, value, sizeRet)
		})
}

func TestQueueContextAndDeviceCaching(t *testing.T) {
	r := newRegistry()
	q := wrapQueue(r, 0x61)
	stubQueueInfo(t, map[cl.QueueInfo][]byte{
		cl.QueueContext: scalarBytes(cl.Context(0x62)),
		cl.QueueDevice:  scalarBytes(cl.DeviceID(0x63)),
	})
	stubCL(t, &cl.ReleaseCommandQueue, func(cl.CommandQueue) cl.Status { return cl.Success })
	stubCL(t, &cl.ReleaseContext, func(cl.Context) cl.Status { return cl.Success })

	ctx := capture(q.Context()).Test(t)
	require.Equal(t, cl.Handle(0x62), ctx.Handle())
	require.Same(t, ctx, capture(q.Context()).Test(t), "the context is resolved once and kept")
	require.Equal(t, 1, ctx.RefCount(), "the queue owns the single reference")

	dev := capture(q.Device()).Test(t)
	require.Equal(t, cl.Handle(0x63), dev.Handle())
	require.Same(t, dev, capture(q.Device()).Test(t))
	require.Equal(t, 3, r.count())

	// Destroying the queue drops its context and device.
	require.NoError(t, q.Release())
	require.Equal(t, 0, r.count())
}

func TestQueueOwnsProducedEvents(t *testing.T) {
	r := newRegistry()
	q := wrapQueue(r, 0x64)
	freed := 0
	stubCL(t, &cl.Finish, func(cl.CommandQueue) cl.Status { return cl.Success })
	stubCL(t, &cl.ReleaseEvent, func(cl.Event) cl.Status { freed++; return cl.Success })
	stubCL(t, &cl.ReleaseCommandQueue, func(cl.CommandQueue) cl.Status { return cl.Success })

	e1 := q.produce(0x65)
	e2 := q.produce(0x66)
	require.Equal(t, []*Event{e1, e2}, q.producedEvents())

	// The snapshot is detached from later production.
	snapshot := q.producedEvents()
	q.produce(0x67)
	require.Len(t, snapshot, 2)
	require.Len(t, q.producedEvents(), 3)

	// GC waits for the queue and drops every produced event.
	require.NoError(t, q.GC())
	require.Empty(t, q.producedEvents())
	require.Equal(t, 3, freed)

	// Events produced after a GC are owned until the queue dies.
	q.produce(0x68)
	require.NoError(t, q.Release())
	require.Equal(t, 4, freed)
	require.Equal(t, 0, r.count())
}

func TestQueueProperties(t *testing.T) {
	r := newRegistry()
	q := wrapQueue(r, 0x69)
	stubQueueInfo(t, map[cl.QueueInfo][]byte{
		cl.QueueProperties: scalarBytes(cl.QueueProfilingEnable | cl.QueueOutOfOrderExecMode),
	})
	stubCL(t, &cl.ReleaseCommandQueue, func(cl.CommandQueue) cl.Status { return cl.Success })

	props := capture(q.Properties()).Test(t)
	require.NotZero(t, props&cl.QueueProfilingEnable)
	require.NotZero(t, props&cl.QueueOutOfOrderExecMode)
	require.NoError(t, q.Release())
}
