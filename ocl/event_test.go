package ocl

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/gocl/cl"
)

func TestEventName(t *testing.T) {
	r := newRegistry()
	calls := 0
	stubCL(t, &cl.GetEventInfo,
		func(_ cl.Event, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status {
			calls++
			if cl.EventInfo(param) != cl.EventCommandType {
				return cl.InvalidValue
			}
			return serveBytes(scalarBytes(cl.CommandNDRangeKernel), size, value, sizeRet)
		})

	// Without an explicit name, the command type names the event.
	e := wrapEvent(r, 0x71)
	require.Equal(t, "NDRANGE_KERNEL", e.Name())
	require.Equal(t, 2, calls, "one size query plus one value query")

	// The command type is immutable, so naming again is free.
	require.Equal(t, "NDRANGE_KERNEL", e.Name())
	require.Equal(t, 2, calls)

	// An explicit name wins and needs no native call at all.
	named := wrapEvent(r, 0x72)
	named.SetName("transpose")
	calls = 0
	require.Equal(t, "transpose", named.Name())
	require.Equal(t, 0, calls)
}

func TestEventNameQueryFailure(t *testing.T) {
	r := newRegistry()
	stubCL(t, &cl.GetEventInfo,
		func(cl.Event, uint32, uintptr, unsafe.Pointer, *uintptr) cl.Status {
			return cl.InvalidEvent
		})

	// When the command type cannot be read the event stays unnamed.
	e := wrapEvent(r, 0x73)
	require.Equal(t, "", e.Name())
}

func TestEventExecutionStatusUncached(t *testing.T) {
	r := newRegistry()
	status := cl.Running
	stubCL(t, &cl.GetEventInfo,
		func(_ cl.Event, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status {
			if cl.EventInfo(param) != cl.EventCommandExecutionStatus {
				return cl.InvalidValue
			}
			return serveBytes(scalarBytes(status), size, value, sizeRet)
		})

	e := wrapEvent(r, 0x74)
	got := capture(e.CommandExecutionStatus()).Test(t)
	require.Equal(t, cl.Running, got)

	// The command progressed; a fresh read must see the new state.
	status = cl.Complete
	got = capture(e.CommandExecutionStatus()).Test(t)
	require.Equal(t, cl.Complete, got)
}

func TestEventWaitList(t *testing.T) {
	list, n := eventWaitList(nil)
	require.Nil(t, list)
	require.Equal(t, uint32(0), n)

	r := newRegistry()
	events := []*Event{wrapEvent(r, 0x75), wrapEvent(r, 0x76)}
	list, n = eventWaitList(events)
	require.Equal(t, uint32(2), n)
	require.Equal(t, cl.Event(0x75), *list)
}

func TestWaitForEventsEmpty(t *testing.T) {
	stubCL(t, &cl.WaitForEvents, func(uint32, *cl.Event) cl.Status {
		t.Fatal("an empty wait list must not reach the native call")
		return cl.Success
	})
	require.NoError(t, WaitForEvents())
}
