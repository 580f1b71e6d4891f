package ocl

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/gocl/cl"
)

// Event wraps a cl_event produced by an enqueue operation. Events are owned
// by the queue that produced them: Queue.GC or the queue's last release frees
// them, and callers must not release them individually.
type Event struct {
	wrapperBase

	nameMu sync.Mutex
	name   string
}

func wrapEvent(r *registry, handle cl.Handle) *Event {
	return findOrNew(r, ClassEvent, handle, func() *Event { return &Event{} })
}

func (e *Event) native() cl.Event { return cl.Event(e.handle) }

// Release drops one reference. Only the owning queue should call it.
func (e *Event) Release() error {
	return e.release(nil, releaser(cl.ReleaseEvent))
}

// SetName labels the event in profiling reports.
func (e *Event) SetName(name string) {
	e.nameMu.Lock()
	e.name = name
	e.nameMu.Unlock()
}

// Name returns the label set with SetName or, when none was set, the name of
// the command that produced the event, e.g. "NDRANGE_KERNEL".
func (e *Event) Name() string {
	e.nameMu.Lock()
	name := e.name
	e.nameMu.Unlock()
	if name != "" {
		return name
	}
	ct, err := e.CommandType()
	if err != nil {
		klog.Warningf("Unable to name event %#x by its command type: %v", uintptr(e.handle), err)
		return ""
	}
	return ct.String()
}

// Wait blocks until the event's command completes.
func (e *Event) Wait() error {
	ev := e.native()
	if status := cl.WaitForEvents(1, &ev); status != cl.Success {
		return errors.WithMessage(status.Err(), "waiting on an event")
	}
	return nil
}

// WaitForEvents blocks until every given event completes. With no events it
// returns immediately.
func WaitForEvents(events ...*Event) error {
	list, n := eventWaitList(events)
	if n == 0 {
		return nil
	}
	if status := cl.WaitForEvents(n, list); status != cl.Success {
		return errors.WithMessagef(status.Err(), "waiting on %d events", n)
	}
	return nil
}

// eventWaitList converts a wait list to the (pointer, count) shape the native
// enqueue calls take, with (nil, 0) for an empty list.
func eventWaitList(events []*Event) (*cl.Event, uint32) {
	if len(events) == 0 {
		return nil, 0
	}
	evs := make([]cl.Event, len(events))
	for i, e := range events {
		evs[i] = e.native()
	}
	return &evs[0], uint32(len(evs))
}

// Info returns the raw bytes of an event parameter, uncached: event state
// changes as its command progresses.
func (e *Event) Info(param cl.EventInfo) ([]byte, error) {
	return e.getInfo(nil, uint32(param), infoFn1(cl.GetEventInfo), false)
}

// CommandType reports which command produced the event. Immutable, so cached.
func (e *Event) CommandType() (cl.CommandType, error) {
	return scalarInfo[cl.CommandType](&e.wrapperBase, nil, uint32(cl.EventCommandType), infoFn1(cl.GetEventInfo), true)
}

// CommandExecutionStatus returns the event's current execution status
// (cl.Complete, cl.Running, ...), or a negative value when the command
// terminated abnormally. Never cached.
func (e *Event) CommandExecutionStatus() (cl.ExecutionStatus, error) {
	return scalarInfo[cl.ExecutionStatus](&e.wrapperBase, nil, uint32(cl.EventCommandExecutionStatus), infoFn1(cl.GetEventInfo), false)
}

// ProfilingInfo returns one profiling instant in device-time nanoseconds. The
// producing queue must have been created with cl.QueueProfilingEnable and the
// command must have completed.
func (e *Event) ProfilingInfo(param cl.ProfilingInfo) (uint64, error) {
	return scalarInfo[uint64](&e.wrapperBase, nil, uint32(param), infoFn1(cl.GetEventProfilingInfo), true)
}
