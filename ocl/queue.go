package ocl

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/gocl/cl"
)

// Queue wraps a cl_command_queue bound to one context/device pair.
//
// Events returned by the enqueue operations are owned by the queue that
// produced them: they stay valid until Queue.GC or the queue's last release,
// and callers must not release them individually.
type Queue struct {
	wrapperBase

	evMu   sync.Mutex
	events []*Event

	depMu sync.Mutex
	ctx   *Context
	dev   *Device
}

// NewQueue creates a command queue for device within ctx. A zero properties
// value gives an in-order queue without profiling; pass
// cl.QueueProfilingEnable to feed a Prof.
//
// clCreateCommandQueueWithProperties is used when the library has it (OpenCL
// 2.0+), otherwise the original clCreateCommandQueue. The caller owns one
// reference.
func NewQueue(ctx *Context, device *Device, properties cl.CommandQueueProperties) (*Queue, error) {
	var status cl.Status
	var handle cl.CommandQueue
	if cl.CreateCommandQueueWithProperties != nil {
		var propPtr *uint64
		if properties != 0 {
			list := []uint64{uint64(cl.QueueProperties), uint64(properties), 0}
			propPtr = &list[0]
		}
		handle = cl.CreateCommandQueueWithProperties(ctx.native(), device.ID(), propPtr, &status)
	} else {
		handle = cl.CreateCommandQueue(ctx.native(), device.ID(), properties, &status)
	}
	if status != cl.Success {
		return nil, errors.WithMessage(status.Err(), "creating a command queue")
	}
	return wrapQueue(ctx.reg, cl.Handle(handle)), nil
}

func wrapQueue(r *registry, handle cl.Handle) *Queue {
	return findOrNew(r, ClassQueue, handle, func() *Queue { return &Queue{} })
}

func (q *Queue) native() cl.CommandQueue { return cl.CommandQueue(q.handle) }

// Release undoes NewQueue or Retain. The last release drops every event the
// queue produced, its context and device references, and the native queue.
func (q *Queue) Release() error {
	return q.release(q.releaseFields, releaser(cl.ReleaseCommandQueue))
}

func (q *Queue) releaseFields() {
	q.depMu.Lock()
	ctx, dev := q.ctx, q.dev
	q.ctx, q.dev = nil, nil
	q.depMu.Unlock()
	if ctx != nil {
		if err := ctx.Release(); err != nil {
			klog.Errorf("Failed to release the context of a destroyed queue: %v", err)
		}
	}
	if dev != nil {
		if err := dev.Release(); err != nil {
			klog.Errorf("Failed to release the device of a destroyed queue: %v", err)
		}
	}
	q.releaseEvents()
}

// produce wraps an event handle returned by an enqueue and records it as owned
// by the queue.
func (q *Queue) produce(h cl.Event) *Event {
	e := wrapEvent(q.reg, cl.Handle(h))
	q.evMu.Lock()
	q.events = append(q.events, e)
	q.evMu.Unlock()
	return e
}

// producedEvents snapshots the events the queue currently owns.
func (q *Queue) producedEvents() []*Event {
	q.evMu.Lock()
	defer q.evMu.Unlock()
	return append([]*Event(nil), q.events...)
}

// releaseEvents drops the queue's event references.
func (q *Queue) releaseEvents() {
	q.evMu.Lock()
	events := q.events
	q.events = nil
	q.evMu.Unlock()
	for _, e := range events {
		if err := e.Release(); err != nil {
			klog.Errorf("Failed to release event %#x held by its queue: %v", uintptr(e.Handle()), err)
		}
	}
}

// GC waits for the queue to drain, then drops every event wrapper the queue
// produced so far. Call it between batches to keep long-lived queues from
// accumulating events. Previously returned *Event values become invalid.
func (q *Queue) GC() error {
	if err := q.Finish(); err != nil {
		return err
	}
	q.releaseEvents()
	return nil
}

// Flush submits the queued commands to the device without waiting for them.
func (q *Queue) Flush() error {
	if status := cl.Flush(q.native()); status != cl.Success {
		return errors.WithMessage(status.Err(), "flushing the command queue")
	}
	return nil
}

// Finish blocks until every command in the queue has completed.
func (q *Queue) Finish() error {
	if status := cl.Finish(q.native()); status != cl.Success {
		return errors.WithMessage(status.Err(), "finishing the command queue")
	}
	return nil
}

// Info returns the raw bytes of a queue parameter. The buffer is shared with
// the cache: treat it as read-only.
func (q *Queue) Info(param cl.QueueInfo) ([]byte, error) {
	return q.getInfo(nil, uint32(param), infoFn1(cl.GetCommandQueueInfo), true)
}

// Properties returns the properties the queue was created with.
func (q *Queue) Properties() (cl.CommandQueueProperties, error) {
	return scalarInfo[cl.CommandQueueProperties](&q.wrapperBase, nil, uint32(cl.QueueProperties), infoFn1(cl.GetCommandQueueInfo), true)
}

// Context returns the context the queue lives in, resolved once and then kept
// by the queue. The returned context is owned by the queue: do not release it.
func (q *Queue) Context() (*Context, error) {
	q.depMu.Lock()
	defer q.depMu.Unlock()
	if q.ctx != nil {
		return q.ctx, nil
	}
	h, err := scalarInfo[cl.Context](&q.wrapperBase, nil, uint32(cl.QueueContext), infoFn1(cl.GetCommandQueueInfo), true)
	if err != nil {
		return nil, err
	}
	q.ctx = wrapContext(q.reg, cl.Handle(h))
	return q.ctx, nil
}

// Device returns the device the queue targets, resolved once and then kept by
// the queue. The returned device is owned by the queue: do not release it.
func (q *Queue) Device() (*Device, error) {
	q.depMu.Lock()
	defer q.depMu.Unlock()
	if q.dev != nil {
		return q.dev, nil
	}
	id, err := scalarInfo[cl.DeviceID](&q.wrapperBase, nil, uint32(cl.QueueDevice), infoFn1(cl.GetCommandQueueInfo), true)
	if err != nil {
		return nil, err
	}
	q.dev = wrapDevice(q.reg, id)
	return q.dev, nil
}
