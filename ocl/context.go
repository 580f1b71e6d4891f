package ocl

import (
	"github.com/pkg/errors"

	"github.com/gomlx/gocl/cl"
)

// Context wraps a cl_context and the devices it spans.
type Context struct {
	wrapperBase
	devs devContainer
}

// NewContext creates a context spanning the given devices, which must all
// belong to one platform. The context property list pins that platform, which
// ICD loaders require to route the call. The caller owns one reference.
func NewContext(devices ...*Device) (*Context, error) {
	if len(devices) == 0 {
		return nil, errors.New("creating a context requires at least one device")
	}
	platform, err := devices[0].platformID()
	if err != nil {
		return nil, errors.WithMessage(err, "resolving the devices' platform")
	}
	props := []uintptr{uintptr(cl.ContextPlatformProperty), uintptr(platform), 0}
	ids := make([]cl.DeviceID, len(devices))
	for i, d := range devices {
		ids[i] = d.ID()
	}
	var status cl.Status
	handle := cl.CreateContext(&props[0], uint32(len(ids)), &ids[0], 0, nil, &status)
	if status != cl.Success {
		return nil, errors.WithMessagef(status.Err(), "creating a context over %d devices", len(ids))
	}
	return wrapContext(devices[0].reg, cl.Handle(handle)), nil
}

// NewContextFromType creates a context over the devices of the given type,
// letting the OpenCL implementation pick the platform. For explicit control
// combine SelectDevices with NewContext. The caller owns one reference.
func NewContextFromType(deviceType cl.DeviceType) (*Context, error) {
	if err := cl.Load(); err != nil {
		return nil, err
	}
	var status cl.Status
	handle := cl.CreateContextFromType(nil, deviceType, 0, nil, &status)
	if status != cl.Success {
		return nil, errors.WithMessagef(status.Err(), "creating a context from device type %#x", uint64(deviceType))
	}
	return wrapContext(defaultRegistry, cl.Handle(handle)), nil
}

// WrapContext adopts a native context handle obtained elsewhere, without
// retaining it natively: the wrapper's last release calls clReleaseContext.
func WrapContext(handle cl.Context) *Context {
	return wrapContext(defaultRegistry, cl.Handle(handle))
}

func wrapContext(r *registry, handle cl.Handle) *Context {
	return findOrNew(r, ClassContext, handle, func() *Context { return &Context{} })
}

func (c *Context) native() cl.Context { return cl.Context(c.handle) }

// Release undoes the constructor, WrapContext or Retain. The last release
// drops the context's devices and releases the native context.
func (c *Context) Release() error {
	return c.release(c.devs.releaseDevices, releaser(cl.ReleaseContext))
}

// listDevices fetches the context's device IDs from CL_CONTEXT_DEVICES.
func (c *Context) listDevices() ([]cl.DeviceID, error) {
	buf, err := c.getInfo(nil, uint32(cl.ContextDevices), infoFn1(cl.GetContextInfo), true)
	if err != nil {
		return nil, err
	}
	return infoSlice[cl.DeviceID](buf), nil
}

// Devices returns the devices the context spans. The slice and its devices
// are owned by the context: do not modify the slice nor release the devices.
func (c *Context) Devices() ([]*Device, error) {
	return c.devs.all(&c.wrapperBase, c.listDevices)
}

// Device returns the context's index-th device, owned by the context.
func (c *Context) Device(index int) (*Device, error) {
	return c.devs.at(&c.wrapperBase, c.listDevices, index)
}

// NumDevices returns how many devices the context spans.
func (c *Context) NumDevices() (int, error) {
	return c.devs.count(&c.wrapperBase, c.listDevices)
}

// Info returns the raw bytes of a context parameter. The buffer is shared
// with the cache: treat it as read-only.
func (c *Context) Info(param cl.ContextInfo) ([]byte, error) {
	return c.getInfo(nil, uint32(param), infoFn1(cl.GetContextInfo), true)
}
