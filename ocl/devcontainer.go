package ocl

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/gocl/cl"
)

// deviceListFunc fetches the raw native device IDs behind a container. Each
// container type obtains them differently: platforms through clGetDeviceIDs,
// contexts and programs through their own info parameters.
type deviceListFunc func() ([]cl.DeviceID, error)

// devContainer adds the "owns an ordered list of devices" behavior shared by
// Platform, Context and Program. The list materializes on first use and is
// reused by every later access; the container holds one reference to each of
// its devices and drops them all when the parent wrapper is destroyed.
type devContainer struct {
	mu      sync.Mutex
	devices []*Device
}

// all returns the container's devices, querying and wrapping the native IDs on
// the first call. When the query fails nothing is materialized and the next
// call retries. The returned slice and its devices are owned by the container:
// callers must not modify the slice nor release the devices.
func (c *devContainer) all(owner *wrapperBase, list deviceListFunc) ([]*Device, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.devices != nil {
		return c.devices, nil
	}
	ids, err := list()
	if err != nil {
		return nil, errors.WithMessagef(err, "listing the devices of %s %#x", owner.class, uintptr(owner.handle))
	}
	devices := make([]*Device, len(ids))
	for i, id := range ids {
		devices[i] = wrapDevice(owner.reg, id)
	}
	c.devices = devices
	return devices, nil
}

// at returns the container's index-th device.
func (c *devContainer) at(owner *wrapperBase, list deviceListFunc, index int) (*Device, error) {
	devices, err := c.all(owner, list)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(devices) {
		return nil, &IndexError{Class: owner.class, Index: index, Count: len(devices)}
	}
	return devices[index], nil
}

// count returns how many devices the container has.
func (c *devContainer) count(owner *wrapperBase, list deviceListFunc) (int, error) {
	devices, err := c.all(owner, list)
	return len(devices), err
}

// releaseDevices drops the container's device references. It runs as the
// parent wrapper's field releaser, on the release that destroys the parent.
func (c *devContainer) releaseDevices() {
	c.mu.Lock()
	devices := c.devices
	c.devices = nil
	c.mu.Unlock()
	for _, d := range devices {
		if err := d.Release(); err != nil {
			klog.Errorf("Failed to release device %#x held by a destroyed container: %v", uintptr(d.Handle()), err)
		}
	}
}
