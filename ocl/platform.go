package ocl

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/gomlx/gocl/cl"
)

// Platform wraps a cl_platform_id and the devices behind it.
type Platform struct {
	wrapperBase
	devs devContainer
}

// GetPlatforms returns a wrapper for every OpenCL platform on the host,
// loading the OpenCL library first if needed. The caller owns one reference to
// each returned platform. Hosts with an ICD loader but no platforms yield an
// error wrapping cl.PlatformNotFoundKHR.
func GetPlatforms() ([]*Platform, error) {
	if err := cl.Load(); err != nil {
		return nil, err
	}
	var count uint32
	if status := cl.GetPlatformIDs(0, nil, &count); status != cl.Success {
		return nil, errors.WithMessage(status.Err(), "querying the number of OpenCL platforms")
	}
	if count == 0 {
		return nil, nil
	}
	ids := make([]cl.PlatformID, count)
	if status := cl.GetPlatformIDs(count, &ids[0], &count); status != cl.Success {
		return nil, errors.WithMessage(status.Err(), "listing the OpenCL platforms")
	}
	platforms := make([]*Platform, count)
	for i, id := range ids[:count] {
		platforms[i] = WrapPlatform(id)
	}
	return platforms, nil
}

// WrapPlatform returns the wrapper for a native platform ID, creating it on
// first use. The caller owns one reference and must Release it.
func WrapPlatform(id cl.PlatformID) *Platform {
	return wrapPlatform(defaultRegistry, id)
}

func wrapPlatform(r *registry, id cl.PlatformID) *Platform {
	return findOrNew(r, ClassPlatform, cl.Handle(id), func() *Platform { return &Platform{} })
}

// ID returns the native platform ID.
func (p *Platform) ID() cl.PlatformID { return cl.PlatformID(p.handle) }

// Release undoes GetPlatforms, WrapPlatform or Retain. Platforms have no
// native release call; the last release only drops the wrapper and the devices
// it holds.
func (p *Platform) Release() error {
	return p.release(p.devs.releaseDevices, nil)
}

// listDevices fetches the IDs of the platform's devices of every type.
func (p *Platform) listDevices() ([]cl.DeviceID, error) {
	var count uint32
	status := cl.GetDeviceIDs(p.ID(), cl.DeviceTypeAll, 0, nil, &count)
	if status == cl.DeviceNotFound || (status == cl.Success && count == 0) {
		return nil, nil
	}
	if status != cl.Success {
		return nil, status.Err()
	}
	ids := make([]cl.DeviceID, count)
	if status := cl.GetDeviceIDs(p.ID(), cl.DeviceTypeAll, count, &ids[0], &count); status != cl.Success {
		return nil, status.Err()
	}
	return ids[:count], nil
}

// Devices returns all devices of the platform. The slice and its devices are
// owned by the platform: do not modify the slice nor release the devices.
func (p *Platform) Devices() ([]*Device, error) {
	return p.devs.all(&p.wrapperBase, p.listDevices)
}

// Device returns the platform's index-th device, owned by the platform.
func (p *Platform) Device(index int) (*Device, error) {
	return p.devs.at(&p.wrapperBase, p.listDevices, index)
}

// NumDevices returns how many devices the platform exposes.
func (p *Platform) NumDevices() (int, error) {
	return p.devs.count(&p.wrapperBase, p.listDevices)
}

// Info returns the raw bytes of a platform parameter, memoized per parameter.
// The buffer is shared with the cache: treat it as read-only.
func (p *Platform) Info(param cl.PlatformInfo) ([]byte, error) {
	return p.getInfo(nil, uint32(param), infoFn1(cl.GetPlatformInfo), true)
}

func (p *Platform) stringInfo(param cl.PlatformInfo) (string, error) {
	return stringInfo(&p.wrapperBase, nil, uint32(param), infoFn1(cl.GetPlatformInfo), true)
}

// Name returns CL_PLATFORM_NAME, e.g. "NVIDIA CUDA" or "Portable Computing
// Language".
func (p *Platform) Name() (string, error) { return p.stringInfo(cl.PlatformName) }

// Vendor returns CL_PLATFORM_VENDOR.
func (p *Platform) Vendor() (string, error) { return p.stringInfo(cl.PlatformVendor) }

// Version returns CL_PLATFORM_VERSION, e.g. "OpenCL 3.0 CUDA 12.4.131".
func (p *Platform) Version() (string, error) { return p.stringInfo(cl.PlatformVersion) }

// Profile returns CL_PLATFORM_PROFILE, "FULL_PROFILE" or "EMBEDDED_PROFILE".
func (p *Platform) Profile() (string, error) { return p.stringInfo(cl.PlatformProfile) }

// Extensions returns the platform extension names.
func (p *Platform) Extensions() ([]string, error) {
	s, err := p.stringInfo(cl.PlatformExtensions)
	if err != nil {
		return nil, err
	}
	return strings.Fields(s), nil
}
