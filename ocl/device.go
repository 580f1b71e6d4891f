package ocl

import (
	"strings"

	"github.com/gomlx/gocl/cl"
)

// Device wraps a cl_device_id.
//
// Devices handed out by a container accessor (Platform.Devices,
// Context.Devices, Program.Devices) are owned by that container and stay valid
// while it lives. Retain (or WrapDevice) takes an independent reference.
type Device struct {
	wrapperBase
}

// WrapDevice returns the wrapper for a native device ID, creating it on first
// use. The caller owns one reference and must Release it.
func WrapDevice(id cl.DeviceID) *Device {
	return wrapDevice(defaultRegistry, id)
}

func wrapDevice(r *registry, id cl.DeviceID) *Device {
	return findOrNew(r, ClassDevice, cl.Handle(id), func() *Device { return &Device{} })
}

// ID returns the native device ID.
func (d *Device) ID() cl.DeviceID { return cl.DeviceID(d.handle) }

// Release undoes WrapDevice or Retain. On the last release, the native device
// is released too when the library supports it: clReleaseDevice exists from
// OpenCL 1.2 on and only affects sub-devices.
func (d *Device) Release() error {
	var rel releaseHandleFunc
	if cl.ReleaseDevice != nil {
		rel = releaser(cl.ReleaseDevice)
	}
	return d.release(nil, rel)
}

// Info returns the raw bytes of a device parameter, memoized per parameter.
// The buffer is shared with the cache: treat it as read-only.
func (d *Device) Info(param cl.DeviceInfo) ([]byte, error) {
	return d.getInfo(nil, uint32(param), infoFn1(cl.GetDeviceInfo), true)
}

func (d *Device) stringInfo(param cl.DeviceInfo) (string, error) {
	return stringInfo(&d.wrapperBase, nil, uint32(param), infoFn1(cl.GetDeviceInfo), true)
}

// Name returns CL_DEVICE_NAME, e.g. "NVIDIA GeForce RTX 4090" or "gfx1100".
func (d *Device) Name() (string, error) { return d.stringInfo(cl.DeviceName) }

// Vendor returns CL_DEVICE_VENDOR.
func (d *Device) Vendor() (string, error) { return d.stringInfo(cl.DeviceVendor) }

// Version returns CL_DEVICE_VERSION, e.g. "OpenCL 3.0 CUDA".
func (d *Device) Version() (string, error) { return d.stringInfo(cl.DeviceVersion) }

// DriverVersion returns CL_DRIVER_VERSION.
func (d *Device) DriverVersion() (string, error) { return d.stringInfo(cl.DriverVersion) }

// Extensions returns the device extension names.
func (d *Device) Extensions() ([]string, error) {
	s, err := d.stringInfo(cl.DeviceExtensions)
	if err != nil {
		return nil, err
	}
	return strings.Fields(s), nil
}

// Type returns the device type bitfield (GPU, CPU, accelerator...).
func (d *Device) Type() (cl.DeviceType, error) {
	return scalarInfo[cl.DeviceType](&d.wrapperBase, nil, uint32(cl.DeviceTypeInfo), infoFn1(cl.GetDeviceInfo), true)
}

// MaxComputeUnits returns CL_DEVICE_MAX_COMPUTE_UNITS.
func (d *Device) MaxComputeUnits() (int, error) {
	v, err := scalarInfo[uint32](&d.wrapperBase, nil, uint32(cl.DeviceMaxComputeUnits), infoFn1(cl.GetDeviceInfo), true)
	return int(v), err
}

// MaxWorkGroupSize returns CL_DEVICE_MAX_WORK_GROUP_SIZE.
func (d *Device) MaxWorkGroupSize() (int, error) {
	v, err := scalarInfo[uintptr](&d.wrapperBase, nil, uint32(cl.DeviceMaxWorkGroupSize), infoFn1(cl.GetDeviceInfo), true)
	return int(v), err
}

// GlobalMemSize returns CL_DEVICE_GLOBAL_MEM_SIZE in bytes.
func (d *Device) GlobalMemSize() (uint64, error) {
	return scalarInfo[uint64](&d.wrapperBase, nil, uint32(cl.DeviceGlobalMemSize), infoFn1(cl.GetDeviceInfo), true)
}

// LocalMemSize returns CL_DEVICE_LOCAL_MEM_SIZE in bytes.
func (d *Device) LocalMemSize() (uint64, error) {
	return scalarInfo[uint64](&d.wrapperBase, nil, uint32(cl.DeviceLocalMemSize), infoFn1(cl.GetDeviceInfo), true)
}

// MaxMemAllocSize returns CL_DEVICE_MAX_MEM_ALLOC_SIZE in bytes.
func (d *Device) MaxMemAllocSize() (uint64, error) {
	return scalarInfo[uint64](&d.wrapperBase, nil, uint32(cl.DeviceMaxMemAllocSize), infoFn1(cl.GetDeviceInfo), true)
}

// platformID returns the native ID of the platform the device belongs to.
func (d *Device) platformID() (cl.PlatformID, error) {
	return scalarInfo[cl.PlatformID](&d.wrapperBase, nil, uint32(cl.DevicePlatform), infoFn1(cl.GetDeviceInfo), true)
}

// Platform returns the platform the device belongs to. The caller owns a
// reference to the returned platform and must Release it.
func (d *Device) Platform() (*Platform, error) {
	id, err := d.platformID()
	if err != nil {
		return nil, err
	}
	return wrapPlatform(d.reg, id), nil
}
