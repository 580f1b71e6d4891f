package ocl

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/gocl/cl"
)

// deviceInfoStub serves canned device parameters keyed by device and param.
type deviceInfoStub map[cl.DeviceID]map[cl.DeviceInfo][]byte

func (s deviceInfoStub) get(device cl.DeviceID, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status {
	data, found := s[device][cl.DeviceInfo(param)]
	if !found {
		return cl.InvalidValue
	}
	return serveBytes(data, size, value, sizeRet)
}

// selTestDevices wraps three fake devices: a GPU and a CPU on one platform
// and a GPU on another.
func selTestDevices(t *testing.T, r *registry) []*Device {
	stub := deviceInfoStub{
		0x11: {
			cl.DeviceTypeInfo: scalarBytes(cl.DeviceTypeGPU),
			cl.DeviceName:     []byte("Radeon RX 7900\x00"),
			cl.DeviceVendor:   []byte("Advanced Micro Devices\x00"),
			cl.DevicePlatform: scalarBytes(cl.PlatformID(0xA1)),
		},
		0x12: {
			cl.DeviceTypeInfo: scalarBytes(cl.DeviceTypeCPU),
			cl.DeviceName:     []byte("Ryzen 9 7950X\x00"),
			cl.DeviceVendor:   []byte("Advanced Micro Devices\x00"),
			cl.DevicePlatform: scalarBytes(cl.PlatformID(0xA1)),
		},
		0x13: {
			cl.DeviceTypeInfo: scalarBytes(cl.DeviceTypeGPU),
			cl.DeviceName:     []byte("GeForce RTX 4090\x00"),
			cl.DeviceVendor:   []byte("NVIDIA Corporation\x00"),
			cl.DevicePlatform: scalarBytes(cl.PlatformID(0xA2)),
		},
	}
	stubCL(t, &cl.GetDeviceInfo, stub.get)
	devices := make([]*Device, 0, len(stub))
	for _, id := range []cl.DeviceID{0x11, 0x12, 0x13} {
		devices = append(devices, wrapDevice(r, id))
	}
	t.Cleanup(func() { releaseDeviceRefs(devices) })
	return devices
}

func TestFilterType(t *testing.T) {
	r := newRegistry()
	devices := selTestDevices(t, r)

	gpus := capture(FilterGPU(devices)).Test(t)
	require.Len(t, gpus, 2)
	require.Same(t, devices[0], gpus[0])
	require.Same(t, devices[2], gpus[1])

	cpus := capture(FilterCPU(devices)).Test(t)
	require.Len(t, cpus, 1)
	require.Same(t, devices[1], cpus[0])

	require.Empty(t, capture(FilterAccelerator(devices)).Test(t))
}

func TestFilterNameContains(t *testing.T) {
	r := newRegistry()
	devices := selTestDevices(t, r)
	platformNames := map[cl.PlatformID][]byte{
		0xA1: []byte("AMD Accelerated Parallel Processing\x00"),
		0xA2: []byte("NVIDIA CUDA\x00"),
	}
	stubCL(t, &cl.GetPlatformInfo,
		func(platform cl.PlatformID, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status {
			data, found := platformNames[platform]
			if !found || cl.PlatformInfo(param) != cl.PlatformName {
				return cl.InvalidValue
			}
			return serveBytes(data, size, value, sizeRet)
		})

	// Device name match, case-insensitive.
	byName := capture(FilterNameContains("geforce")(devices)).Test(t)
	require.Len(t, byName, 1)
	require.Same(t, devices[2], byName[0])

	// Vendor match.
	byVendor := capture(FilterNameContains("micro devices")(devices)).Test(t)
	require.Len(t, byVendor, 2)

	// Platform name match.
	byPlatform := capture(FilterNameContains("cuda")(devices)).Test(t)
	require.Len(t, byPlatform, 1)
	require.Same(t, devices[2], byPlatform[0])

	require.Empty(t, capture(FilterNameContains("no such device")(devices)).Test(t))
}

func TestFilterSamePlatform(t *testing.T) {
	r := newRegistry()
	devices := selTestDevices(t, r)

	same := capture(FilterSamePlatform(devices)).Test(t)
	require.Len(t, same, 2)
	require.Same(t, devices[0], same[0])
	require.Same(t, devices[1], same[1])

	// The first device sets the reference platform.
	reordered := []*Device{devices[2], devices[0], devices[1]}
	same = capture(FilterSamePlatform(reordered)).Test(t)
	require.Len(t, same, 1)
	require.Same(t, devices[2], same[0])

	require.Empty(t, must1(FilterSamePlatform(nil)))
}

func TestFilterIndex(t *testing.T) {
	r := newRegistry()
	devices := selTestDevices(t, r)

	one := capture(FilterIndex(1)(devices)).Test(t)
	require.Len(t, one, 1)
	require.Same(t, devices[1], one[0])

	_, err := FilterIndex(3)(devices)
	require.ErrorContains(t, err, "no device at index 3")
	_, err = FilterIndex(-1)(devices)
	require.Error(t, err)
}

func TestFilterChain(t *testing.T) {
	r := newRegistry()
	devices := selTestDevices(t, r)

	// Filters compose the way SelectDevices applies them.
	selected := devices
	for _, filter := range []Filter{FilterGPU, FilterSamePlatform, FilterIndex(0)} {
		selected = capture(filter(selected)).Test(t)
	}
	require.Len(t, selected, 1)
	require.Same(t, devices[0], selected[0])
}
