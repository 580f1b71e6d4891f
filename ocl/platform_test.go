package ocl

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/gocl/cl"
)

// stubPlatformDevices makes GetDeviceIDs list the given devices for every
// platform.
func stubPlatformDevices(t *testing.T, ids []cl.DeviceID) {
	stubCL(t, &cl.GetDeviceIDs,
		func(_ cl.PlatformID, deviceType cl.DeviceType, numEntries uint32, devices *cl.DeviceID, numDevices *uint32) cl.Status {
			require.Equal(t, cl.DeviceTypeAll, deviceType)
			if len(ids) == 0 {
				return cl.DeviceNotFound
			}
			*numDevices = uint32(len(ids))
			if numEntries > 0 {
				copy(unsafe.Slice(devices, numEntries), ids)
			}
			return cl.Success
		})
}

func TestPlatformStrings(t *testing.T) {
	r := newRegistry()
	p := wrapPlatform(r, 0xA1)
	values := map[cl.PlatformInfo][]byte{
		cl.PlatformName:       []byte("Portable Computing Language\x00"),
		cl.PlatformVendor:     []byte("The pocl project\x00"),
		cl.PlatformVersion:    []byte("OpenCL 3.0 PoCL 5.0\x00"),
		cl.PlatformProfile:    []byte("FULL_PROFILE\x00"),
		cl.PlatformExtensions: []byte("cl_khr_icd cl_khr_fp64\x00"),
	}
	stubCL(t, &cl.GetPlatformInfo,
		func(_ cl.PlatformID, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status {
			data, found := values[cl.PlatformInfo(param)]
			if !found {
				return cl.InvalidValue
			}
			return serveBytes(data, size, value, sizeRet)
		})

	require.Equal(t, "Portable Computing Language", capture(p.Name()).Test(t))
	require.Equal(t, "The pocl project", capture(p.Vendor()).Test(t))
	require.Equal(t, "OpenCL 3.0 PoCL 5.0", capture(p.Version()).Test(t))
	require.Equal(t, "FULL_PROFILE", capture(p.Profile()).Test(t))
	require.Equal(t, []string{"cl_khr_icd", "cl_khr_fp64"}, capture(p.Extensions()).Test(t))
}

func TestPlatformDevices(t *testing.T) {
	r := newRegistry()
	p := wrapPlatform(r, 0xA2)
	stubPlatformDevices(t, []cl.DeviceID{0xD1, 0xD2, 0xD3})
	stubCL(t, &cl.ReleaseDevice, func(cl.DeviceID) cl.Status { return cl.Success })

	require.Equal(t, 3, capture(p.NumDevices()).Test(t))
	devices := capture(p.Devices()).Test(t)
	require.Len(t, devices, 3)
	require.Equal(t, cl.DeviceID(0xD3), devices[2].ID())
	require.Same(t, devices[1], capture(p.Device(1)).Test(t))

	// Releasing the platform drops the devices it materialized.
	require.NoError(t, p.Release())
	require.Equal(t, 0, r.count())
}

func TestPlatformWithoutDevices(t *testing.T) {
	r := newRegistry()
	p := wrapPlatform(r, 0xA3)
	stubPlatformDevices(t, nil)

	require.Equal(t, 0, capture(p.NumDevices()).Test(t))
	devices := capture(p.Devices()).Test(t)
	require.Empty(t, devices)
	require.NoError(t, p.Release())
}
