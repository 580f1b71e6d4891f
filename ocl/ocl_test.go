package ocl

// Common initialization and testing tools for all test files.

import (
	"flag"
	"fmt"
	"testing"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"

	"github.com/gomlx/gocl/cl"
)

var flagDevice = flag.String("device", "", "substring selecting the device to run integration tests on, matched against device, vendor and platform names")

func init() {
	klog.InitFlags(nil)
}

type errTester[T any] struct {
	value T
	err   error
}

// capture is a shortcut to test that there is no error and return the value.
func capture[T any](value T, err error) errTester[T] {
	return errTester[T]{value, err}
}

func (e errTester[T]) Test(t *testing.T) T {
	require.NoError(t, e.err)
	return e.value
}

func must(err error) {
	if err != nil {
		panicf("Failed: %+v", errors.WithStack(err))
	}
}

func must1[T any](t T, err error) T {
	must(err)
	return t
}

// stubCL replaces one of the cl function pointers until the test ends.
// Tests that stub must not run in parallel.
func stubCL[F any](t *testing.T, slot *F, fake F) {
	orig := *slot
	*slot = fake
	t.Cleanup(func() { *slot = orig })
}

// scalarBytes encodes a fixed-size value in its in-memory layout, as a native
// info query would return it.
func scalarBytes[T any](v T) []byte {
	buf := make([]byte, unsafe.Sizeof(v))
	*(*T)(unsafe.Pointer(unsafe.SliceData(buf))) = v
	return buf
}

// serveBytes answers one call of the size-then-fill protocol with data, for
// stubbed native queries.
func serveBytes(data []byte, size uintptr, value unsafe.Pointer, sizeRet *uintptr) cl.Status {
	if value == nil {
		*sizeRet = uintptr(len(data))
		return cl.Success
	}
	if size < uintptr(len(data)) {
		return cl.InvalidValue
	}
	copy(unsafe.Slice((*byte)(value), len(data)), data)
	return cl.Success
}

// getTestDevice selects a device to run integration tests on, honoring
// -device, and skips the test when no OpenCL runtime is available. It exits
// the test if anything else goes wrong.
func getTestDevice(t *testing.T) *Device {
	if err := cl.Load(); err != nil {
		t.Skipf("OpenCL library not available: %v", err)
	}
	filters := []Filter{}
	if *flagDevice != "" {
		filters = append(filters, FilterNameContains(*flagDevice))
	}
	devices, err := SelectDevices(filters...)
	if errors.Is(err, cl.PlatformNotFoundKHR) {
		t.Skipf("OpenCL loaded but no platform installed: %v", err)
	}
	require.NoError(t, err, "Failed to select devices")
	if len(devices) == 0 {
		t.Skipf("No OpenCL device matching %q", *flagDevice)
	}
	device := devices[0]
	releaseDeviceRefs(devices[1:])
	fmt.Printf("Testing on device %q\n", must1(device.Name()))
	return device
}

// getTestContext creates a context holding the integration test device.
// The caller must release both.
func getTestContext(t *testing.T) (*Context, *Device) {
	device := getTestDevice(t)
	ctx, err := NewContext(device)
	require.NoError(t, err, "Failed to create a context")
	return ctx, device
}
