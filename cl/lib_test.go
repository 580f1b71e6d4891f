package cl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// TestLoad exercises the real library when one is installed; otherwise it only checks
// that the failure is consistently reported.
func TestLoad(t *testing.T) {
	err := Load()
	if err != nil {
		require.False(t, Loaded())
		t.Skipf("OpenCL library not available: %v", err)
	}
	fmt.Printf("Loaded OpenCL library from %q\n", LibraryPath())
	require.True(t, Loaded())
	require.NotNil(t, GetPlatformIDs)
	require.NotNil(t, GetDeviceInfo)

	// A loader with no ICDs installed reports CL_PLATFORM_NOT_FOUND_KHR here.
	var numPlatforms uint32
	status := GetPlatformIDs(0, nil, &numPlatforms)
	fmt.Printf("clGetPlatformIDs: status=%s, %d platform(s)\n", status, numPlatforms)
	require.Contains(t, []Status{Success, PlatformNotFoundKHR}, status)
}

// TestLoadIsCached checks repeated calls return the same result without reloading.
func TestLoadIsCached(t *testing.T) {
	err1 := Load()
	err2 := Load()
	require.Equal(t, err1, err2)
}
