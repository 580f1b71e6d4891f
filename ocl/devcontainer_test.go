package ocl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/gocl/cl"
)

// fakeOwner builds a platform-classed test wrapper to act as a device
// container's parent.
func fakeOwner(r *registry, handle cl.Handle) *testWrapper {
	return findOrNew(r, ClassPlatform, handle, func() *testWrapper { return &testWrapper{} })
}

func TestDevContainerMaterializeOnce(t *testing.T) {
	r := newRegistry()
	owner := fakeOwner(r, 0xF1)
	var c devContainer
	calls := 0
	list := func() ([]cl.DeviceID, error) {
		calls++
		return []cl.DeviceID{0xD1, 0xD2, 0xD3}, nil
	}

	devices := capture(c.all(&owner.wrapperBase, list)).Test(t)
	require.Len(t, devices, 3)
	require.Equal(t, 1, calls)

	// Every further access reuses the one materialized list.
	again := capture(c.all(&owner.wrapperBase, list)).Test(t)
	require.Equal(t, 1, calls)
	for i := range devices {
		require.Same(t, devices[i], again[i])
	}
	require.Equal(t, 3, must1(c.count(&owner.wrapperBase, list)))
	require.Equal(t, 1, calls)

	c.releaseDevices()
	require.NoError(t, owner.Release())
	require.Equal(t, 0, r.count())
}

func TestDevContainerAt(t *testing.T) {
	r := newRegistry()
	owner := fakeOwner(r, 0xF2)
	var c devContainer
	list := func() ([]cl.DeviceID, error) {
		return []cl.DeviceID{0xD1, 0xD2, 0xD3}, nil
	}

	d := capture(c.at(&owner.wrapperBase, list, 1)).Test(t)
	require.Equal(t, cl.Handle(0xD2), d.Handle())

	_, err := c.at(&owner.wrapperBase, list, 5)
	require.Error(t, err)
	var idxErr *IndexError
	require.ErrorAs(t, err, &idxErr)
	require.Equal(t, 5, idxErr.Index)
	require.Equal(t, 3, idxErr.Count)
	require.EqualError(t, err, "device index 5 out of range: Platform has 3 devices")

	_, err = c.at(&owner.wrapperBase, list, -1)
	require.Error(t, err)

	c.releaseDevices()
	require.NoError(t, owner.Release())
}

func TestDevContainerErrorRetries(t *testing.T) {
	r := newRegistry()
	owner := fakeOwner(r, 0xF3)
	var c devContainer
	calls := 0
	list := func() ([]cl.DeviceID, error) {
		calls++
		if calls == 1 {
			return nil, cl.OutOfResources.Err()
		}
		return []cl.DeviceID{0xD1}, nil
	}

	// A failed query materializes nothing.
	_, err := c.all(&owner.wrapperBase, list)
	require.Error(t, err)
	require.ErrorIs(t, err, cl.OutOfResources)

	// The next access queries again.
	devices := capture(c.all(&owner.wrapperBase, list)).Test(t)
	require.Len(t, devices, 1)
	require.Equal(t, 2, calls)

	c.releaseDevices()
	require.NoError(t, owner.Release())
}

func TestDevContainerEmpty(t *testing.T) {
	r := newRegistry()
	owner := fakeOwner(r, 0xF4)
	var c devContainer
	calls := 0
	list := func() ([]cl.DeviceID, error) {
		calls++
		return nil, nil
	}

	require.Empty(t, capture(c.all(&owner.wrapperBase, list)).Test(t))
	require.Empty(t, capture(c.all(&owner.wrapperBase, list)).Test(t))
	require.Equal(t, 1, calls, "an empty list is still materialized only once")

	_, err := c.at(&owner.wrapperBase, list, 0)
	require.Error(t, err)

	c.releaseDevices()
	require.NoError(t, owner.Release())
}

func TestDevContainersShareDeviceWrappers(t *testing.T) {
	r := newRegistry()
	owner1 := fakeOwner(r, 0xF5)
	owner2 := fakeOwner(r, 0xF6)
	var c1, c2 devContainer
	list := func() ([]cl.DeviceID, error) {
		return []cl.DeviceID{0xD1}, nil
	}

	d1 := capture(c1.all(&owner1.wrapperBase, list)).Test(t)[0]
	d2 := capture(c2.all(&owner2.wrapperBase, list)).Test(t)[0]
	require.Same(t, d1, d2)
	require.Equal(t, 2, d1.RefCount(), "each container holds its own reference")

	c1.releaseDevices()
	require.Equal(t, 1, d1.RefCount())
	c2.releaseDevices()

	require.NoError(t, owner1.Release())
	require.NoError(t, owner2.Release())
	require.Equal(t, 0, r.count())
}
