package ocl

import (
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/gocl/cl"
)

// Filter selects the subset of devices it accepts, preserving order. Filters
// must return a subset of their input.
type Filter func(devices []*Device) ([]*Device, error)

// FilterFunc builds a Filter from a per-device predicate.
func FilterFunc(accept func(d *Device) (bool, error)) Filter {
	return func(devices []*Device) ([]*Device, error) {
		var kept []*Device
		for _, d := range devices {
			ok, err := accept(d)
			if err != nil {
				return nil, err
			}
			if ok {
				kept = append(kept, d)
			}
		}
		return kept, nil
	}
}

// FilterType accepts devices whose type intersects mask.
func FilterType(mask cl.DeviceType) Filter {
	return FilterFunc(func(d *Device) (bool, error) {
		t, err := d.Type()
		if err != nil {
			return false, err
		}
		return t&mask != 0, nil
	})
}

var (
	FilterGPU         = FilterType(cl.DeviceTypeGPU)
	FilterCPU         = FilterType(cl.DeviceTypeCPU)
	FilterAccelerator = FilterType(cl.DeviceTypeAccelerator)
)

// FilterNameContains accepts devices whose name, vendor or platform name
// contains part, case-insensitively.
func FilterNameContains(part string) Filter {
	want := strings.ToLower(part)
	return FilterFunc(func(d *Device) (bool, error) {
		name, err := d.Name()
		if err != nil {
			return false, err
		}
		if strings.Contains(strings.ToLower(name), want) {
			return true, nil
		}
		vendor, err := d.Vendor()
		if err != nil {
			return false, err
		}
		if strings.Contains(strings.ToLower(vendor), want) {
			return true, nil
		}
		p, err := d.Platform()
		if err != nil {
			return false, err
		}
		pName, err := p.Name()
		if rErr := p.Release(); rErr != nil {
			klog.Errorf("Releasing platform while filtering devices: %+v", rErr)
		}
		if err != nil {
			return false, err
		}
		return strings.Contains(strings.ToLower(pName), want), nil
	})
}

// FilterSamePlatform accepts only devices on the same platform as the first
// device of the list.
func FilterSamePlatform(devices []*Device) ([]*Device, error) {
	if len(devices) == 0 {
		return devices, nil
	}
	ref, err := devices[0].platformID()
	if err != nil {
		return nil, err
	}
	kept := []*Device{devices[0]}
	for _, d := range devices[1:] {
		id, err := d.platformID()
		if err != nil {
			return nil, err
		}
		if id == ref {
			kept = append(kept, d)
		}
	}
	return kept, nil
}

// FilterIndex selects the single device at index, failing if the list is
// shorter.
func FilterIndex(index int) Filter {
	return func(devices []*Device) ([]*Device, error) {
		if index < 0 || index >= len(devices) {
			return nil, errors.Errorf("no device at index %d, %d devices available", index, len(devices))
		}
		return devices[index : index+1 : index+1], nil
	}
}

// SelectDevices gathers the devices of every platform in the system and runs
// them through the filters in order. No filters selects every device. The
// caller owns a reference to each returned device and must Release them.
func SelectDevices(filters ...Filter) ([]*Device, error) {
	platforms, err := GetPlatforms()
	if err != nil {
		return nil, err
	}
	var all []*Device
	for _, p := range platforms {
		devs, dErr := p.Devices()
		if dErr != nil {
			err = dErr
			break
		}
		for _, d := range devs {
			d.Retain()
			all = append(all, d)
		}
	}
	for _, p := range platforms {
		if rErr := p.Release(); rErr != nil {
			klog.Errorf("Releasing platform after gathering devices: %+v", rErr)
		}
	}
	if err != nil {
		releaseDeviceRefs(all)
		return nil, err
	}

	selected := all
	for _, filter := range filters {
		selected, err = filter(selected)
		if err != nil {
			releaseDeviceRefs(all)
			return nil, err
		}
	}

	// Drop the references of the devices the filters rejected.
	kept := make(map[*Device]bool, len(selected))
	for _, d := range selected {
		kept[d] = true
	}
	for _, d := range all {
		if !kept[d] {
			if rErr := d.Release(); rErr != nil {
				klog.Errorf("Releasing filtered-out device: %+v", rErr)
			}
		}
	}
	return selected, nil
}

func releaseDeviceRefs(devices []*Device) {
	for _, d := range devices {
		if err := d.Release(); err != nil {
			klog.Errorf("Releasing device: %+v", err)
		}
	}
}

// NewContextFromFilters selects devices with SelectDevices and creates a
// context holding all of them.
func NewContextFromFilters(filters ...Filter) (*Context, error) {
	devices, err := SelectDevices(filters...)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, errors.New("no device accepted by the filters")
	}
	ctx, err := NewContext(devices...)
	releaseDeviceRefs(devices)
	return ctx, err
}
