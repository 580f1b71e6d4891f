package ocl

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/gocl/cl"
)

// Program wraps a cl_program, the devices it targets and the kernels created
// from it.
type Program struct {
	wrapperBase
	devs devContainer

	kernMu  sync.Mutex
	kernels map[string]*Kernel
}

// NewProgramFromSource creates a program in ctx from OpenCL C source strings.
// Build it before asking for kernels. The caller owns one reference.
func NewProgramFromSource(ctx *Context, sources ...string) (*Program, error) {
	if len(sources) == 0 {
		return nil, errors.New("creating a program requires at least one source string")
	}
	ptrs := make([]*byte, len(sources))
	lengths := make([]uintptr, len(sources))
	for i, src := range sources {
		if src == "" {
			return nil, errors.Errorf("program source string %d is empty", i)
		}
		b := []byte(src)
		ptrs[i] = &b[0]
		lengths[i] = uintptr(len(b))
	}
	var status cl.Status
	handle := cl.CreateProgramWithSource(ctx.native(), uint32(len(sources)), &ptrs[0], &lengths[0], &status)
	if status != cl.Success {
		return nil, errors.WithMessage(status.Err(), "creating a program from source")
	}
	return wrapProgram(ctx.reg, cl.Handle(handle)), nil
}

func wrapProgram(r *registry, handle cl.Handle) *Program {
	return findOrNew(r, ClassProgram, handle, func() *Program { return &Program{} })
}

func (p *Program) native() cl.Program { return cl.Program(p.handle) }

// Release undoes the constructor or Retain. The last release drops the
// program's kernels and devices and releases the native program.
func (p *Program) Release() error {
	return p.release(p.releaseFields, releaser(cl.ReleaseProgram))
}

func (p *Program) releaseFields() {
	p.kernMu.Lock()
	kernels := p.kernels
	p.kernels = nil
	p.kernMu.Unlock()
	for name, k := range kernels {
		if err := k.Release(); err != nil {
			klog.Errorf("Failed to release kernel %q held by a destroyed program: %v", name, err)
		}
	}
	p.devs.releaseDevices()
}

// Build compiles and links the program for the given devices, or for every
// device in its context when none are given. Compiler errors come back with
// the build log appended.
func (p *Program) Build(options string, devices ...*Device) error {
	ids := make([]cl.DeviceID, 0, len(devices))
	for _, d := range devices {
		ids = append(ids, d.ID())
	}
	var idPtr *cl.DeviceID
	if len(ids) > 0 {
		idPtr = &ids[0]
	}
	status := cl.BuildProgram(p.native(), uint32(len(ids)), idPtr, options, 0, nil)
	if status == cl.Success {
		return nil
	}
	if status == cl.BuildProgramFailure {
		if log, logErr := p.BuildLog(); logErr == nil && strings.TrimSpace(log) != "" {
			return errors.WithMessagef(status.Err(), "building program (options %q), build log:\n%s", options, log)
		}
	}
	return errors.WithMessagef(status.Err(), "building program (options %q)", options)
}

// DeviceBuildLog returns the build log of the most recent build for one
// device. Never cached: it changes with every build.
func (p *Program) DeviceBuildLog(d *Device) (string, error) {
	return stringInfo(&p.wrapperBase, d, uint32(cl.ProgramBuildLog), infoFn2(cl.GetProgramBuildInfo), false)
}

// BuildLog concatenates the build logs of all the program's devices, each
// under a header naming the device.
func (p *Program) BuildLog() (string, error) {
	devices, err := p.Devices()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, d := range devices {
		name, err := d.Name()
		if err != nil {
			return "", err
		}
		log, err := p.DeviceBuildLog(d)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(log) == "" {
			log = "Not available"
		}
		fmt.Fprintf(&sb, "\n### Build log for device '%s'\n\n%s\n\n", name, log)
	}
	return sb.String(), nil
}

// Kernel returns the program's kernel with the given function name, creating
// it on the first request and reusing it afterwards. The kernel is owned by
// the program: it stays valid until the program is destroyed and must not be
// released by the caller. For concurrent enqueues of the same function create
// independent kernels with NewKernel instead.
func (p *Program) Kernel(name string) (*Kernel, error) {
	p.kernMu.Lock()
	defer p.kernMu.Unlock()
	if k, found := p.kernels[name]; found {
		return k, nil
	}
	k, err := NewKernel(p, name)
	if err != nil {
		return nil, err
	}
	if p.kernels == nil {
		p.kernels = make(map[string]*Kernel)
	}
	p.kernels[name] = k
	return k, nil
}

// listDevices fetches the program's device IDs from CL_PROGRAM_DEVICES.
func (p *Program) listDevices() ([]cl.DeviceID, error) {
	buf, err := p.getInfo(nil, uint32(cl.ProgramDevices), infoFn1(cl.GetProgramInfo), true)
	if err != nil {
		return nil, err
	}
	return infoSlice[cl.DeviceID](buf), nil
}

// Devices returns the devices the program targets. The slice and its devices
// are owned by the program: do not modify the slice nor release the devices.
func (p *Program) Devices() ([]*Device, error) {
	return p.devs.all(&p.wrapperBase, p.listDevices)
}

// Device returns the program's index-th device, owned by the program.
func (p *Program) Device(index int) (*Device, error) {
	return p.devs.at(&p.wrapperBase, p.listDevices, index)
}

// NumDevices returns how many devices the program targets.
func (p *Program) NumDevices() (int, error) {
	return p.devs.count(&p.wrapperBase, p.listDevices)
}

// Info returns the raw bytes of a program parameter, memoized per parameter.
// The buffer is shared with the cache: treat it as read-only.
func (p *Program) Info(param cl.ProgramInfo) ([]byte, error) {
	return p.getInfo(nil, uint32(param), infoFn1(cl.GetProgramInfo), true)
}

// Source returns the program's concatenated source code.
func (p *Program) Source() (string, error) {
	return stringInfo(&p.wrapperBase, nil, uint32(cl.ProgramSource), infoFn1(cl.GetProgramInfo), true)
}
