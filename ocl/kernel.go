package ocl

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/gomlx/gocl/cl"
)

// Kernel wraps a cl_kernel.
//
// Argument state lives in the native kernel object, so setting arguments and
// enqueueing the same kernel from several goroutines races. For concurrent
// launches of one kernel function, give each goroutine its own kernel created
// with NewKernel.
type Kernel struct {
	wrapperBase
}

// NewKernel creates a kernel for one of program's kernel functions. Unlike
// Program.Kernel, the caller owns the reference and must Release it.
func NewKernel(p *Program, name string) (*Kernel, error) {
	var status cl.Status
	handle := cl.CreateKernel(p.native(), name, &status)
	if status != cl.Success {
		return nil, errors.WithMessagef(status.Err(), "creating kernel %q", name)
	}
	return wrapKernel(p.reg, cl.Handle(handle)), nil
}

func wrapKernel(r *registry, handle cl.Handle) *Kernel {
	return findOrNew(r, ClassKernel, handle, func() *Kernel { return &Kernel{} })
}

func (k *Kernel) native() cl.Kernel { return cl.Kernel(k.handle) }

// Release undoes NewKernel or Retain.
func (k *Kernel) Release() error {
	return k.release(nil, releaser(cl.ReleaseKernel))
}

// Arg describes one kernel argument. Build them with ArgBuffer, ArgValue,
// ArgHalf, ArgLocal or ArgSkip.
type Arg struct {
	size  uintptr
	value unsafe.Pointer
	skip  bool
}

// ArgValue carries a by-value argument: a scalar or a small struct matching
// the kernel parameter's memory layout.
func ArgValue[T any](v T) Arg {
	p := new(T)
	*p = v
	return Arg{size: unsafe.Sizeof(v), value: unsafe.Pointer(p)}
}

// ArgHalf converts v to IEEE 754 half precision, for kernel parameters
// declared half.
func ArgHalf(v float32) Arg {
	return ArgValue(float16.Fromfloat32(v))
}

// ArgLocal reserves size bytes of device local memory for the argument.
func ArgLocal(size int) Arg {
	return Arg{size: uintptr(size)}
}

// ArgBuffer passes a buffer object.
func ArgBuffer(b *Buffer) Arg {
	p := new(cl.Mem)
	*p = b.native()
	return Arg{size: unsafe.Sizeof(*p), value: unsafe.Pointer(p)}
}

// ArgSkip leaves the argument at its position untouched, so SetArgs can
// update a sparse subset of the arguments; previously set values stay valid.
var ArgSkip = Arg{skip: true}

// SetArg sets the kernel argument at index.
func (k *Kernel) SetArg(index int, arg Arg) error {
	if arg.skip {
		return nil
	}
	if status := cl.SetKernelArg(k.native(), uint32(index), arg.size, arg.value); status != cl.Success {
		return errors.WithMessagef(status.Err(), "setting kernel argument %d", index)
	}
	return nil
}

// SetArgs sets the arguments 0..len(args)-1 in order, honoring ArgSkip
// entries.
func (k *Kernel) SetArgs(args ...Arg) error {
	for i, arg := range args {
		if err := k.SetArg(i, arg); err != nil {
			return err
		}
	}
	return nil
}

// EnqueueNDRange launches the kernel on q over the global range, optionally
// with explicit per-dimension offsets and local (work-group) sizes: offset
// and local must be nil or have the same length as global, which sets the
// work dimensionality (1 to 3). The returned event is owned by q.
func (k *Kernel) EnqueueNDRange(q *Queue, offset, global, local []uintptr, waits ...*Event) (*Event, error) {
	dim := len(global)
	if dim < 1 || dim > 3 {
		return nil, errors.Errorf("global work size must have 1 to 3 dimensions, got %d", dim)
	}
	if offset != nil && len(offset) != dim {
		return nil, errors.Errorf("global offset has %d dimensions, global work size has %d", len(offset), dim)
	}
	if local != nil && len(local) != dim {
		return nil, errors.Errorf("local work size has %d dimensions, global work size has %d", len(local), dim)
	}
	var offPtr, localPtr *uintptr
	if offset != nil {
		offPtr = &offset[0]
	}
	if local != nil {
		localPtr = &local[0]
	}
	waitPtr, waitN := eventWaitList(waits)
	var ev cl.Event
	status := cl.EnqueueNDRangeKernel(q.native(), k.native(), uint32(dim), offPtr, &global[0], localPtr, waitN, waitPtr, &ev)
	if status != cl.Success {
		return nil, errors.WithMessage(status.Err(), "enqueueing an ND-range kernel")
	}
	return q.produce(ev), nil
}

// EnqueueNDRangeWithArgs sets the kernel arguments and launches in one call.
func (k *Kernel) EnqueueNDRangeWithArgs(q *Queue, offset, global, local []uintptr, args ...Arg) (*Event, error) {
	if err := k.SetArgs(args...); err != nil {
		return nil, err
	}
	return k.EnqueueNDRange(q, offset, global, local)
}

// Info returns the raw bytes of a kernel parameter, memoized per parameter.
// The buffer is shared with the cache: treat it as read-only.
func (k *Kernel) Info(param cl.KernelInfo) ([]byte, error) {
	return k.getInfo(nil, uint32(param), infoFn1(cl.GetKernelInfo), true)
}

// FunctionName returns the kernel function's name in the program source.
func (k *Kernel) FunctionName() (string, error) {
	return stringInfo(&k.wrapperBase, nil, uint32(cl.KernelFunctionName), infoFn1(cl.GetKernelInfo), true)
}

// NumArgs returns the number of arguments the kernel function takes.
func (k *Kernel) NumArgs() (int, error) {
	v, err := scalarInfo[uint32](&k.wrapperBase, nil, uint32(cl.KernelNumArgs), infoFn1(cl.GetKernelInfo), true)
	return int(v), err
}

// WorkGroupInfo returns the raw bytes of a per-device kernel parameter, keyed
// on both the parameter and the device.
func (k *Kernel) WorkGroupInfo(d *Device, param cl.KernelWorkGroupInfo) ([]byte, error) {
	return k.getInfo(d, uint32(param), infoFn2(cl.GetKernelWorkGroupInfo), true)
}

// WorkGroupSize returns the maximum work-group size usable for the kernel on
// the given device.
func (k *Kernel) WorkGroupSize(d *Device) (int, error) {
	v, err := scalarInfo[uintptr](&k.wrapperBase, d, uint32(cl.KernelWorkGroupSize), infoFn2(cl.GetKernelWorkGroupInfo), true)
	return int(v), err
}

// PreferredWorkGroupSizeMultiple returns the device's preferred work-group
// size granularity for the kernel.
func (k *Kernel) PreferredWorkGroupSizeMultiple(d *Device) (int, error) {
	v, err := scalarInfo[uintptr](&k.wrapperBase, d, uint32(cl.KernelPreferredWorkGroupSizeMultiple), infoFn2(cl.GetKernelWorkGroupInfo), true)
	return int(v), err
}
