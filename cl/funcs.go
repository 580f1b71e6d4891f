package cl

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// The OpenCL entry points, bound by Load. They follow the C signatures from cl.h with
// size_t mapped to uintptr and out-parameters as Go pointers. A variable is nil until
// Load succeeds; variables for symbols newer than the installed OpenCL version stay nil
// (see registerFuncs for which ones are optional).
var (
	// Platforms and devices.
	GetPlatformIDs  func(numEntries uint32, platforms *PlatformID, numPlatforms *uint32) Status
	GetPlatformInfo func(platform PlatformID, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status
	GetDeviceIDs    func(platform PlatformID, deviceType DeviceType, numEntries uint32, devices *DeviceID, numDevices *uint32) Status
	GetDeviceInfo   func(device DeviceID, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status
	RetainDevice    func(device DeviceID) Status
	ReleaseDevice   func(device DeviceID) Status

	// Contexts.
	CreateContext         func(properties *uintptr, numDevices uint32, devices *DeviceID, notify uintptr, userData unsafe.Pointer, errRet *Status) Context
	CreateContextFromType func(properties *uintptr, deviceType DeviceType, notify uintptr, userData unsafe.Pointer, errRet *Status) Context
	RetainContext         func(context Context) Status
	ReleaseContext        func(context Context) Status
	GetContextInfo        func(context Context, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status

	// Command queues.
	CreateCommandQueue               func(context Context, device DeviceID, properties CommandQueueProperties, errRet *Status) CommandQueue
	CreateCommandQueueWithProperties func(context Context, device DeviceID, properties *uint64, errRet *Status) CommandQueue
	RetainCommandQueue               func(queue CommandQueue) Status
	ReleaseCommandQueue              func(queue CommandQueue) Status
	GetCommandQueueInfo              func(queue CommandQueue, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status
	Flush                            func(queue CommandQueue) Status
	Finish                           func(queue CommandQueue) Status

	// Memory objects.
	ReleaseMemObject   func(mem Mem) Status
	RetainMemObject    func(mem Mem) Status
	CreateBuffer       func(context Context, flags MemFlags, size uintptr, hostPtr unsafe.Pointer, errRet *Status) Mem
	GetMemObjectInfo   func(mem Mem, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status
	EnqueueReadBuffer  func(queue CommandQueue, buffer Mem, blocking Bool, offset, size uintptr, ptr unsafe.Pointer, numWait uint32, waitList *Event, event *Event) Status
	EnqueueWriteBuffer func(queue CommandQueue, buffer Mem, blocking Bool, offset, size uintptr, ptr unsafe.Pointer, numWait uint32, waitList *Event, event *Event) Status

	// Programs.
	CreateProgramWithSource func(context Context, count uint32, strs **byte, lengths *uintptr, errRet *Status) Program
	BuildProgram            func(program Program, numDevices uint32, devices *DeviceID, options string, notify uintptr, userData unsafe.Pointer) Status
	RetainProgram           func(program Program) Status
	ReleaseProgram          func(program Program) Status
	GetProgramInfo          func(program Program, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status
	GetProgramBuildInfo     func(program Program, device DeviceID, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status

	// Kernels.
	CreateKernel           func(program Program, name string, errRet *Status) Kernel
	RetainKernel           func(kernel Kernel) Status
	ReleaseKernel          func(kernel Kernel) Status
	GetKernelInfo          func(kernel Kernel, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status
	GetKernelWorkGroupInfo func(kernel Kernel, device DeviceID, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status
	SetKernelArg           func(kernel Kernel, index uint32, size uintptr, value unsafe.Pointer) Status
	EnqueueNDRangeKernel   func(queue CommandQueue, kernel Kernel, workDim uint32, globalOffset, globalSize, localSize *uintptr, numWait uint32, waitList *Event, event *Event) Status

	// Events.
	WaitForEvents         func(num uint32, list *Event) Status
	GetEventInfo          func(event Event, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status
	GetEventProfilingInfo func(event Event, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) Status
	RetainEvent           func(event Event) Status
	ReleaseEvent          func(event Event) Status
)

// registerFuncs binds the package's function variables to the symbols in lib. Symbols
// from the OpenCL 1.1 core are required; newer ones (device retain/release from 1.2,
// queue-with-properties from 2.0) are left nil when the library does not export them.
func registerFuncs(lib uintptr) error {
	var missing []string
	required := func(fptr any, name string) {
		if !register(lib, fptr, name) {
			missing = append(missing, name)
		}
	}
	optional := func(fptr any, name string) {
		if !register(lib, fptr, name) {
			klog.V(1).Infof("OpenCL symbol %q not exported by %q, leaving it unbound", name, libraryPath)
		}
	}

	required(&GetPlatformIDs, "clGetPlatformIDs")
	required(&GetPlatformInfo, "clGetPlatformInfo")
	required(&GetDeviceIDs, "clGetDeviceIDs")
	required(&GetDeviceInfo, "clGetDeviceInfo")
	required(&CreateContext, "clCreateContext")
	required(&CreateContextFromType, "clCreateContextFromType")
	required(&RetainContext, "clRetainContext")
	required(&ReleaseContext, "clReleaseContext")
	required(&GetContextInfo, "clGetContextInfo")
	required(&RetainCommandQueue, "clRetainCommandQueue")
	required(&ReleaseCommandQueue, "clReleaseCommandQueue")
	required(&GetCommandQueueInfo, "clGetCommandQueueInfo")
	required(&Flush, "clFlush")
	required(&Finish, "clFinish")
	required(&CreateBuffer, "clCreateBuffer")
	required(&RetainMemObject, "clRetainMemObject")
	required(&ReleaseMemObject, "clReleaseMemObject")
	required(&GetMemObjectInfo, "clGetMemObjectInfo")
	required(&EnqueueReadBuffer, "clEnqueueReadBuffer")
	required(&EnqueueWriteBuffer, "clEnqueueWriteBuffer")
	required(&CreateProgramWithSource, "clCreateProgramWithSource")
	required(&BuildProgram, "clBuildProgram")
	required(&RetainProgram, "clRetainProgram")
	required(&ReleaseProgram, "clReleaseProgram")
	required(&GetProgramInfo, "clGetProgramInfo")
	required(&GetProgramBuildInfo, "clGetProgramBuildInfo")
	required(&CreateKernel, "clCreateKernel")
	required(&RetainKernel, "clRetainKernel")
	required(&ReleaseKernel, "clReleaseKernel")
	required(&GetKernelInfo, "clGetKernelInfo")
	required(&GetKernelWorkGroupInfo, "clGetKernelWorkGroupInfo")
	required(&SetKernelArg, "clSetKernelArg")
	required(&EnqueueNDRangeKernel, "clEnqueueNDRangeKernel")
	required(&WaitForEvents, "clWaitForEvents")
	required(&GetEventInfo, "clGetEventInfo")
	required(&GetEventProfilingInfo, "clGetEventProfilingInfo")
	required(&RetainEvent, "clRetainEvent")
	required(&ReleaseEvent, "clReleaseEvent")

	optional(&RetainDevice, "clRetainDevice")
	optional(&ReleaseDevice, "clReleaseDevice")
	optional(&CreateCommandQueue, "clCreateCommandQueue")
	optional(&CreateCommandQueueWithProperties, "clCreateCommandQueueWithProperties")

	if len(missing) > 0 {
		return errors.Errorf("library %q is missing required OpenCL symbols: %v", libraryPath, missing)
	}
	if CreateCommandQueue == nil && CreateCommandQueueWithProperties == nil {
		return errors.Errorf("library %q exports no way to create a command queue", libraryPath)
	}
	return nil
}

// register resolves name in lib and, when present, binds fptr to it.
func register(lib uintptr, fptr any, name string) bool {
	sym, err := purego.Dlsym(lib, name)
	if err != nil || sym == 0 {
		return false
	}
	purego.RegisterFunc(fptr, sym)
	return true
}
