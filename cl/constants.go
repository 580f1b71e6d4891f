package cl

import "fmt"

// Constants in this file follow the values in Khronos' CL/cl.h. Only the families used by
// the wrapper layer are declared; raw callers can always pass literal values.

// DeviceType is the cl_device_type bitfield.
type DeviceType uint64

const (
	DeviceTypeDefault     DeviceType = 1 << 0
	DeviceTypeCPU         DeviceType = 1 << 1
	DeviceTypeGPU         DeviceType = 1 << 2
	DeviceTypeAccelerator DeviceType = 1 << 3
	DeviceTypeCustom      DeviceType = 1 << 4
	DeviceTypeAll         DeviceType = 0xFFFFFFFF
)

// PlatformInfo selects the parameter for GetPlatformInfo.
type PlatformInfo uint32

const (
	PlatformProfile    PlatformInfo = 0x0900
	PlatformVersion    PlatformInfo = 0x0901
	PlatformName       PlatformInfo = 0x0902
	PlatformVendor     PlatformInfo = 0x0903
	PlatformExtensions PlatformInfo = 0x0904
)

// DeviceInfo selects the parameter for GetDeviceInfo.
type DeviceInfo uint32

const (
	DeviceTypeInfo              DeviceInfo = 0x1000
	DeviceVendorID              DeviceInfo = 0x1001
	DeviceMaxComputeUnits       DeviceInfo = 0x1002
	DeviceMaxWorkItemDimensions DeviceInfo = 0x1003
	DeviceMaxWorkGroupSize      DeviceInfo = 0x1004
	DeviceMaxWorkItemSizes      DeviceInfo = 0x1005
	DeviceMaxClockFrequency     DeviceInfo = 0x100C
	DeviceAddressBits           DeviceInfo = 0x100D
	DeviceMaxMemAllocSize       DeviceInfo = 0x1010
	DeviceImageSupport          DeviceInfo = 0x1016
	DeviceGlobalMemCacheSize    DeviceInfo = 0x101E
	DeviceGlobalMemSize         DeviceInfo = 0x101F
	DeviceMaxConstantBufferSize DeviceInfo = 0x1020
	DeviceLocalMemType          DeviceInfo = 0x1022
	DeviceLocalMemSize          DeviceInfo = 0x1023
	DeviceAvailable             DeviceInfo = 0x1027
	DeviceCompilerAvailable     DeviceInfo = 0x1028
	DeviceName                  DeviceInfo = 0x102B
	DeviceVendor                DeviceInfo = 0x102C
	DriverVersion               DeviceInfo = 0x102D
	DeviceProfile               DeviceInfo = 0x102E
	DeviceVersion               DeviceInfo = 0x102F
	DeviceExtensions            DeviceInfo = 0x1030
	DevicePlatform              DeviceInfo = 0x1031
	DeviceOpenCLCVersion        DeviceInfo = 0x103D
)

// ContextInfo selects the parameter for GetContextInfo.
type ContextInfo uint32

const (
	ContextReferenceCount ContextInfo = 0x1080
	ContextDevices        ContextInfo = 0x1081
	ContextProperties     ContextInfo = 0x1082
	ContextNumDevices     ContextInfo = 0x1083
)

// ContextPlatformProperty is the key for the platform entry of a context-properties list
// (cl_context_properties).
const ContextPlatformProperty uintptr = 0x1084

// QueueInfo selects the parameter for GetCommandQueueInfo.
type QueueInfo uint32

const (
	QueueContext        QueueInfo = 0x1090
	QueueDevice         QueueInfo = 0x1091
	QueueReferenceCount QueueInfo = 0x1092
	QueueProperties     QueueInfo = 0x1093
)

// CommandQueueProperties is the cl_command_queue_properties bitfield.
type CommandQueueProperties uint64

const (
	QueueOutOfOrderExecMode CommandQueueProperties = 1 << 0
	QueueProfilingEnable    CommandQueueProperties = 1 << 1
)

// MemFlags is the cl_mem_flags bitfield.
type MemFlags uint64

const (
	MemReadWrite     MemFlags = 1 << 0
	MemWriteOnly     MemFlags = 1 << 1
	MemReadOnly      MemFlags = 1 << 2
	MemUseHostPtr    MemFlags = 1 << 3
	MemAllocHostPtr  MemFlags = 1 << 4
	MemCopyHostPtr   MemFlags = 1 << 5
	MemHostWriteOnly MemFlags = 1 << 7
	MemHostReadOnly  MemFlags = 1 << 8
	MemHostNoAccess  MemFlags = 1 << 9
)

// MemInfo selects the parameter for GetMemObjectInfo.
type MemInfo uint32

const (
	MemTypeInfo       MemInfo = 0x1100
	MemFlagsInfo      MemInfo = 0x1101
	MemSizeInfo       MemInfo = 0x1102
	MemHostPtrInfo    MemInfo = 0x1103
	MemMapCount       MemInfo = 0x1104
	MemReferenceCount MemInfo = 0x1105
	MemContextInfo    MemInfo = 0x1106
)

// ProgramInfo selects the parameter for GetProgramInfo.
type ProgramInfo uint32

const (
	ProgramReferenceCount ProgramInfo = 0x1160
	ProgramContext        ProgramInfo = 0x1161
	ProgramNumDevices     ProgramInfo = 0x1162
	ProgramDevices        ProgramInfo = 0x1163
	ProgramSource         ProgramInfo = 0x1164
	ProgramBinarySizes    ProgramInfo = 0x1165
	ProgramBinaries       ProgramInfo = 0x1166
	ProgramNumKernels     ProgramInfo = 0x1167
	ProgramKernelNames    ProgramInfo = 0x1168
)

// ProgramBuildInfo selects the parameter for GetProgramBuildInfo.
type ProgramBuildInfo uint32

const (
	ProgramBuildStatusInfo ProgramBuildInfo = 0x1181
	ProgramBuildOptions    ProgramBuildInfo = 0x1182
	ProgramBuildLog        ProgramBuildInfo = 0x1183
)

// BuildStatus is the cl_build_status returned for ProgramBuildStatusInfo.
type BuildStatus int32

const (
	BuildSuccess    BuildStatus = 0
	BuildNone       BuildStatus = -1
	BuildError      BuildStatus = -2
	BuildInProgress BuildStatus = -3
)

// KernelInfo selects the parameter for GetKernelInfo.
type KernelInfo uint32

const (
	KernelFunctionName   KernelInfo = 0x1190
	KernelNumArgs        KernelInfo = 0x1191
	KernelReferenceCount KernelInfo = 0x1192
	KernelContext        KernelInfo = 0x1193
	KernelProgram        KernelInfo = 0x1194
	KernelAttributes     KernelInfo = 0x1195
)

// KernelWorkGroupInfo selects the parameter for GetKernelWorkGroupInfo (per-device queries).
type KernelWorkGroupInfo uint32

const (
	KernelWorkGroupSize                  KernelWorkGroupInfo = 0x11B0
	KernelCompileWorkGroupSize           KernelWorkGroupInfo = 0x11B1
	KernelLocalMemSize                   KernelWorkGroupInfo = 0x11B2
	KernelPreferredWorkGroupSizeMultiple KernelWorkGroupInfo = 0x11B3
	KernelPrivateMemSize                 KernelWorkGroupInfo = 0x11B4
)

// EventInfo selects the parameter for GetEventInfo.
type EventInfo uint32

const (
	EventCommandQueue           EventInfo = 0x11D0
	EventCommandType            EventInfo = 0x11D1
	EventReferenceCount         EventInfo = 0x11D2
	EventCommandExecutionStatus EventInfo = 0x11D3
	EventContext                EventInfo = 0x11D4
)

// ProfilingInfo selects the parameter for GetEventProfilingInfo. All values are device-time
// counters in nanoseconds.
type ProfilingInfo uint32

const (
	ProfilingCommandQueued ProfilingInfo = 0x1280
	ProfilingCommandSubmit ProfilingInfo = 0x1281
	ProfilingCommandStart  ProfilingInfo = 0x1282
	ProfilingCommandEnd    ProfilingInfo = 0x1283
)

// ExecutionStatus is the value returned for EventCommandExecutionStatus. A negative value
// is the Status of the failed command.
type ExecutionStatus int32

const (
	Complete  ExecutionStatus = 0x0
	Running   ExecutionStatus = 0x1
	Submitted ExecutionStatus = 0x2
	Queued    ExecutionStatus = 0x3
)

// CommandType identifies the command an event tracks (cl_command_type).
type CommandType uint32

const (
	CommandNDRangeKernel     CommandType = 0x11F0
	CommandTask              CommandType = 0x11F1
	CommandNativeKernel      CommandType = 0x11F2
	CommandReadBuffer        CommandType = 0x11F3
	CommandWriteBuffer       CommandType = 0x11F4
	CommandCopyBuffer        CommandType = 0x11F5
	CommandReadImage         CommandType = 0x11F6
	CommandWriteImage        CommandType = 0x11F7
	CommandCopyImage         CommandType = 0x11F8
	CommandCopyImageToBuffer CommandType = 0x11F9
	CommandCopyBufferToImage CommandType = 0x11FA
	CommandMapBuffer         CommandType = 0x11FB
	CommandMapImage          CommandType = 0x11FC
	CommandUnmapMemObject    CommandType = 0x11FD
	CommandMarker            CommandType = 0x11FE
	CommandReadBufferRect    CommandType = 0x1201
	CommandWriteBufferRect   CommandType = 0x1202
	CommandCopyBufferRect    CommandType = 0x1203
	CommandUser              CommandType = 0x1204
	CommandBarrier           CommandType = 0x1205
	CommandMigrateMemObjects CommandType = 0x1206
	CommandFillBuffer        CommandType = 0x1207
	CommandFillImage         CommandType = 0x1208
)

var commandTypeNames = map[CommandType]string{
	CommandNDRangeKernel:     "NDRANGE_KERNEL",
	CommandTask:              "TASK",
	CommandNativeKernel:      "NATIVE_KERNEL",
	CommandReadBuffer:        "READ_BUFFER",
	CommandWriteBuffer:       "WRITE_BUFFER",
	CommandCopyBuffer:        "COPY_BUFFER",
	CommandReadImage:         "READ_IMAGE",
	CommandWriteImage:        "WRITE_IMAGE",
	CommandCopyImage:         "COPY_IMAGE",
	CommandCopyImageToBuffer: "COPY_IMAGE_TO_BUFFER",
	CommandCopyBufferToImage: "COPY_BUFFER_TO_IMAGE",
	CommandMapBuffer:         "MAP_BUFFER",
	CommandMapImage:          "MAP_IMAGE",
	CommandUnmapMemObject:    "UNMAP_MEM_OBJECT",
	CommandMarker:            "MARKER",
	CommandReadBufferRect:    "READ_BUFFER_RECT",
	CommandWriteBufferRect:   "WRITE_BUFFER_RECT",
	CommandCopyBufferRect:    "COPY_BUFFER_RECT",
	CommandUser:              "USER",
	CommandBarrier:           "BARRIER",
	CommandMigrateMemObjects: "MIGRATE_MEM_OBJECTS",
	CommandFillBuffer:        "FILL_BUFFER",
	CommandFillImage:         "FILL_IMAGE",
}

// String returns the cl.h name of the command without the CL_COMMAND_ prefix, or the
// hexadecimal value for commands this package does not know about.
func (c CommandType) String() string {
	if name, found := commandTypeNames[c]; found {
		return name
	}
	return fmt.Sprintf("0x%04X", uint32(c))
}
