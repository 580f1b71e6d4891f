package ocl

// Class identifies which kind of native OpenCL object a wrapper manages.
type Class int

//go:generate go tool enumer -type=Class -trimprefix=Class class.go

const (
	ClassBuffer Class = iota
	ClassContext
	ClassDevice
	ClassEvent
	ClassImage
	ClassKernel
	ClassPlatform
	ClassProgram
	ClassSampler
	ClassQueue
	ClassNone
)
