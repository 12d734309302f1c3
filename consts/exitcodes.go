package consts

// ExitCode is the process exit status of the dotto binary
type ExitCode int

const (
	ExitOK ExitCode = 0
	// ExitContextInit means the windowing library could not be initialized
	ExitContextInit ExitCode = -1
	// ExitWindowCreation means no window or graphics context could be created
	ExitWindowCreation ExitCode = -2
	// ExitDeviceInit means the graphics function loader failed
	ExitDeviceInit ExitCode = -3
	// ExitAudioInit means the audio device could not be opened
	ExitAudioInit ExitCode = -4
	// ExitAssets means a default asset is missing or the default program is unusable
	ExitAssets ExitCode = -5
	// ExitConfig means the configuration could not be loaded
	ExitConfig ExitCode = -6
	// ExitRuntimeGPU means a device error terminated the frame loop
	ExitRuntimeGPU ExitCode = -7
	// ExitFailure is any other failure
	ExitFailure ExitCode = 1
)

func (c ExitCode) String() string {
	switch c {
	case ExitOK:
		return "ok"
	case ExitContextInit:
		return "context init"
	case ExitWindowCreation:
		return "window creation"
	case ExitDeviceInit:
		return "device init"
	case ExitAudioInit:
		return "audio init"
	case ExitAssets:
		return "default assets"
	case ExitConfig:
		return "configuration"
	case ExitRuntimeGPU:
		return "runtime gpu failure"
	case ExitFailure:
		return "failure"
	default:
		return "unknown"
	}
}
