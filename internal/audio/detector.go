package audio

// Device represents an audio capture device with its capabilities.
type Device struct {
	CardNumber       int
	CardID           string
	CardName         string
	DeviceNumber     int
	DeviceName       string
	Type             string // "capture"
	ALSADevice       string // ALSA device string (e.g., "hw:0,0")
	SupportedRates   []int
	MinChannels      int
	MaxChannels      int
	SupportedFormats []string
	MinBufferSize    int
	MaxBufferSize    int
	MinPeriodSize    int
	MaxPeriodSize    int
}

// Detector enumerates audio capture devices.
type Detector interface {
	// ListDevices enumerates all available audio capture devices.
	ListDevices() ([]Device, error)

	// FindPairedDevice returns the audio device that shares physical
	// hardware with the given video device path, or nil when the
	// video device has no audio function.
	FindPairedDevice(videoDevicePath string) (*Device, error)
}

// NewDetector creates a platform-specific audio detector.
func NewDetector() Detector {
	return newPlatformDetector()
}
