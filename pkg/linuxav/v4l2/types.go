//go:build linux

package v4l2

// DeviceInfo contains information about a V4L2 device.
type DeviceInfo struct {
	DevicePath string
	DeviceName string
	DeviceID   string // Stable identifier (from /dev/v4l/by-id/ or synthetic)
	Index      int    // Kernel device index from sysfs
	Caps       uint32
}

// FormatInfo contains information about a supported pixel format.
type FormatInfo struct {
	PixelFormat uint32
	FormatName  string
	Emulated    bool
}

// Resolution represents a supported video resolution.
type Resolution struct {
	Width  uint32
	Height uint32
}

// FrameSize is one entry from frame size enumeration. Discrete entries
// carry Width/Height; stepwise and continuous entries carry the range
// fields instead.
type FrameSize struct {
	Type       uint32 // V4L2_FRMSIZE_TYPE_*
	Width      uint32
	Height     uint32
	MinWidth   uint32
	MaxWidth   uint32
	StepWidth  uint32
	MinHeight  uint32
	MaxHeight  uint32
	StepHeight uint32
}

// Discrete reports whether the entry is an explicit (width, height) pair.
func (f FrameSize) Discrete() bool {
	return f.Type == V4L2_FRMSIZE_TYPE_DISCRETE
}

// Framerate represents a supported framerate as a fraction.
type Framerate struct {
	Numerator   uint32
	Denominator uint32
}

// FPS returns the framerate as frames per second.
func (f Framerate) FPS() float64 {
	if f.Numerator == 0 {
		return 0
	}
	return float64(f.Denominator) / float64(f.Numerator)
}

// ControlDesc is the raw description of one device control as reported
// by VIDIOC_QUERY_EXT_CTRL (or the classic VIDIOC_QUERYCTRL fallback).
// Ranges are always widened to 64-bit. Menu holds the enumerated menu
// entries for MENU and INTEGER_MENU controls.
type ControlDesc struct {
	ID      uint32
	Name    string
	Type    uint32 // V4L2_CTRL_TYPE_*
	Minimum int64
	Maximum int64
	Step    uint64
	Default int64
	Flags   uint32
	Menu    []MenuEntry
}

// MenuEntry is one entry of a menu control. Name is set for MENU
// controls; Value is set (and Numeric true) for INTEGER_MENU controls.
type MenuEntry struct {
	Index   uint32
	Name    string
	Value   int64
	Numeric bool
}

// PixFormat describes a negotiated capture format. BytesPerLine is the
// driver-reported stride and may exceed Width times bytes per pixel.
type PixFormat struct {
	Width        uint32
	Height       uint32
	PixelFormat  uint32
	Field        uint32
	BytesPerLine uint32
	SizeImage    uint32
	Colorspace   uint32
}

// DeviceType represents the type of V4L2 device.
type DeviceType int

// Device types.
const (
	DeviceTypeWebcam  DeviceType = 0
	DeviceTypeHDMI    DeviceType = 1
	DeviceTypeUnknown DeviceType = -1
)

// SignalState represents the state of a video signal.
type SignalState int

// Signal states.
const (
	SignalStateNoDevice     SignalState = -1
	SignalStateNoLink       SignalState = 0 // No cable connected
	SignalStateNoSignal     SignalState = 1 // Cable connected, no signal
	SignalStateUnstable     SignalState = 2 // Signal present but unstable
	SignalStateLocked       SignalState = 3 // Signal locked and stable
	SignalStateOutOfRange   SignalState = 4 // Signal out of supported range
	SignalStateNotSupported SignalState = 5 // Device doesn't support DV timings
)

// SignalStatus contains detailed signal information.
type SignalStatus struct {
	State      SignalState
	Width      uint32
	Height     uint32
	FPS        float64
	Interlaced bool
}

// DeviceStatus contains combined device type and ready status.
type DeviceStatus struct {
	DeviceType DeviceType
	Ready      bool
}
