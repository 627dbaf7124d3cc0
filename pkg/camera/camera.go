// Package camera is a portable hardware abstraction layer for video
// capture devices. It discovers streaming capture devices, normalizes
// their format catalogs and control taxonomies into platform-independent
// types, and negotiates capture formats against live devices.
//
// # Enumeration
//
// Use Enumerate to take a snapshot of all usable capture devices:
//
//	for _, dev := range camera.Enumerate() {
//	    fmt.Printf("%d: %s\n", dev.Index, dev.Name)
//	    for _, f := range dev.Formats {
//	        fmt.Printf("  %s (%d resolutions)\n", f.FourCC, len(f.Resolutions))
//	    }
//	}
//
// Enumeration never fails: devices that refuse capability, control, or
// format queries are skipped, and a failing frame-size query drops only
// that format. The returned snapshots are caller-owned and do not track
// live device state.
//
// # Capture
//
// Open a device by index or path, negotiate a format, and stream:
//
//	dev, err := camera.Open(0)
//	actual, err := dev.SetFormat(camera.Format{Width: 1280, Height: 720, FourCC: camera.FourCCMJPG})
//	stream, err := dev.Stream()
//	frame, err := stream.Next(ctx)
//
// While a Stream exists it borrows the device exclusively: Format,
// SetFormat, and a second Stream return ErrDeviceBusy until the stream
// is closed.
package camera

// FourCC is a four-byte pixel format code, packed little-endian the way
// V4L2 stores it. Codes are opaque and compared by equality.
type FourCC uint32

// FourCCOf builds a FourCC from its four raw bytes.
func FourCCOf(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// String renders the four ASCII bytes of the code.
func (f FourCC) String() string {
	return string([]byte{
		byte(f),
		byte(f >> 8),
		byte(f >> 16),
		byte(f >> 24),
	})
}

// Well-known pixel format codes.
var (
	FourCCYUYV = FourCCOf('Y', 'U', 'Y', 'V')
	FourCCMJPG = FourCCOf('M', 'J', 'P', 'G')
	FourCCH264 = FourCCOf('H', '2', '6', '4')
	FourCCHEVC = FourCCOf('H', 'E', 'V', 'C')
	FourCCNV12 = FourCCOf('N', 'V', '1', '2')
)

// Resolution is a discrete frame geometry.
type Resolution struct {
	Width  uint32
	Height uint32
}

// FormatInfo is one entry of a device's format catalog. Resolutions
// keep platform enumeration order and may be empty when the device
// reports only stepwise ranges; those are dropped, never approximated.
// Emulated formats are synthesized by a compatibility layer rather than
// produced natively by the sensor.
type FormatInfo struct {
	FourCC      FourCC
	Resolutions []Resolution
	Emulated    bool
}

// Format is a negotiated capture format. Stride is the platform-reported
// bytes per row and may exceed Width times bytes per pixel due to
// driver alignment.
type Format struct {
	Width  uint32
	Height uint32
	FourCC FourCC
	Stride uint32
}

// Frame is one captured image. Data is an owned copy of the driver
// buffer; Sequence is the driver's frame counter.
type Frame struct {
	Data     []byte
	Sequence uint32
}
