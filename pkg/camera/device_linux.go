//go:build linux

package camera

import (
	"context"
	"fmt"
	"syscall"

	"github.com/smazurov/camnode/pkg/linuxav/v4l2"
)

// streamBufferCount is the number of mmap buffers requested per stream.
// Four is enough to ride out scheduling jitter without adding latency.
const streamBufferCount = 4

// Device is an open handle to one capture device. A Device is owned by
// a single goroutine; it carries no internal locking beyond the stream
// borrow flag.
type Device struct {
	path   string
	fd     int
	busy   bool // an open Stream holds an exclusive borrow
	closed bool
}

// Open opens the capture device with the given platform index.
func Open(index uint32) (*Device, error) {
	return OpenPath(fmt.Sprintf("/dev/video%d", index))
}

// OpenPath opens the capture device at the given node path.
func OpenPath(path string) (*Device, error) {
	fd, err := syscall.Open(path, syscall.O_RDWR|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, wrapSyscallError(path, err)
	}
	return &Device{path: path, fd: fd}, nil
}

// Path returns the device node path this handle was opened from.
func (d *Device) Path() string {
	return d.path
}

// Format returns the currently active capture format, including the
// driver-reported stride.
func (d *Device) Format() (Format, error) {
	if d.busy {
		return Format{}, fmt.Errorf("%s: %w", d.path, ErrDeviceBusy)
	}
	pix, err := v4l2.GetFormat(d.fd)
	if err != nil {
		return Format{}, wrapSyscallError(d.path, err)
	}
	return formatFromPix(pix), nil
}

// SetFormat requests the given width, height, and pixel format. Stride
// is never requested; it is always driver-derived. On success the
// actual resulting format is re-queried and returned — the driver may
// round the geometry, so callers must not assume the request was
// honored exactly.
func (d *Device) SetFormat(req Format) (Format, error) {
	if d.busy {
		return Format{}, fmt.Errorf("%s: %w", d.path, ErrDeviceBusy)
	}
	_, err := v4l2.SetFormat(d.fd, v4l2.PixFormat{
		Width:       req.Width,
		Height:      req.Height,
		PixelFormat: uint32(req.FourCC),
	})
	if err != nil {
		return Format{}, wrapSyscallError(d.path, err)
	}
	pix, err := v4l2.GetFormat(d.fd)
	if err != nil {
		return Format{}, wrapSyscallError(d.path, err)
	}
	return formatFromPix(pix), nil
}

// Control reads the current value of a device control. Reading is
// permitted while a stream is open.
func (d *Device) Control(id uint32) (int32, error) {
	value, err := v4l2.GetControl(d.fd, id)
	if err != nil {
		return 0, wrapSyscallError(d.path, err)
	}
	return value, nil
}

// SetControl writes a control value. Controls like exposure or gain may
// legitimately change while a stream is open, so no borrow check
// applies here.
func (d *Device) SetControl(id uint32, value int32) error {
	if err := v4l2.SetControl(d.fd, id, value); err != nil {
		return wrapSyscallError(d.path, err)
	}
	return nil
}

// Controls lists the device's controls with their classified
// representations. Listing is permitted while a stream is open.
func (d *Device) Controls() ([]ControlInfo, error) {
	descs, err := v4l2.QueryControls(d.fd)
	if err != nil {
		return nil, wrapSyscallError(d.path, err)
	}
	controls := make([]ControlInfo, 0, len(descs))
	for _, desc := range descs {
		controls = append(controls, ControlInfo{
			ID:   desc.ID,
			Name: desc.Name,
			Repr: classifyControl(desc),
		})
	}
	return controls, nil
}

// ForceKeyFrame asks an encoding device to produce an IDR frame on the
// next capture. Devices without the control report ErrNotSupported or
// ErrInvalidArgument.
func (d *Device) ForceKeyFrame() error {
	if err := v4l2.ForceKeyFrame(d.fd); err != nil {
		return wrapSyscallError(d.path, err)
	}
	return nil
}

// Stream starts frame production and hands back the streaming handle.
// The stream borrows the device exclusively: until it is closed,
// Format, SetFormat, and further Stream calls fail with ErrDeviceBusy.
// A failed start leaves the device unborrowed and usable.
func (d *Device) Stream() (*Stream, error) {
	if d.busy {
		return nil, fmt.Errorf("%s: %w", d.path, ErrDeviceBusy)
	}

	inner, err := v4l2.NewStream(d.fd, streamBufferCount)
	if err != nil {
		return nil, wrapSyscallError(d.path, err)
	}
	if err := inner.Start(); err != nil {
		_ = inner.Close()
		return nil, wrapSyscallError(d.path, err)
	}

	d.busy = true
	return &Stream{dev: d, inner: inner}, nil
}

// Close releases the platform handle. It is idempotent; the underlying
// descriptor is closed exactly once.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if err := syscall.Close(d.fd); err != nil {
		return wrapSyscallError(d.path, err)
	}
	return nil
}

// Stream is an active frame source bound to its parent Device. Its
// lifetime is bounded by the device's; closing it returns the borrow.
type Stream struct {
	dev    *Device
	inner  *v4l2.Stream
	closed bool
}

// Next blocks until the next frame arrives, the context is cancelled,
// or the device errors. Frame data is an owned copy.
func (s *Stream) Next(ctx context.Context) (Frame, error) {
	raw, err := s.inner.Capture(ctx)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Data: raw.Data, Sequence: raw.Sequence}, nil
}

// Close stops streaming, releases the driver buffers, and returns the
// exclusive borrow to the device. The device stays open.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.inner.Close()
	s.dev.busy = false
	return err
}

func formatFromPix(pix v4l2.PixFormat) Format {
	return Format{
		Width:  pix.Width,
		Height: pix.Height,
		FourCC: FourCC(pix.PixelFormat),
		Stride: pix.BytesPerLine,
	}
}
