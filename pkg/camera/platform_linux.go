//go:build linux

package camera

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/smazurov/camnode/pkg/linuxav/v4l2"
)

// platformEntries builds the raw device list from the sysfs
// video4linux class. A failing sysfs walk yields an empty list.
func platformEntries() []Entry {
	infos, err := v4l2.FindDevices()
	if err != nil {
		return nil
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, &v4l2Entry{info: info})
	}
	return entries
}

// v4l2Entry adapts one enumerated V4L2 device to the Entry seam.
// Identity and capabilities come from the enumeration pass; control and
// format probes open the device node on demand.
type v4l2Entry struct {
	info v4l2.DeviceInfo
}

func (e *v4l2Entry) Index() (uint32, error) {
	if e.info.Index < 0 {
		return 0, fmt.Errorf("device %s has no index", e.info.DevicePath)
	}
	return uint32(e.info.Index), nil
}

func (e *v4l2Entry) Name() (string, error) {
	if e.info.DeviceName == "" {
		return "", fmt.Errorf("device %s has no name", e.info.DevicePath)
	}
	return e.info.DeviceName, nil
}

func (e *v4l2Entry) Capabilities() (Capability, error) {
	return Capability(e.info.Caps), nil
}

func (e *v4l2Entry) Controls() ([]ControlInfo, error) {
	fd, err := openNode(e.info.DevicePath)
	if err != nil {
		return nil, err
	}
	defer syscall.Close(fd)

	descs, err := v4l2.QueryControls(fd)
	if err != nil {
		return nil, err
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

func (e *v4l2Entry) Formats() ([]FormatInfo, error) {
	fd, err := openNode(e.info.DevicePath)
	if err != nil {
		return nil, err
	}
	defer syscall.Close(fd)

	descs, err := v4l2.EnumFormats(fd)
	if err != nil {
		return nil, err
	}

	formats := make([]FormatInfo, 0, len(descs))
	for _, desc := range descs {
		sizes, err := v4l2.EnumFrameSizes(fd, desc.PixelFormat)
		if err != nil {
			// A format whose frame sizes cannot be read is dropped;
			// the rest of the catalog survives.
			continue
		}
		formats = append(formats, classifyFormat(desc, sizes))
	}
	return formats, nil
}

// openNode opens a device node for ioctl access, mapping the errno to
// the package sentinels.
func openNode(path string) (int, error) {
	fd, err := syscall.Open(path, syscall.O_RDWR|syscall.O_NONBLOCK, 0)
	if err != nil {
		return -1, wrapSyscallError(path, err)
	}
	return fd, nil
}

// wrapSyscallError translates an errno into the matching sentinel,
// keeping the path and original error in the chain.
func wrapSyscallError(path string, err error) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ENODEV) || errors.Is(err, syscall.ENXIO):
		return fmt.Errorf("%s: %w: %w", path, ErrDeviceNotFound, err)
	case errors.Is(err, syscall.EBUSY):
		return fmt.Errorf("%s: %w: %w", path, ErrDeviceBusy, err)
	case errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM):
		return fmt.Errorf("%s: %w: %w", path, ErrPermissionDenied, err)
	case errors.Is(err, syscall.ENOTTY):
		return fmt.Errorf("%s: %w: %w", path, ErrNotSupported, err)
	case errors.Is(err, syscall.EINVAL):
		return fmt.Errorf("%s: %w: %w", path, ErrInvalidArgument, err)
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}
