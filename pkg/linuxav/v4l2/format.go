//go:build linux

package v4l2

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"
)

// GetFormats returns all supported pixel formats for a device.
func GetFormats(devicePath string) ([]FormatInfo, error) {
	fd, err := open(devicePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open device: %w", err)
	}
	defer close(fd)

	return EnumFormats(fd)
}

// EnumFormats enumerates the pixel formats of an open device.
func EnumFormats(fd int) ([]FormatInfo, error) {
	var formats []FormatInfo

	for i := uint32(0); ; i++ {
		fmtdesc := v4l2_fmtdesc{
			index: i,
			typ:   V4L2_BUF_TYPE_VIDEO_CAPTURE,
		}

		if ioctlErr := ioctl(fd, VIDIOC_ENUM_FMT, unsafe.Pointer(&fmtdesc)); ioctlErr != nil {
			if errors.Is(ioctlErr, syscall.EINVAL) {
				break // End of enumeration
			}
			return nil, fmt.Errorf("failed to enumerate format %d: %w", i, ioctlErr)
		}

		formats = append(formats, FormatInfo{
			PixelFormat: fmtdesc.pixelformat,
			FormatName:  cstr(fmtdesc.description[:]),
			Emulated:    fmtdesc.flags&V4L2_FMT_FLAG_EMULATED != 0,
		})
	}

	return formats, nil
}

// EnumFrameSizes enumerates the frame sizes of an open device for a
// pixel format, preserving driver order. Discrete and stepwise entries
// are both returned, tagged by Type; callers decide what to keep.
func EnumFrameSizes(fd int, pixelFormat uint32) ([]FrameSize, error) {
	var sizes []FrameSize

	for i := uint32(0); ; i++ {
		frmsize := v4l2_frmsizeenum{
			index:        i,
			pixel_format: pixelFormat,
		}

		if ioctlErr := ioctl(fd, VIDIOC_ENUM_FRAMESIZES, unsafe.Pointer(&frmsize)); ioctlErr != nil {
			if errors.Is(ioctlErr, syscall.EINVAL) {
				break // End of enumeration
			}
			// ENOTTY means device doesn't support frame size enumeration
			if errors.Is(ioctlErr, syscall.ENOTTY) {
				return []FrameSize{}, nil
			}
			return nil, fmt.Errorf("failed to enumerate frame size %d: %w", i, ioctlErr)
		}

		switch frmsize.typ {
		case V4L2_FRMSIZE_TYPE_DISCRETE:
			sizes = append(sizes, FrameSize{
				Type:   frmsize.typ,
				Width:  frmsize.discrete.width,
				Height: frmsize.discrete.height,
			})
		case V4L2_FRMSIZE_TYPE_CONTINUOUS, V4L2_FRMSIZE_TYPE_STEPWISE:
			// Stepwise overlays discrete in the response union
			stepwise := (*v4l2_frmsize_stepwise)(unsafe.Pointer(&frmsize.discrete))
			sizes = append(sizes, FrameSize{
				Type:       frmsize.typ,
				MinWidth:   stepwise.min_width,
				MaxWidth:   stepwise.max_width,
				StepWidth:  stepwise.step_width,
				MinHeight:  stepwise.min_height,
				MaxHeight:  stepwise.max_height,
				StepHeight: stepwise.step_height,
			})
			// A range entry is always the only entry
			return sizes, nil
		}
	}

	return sizes, nil
}

// GetResolutions returns the discrete resolutions for a device and
// pixel format, in driver enumeration order. Stepwise and continuous
// ranges are dropped, not approximated; a device reporting only ranges
// yields an empty list.
func GetResolutions(devicePath string, pixelFormat uint32) ([]Resolution, error) {
	fd, err := open(devicePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open device: %w", err)
	}
	defer close(fd)

	sizes, err := EnumFrameSizes(fd, pixelFormat)
	if err != nil {
		return nil, err
	}

	resolutions := []Resolution{}
	for _, size := range sizes {
		if !size.Discrete() {
			continue
		}
		resolutions = append(resolutions, Resolution{
			Width:  size.Width,
			Height: size.Height,
		})
	}

	return resolutions, nil
}

// GetFramerates returns the discrete frame intervals for a device,
// format, and resolution. Stepwise and continuous ranges are dropped,
// matching the resolution contract.
func GetFramerates(devicePath string, pixelFormat uint32, width, height uint32) ([]Framerate, error) {
	fd, err := open(devicePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open device: %w", err)
	}
	defer close(fd)

	return EnumFramerates(fd, pixelFormat, width, height)
}

// EnumFramerates enumerates frame intervals on an open device.
func EnumFramerates(fd int, pixelFormat uint32, width, height uint32) ([]Framerate, error) {
	var framerates []Framerate

	for i := uint32(0); ; i++ {
		frmival := v4l2_frmivalenum{
			index:        i,
			pixel_format: pixelFormat,
			width:        width,
			height:       height,
		}

		if ioctlErr := ioctl(fd, VIDIOC_ENUM_FRAMEINTERVALS, unsafe.Pointer(&frmival)); ioctlErr != nil {
			if errors.Is(ioctlErr, syscall.EINVAL) {
				break // End of enumeration
			}
			return nil, fmt.Errorf("failed to enumerate frame interval %d: %w", i, ioctlErr)
		}

		switch frmival.typ {
		case V4L2_FRMIVAL_TYPE_DISCRETE:
			framerates = append(framerates, Framerate{
				Numerator:   frmival.discrete.numerator,
				Denominator: frmival.discrete.denominator,
			})
		case V4L2_FRMIVAL_TYPE_CONTINUOUS, V4L2_FRMIVAL_TYPE_STEPWISE:
			// A range entry is always the only entry; nothing discrete
			// to report
			return framerates, nil
		}
	}

	return framerates, nil
}

// FormatFourCC converts a 4-byte pixel format to a human-readable string.
func FormatFourCC(format uint32) string {
	b := make([]byte, 4)
	b[0] = byte(format & 0xFF)
	b[1] = byte((format >> 8) & 0xFF)
	b[2] = byte((format >> 16) & 0xFF)
	b[3] = byte((format >> 24) & 0xFF)
	return string(b)
}
