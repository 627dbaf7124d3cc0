//go:build linux

package v4l2

import (
	"fmt"
	"unsafe"
)

// GetFormat returns the currently active capture format of an open
// device, including the driver-reported stride.
func GetFormat(fd int) (PixFormat, error) {
	format := v4l2_format{typ: V4L2_BUF_TYPE_VIDEO_CAPTURE}
	if err := ioctl(fd, VIDIOC_G_FMT, unsafe.Pointer(&format)); err != nil {
		return PixFormat{}, fmt.Errorf("failed to get format: %w", err)
	}
	return pixFormatFromRaw(&format.pix), nil
}

// SetFormat requests a capture format. Only width, height, and pixel
// format are taken from the request; stride and image size are always
// driver-derived. The driver may adjust the geometry, and the adjusted
// format is returned.
func SetFormat(fd int, req PixFormat) (PixFormat, error) {
	format := v4l2_format{typ: V4L2_BUF_TYPE_VIDEO_CAPTURE}
	format.pix.width = req.Width
	format.pix.height = req.Height
	format.pix.pixelformat = req.PixelFormat
	format.pix.field = V4L2_FIELD_NONE

	if err := ioctl(fd, VIDIOC_S_FMT, unsafe.Pointer(&format)); err != nil {
		return PixFormat{}, fmt.Errorf("failed to set format: %w", err)
	}
	return pixFormatFromRaw(&format.pix), nil
}

// SetFramerate requests a frame interval via VIDIOC_S_PARM. Drivers
// without timeperframe support ignore the request.
func SetFramerate(fd int, fr Framerate) error {
	parm := v4l2_streamparm{typ: V4L2_BUF_TYPE_VIDEO_CAPTURE}
	parm.capture.timeperframe.numerator = fr.Numerator
	parm.capture.timeperframe.denominator = fr.Denominator

	if err := ioctl(fd, VIDIOC_S_PARM, unsafe.Pointer(&parm)); err != nil {
		return fmt.Errorf("failed to set framerate: %w", err)
	}
	return nil
}

// GetFramerate returns the current frame interval via VIDIOC_G_PARM.
func GetFramerate(fd int) (Framerate, error) {
	parm := v4l2_streamparm{typ: V4L2_BUF_TYPE_VIDEO_CAPTURE}
	if err := ioctl(fd, VIDIOC_G_PARM, unsafe.Pointer(&parm)); err != nil {
		return Framerate{}, fmt.Errorf("failed to get framerate: %w", err)
	}
	return Framerate{
		Numerator:   parm.capture.timeperframe.numerator,
		Denominator: parm.capture.timeperframe.denominator,
	}, nil
}

func pixFormatFromRaw(pix *v4l2_pix_format) PixFormat {
	return PixFormat{
		Width:        pix.width,
		Height:       pix.height,
		PixelFormat:  pix.pixelformat,
		Field:        pix.field,
		BytesPerLine: pix.bytesperline,
		SizeImage:    pix.sizeimage,
		Colorspace:   pix.colorspace,
	}
}
