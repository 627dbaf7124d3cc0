//go:build linux

package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/smazurov/camnode/pkg/linuxav/alsa"
)

type linuxDetector struct{}

func newPlatformDetector() Detector {
	return &linuxDetector{}
}

// ListDevices enumerates all available ALSA audio capture devices.
func (d *linuxDetector) ListDevices() ([]Device, error) {
	alsaDevices, err := alsa.ListDevices()
	if err != nil {
		return nil, err
	}

	devices := make([]Device, len(alsaDevices))
	for i, ad := range alsaDevices {
		devices[i] = Device{
			CardNumber:       ad.CardNumber,
			CardID:           ad.CardID,
			CardName:         ad.CardName,
			DeviceNumber:     ad.DeviceNumber,
			DeviceName:       ad.DeviceName,
			Type:             ad.Type,
			ALSADevice:       ad.ALSADevice,
			SupportedRates:   ad.SupportedRates,
			MinChannels:      ad.MinChannels,
			MaxChannels:      ad.MaxChannels,
			SupportedFormats: ad.SupportedFormats,
			MinBufferSize:    ad.MinBufferSize,
			MaxBufferSize:    ad.MaxBufferSize,
			MinPeriodSize:    ad.MinPeriodSize,
			MaxPeriodSize:    ad.MaxPeriodSize,
		}
	}

	return devices, nil
}

// FindPairedDevice matches a video device to the sound card on the
// same physical USB device. Both sysfs class entries link back to the
// same hardware node, so comparing resolved parent paths finds the
// capture card that belongs to a webcam's built-in microphone.
func (d *linuxDetector) FindPairedDevice(videoDevicePath string) (*Device, error) {
	videoPhys, err := physicalDevicePath("/sys/class/video4linux/" + filepath.Base(videoDevicePath))
	if err != nil {
		return nil, fmt.Errorf("resolving video device %s: %w", videoDevicePath, err)
	}

	devices, err := d.ListDevices()
	if err != nil {
		return nil, err
	}

	for i, dev := range devices {
		cardPhys, cardErr := physicalDevicePath(fmt.Sprintf("/sys/class/sound/card%d", dev.CardNumber))
		if cardErr != nil {
			continue
		}
		if sameUSBDevice(videoPhys, cardPhys) {
			return &devices[i], nil
		}
	}

	return nil, nil
}

// physicalDevicePath resolves a sysfs class entry to the hardware
// device directory behind it.
func physicalDevicePath(classPath string) (string, error) {
	return filepath.EvalSymlinks(classPath + "/device")
}

// sameUSBDevice reports whether two resolved sysfs device paths live
// under the same USB device. USB interfaces appear as children of the
// device node ("...1-4/1-4:1.0" style), so trimming interface
// components from each path yields comparable device roots.
func sameUSBDevice(a, b string) bool {
	rootA := usbDeviceRoot(a)
	return rootA != "" && rootA == usbDeviceRoot(b)
}

func usbDeviceRoot(path string) string {
	// Walk up past components that look like USB interfaces (they
	// contain a colon).
	for p := path; p != "/" && p != "."; p = filepath.Dir(p) {
		if strings.Contains(filepath.Base(p), ":") {
			continue
		}
		return p
	}
	return ""
}
