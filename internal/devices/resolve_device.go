package devices

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ResolveDevicePath converts a device_id to an openable device path.
// Accepts full /dev paths, bare kernel indexes, and the stable
// by-id/by-path symlink names reported by enumeration.
func ResolveDevicePath(deviceID string) (string, error) {
	// Full path, use directly
	if strings.HasPrefix(deviceID, "/dev/") {
		return deviceID, nil
	}

	// Bare kernel index ("0" -> /dev/video0)
	if idx, err := strconv.Atoi(deviceID); err == nil && idx >= 0 {
		return fmt.Sprintf("/dev/video%d", idx), nil
	}

	// Try by-id first (for USB devices)
	if strings.HasPrefix(deviceID, "usb-") {
		devicePath := "/dev/v4l/by-id/" + deviceID
		if _, err := os.Stat(devicePath); err == nil {
			return devicePath, nil
		}
	}

	// Try by-path (for platform devices and USB devices without by-id)
	if strings.HasPrefix(deviceID, "platform-") || strings.HasPrefix(deviceID, "usb-") {
		devicePath := "/dev/v4l/by-path/" + deviceID
		if _, err := os.Stat(devicePath); err == nil {
			return devicePath, nil
		}
	}

	return "", fmt.Errorf("no stable symlink found for device ID: %s", deviceID)
}
