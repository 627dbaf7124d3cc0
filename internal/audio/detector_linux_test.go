//go:build linux

package audio

import "testing"

func TestUSBDeviceRoot(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "video interface",
			path: "/sys/devices/pci0000:00/0000:00:14.0/usb1/1-4/1-4:1.0",
			want: "/sys/devices/pci0000:00/0000:00:14.0/usb1/1-4",
		},
		{
			name: "audio interface on same device",
			path: "/sys/devices/pci0000:00/0000:00:14.0/usb1/1-4/1-4:1.2",
			want: "/sys/devices/pci0000:00/0000:00:14.0/usb1/1-4",
		},
		{
			name: "device node without interface",
			path: "/sys/devices/pci0000:00/0000:00:14.0/usb1/1-4",
			want: "/sys/devices/pci0000:00/0000:00:14.0/usb1/1-4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usbDeviceRoot(tt.path); got != tt.want {
				t.Errorf("usbDeviceRoot(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSameUSBDevice(t *testing.T) {
	video := "/sys/devices/pci0000:00/0000:00:14.0/usb1/1-4/1-4:1.0"
	mic := "/sys/devices/pci0000:00/0000:00:14.0/usb1/1-4/1-4:1.2"
	other := "/sys/devices/pci0000:00/0000:00:14.0/usb1/1-7/1-7:1.0"

	if !sameUSBDevice(video, mic) {
		t.Error("interfaces on the same device should match")
	}
	if sameUSBDevice(video, other) {
		t.Error("interfaces on different devices should not match")
	}
}
