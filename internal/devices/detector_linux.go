//go:build linux

package devices

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/smazurov/camnode/internal/logging"
	"github.com/smazurov/camnode/pkg/linuxav/hotplug"
	"github.com/smazurov/camnode/pkg/linuxav/v4l2"
)

type linuxDetector struct {
	ctx         context.Context
	cancel      context.CancelFunc
	broadcaster EventBroadcaster
	lastDevices map[string]DeviceInfo // key is DeviceID
	mu          sync.Mutex
	logger      *slog.Logger
}

func newDetector() DeviceDetector {
	return &linuxDetector{
		lastDevices: make(map[string]DeviceInfo),
		logger:      logging.GetLogger("devices"),
	}
}

// FindDevices returns all currently available capture devices.
func (d *linuxDetector) FindDevices() ([]DeviceInfo, error) {
	v4l2Devices, err := v4l2.FindDevices()
	if err != nil {
		return nil, err
	}

	devices := make([]DeviceInfo, len(v4l2Devices))
	for i, dev := range v4l2Devices {
		// Get device type and ready status in single device open
		status := v4l2.GetDeviceStatus(dev.DevicePath)

		devices[i] = DeviceInfo{
			DevicePath: dev.DevicePath,
			DeviceName: dev.DeviceName,
			DeviceID:   dev.DeviceID,
			Caps:       dev.Caps,
			Ready:      status.Ready,
			Type:       DeviceType(status.DeviceType),
		}
	}

	devicesPresent.Set(float64(len(devices)))
	enumerationsTotal.Inc()

	return devices, nil
}

// GetDeviceFormats returns supported formats for a device.
func (d *linuxDetector) GetDeviceFormats(devicePath string) ([]FormatInfo, error) {
	v4l2Formats, err := v4l2.GetFormats(devicePath)
	if err != nil {
		return nil, err
	}

	formats := make([]FormatInfo, len(v4l2Formats))
	for i, f := range v4l2Formats {
		formats[i] = FormatInfo{
			PixelFormat: f.PixelFormat,
			FormatName:  f.FormatName,
			Emulated:    f.Emulated,
		}
	}

	return formats, nil
}

// GetDevicePathByID returns the device path for a device reference.
// Accepts stable IDs, /dev paths, and bare kernel indexes.
func (d *linuxDetector) GetDevicePathByID(deviceID string) (string, error) {
	return v4l2.ResolveDevicePath(deviceID)
}

// GetDeviceResolutions returns supported resolutions for a format.
func (d *linuxDetector) GetDeviceResolutions(devicePath string, pixelFormat uint32) ([]Resolution, error) {
	v4l2Resolutions, err := v4l2.GetResolutions(devicePath, pixelFormat)
	if err != nil {
		return nil, err
	}

	resolutions := make([]Resolution, len(v4l2Resolutions))
	for i, res := range v4l2Resolutions {
		resolutions[i] = Resolution{
			Width:  res.Width,
			Height: res.Height,
		}
	}

	return resolutions, nil
}

// GetDeviceFramerates returns supported framerates for a resolution.
func (d *linuxDetector) GetDeviceFramerates(devicePath string, pixelFormat uint32, width, height uint32) ([]Framerate, error) {
	v4l2Framerates, err := v4l2.GetFramerates(devicePath, pixelFormat, width, height)
	if err != nil {
		return nil, err
	}

	framerates := make([]Framerate, len(v4l2Framerates))
	for i, fr := range v4l2Framerates {
		framerates[i] = Framerate{
			Numerator:   fr.Numerator,
			Denominator: fr.Denominator,
		}
	}

	return framerates, nil
}

// StartMonitoring starts monitoring for device changes using netlink
// uevents and signal monitoring.
func (d *linuxDetector) StartMonitoring(ctx context.Context, broadcaster EventBroadcaster) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Store context and broadcaster
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.broadcaster = broadcaster

	// Initialize with current devices
	devices, err := d.FindDevices()
	if err != nil {
		d.logger.Warn("Failed to get initial device list", "error", err)
	} else {
		for _, device := range devices {
			d.lastDevices[device.DeviceID] = device

			// Log initial device status
			switch device.Type {
			case DeviceTypeHDMI:
				status := v4l2.GetDVTimings(device.DevicePath)
				if device.Ready {
					d.logger.Info("HDMI device initialized with signal",
						"device_id", device.DeviceID,
						"path", device.DevicePath,
						"resolution", fmt.Sprintf("%dx%d", status.Width, status.Height),
						"fps", fmt.Sprintf("%.2f", status.FPS))
				} else {
					d.logger.Info("HDMI device initialized without signal",
						"device_id", device.DeviceID,
						"path", device.DevicePath,
						"state", signalStateString(status.State))
				}
			case DeviceTypeWebcam:
				d.logger.Debug("Webcam device initialized",
					"device_id", device.DeviceID,
					"path", device.DevicePath)
			}

			// Broadcast initial device state
			d.broadcaster.BroadcastDeviceDiscovery("added", device, time.Now().Format(time.RFC3339))
		}
		d.logger.Info("Initialized with capture devices", "count", len(devices))
	}

	// Start netlink uevent monitoring
	mon, err := hotplug.NewMonitor()
	if err != nil {
		return fmt.Errorf("failed to create hotplug monitor: %w", err)
	}
	mon.AddSubsystemFilter(hotplug.SubsystemVideo4Linux)

	eventCh := make(chan hotplug.Event, 16)

	go func() {
		defer mon.Close()
		if runErr := mon.Run(d.ctx, eventCh); runErr != nil && d.ctx.Err() == nil {
			d.logger.Error("Hotplug monitor error", "error", runErr)
		}
	}()

	// Device monitoring goroutine
	go func() {
		d.logger.Info("Hotplug monitoring started for video4linux devices")
		for {
			select {
			case <-d.ctx.Done():
				d.logger.Info("Hotplug monitor stopped")
				return
			case ev, ok := <-eventCh:
				if !ok {
					d.logger.Info("Hotplug event channel closed")
					return
				}

				if ev.Action == hotplug.ActionAdd || ev.Action == hotplug.ActionRemove {
					d.logger.Debug("Hotplug event",
						"action", ev.Action, "devname", ev.DevName, "kobj", ev.KObj)
					hotplugEventsTotal.WithLabelValues(ev.Action).Inc()

					// For add events, give the kernel time to finish node setup
					if ev.Action == hotplug.ActionAdd {
						time.Sleep(500 * time.Millisecond)
					}

					d.checkAndBroadcastDeviceChanges()
				}
			}
		}
	}()

	// Start signal monitoring for HDMI devices
	go d.monitorDeviceSignals()

	return nil
}

// StopMonitoring stops the device monitoring.
func (d *linuxDetector) StopMonitoring() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// monitorDeviceSignals monitors HDMI devices using events and periodic checks.
func (d *linuxDetector) monitorDeviceSignals() {
	d.logger.Info("Signal monitoring started for HDMI devices")

	// Start periodic check for signal loss detection (30 seconds)
	go d.periodicSignalCheck()

	// Start event-based monitoring for HDMI devices without signal
	d.startEventMonitors()
}

// periodicSignalCheck checks HDMI devices that have signal for signal loss.
func (d *linuxDetector) periodicSignalCheck() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debug("Periodic signal check stopped")
			return
		case <-ticker.C:
			d.checkHDMISignals()
		}
	}
}

// checkHDMISignals checks only HDMI devices for signal status.
func (d *linuxDetector) checkHDMISignals() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for deviceID, device := range d.lastDevices {
		// Skip non-HDMI devices (use cached type)
		if device.Type != DeviceTypeHDMI {
			continue
		}

		// Skip devices without signal - they're handled by event monitors
		if !device.Ready {
			continue
		}

		// Get current signal status (only for devices with signal)
		status := v4l2.GetDVTimings(device.DevicePath)
		newReady := (status.State == v4l2.SignalStateLocked)

		// Log periodic check at debug level
		if d.logger.Enabled(d.ctx, slog.LevelDebug) {
			if newReady {
				d.logger.Debug("HDMI device signal check",
					"device_id", deviceID,
					"path", device.DevicePath,
					"state", "locked",
					"resolution", fmt.Sprintf("%dx%d", status.Width, status.Height),
					"fps", fmt.Sprintf("%.2f", status.FPS))
			} else {
				d.logger.Debug("HDMI device signal check",
					"device_id", deviceID,
					"path", device.DevicePath,
					"state", signalStateString(status.State))
			}
		}

		// Check if status changed
		if device.Ready != newReady {
			if newReady {
				// Signal acquired
				d.logger.Info("HDMI device signal acquired",
					"device_id", deviceID,
					"device_name", device.DeviceName,
					"resolution", fmt.Sprintf("%dx%d", status.Width, status.Height),
					"fps", fmt.Sprintf("%.2f", status.FPS))
			} else {
				// Signal lost
				reason := signalStateString(status.State)
				d.logger.Warn("HDMI device signal lost",
					"device_id", deviceID,
					"device_name", device.DeviceName,
					"reason", reason)

				// Start event monitor for this device
				go d.monitorDeviceEvents(deviceID, device.DevicePath)
			}

			device.Ready = newReady
			d.lastDevices[deviceID] = device
			d.broadcaster.BroadcastDeviceDiscovery("status_changed", device, time.Now().Format(time.RFC3339))
		}
	}
}

// startEventMonitors starts event monitoring for HDMI devices without signal.
func (d *linuxDetector) startEventMonitors() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for deviceID, device := range d.lastDevices {
		// Only monitor HDMI devices (use cached type)
		if device.Type != DeviceTypeHDMI {
			continue
		}

		// If device doesn't have signal, start event monitor
		if !device.Ready {
			go d.monitorDeviceEvents(deviceID, device.DevicePath)
		}
	}
}

// monitorDeviceEvents waits for source change events on a specific device.
func (d *linuxDetector) monitorDeviceEvents(deviceID, devicePath string) {
	d.logger.Debug("Starting event monitor for HDMI device", "device_id", deviceID)

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debug("Event monitor stopped", "device_id", deviceID)
			return
		default:
			// Wait for source change event (blocking with 60 second timeout)
			result, err := v4l2.WaitForSourceChange(devicePath, 60000)
			if err != nil {
				d.logger.Debug("Event monitoring not supported, falling back to polling only",
					"device_id", deviceID,
					"error", err)
				return
			}

			if result > 0 {
				d.logger.Debug("Source change event received", "device_id", deviceID, "changes", result)

				// Event occurred, check signal status
				status := v4l2.GetDVTimings(devicePath)
				ready := (status.State == v4l2.SignalStateLocked)

				d.mu.Lock()
				if device, exists := d.lastDevices[deviceID]; exists {
					if ready && !device.Ready {
						d.logger.Info("HDMI device signal acquired (via event)",
							"device_id", deviceID,
							"device_name", device.DeviceName,
							"resolution", fmt.Sprintf("%dx%d", status.Width, status.Height),
							"fps", fmt.Sprintf("%.2f", status.FPS))

						device.Ready = ready
						d.lastDevices[deviceID] = device
						d.broadcaster.BroadcastDeviceDiscovery("status_changed", device, time.Now().Format(time.RFC3339))
						d.mu.Unlock()

						// Signal is now present, stop event monitoring
						d.logger.Debug("Stopping event monitor, signal present", "device_id", deviceID)
						return
					} else if !ready {
						d.logger.Warn("Source change event but signal not locked",
							"device_id", deviceID,
							"state", signalStateString(status.State))
					}
				}
				d.mu.Unlock()
			}
		}
	}
}

// signalStateString converts signal state to human-readable string.
func signalStateString(state v4l2.SignalState) string {
	switch state {
	case v4l2.SignalStateNoLink:
		return "no_link"
	case v4l2.SignalStateNoSignal:
		return "no_signal"
	case v4l2.SignalStateUnstable:
		return "unstable"
	case v4l2.SignalStateLocked:
		return "locked"
	case v4l2.SignalStateOutOfRange:
		return "out_of_range"
	case v4l2.SignalStateNotSupported:
		return "not_supported"
	default:
		return "no_device"
	}
}

// checkAndBroadcastDeviceChanges checks for device changes and broadcasts if needed.
func (d *linuxDetector) checkAndBroadcastDeviceChanges() {
	devices, err := d.FindDevices()
	if err != nil {
		d.logger.Error("Error getting device data", "error", err)
		return
	}

	// Build current device map by DeviceID
	currentDevices := make(map[string]DeviceInfo)
	for _, device := range devices {
		currentDevices[device.DeviceID] = device
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Check for removed devices
	for deviceID, oldDevice := range d.lastDevices {
		if _, exists := currentDevices[deviceID]; !exists {
			d.broadcaster.BroadcastDeviceDiscovery("removed", oldDevice, time.Now().Format(time.RFC3339))
			d.logger.Info("Device removed", "device", oldDevice.DevicePath, "name", oldDevice.DeviceName, "id", deviceID)
			delete(d.lastDevices, deviceID)
		}
	}

	// Check for added devices
	for deviceID, newDevice := range currentDevices {
		oldDevice, exists := d.lastDevices[deviceID]

		if !exists {
			// New device
			d.broadcaster.BroadcastDeviceDiscovery("added", newDevice, time.Now().Format(time.RFC3339))
			d.logger.Info("Device added", "device", newDevice.DevicePath, "name", newDevice.DeviceName, "id", deviceID)
			d.lastDevices[deviceID] = newDevice

			// If it's an HDMI device without signal, start event monitoring
			if newDevice.Type == DeviceTypeHDMI && !newDevice.Ready {
				go d.monitorDeviceEvents(deviceID, newDevice.DevicePath)
			}
		} else if oldDevice != newDevice {
			// Device changed (shouldn't happen often)
			d.broadcaster.BroadcastDeviceDiscovery("changed", newDevice, time.Now().Format(time.RFC3339))
			d.logger.Info("Device changed", "device", newDevice.DevicePath, "name", newDevice.DeviceName, "id", deviceID)
			d.lastDevices[deviceID] = newDevice
		}
	}
}
