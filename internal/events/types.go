package events

import "github.com/smazurov/camnode/internal/api/models"

// Event type constants for kelindar/event.
const (
	TypeCaptureSuccess uint32 = iota + 1
	TypeCaptureError
	TypeDeviceDiscovery
	TypeSessionStateChanged
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// CaptureSuccessEvent represents a successful snapshot capture.
type CaptureSuccessEvent struct {
	DevicePath string `json:"device_path" example:"/dev/video0" doc:"Path to the video device"`
	Message    string `json:"message" example:"Snapshot captured successfully" doc:"Message"`
	ImageData  string `json:"image_data" doc:"Base64-encoded JPEG snapshot"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Capture timestamp"`
}

// Type returns the event type identifier for CaptureSuccessEvent.
func (e CaptureSuccessEvent) Type() uint32 { return TypeCaptureSuccess }

// CaptureErrorEvent represents a failed snapshot capture.
type CaptureErrorEvent struct {
	DevicePath string `json:"device_path" example:"/dev/video0" doc:"Path to the video device"`
	Message    string `json:"message" example:"Snapshot capture failed" doc:"Error message"`
	Error      string `json:"error" example:"Device not found" doc:"Detailed error description"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Error timestamp"`
}

// Type returns the event type identifier for CaptureErrorEvent.
func (e CaptureErrorEvent) Type() uint32 { return TypeCaptureError }

// DeviceDiscoveryEvent represents device hotplug events.
type DeviceDiscoveryEvent struct {
	models.DeviceInfo
	Action    string `json:"action" example:"added" doc:"Action type: added, removed, changed"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DeviceDiscoveryEvent.
func (e DeviceDiscoveryEvent) Type() uint32 { return TypeDeviceDiscovery }

// SessionStateChangedEvent represents a capture, preview, or forward
// session starting or stopping on a device. Drives the LED tally and
// reactive SSE clients.
type SessionStateChangedEvent struct {
	SessionID string `json:"session_id" example:"preview-usb-0000:00:14.0-1" doc:"Session identifier"`
	DeviceID  string `json:"device_id" example:"usb-0000:00:14.0-1" doc:"Stable device identifier"`
	Kind      string `json:"kind" example:"preview" doc:"Session kind: capture, preview, forward"`
	Active    bool   `json:"active" example:"true" doc:"Whether the session is active"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SessionStateChangedEvent.
func (e SessionStateChangedEvent) Type() uint32 { return TypeSessionStateChanged }

// GetSessionID implements the SessionStateEvent interface for the LED manager.
func (e SessionStateChangedEvent) GetSessionID() string {
	return e.SessionID
}

// IsActive implements the SessionStateEvent interface for the LED manager.
func (e SessionStateChangedEvent) IsActive() bool {
	return e.Active
}

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"api" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
