package camera

import "errors"

// Sentinel errors for operations against an explicitly targeted device.
// Platform errors are wrapped over these so callers can errors.Is
// without platform-specific errno knowledge.
var (
	ErrDeviceNotFound   = errors.New("device not found")
	ErrDeviceBusy       = errors.New("device busy")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotSupported     = errors.New("operation not supported")
	ErrInvalidArgument  = errors.New("invalid argument")
)
