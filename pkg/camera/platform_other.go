//go:build !linux

package camera

import (
	"context"
	"fmt"
)

// platformEntries returns no devices on platforms without a capture
// backend. Enumeration degrades to an empty snapshot rather than an
// error, matching the skip semantics of the Linux path.
func platformEntries() []Entry {
	return nil
}

// Device is a stub on platforms without a capture backend. Every
// operation reports ErrNotSupported.
type Device struct{}

// Open reports ErrNotSupported.
func Open(index uint32) (*Device, error) {
	return nil, fmt.Errorf("open device %d: %w", index, ErrNotSupported)
}

// OpenPath reports ErrNotSupported.
func OpenPath(path string) (*Device, error) {
	return nil, fmt.Errorf("open %s: %w", path, ErrNotSupported)
}

// Path returns an empty path.
func (d *Device) Path() string { return "" }

// Format reports ErrNotSupported.
func (d *Device) Format() (Format, error) {
	return Format{}, ErrNotSupported
}

// SetFormat reports ErrNotSupported.
func (d *Device) SetFormat(Format) (Format, error) {
	return Format{}, ErrNotSupported
}

// Control reports ErrNotSupported.
func (d *Device) Control(uint32) (int32, error) {
	return 0, ErrNotSupported
}

// SetControl reports ErrNotSupported.
func (d *Device) SetControl(uint32, int32) error {
	return ErrNotSupported
}

// Controls reports ErrNotSupported.
func (d *Device) Controls() ([]ControlInfo, error) {
	return nil, ErrNotSupported
}

// ForceKeyFrame reports ErrNotSupported.
func (d *Device) ForceKeyFrame() error {
	return ErrNotSupported
}

// Stream reports ErrNotSupported.
func (d *Device) Stream() (*Stream, error) {
	return nil, ErrNotSupported
}

// Close is a no-op.
func (d *Device) Close() error { return nil }

// Stream is a stub on platforms without a capture backend.
type Stream struct{}

// Next reports ErrNotSupported.
func (s *Stream) Next(context.Context) (Frame, error) {
	return Frame{}, ErrNotSupported
}

// Close is a no-op.
func (s *Stream) Close() error { return nil }
