// Package capture grabs single-frame snapshots from video devices.
//
// Frames come straight from the device's streaming queue. MJPEG
// frames pass through untouched; raw YUYV frames are converted and
// encoded locally.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/smazurov/camnode/pkg/camera"
)

// jpegQuality is used when encoding raw frames locally.
const jpegQuality = 90

// warmupFrames are always discarded so auto-exposure can settle.
const warmupFrames = 2

// CaptureToBytes captures a snapshot from the specified video device
// and returns JPEG image data.
//
// resolution is an optional "WIDTHxHEIGHT" string; when empty the
// device's current format is used. If delaySeconds > 0, frames are
// read and discarded for that duration first, which allows devices
// like Elgato capture cards to show their "no signal" message.
func CaptureToBytes(ctx context.Context, devicePath, resolution string, delaySeconds float64) ([]byte, error) {
	// Check if the device exists
	if _, err := os.Stat(devicePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("device %s does not exist", devicePath)
	}

	dev, err := camera.OpenPath(devicePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", devicePath, err)
	}
	defer dev.Close()

	format, err := negotiateSnapshotFormat(dev, resolution)
	if err != nil {
		return nil, err
	}

	stream, err := dev.Stream()
	if err != nil {
		return nil, fmt.Errorf("starting stream on %s: %w", devicePath, err)
	}
	defer stream.Close()

	frame, err := warmupAndGrab(ctx, stream, delaySeconds)
	if err != nil {
		return nil, err
	}

	data, err := encodeSnapshot(frame, format)
	if err != nil {
		return nil, err
	}

	capturesTotal.Inc()
	return data, nil
}

// CaptureScreenshot captures a snapshot from the specified video
// device and saves it to the specified output path.
func CaptureScreenshot(ctx context.Context, devicePath, outputPath, resolution string, delaySeconds float64) error {
	// Ensure the output directory exists
	outputDir := filepath.Dir(outputPath)
	if outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	data, err := CaptureToBytes(ctx, devicePath, resolution, delaySeconds)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

// negotiateSnapshotFormat asks the driver for a format the snapshot
// pipeline can encode. MJPEG is tried first to avoid a local encode,
// then YUYV. The driver's answer wins; requesting a format the device
// lacks makes the driver substitute one, so the returned FourCC is
// checked rather than trusted.
func negotiateSnapshotFormat(dev *camera.Device, resolution string) (camera.Format, error) {
	current, err := dev.Format()
	if err != nil {
		return camera.Format{}, fmt.Errorf("querying format: %w", err)
	}

	width, height := current.Width, current.Height
	if resolution != "" {
		if _, scanErr := fmt.Sscanf(resolution, "%dx%d", &width, &height); scanErr != nil {
			return camera.Format{}, fmt.Errorf("invalid resolution %q: want WIDTHxHEIGHT", resolution)
		}
	}

	for _, fourcc := range []camera.FourCC{camera.FourCCMJPG, camera.FourCCYUYV} {
		got, setErr := dev.SetFormat(camera.Format{Width: width, Height: height, FourCC: fourcc})
		if setErr == nil && got.FourCC == fourcc {
			return got, nil
		}
	}

	// Fall back to whatever the device is configured for
	if current.FourCC == camera.FourCCMJPG || current.FourCC == camera.FourCCYUYV {
		return current, nil
	}
	return camera.Format{}, fmt.Errorf("device offers no snapshot-capable format (current: %s)", current.FourCC)
}

// warmupAndGrab discards startup frames, waits out the requested
// delay, and returns the next frame.
func warmupAndGrab(ctx context.Context, stream *camera.Stream, delaySeconds float64) (camera.Frame, error) {
	deadline := time.Now().Add(time.Duration(delaySeconds * float64(time.Second)))

	discarded := 0
	for discarded < warmupFrames || time.Now().Before(deadline) {
		if _, err := stream.Next(ctx); err != nil {
			return camera.Frame{}, fmt.Errorf("reading warmup frame: %w", err)
		}
		discarded++
	}

	frame, err := stream.Next(ctx)
	if err != nil {
		return camera.Frame{}, fmt.Errorf("reading frame: %w", err)
	}
	return frame, nil
}

// encodeSnapshot produces JPEG bytes from a captured frame.
func encodeSnapshot(frame camera.Frame, format camera.Format) ([]byte, error) {
	switch format.FourCC {
	case camera.FourCCMJPG:
		// Already JPEG, pass through
		return frame.Data, nil
	case camera.FourCCYUYV:
		img, err := yuyvToImage(frame.Data, int(format.Width), int(format.Height), int(format.Stride))
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encoding JPEG: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("cannot encode %s frames", format.FourCC)
	}
}
