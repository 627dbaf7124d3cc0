package streaming

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pion "github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"

	"github.com/smazurov/camnode/pkg/camera"
)

// defaultFrameRate is assumed when the driver does not report timing.
const defaultFrameRate = 30

// session owns one device borrow and fans its H264 frames out to a
// shared local track. All viewers of a device share one session; the
// device stays borrowed until the last viewer leaves.
type session struct {
	deviceID string
	dev      *camera.Device
	stream   *camera.Stream
	track    *pion.TrackLocalStaticSample
	cancel   context.CancelFunc
	done     chan struct{}
	viewers  int
	logger   *slog.Logger
}

// newSession opens the device, negotiates H264 at the device's
// current geometry, and starts the capture loop.
func newSession(deviceID, devicePath string, logger *slog.Logger) (*session, error) {
	dev, err := camera.OpenPath(devicePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", devicePath, err)
	}

	current, err := dev.Format()
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("querying format on %s: %w", devicePath, err)
	}

	format, err := dev.SetFormat(camera.Format{
		Width:  current.Width,
		Height: current.Height,
		FourCC: camera.FourCCH264,
	})
	if err != nil || format.FourCC != camera.FourCCH264 {
		dev.Close()
		return nil, fmt.Errorf("device %s cannot produce H264", devicePath)
	}

	stream, err := dev.Stream()
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("starting stream on %s: %w", devicePath, err)
	}

	track, err := pion.NewTrackLocalStaticSample(
		pion.RTPCodecCapability{MimeType: pion.MimeTypeH264, ClockRate: 90000},
		"video",
		"camnode-"+deviceID,
	)
	if err != nil {
		stream.Close()
		dev.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		deviceID: deviceID,
		dev:      dev,
		stream:   stream,
		track:    track,
		cancel:   cancel,
		done:     make(chan struct{}),
		logger:   logger,
	}

	// New viewers need an IDR frame before they can decode anything
	_ = dev.ForceKeyFrame()

	go s.run(ctx)
	logger.Info("Preview session started",
		"device_id", deviceID,
		"path", devicePath,
		"resolution", fmt.Sprintf("%dx%d", format.Width, format.Height))

	return s, nil
}

// run pumps frames from the device into the track until cancelled.
func (s *session) run(ctx context.Context) {
	defer close(s.done)

	duration := time.Second / defaultFrameRate

	for {
		frame, err := s.stream.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("Preview capture failed", "device_id", s.deviceID, "error", err)
			return
		}

		if err := s.track.WriteSample(media.Sample{Data: frame.Data, Duration: duration}); err != nil {
			s.logger.Warn("Failed to write sample", "device_id", s.deviceID, "error", err)
			continue
		}
		IncrementSamplesSent(s.deviceID, len(frame.Data))
	}
}

// forceKeyFrame asks the encoder for a fresh IDR frame.
func (s *session) forceKeyFrame() {
	if err := s.dev.ForceKeyFrame(); err != nil {
		s.logger.Debug("Keyframe request failed", "device_id", s.deviceID, "error", err)
	}
}

// stop ends the capture loop and releases the device borrow.
func (s *session) stop() {
	s.cancel()
	<-s.done
	s.stream.Close()
	s.dev.Close()
	s.logger.Info("Preview session stopped", "device_id", s.deviceID)
}
