// Package forward pushes raw camera frames to a remote endpoint as
// RTP over UDP. H264 devices are packetized with the standard H264
// payloader; MJPEG devices use the RFC 2435 payload format. There is
// no signaling, the receiver is expected to know the payload type
// and clock rate out of band (an SDP file or a fixed gstreamer/ffmpeg
// pipeline).
package forward

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"

	"github.com/smazurov/camnode/internal/devices"
	"github.com/smazurov/camnode/internal/events"
	"github.com/smazurov/camnode/pkg/camera"
)

const (
	rtpClockRate = 90000
	defaultMTU   = 1200
	defaultFPS   = 30
)

// Config describes one forwarding run.
type Config struct {
	// Device is a device path, index, or stable ID accepted by
	// devices.ResolveDevicePath.
	Device string
	// Target is the host:port the RTP packets are sent to.
	Target string
	// PayloadType is the dynamic RTP payload type, 96-127.
	PayloadType uint8
	// MTU caps the RTP packet size including the RTP header.
	MTU uint16
	// FPS is used for the RTP timestamp clock when the device does
	// not signal its own timing.
	FPS uint32
}

// Forwarder streams one device to one UDP target until the context
// is cancelled or the device fails.
type Forwarder struct {
	config   Config
	eventBus *events.Bus
	logger   *slog.Logger
}

// NewForwarder validates config and returns a runnable forwarder.
// eventBus may be nil when running from the CLI.
func NewForwarder(config Config, eventBus *events.Bus, logger *slog.Logger) (*Forwarder, error) {
	if config.Target == "" {
		return nil, fmt.Errorf("forward target is required")
	}
	if config.PayloadType < 96 || config.PayloadType > 127 {
		return nil, fmt.Errorf("payload type %d outside dynamic range 96-127", config.PayloadType)
	}
	if config.MTU == 0 {
		config.MTU = defaultMTU
	}
	if config.FPS == 0 {
		config.FPS = defaultFPS
	}
	return &Forwarder{config: config, eventBus: eventBus, logger: logger}, nil
}

// Run blocks until ctx is cancelled or a fatal device error occurs.
func (f *Forwarder) Run(ctx context.Context) error {
	devicePath, err := devices.ResolveDevicePath(f.config.Device)
	if err != nil {
		return fmt.Errorf("resolving device: %w", err)
	}

	dev, err := camera.OpenPath(devicePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", devicePath, err)
	}
	defer dev.Close()

	format, payloader, err := negotiateForwardFormat(dev)
	if err != nil {
		return err
	}

	addr, err := net.ResolveUDPAddr("udp", f.config.Target)
	if err != nil {
		return fmt.Errorf("resolving target %s: %w", f.config.Target, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", f.config.Target, err)
	}
	defer conn.Close()

	stream, err := dev.Stream()
	if err != nil {
		return fmt.Errorf("starting stream on %s: %w", devicePath, err)
	}
	defer stream.Close()

	packetizer := rtp.NewPacketizer(
		f.config.MTU,
		f.config.PayloadType,
		randomSSRC(),
		payloader,
		rtp.NewRandomSequencer(),
		rtpClockRate,
	)
	samplesPerFrame := uint32(rtpClockRate / f.config.FPS)

	f.logger.Info("forwarding started",
		"device", devicePath,
		"target", f.config.Target,
		"format", format.FourCC.String(),
		"width", format.Width,
		"height", format.Height,
		"payload_type", f.config.PayloadType)

	sessionID := "forward-" + devicePath
	f.publishSessionState(sessionID, devicePath, true)
	defer f.publishSessionState(sessionID, devicePath, false)

	buf := make([]byte, int(f.config.MTU))
	for {
		frame, err := stream.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading frame: %w", err)
		}

		packets := packetizer.Packetize(frame.Data, samplesPerFrame)
		for _, pkt := range packets {
			n, err := pkt.MarshalTo(buf)
			if err != nil {
				f.logger.Warn("marshaling RTP packet failed", "error", err)
				continue
			}
			if _, err := conn.Write(buf[:n]); err != nil {
				return fmt.Errorf("writing to %s: %w", f.config.Target, err)
			}
			forwardPacketsTotal.Inc()
			forwardBytesTotal.Add(float64(n))
		}
	}
}

// negotiateForwardFormat prefers H264 off the wire, then MJPEG. Raw
// formats are rejected rather than transcoded.
func negotiateForwardFormat(dev *camera.Device) (camera.Format, rtp.Payloader, error) {
	current, err := dev.Format()
	if err != nil {
		return camera.Format{}, nil, fmt.Errorf("reading format: %w", err)
	}

	for _, fourcc := range []camera.FourCC{camera.FourCCH264, camera.FourCCMJPG} {
		want := current
		want.FourCC = fourcc
		got, err := dev.SetFormat(want)
		if err == nil && got.FourCC == fourcc {
			return got, payloaderFor(fourcc), nil
		}
	}

	switch current.FourCC {
	case camera.FourCCH264, camera.FourCCMJPG:
		return current, payloaderFor(current.FourCC), nil
	}
	return camera.Format{}, nil, fmt.Errorf("device %s offers neither H264 nor MJPEG", dev.Path())
}

func payloaderFor(fourcc camera.FourCC) rtp.Payloader {
	if fourcc == camera.FourCCH264 {
		return &codecs.H264Payloader{}
	}
	return &JPEGPayloader{}
}

func (f *Forwarder) publishSessionState(sessionID, devicePath string, active bool) {
	if f.eventBus == nil {
		return
	}
	f.eventBus.Publish(events.SessionStateChangedEvent{
		SessionID: sessionID,
		DeviceID:  devicePath,
		Kind:      "forward",
		Active:    active,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func randomSSRC() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint32(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint32(b[:])
}
