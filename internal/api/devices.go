package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camnode/internal/api/models"
	"github.com/smazurov/camnode/internal/capture"
	"github.com/smazurov/camnode/internal/events"
	"github.com/smazurov/camnode/pkg/camera"
)

// Device path parameter input
type DevicePathInput struct {
	DeviceID string `path:"device_id" example:"usb-0000:00:14.0-1" doc:"Stable device identifier"`
}

// Device format query input
type DeviceFormatInput struct {
	DevicePathInput
	FormatName models.VideoFormat `query:"format_name" example:"yuyv422" doc:"Human-readable format name"`
}

// Device resolution query input
type DeviceResolutionInput struct {
	DeviceFormatInput
	Width  string `query:"width" example:"1920" doc:"Video width in pixels"`
	Height string `query:"height" example:"1080" doc:"Video height in pixels"`
}

// DeviceCaptureBody represents the request body for device capture
type DeviceCaptureBody struct {
	Resolution string  `json:"resolution,omitempty" example:"1920x1080" doc:"Optional resolution in format widthxheight"`
	Delay      float64 `json:"delay,omitempty" example:"2.0" doc:"Optional delay in seconds before capturing"`
	Inline     bool    `json:"inline,omitempty" example:"false" doc:"Return the image in the response instead of via SSE"`
}

// DeviceCaptureInput combines path parameters and request body
type DeviceCaptureInput struct {
	DevicePathInput
	Body DeviceCaptureBody
}

// ResolutionSnapshot is one discrete frame geometry.
type ResolutionSnapshot struct {
	Width  uint32 `json:"width" example:"1920"`
	Height uint32 `json:"height" example:"1080"`
}

// FormatSnapshot is one entry of a device's format catalog.
type FormatSnapshot struct {
	FourCC      string               `json:"fourcc" example:"MJPG" doc:"Four-character pixel format code"`
	Emulated    bool                 `json:"emulated" doc:"Synthesized by a compatibility layer rather than native"`
	Resolutions []ResolutionSnapshot `json:"resolutions" doc:"Discrete resolutions in platform order"`
}

// DeviceSnapshot is the full probe result for one capture device.
type DeviceSnapshot struct {
	Index    uint32               `json:"index" doc:"Enumeration index, stable only for this snapshot"`
	Name     string               `json:"name" example:"HD Webcam"`
	Formats  []FormatSnapshot     `json:"formats"`
	Controls []models.ControlInfo `json:"controls"`
}

// DeviceDescribeResponse wraps the full device snapshots.
type DeviceDescribeResponse struct {
	Body struct {
		Devices []DeviceSnapshot `json:"devices"`
		Count   int              `json:"count" example:"1"`
	}
}

// V4L2 capability constants (from linux/videodev2.h)
const (
	V4L2_CAP_VIDEO_CAPTURE        = 0x00000001
	V4L2_CAP_VIDEO_OUTPUT         = 0x00000002
	V4L2_CAP_VIDEO_OVERLAY        = 0x00000004
	V4L2_CAP_VBI_CAPTURE          = 0x00000010
	V4L2_CAP_VBI_OUTPUT           = 0x00000020
	V4L2_CAP_SLICED_VBI_CAPTURE   = 0x00000040
	V4L2_CAP_SLICED_VBI_OUTPUT    = 0x00000080
	V4L2_CAP_RDS_CAPTURE          = 0x00000100
	V4L2_CAP_VIDEO_OUTPUT_OVERLAY = 0x00000200
	V4L2_CAP_HW_FREQ_SEEK         = 0x00000400
	V4L2_CAP_RDS_OUTPUT           = 0x00000800
	V4L2_CAP_VIDEO_CAPTURE_MPLANE = 0x00001000
	V4L2_CAP_VIDEO_OUTPUT_MPLANE  = 0x00002000
	V4L2_CAP_VIDEO_M2M_MPLANE     = 0x00004000
	V4L2_CAP_VIDEO_M2M            = 0x00008000
	V4L2_CAP_TUNER                = 0x00010000
	V4L2_CAP_AUDIO                = 0x00020000
	V4L2_CAP_RADIO                = 0x00040000
	V4L2_CAP_MODULATOR            = 0x00080000
	V4L2_CAP_SDR_CAPTURE          = 0x00100000
	V4L2_CAP_EXT_PIX_FORMAT       = 0x00200000
	V4L2_CAP_SDR_OUTPUT           = 0x00400000
	V4L2_CAP_META_CAPTURE         = 0x00800000
	V4L2_CAP_READWRITE            = 0x01000000
	V4L2_CAP_ASYNCIO              = 0x02000000
	V4L2_CAP_STREAMING            = 0x04000000
	V4L2_CAP_META_OUTPUT          = 0x08000000
	V4L2_CAP_TOUCH                = 0x10000000
	V4L2_CAP_IO_MC                = 0x20000000
	V4L2_CAP_DEVICE_CAPS          = 0x80000000
)

// translateCapabilities converts V4L2 capability flags to readable strings
func translateCapabilities(caps uint32) []string {
	var capabilities []string

	capMap := map[uint32]string{
		V4L2_CAP_VIDEO_CAPTURE:        "Video Capture",
		V4L2_CAP_VIDEO_OUTPUT:         "Video Output",
		V4L2_CAP_VIDEO_OVERLAY:        "Video Overlay",
		V4L2_CAP_VBI_CAPTURE:          "VBI Capture",
		V4L2_CAP_VBI_OUTPUT:           "VBI Output",
		V4L2_CAP_SLICED_VBI_CAPTURE:   "Sliced VBI Capture",
		V4L2_CAP_SLICED_VBI_OUTPUT:    "Sliced VBI Output",
		V4L2_CAP_RDS_CAPTURE:          "RDS Capture",
		V4L2_CAP_VIDEO_OUTPUT_OVERLAY: "Video Output Overlay",
		V4L2_CAP_HW_FREQ_SEEK:         "Hardware Frequency Seek",
		V4L2_CAP_RDS_OUTPUT:           "RDS Output",
		V4L2_CAP_VIDEO_CAPTURE_MPLANE: "Multi-planar Video Capture",
		V4L2_CAP_VIDEO_OUTPUT_MPLANE:  "Multi-planar Video Output",
		V4L2_CAP_VIDEO_M2M_MPLANE:     "Multi-planar Memory-to-Memory",
		V4L2_CAP_VIDEO_M2M:            "Memory-to-Memory",
		V4L2_CAP_TUNER:                "Tuner",
		V4L2_CAP_AUDIO:                "Audio",
		V4L2_CAP_RADIO:                "Radio",
		V4L2_CAP_MODULATOR:            "Modulator",
		V4L2_CAP_SDR_CAPTURE:          "Software Defined Radio Capture",
		V4L2_CAP_EXT_PIX_FORMAT:       "Extended Pixel Format",
		V4L2_CAP_SDR_OUTPUT:           "Software Defined Radio Output",
		V4L2_CAP_META_CAPTURE:         "Metadata Capture",
		V4L2_CAP_READWRITE:            "Read/Write I/O",
		V4L2_CAP_ASYNCIO:              "Asynchronous I/O",
		V4L2_CAP_STREAMING:            "Streaming I/O",
		V4L2_CAP_META_OUTPUT:          "Metadata Output",
		V4L2_CAP_TOUCH:                "Touch Device",
		V4L2_CAP_IO_MC:                "Media Controller I/O",
	}

	for flag, name := range capMap {
		if caps&flag != 0 {
			capabilities = append(capabilities, name)
		}
	}

	return capabilities
}

// getDevicesData fetches the list of available video devices
func (s *Server) getDevicesData() (models.DeviceData, error) {
	found, err := s.detector.FindDevices()
	if err != nil {
		return models.DeviceData{}, fmt.Errorf("failed to find devices: %w", err)
	}

	apiDevices := make([]models.DeviceInfo, len(found))
	for i, dev := range found {
		apiDevices[i] = models.DeviceInfo{
			DevicePath:   dev.DevicePath,
			DeviceName:   dev.DeviceName,
			DeviceId:     dev.DeviceID,
			Caps:         dev.Caps,
			Capabilities: translateCapabilities(dev.Caps),
		}
	}

	return models.DeviceData{
		Devices: apiDevices,
		Count:   len(apiDevices),
	}, nil
}

// getDeviceCapabilities fetches all supported formats for a device
func (s *Server) getDeviceCapabilities(devicePath string) (models.DeviceCapabilitiesData, error) {
	found, err := s.detector.GetDeviceFormats(devicePath)
	if err != nil {
		return models.DeviceCapabilitiesData{}, fmt.Errorf("failed to get device formats: %w", err)
	}

	formats := make([]models.FormatInfo, 0, len(found))
	for _, f := range found {
		name := models.PixelFormatToHumanReadable(f.PixelFormat)
		if name == "unknown" {
			// Formats without a stable name are skipped, the rest of
			// the catalog survives
			continue
		}
		formats = append(formats, models.FormatInfo{
			FormatName:   name,
			OriginalName: f.FormatName,
			Emulated:     f.Emulated,
		})
	}

	return models.DeviceCapabilitiesData{
		DevicePath: devicePath,
		Formats:    formats,
	}, nil
}

// registerDeviceRoutes registers all device-related endpoints
func (s *Server) registerDeviceRoutes() {
	// List all devices
	huma.Register(s.api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices",
		Summary:     "List Devices",
		Description: "List all available V4L2 video devices",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, input *struct{}) (*models.DeviceResponse, error) {
		data, err := s.getDevicesData()
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to get devices", err)
		}

		return &models.DeviceResponse{Body: data}, nil
	})

	// Full HAL snapshots: formats plus classified controls per device
	huma.Register(s.api, huma.Operation{
		OperationID: "describe-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices/describe",
		Summary:     "Describe Devices",
		Description: "Full snapshots of every usable capture device: format catalog " +
			"with discrete resolutions and the classified control set. Devices that " +
			"fail probing are omitted.",
		Tags:     []string{"devices"},
		Security: withAuth(),
		Errors:   []int{401},
	}, func(ctx context.Context, input *struct{}) (*DeviceDescribeResponse, error) {
		snapshots := camera.Enumerate()

		resp := &DeviceDescribeResponse{}
		resp.Body.Devices = make([]DeviceSnapshot, len(snapshots))
		for i, dev := range snapshots {
			snap := DeviceSnapshot{
				Index:    dev.Index,
				Name:     dev.Name,
				Formats:  make([]FormatSnapshot, len(dev.Formats)),
				Controls: make([]models.ControlInfo, len(dev.Controls)),
			}
			for j, f := range dev.Formats {
				fs := FormatSnapshot{
					FourCC:   f.FourCC.String(),
					Emulated: f.Emulated,
				}
				fs.Resolutions = make([]ResolutionSnapshot, len(f.Resolutions))
				for k, r := range f.Resolutions {
					fs.Resolutions[k] = ResolutionSnapshot{Width: r.Width, Height: r.Height}
				}
				snap.Formats[j] = fs
			}
			for j, c := range dev.Controls {
				snap.Controls[j] = convertControl(c)
			}
			resp.Body.Devices[i] = snap
		}
		resp.Body.Count = len(resp.Body.Devices)
		return resp, nil
	})

	// Get device formats
	huma.Register(s.api, huma.Operation{
		OperationID: "device-formats",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/formats",
		Summary:     "Formats",
		Description: "List supported formats for a specific device",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 500},
	}, func(ctx context.Context, input *DevicePathInput) (*models.DeviceCapabilitiesResponse, error) {
		devicePath, err := s.detector.GetDevicePathByID(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		data, err := s.getDeviceCapabilities(devicePath)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to get device capabilities", err)
		}

		return &models.DeviceCapabilitiesResponse{Body: data}, nil
	})

	// Get device resolutions for a format
	huma.Register(s.api, huma.Operation{
		OperationID: "device-resolutions",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/resolutions",
		Summary:     "Resolutions",
		Description: "List supported resolutions for a specific format",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *DeviceFormatInput) (*models.DeviceResolutionsResponse, error) {
		devicePath, err := s.detector.GetDevicePathByID(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		pixelFormat, err := input.FormatName.ToPixelFormat()
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid format name", err)
		}

		resolutions, err := s.detector.GetDeviceResolutions(devicePath, pixelFormat)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to get device resolutions", err)
		}

		apiResolutions := make([]models.Resolution, len(resolutions))
		for i, res := range resolutions {
			apiResolutions[i] = models.Resolution{
				Width:  res.Width,
				Height: res.Height,
			}
		}

		return &models.DeviceResolutionsResponse{
			Body: models.DeviceResolutionsData{Resolutions: apiResolutions},
		}, nil
	})

	// Get device framerates for a format and resolution
	huma.Register(s.api, huma.Operation{
		OperationID: "device-framerates",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/framerates",
		Summary:     "Framerates",
		Description: "List supported framerates for a specific format and resolution",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *DeviceResolutionInput) (*models.DeviceFrameratesResponse, error) {
		devicePath, err := s.detector.GetDevicePathByID(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		pixelFormat, err := input.FormatName.ToPixelFormat()
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid format name", err)
		}

		width, err := strconv.ParseUint(input.Width, 10, 32)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid width parameter", err)
		}

		height, err := strconv.ParseUint(input.Height, 10, 32)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid height parameter", err)
		}

		framerates, err := s.detector.GetDeviceFramerates(devicePath, pixelFormat, uint32(width), uint32(height))
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to get device framerates", err)
		}

		apiFramerates := make([]models.Framerate, len(framerates))
		for i, rate := range framerates {
			fps := 0.0
			if rate.Numerator != 0 {
				fps = float64(rate.Denominator) / float64(rate.Numerator)
			}
			apiFramerates[i] = models.Framerate{
				Numerator:   rate.Numerator,
				Denominator: rate.Denominator,
				Fps:         fps,
			}
		}

		return &models.DeviceFrameratesResponse{
			Body: models.DeviceFrameratesData{Framerates: apiFramerates},
		}, nil
	})

	// Capture snapshot from device
	huma.Register(s.api, huma.Operation{
		OperationID:   "device-capture-screenshot",
		Method:        http.MethodPost,
		Path:          "/api/devices/{device_id}/capture",
		Summary:       "Capture Snapshot",
		Description: "Capture a JPEG snapshot from the device. By default results are " +
			"delivered via SSE events; with inline=true the image is returned in the response.",
		Tags:          []string{"devices"},
		DefaultStatus: http.StatusAccepted, // 202 Accepted
		Security:      withAuth(),
		Errors:        []int{401, 404, 500},
	}, func(ctx context.Context, input *DeviceCaptureInput) (*models.CaptureResponse, error) {
		devicePath, err := s.detector.GetDevicePathByID(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		// Config default applies when the request carries no delay
		delay := input.Body.Delay
		if delay == 0 {
			delay = float64(s.options.CaptureDefaultDelayMs) / 1000.0
		}

		if input.Body.Inline {
			imageBytes, err := capture.CaptureToBytes(ctx, devicePath, input.Body.Resolution, delay)
			if err != nil {
				return nil, huma.Error500InternalServerError("Capture failed", err)
			}
			return &models.CaptureResponse{
				Body: models.CaptureData{
					Status:  "success",
					Message: "Snapshot captured",
					Data: map[string]string{
						"image": base64.StdEncoding.EncodeToString(imageBytes),
					},
				},
			}, nil
		}

		// Capture runs detached; the result arrives on the event stream
		go func() {
			timestamp := nowRFC3339()
			captureCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			imageBytes, err := capture.CaptureToBytes(captureCtx, devicePath, input.Body.Resolution, delay)
			if err != nil {
				s.logger.Error("Snapshot capture failed", "device", devicePath, "error", err)
				s.eventBus.Publish(events.CaptureErrorEvent{
					DevicePath: devicePath,
					Message:    "Snapshot capture failed",
					Error:      err.Error(),
					Timestamp:  timestamp,
				})
				return
			}

			s.eventBus.Publish(events.CaptureSuccessEvent{
				DevicePath: devicePath,
				Message:    "Snapshot captured successfully",
				ImageData:  base64.StdEncoding.EncodeToString(imageBytes),
				Timestamp:  timestamp,
			})
		}()

		return &models.CaptureResponse{
			Body: models.CaptureData{
				Status:  "accepted",
				Message: "Snapshot capture triggered. Results will be sent via SSE.",
			},
		}, nil
	})
}
