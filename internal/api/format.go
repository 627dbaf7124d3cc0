package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camnode/internal/api/models"
	"github.com/smazurov/camnode/pkg/camera"
)

// DeviceFormatUpdateInput combines path parameters and the format body.
type DeviceFormatUpdateInput struct {
	DevicePathInput
	Body models.DeviceFormatRequestData
}

func formatData(devicePath string, format camera.Format) models.DeviceFormatData {
	return models.DeviceFormatData{
		DevicePath: devicePath,
		FormatName: models.VideoFormat(models.PixelFormatToHumanReadable(uint32(format.FourCC))),
		Width:      format.Width,
		Height:     format.Height,
		Stride:     format.Stride,
	}
}

// registerFormatRoutes registers the active-format endpoints
func (s *Server) registerFormatRoutes() {
	// Read the active capture format
	huma.Register(s.api, huma.Operation{
		OperationID: "device-format-get",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/format",
		Summary:     "Active Format",
		Description: "Get the currently configured capture format including the driver-chosen stride",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 409, 500},
	}, func(ctx context.Context, input *DevicePathInput) (*models.DeviceFormatResponse, error) {
		devicePath, err := s.detector.GetDevicePathByID(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		dev, err := camera.OpenPath(devicePath)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to open device", err)
		}
		defer dev.Close()

		format, err := dev.Format()
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to read format", err)
		}

		return &models.DeviceFormatResponse{Body: formatData(devicePath, format)}, nil
	})

	// Negotiate a capture format
	huma.Register(s.api, huma.Operation{
		OperationID: "device-format-set",
		Method:      http.MethodPut,
		Path:        "/api/devices/{device_id}/format",
		Summary:     "Set Format",
		Description: "Request a capture format. The driver may adjust any field; " +
			"the response reports what was actually configured.",
		Tags:     []string{"devices"},
		Security: withAuth(),
		Errors:   []int{400, 401, 404, 409, 500},
	}, func(ctx context.Context, input *DeviceFormatUpdateInput) (*models.DeviceFormatResponse, error) {
		devicePath, err := s.detector.GetDevicePathByID(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		pixelFormat, err := input.Body.FormatName.ToPixelFormat()
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid format name", err)
		}

		dev, err := camera.OpenPath(devicePath)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to open device", err)
		}
		defer dev.Close()

		actual, err := dev.SetFormat(camera.Format{
			Width:  input.Body.Width,
			Height: input.Body.Height,
			FourCC: camera.FourCC(pixelFormat),
		})
		if err != nil {
			if errors.Is(err, camera.ErrDeviceBusy) {
				return nil, huma.Error409Conflict("Device is streaming", err)
			}
			return nil, huma.Error500InternalServerError("Failed to set format", err)
		}

		return &models.DeviceFormatResponse{Body: formatData(devicePath, actual)}, nil
	})
}
