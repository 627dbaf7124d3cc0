package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camnode/internal/api/models"
	"github.com/smazurov/camnode/internal/audio"
)

// registerAudioRoutes registers all audio-related API endpoints under /api/devices/audio.
func (s *Server) registerAudioRoutes() {
	// GET /api/devices/audio - List all audio devices with capabilities
	huma.Register(s.api, huma.Operation{
		OperationID: "list-audio-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices/audio",
		Summary:     "List Audio Devices",
		Description: "List all available audio devices with their capabilities including supported " +
			"sample rates, formats, and channel configurations",
		Tags:     []string{"devices"},
		Security: withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.AudioDevicesResponse, error) {
		detector := audio.NewDetector()
		devices, err := detector.ListDevices()
		if err != nil {
			return nil, huma.NewError(http.StatusInternalServerError, "Failed to enumerate audio devices", err)
		}

		// Convert internal audio.Device to API models.AudioDevice
		apiDevices := make([]models.AudioDevice, len(devices))
		for i, device := range devices {
			apiDevices[i] = models.AudioDevice{
				CardNumber:       device.CardNumber,
				CardID:           device.CardID,
				CardName:         device.CardName,
				DeviceNumber:     device.DeviceNumber,
				DeviceName:       device.DeviceName,
				Type:             device.Type,
				ALSADevice:       device.ALSADevice,
				SupportedRates:   device.SupportedRates,
				MinChannels:      device.MinChannels,
				MaxChannels:      device.MaxChannels,
				SupportedFormats: device.SupportedFormats,
				MinBufferSize:    device.MinBufferSize,
				MaxBufferSize:    device.MaxBufferSize,
				MinPeriodSize:    device.MinPeriodSize,
				MaxPeriodSize:    device.MaxPeriodSize,
			}
		}

		return &models.AudioDevicesResponse{
			Body: models.AudioDevicesData{
				Devices: apiDevices,
				Count:   len(apiDevices),
			},
		}, nil
	})

	// GET /api/devices/{device_id}/audio - Find the paired audio device
	huma.Register(s.api, huma.Operation{
		OperationID: "get-paired-audio-device",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/audio",
		Summary:     "Paired Audio Device",
		Description: "Find the audio capture device on the same USB device as the video device. " +
			"Returns a null device when the camera has no audio function.",
		Tags:     []string{"devices"},
		Security: withAuth(),
		Errors:   []int{401, 404, 500},
	}, func(_ context.Context, input *DevicePathInput) (*models.PairedAudioResponse, error) {
		devicePath, err := s.detector.GetDevicePathByID(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		detector := audio.NewDetector()
		paired, err := detector.FindPairedDevice(devicePath)
		if err != nil {
			return nil, huma.NewError(http.StatusInternalServerError, "Failed to look up paired audio device", err)
		}

		data := models.PairedAudioData{DevicePath: devicePath}
		if paired != nil {
			data.Device = &models.AudioDevice{
				CardNumber:       paired.CardNumber,
				CardID:           paired.CardID,
				CardName:         paired.CardName,
				DeviceNumber:     paired.DeviceNumber,
				DeviceName:       paired.DeviceName,
				Type:             paired.Type,
				ALSADevice:       paired.ALSADevice,
				SupportedRates:   paired.SupportedRates,
				MinChannels:      paired.MinChannels,
				MaxChannels:      paired.MaxChannels,
				SupportedFormats: paired.SupportedFormats,
				MinBufferSize:    paired.MinBufferSize,
				MaxBufferSize:    paired.MaxBufferSize,
				MinPeriodSize:    paired.MinPeriodSize,
				MaxPeriodSize:    paired.MaxPeriodSize,
			}
		}

		return &models.PairedAudioResponse{Body: data}, nil
	})
}
