package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camnode/internal/api/models"
	"github.com/smazurov/camnode/pkg/camera"
)

// ControlUpdateInput combines path parameters and the update body.
type ControlUpdateInput struct {
	DevicePathInput
	Body models.ControlUpdateRequestData
}

// convertControl maps one HAL control onto the wire model. The current
// value is filled by the caller where readable.
func convertControl(ctrl camera.ControlInfo) models.ControlInfo {
	info := models.ControlInfo{
		ID:   ctrl.ID,
		Name: ctrl.Name,
	}

	switch repr := ctrl.Repr.(type) {
	case camera.Integer:
		info.Type = models.ControlInteger
		minVal, maxVal, def := repr.Min, repr.Max, repr.Default
		step := repr.Step
		info.Min = &minVal
		info.Max = &maxVal
		info.Step = &step
		info.Default = &def
	case camera.Boolean:
		info.Type = models.ControlBoolean
	case camera.Menu:
		info.Type = models.ControlMenu
		info.Items = make([]models.MenuItemInfo, 0, len(repr.Items))
		for _, item := range repr.Items {
			switch v := item.(type) {
			case camera.MenuItemName:
				name := string(v)
				info.Items = append(info.Items, models.MenuItemInfo{Name: &name})
			case camera.MenuItemValue:
				value := int64(v)
				info.Items = append(info.Items, models.MenuItemInfo{Value: &value})
			}
		}
	case camera.Button:
		info.Type = models.ControlButton
	case camera.String:
		info.Type = models.ControlString
	case camera.Bitmask:
		info.Type = models.ControlBitmask
	default:
		info.Type = models.ControlUnknown
	}

	return info
}

// registerControlRoutes registers device control endpoints
func (s *Server) registerControlRoutes() {
	// List device controls with current values
	huma.Register(s.api, huma.Operation{
		OperationID: "device-controls",
		Method:      http.MethodGet,
		Path:        "/api/devices/{device_id}/controls",
		Summary:     "Controls",
		Description: "List device controls with their types, ranges, and current values",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 500},
	}, func(ctx context.Context, input *DevicePathInput) (*models.ControlsResponse, error) {
		devicePath, err := s.detector.GetDevicePathByID(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		dev, err := camera.OpenPath(devicePath)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to open device", err)
		}
		defer dev.Close()

		controls, err := dev.Controls()
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to query controls", err)
		}

		apiControls := make([]models.ControlInfo, 0, len(controls))
		for _, ctrl := range controls {
			info := convertControl(ctrl)
			// Buttons are write-only; other control reads can fail on
			// flaky hardware without sinking the listing
			if info.Type != models.ControlButton {
				if value, err := dev.Control(ctrl.ID); err == nil {
					v := int64(value)
					info.Value = &v
				}
			}
			apiControls = append(apiControls, info)
		}

		return &models.ControlsResponse{
			Body: models.ControlsData{
				DevicePath: devicePath,
				Controls:   apiControls,
				Count:      len(apiControls),
			},
		}, nil
	})

	// Apply control updates
	huma.Register(s.api, huma.Operation{
		OperationID: "device-controls-update",
		Method:      http.MethodPatch,
		Path:        "/api/devices/{device_id}/controls",
		Summary:     "Set Controls",
		Description: "Apply control value updates in order. Failures are reported per control; " +
			"earlier updates stay applied.",
		Tags:     []string{"devices"},
		Security: withAuth(),
		Errors:   []int{401, 404, 500},
	}, func(ctx context.Context, input *ControlUpdateInput) (*models.ControlUpdateResponse, error) {
		devicePath, err := s.detector.GetDevicePathByID(input.DeviceID)
		if err != nil {
			return nil, huma.Error404NotFound("Device not found", err)
		}

		dev, err := camera.OpenPath(devicePath)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to open device", err)
		}
		defer dev.Close()

		result := models.ControlUpdateResultData{}
		for _, update := range input.Body.Controls {
			if err := dev.SetControl(update.ID, update.Value); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("control %d: %v", update.ID, err))
				continue
			}
			result.Applied++
		}

		return &models.ControlUpdateResponse{Body: result}, nil
	})
}
