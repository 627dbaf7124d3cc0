package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camnode/internal/streaming"
)

// PreviewOfferInput carries a WebRTC SDP offer for a device preview.
type PreviewOfferInput struct {
	DevicePathInput
	Body struct {
		SDP string `json:"sdp" doc:"WebRTC SDP offer"`
	}
}

// PreviewAnswerResponse returns the SDP answer with all ICE candidates
// gathered, WHEP style, so no trickle exchange is needed.
type PreviewAnswerResponse struct {
	Body struct {
		PeerID string `json:"peer_id" doc:"Viewer identifier, used to close the preview"`
		SDP    string `json:"sdp" doc:"WebRTC SDP answer"`
	}
}

// PreviewCloseInput identifies one viewer of a device preview.
type PreviewCloseInput struct {
	DevicePathInput
	PeerID string `path:"peer_id" doc:"Viewer identifier returned when the preview was created"`
}

// registerPreviewRoutes registers the WebRTC preview endpoints
func (s *Server) registerPreviewRoutes() {
	if s.options.StreamingManager == nil {
		s.logger.Debug("Streaming manager not available, skipping preview routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "device-preview",
		Method:      http.MethodPost,
		Path:        "/api/devices/{device_id}/preview",
		Summary:     "Start Preview",
		Description: "Establish a WebRTC preview of the device's H264 stream. " +
			"All viewers of a device share one capture session.",
		Tags:          []string{"preview"},
		DefaultStatus: http.StatusCreated,
		Security:      withAuth(),
		Errors:        []int{400, 401, 404, 500},
	}, func(ctx context.Context, input *PreviewOfferInput) (*PreviewAnswerResponse, error) {
		peerID, answer, err := s.options.StreamingManager.CreateConsumer(input.DeviceID, input.Body.SDP)
		if err != nil {
			if errors.Is(err, streaming.ErrDeviceNotFound) {
				return nil, huma.Error404NotFound("Device not found", err)
			}
			return nil, huma.Error500InternalServerError("Failed to establish preview", err)
		}

		resp := &PreviewAnswerResponse{}
		resp.Body.PeerID = peerID
		resp.Body.SDP = answer
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "device-preview-close",
		Method:      http.MethodDelete,
		Path:        "/api/devices/{device_id}/preview/{peer_id}",
		Summary:     "Close Preview",
		Description: "Disconnect one preview viewer. The capture session stops " +
			"when its last viewer leaves.",
		Tags:          []string{"preview"},
		DefaultStatus: http.StatusNoContent,
		Security:      withAuth(),
		Errors:        []int{401, 404},
	}, func(ctx context.Context, input *PreviewCloseInput) (*struct{}, error) {
		if err := s.options.StreamingManager.ClosePeer(input.PeerID); err != nil {
			return nil, huma.Error404NotFound("Peer not found", err)
		}
		return nil, nil
	})
}
