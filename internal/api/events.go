package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/camnode/internal/events"
)

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time event stream for capture results, device changes, and session state",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"capture-success":       events.CaptureSuccessEvent{},
		"capture-error":         events.CaptureErrorEvent{},
		"device-discovery":      events.DeviceDiscoveryEvent{},
		"session-state-changed": events.SessionStateChangedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		// Create event channel for this connection
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.CaptureSuccessEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.CaptureErrorEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.DeviceDiscoveryEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.SessionStateChangedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Send initial connection confirmation
		if err := send.Data(events.CaptureSuccessEvent{
			DevicePath: "system",
			Message:    "SSE connection established",
			ImageData:  "",
			Timestamp:  time.Now().Format(time.RFC3339),
		}); err != nil {
			return
		}

		// Keep connection alive and forward events
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					// Connection failed, clean up and exit
					return
				}
			}
		}
	})
}
