package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camnode/internal/api/models"
)

// registerSystemdRoutes registers control routes for the managed
// systemd service (typically the camnode unit itself).
func (s *Server) registerSystemdRoutes() {
	if s.options.SystemdManager == nil || s.options.ManagedServiceName == "" {
		return
	}

	serviceName := s.options.ManagedServiceName

	huma.Register(s.api, huma.Operation{
		OperationID: "get-service-status",
		Method:      http.MethodGet,
		Path:        "/api/systemd/service/status",
		Summary:     "Service Status",
		Description: "Get the managed systemd service status",
		Tags:        []string{"systemd"},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.SystemdServiceStatusResponse, error) {
		status, err := s.options.SystemdManager.GetServiceStatus(ctx, serviceName)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to get service status", err)
		}
		return &models.SystemdServiceStatusResponse{
			Body: models.SystemdServiceStatus{
				Service: serviceName,
				Status:  status,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "restart-service-unit",
		Method:      http.MethodPost,
		Path:        "/api/systemd/service/restart",
		Summary:     "Restart Service",
		Description: "Restart the managed systemd service",
		Tags:        []string{"systemd"},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.SystemdServiceActionResponse, error) {
		if err := s.options.SystemdManager.RestartService(ctx, serviceName); err != nil {
			return nil, huma.Error500InternalServerError("Failed to restart service", err)
		}
		return &models.SystemdServiceActionResponse{
			Body: models.SystemdServiceAction{
				Service: serviceName,
				Action:  "restart",
				Success: true,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "stop-service-unit",
		Method:      http.MethodPost,
		Path:        "/api/systemd/service/stop",
		Summary:     "Stop Service",
		Description: "Stop the managed systemd service",
		Tags:        []string{"systemd"},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.SystemdServiceActionResponse, error) {
		if err := s.options.SystemdManager.StopService(ctx, serviceName); err != nil {
			return nil, huma.Error500InternalServerError("Failed to stop service", err)
		}
		return &models.SystemdServiceActionResponse{
			Body: models.SystemdServiceAction{
				Service: serviceName,
				Action:  "stop",
				Success: true,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "start-service-unit",
		Method:      http.MethodPost,
		Path:        "/api/systemd/service/start",
		Summary:     "Start Service",
		Description: "Start the managed systemd service",
		Tags:        []string{"systemd"},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*models.SystemdServiceActionResponse, error) {
		if err := s.options.SystemdManager.StartService(ctx, serviceName); err != nil {
			return nil, huma.Error500InternalServerError("Failed to start service", err)
		}
		return &models.SystemdServiceActionResponse{
			Body: models.SystemdServiceAction{
				Service: serviceName,
				Action:  "start",
				Success: true,
			},
		}, nil
	})
}
