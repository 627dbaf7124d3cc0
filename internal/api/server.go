package api

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/camnode/internal/api/models"
	"github.com/smazurov/camnode/internal/devices"
	"github.com/smazurov/camnode/internal/events"
	"github.com/smazurov/camnode/internal/led"
	"github.com/smazurov/camnode/internal/logging"
	"github.com/smazurov/camnode/internal/streaming"
	"github.com/smazurov/camnode/internal/systemd"
	"github.com/smazurov/camnode/internal/updater"
	"github.com/smazurov/camnode/internal/version"
	"github.com/smazurov/camnode/ui"
)

// Server is the Huma v2 API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	options    *Options
	eventBus   *events.Bus
	detector   devices.DeviceDetector
	logger     *slog.Logger
}

// Options carries the wiring the API server needs from main.
type Options struct {
	AuthUsername          string
	AuthPassword          string
	CaptureDefaultDelayMs int
	EventBus              *events.Bus
	Detector              devices.DeviceDetector
	StreamingManager      *streaming.Manager
	LEDController         led.Controller
	SystemdManager        *systemd.Manager
	ManagedServiceName    string
	UpdateService         updater.Service
	PrometheusHandler     http.Handler
}

// basicAuthMiddleware creates middleware for HTTP basic authentication
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		// Operations without security requirements skip auth
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		authHeader := ctx.Header("Authorization")
		var credentials string

		if authHeader != "" {
			const prefix = "Basic "
			if !strings.HasPrefix(authHeader, prefix) {
				ctx.SetHeader("WWW-Authenticate", `Basic realm="CamNode API"`)
				huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid authentication type")
				return
			}

			decoded, err := base64.StdEncoding.DecodeString(authHeader[len(prefix):])
			if err != nil {
				ctx.SetHeader("WWW-Authenticate", `Basic realm="CamNode API"`)
				huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials format", err)
				return
			}
			credentials = string(decoded)
		} else {
			// EventSource cannot set headers, so SSE clients pass
			// credentials in a query parameter instead
			queryAuth := ctx.Query("auth")
			if queryAuth != "" {
				decoded, err := base64.StdEncoding.DecodeString(queryAuth)
				if err != nil {
					ctx.SetHeader("WWW-Authenticate", `Basic realm="CamNode API"`)
					huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials format", err)
					return
				}
				credentials = string(decoded)
			}
		}

		if credentials == "" {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="CamNode API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Authentication required")
			return
		}

		parts := strings.SplitN(credentials, ":", 2)
		if len(parts) != 2 {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="CamNode API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials format")
			return
		}

		if parts[0] != username || parts[1] != password {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="CamNode API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		next(ctx)
	}
}

// NewServer creates the API server using Go 1.22+ native routing.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("CamNode API", version.Get().Version)
	config.Info.Description = "Camera capture, control, and preview API for V4L2 devices"
	// Empty servers list makes OpenAPI use relative paths, working with any host
	config.Servers = []*huma.Server{}

	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	detector := opts.Detector
	if detector == nil {
		detector = devices.NewDetector()
	}

	server := &Server{
		api:      api,
		mux:      mux,
		options:  opts,
		eventBus: opts.EventBus,
		detector: detector,
		logger:   logging.GetLogger("api"),
	}

	// CORS first, then request logging, then auth
	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	// Prometheus scrape endpoint bypasses huma and auth
	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()

	// Serve frontend assets for non-API paths
	if frontendHandler, err := ui.Handler(); err == nil {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api") {
				http.NotFound(w, r)
				return
			}
			frontendHandler.ServeHTTP(w, r)
		})
	}

	return server
}

// GetMux returns the underlying HTTP ServeMux for additional setup
func (s *Server) GetMux() *http.ServeMux {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

// BroadcastDeviceDiscovery publishes a device change to the event bus.
// It implements devices.EventBroadcaster for the hotplug monitor.
func (s *Server) BroadcastDeviceDiscovery(action string, device devices.DeviceInfo, timestamp string) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(events.DeviceDiscoveryEvent{
		DeviceInfo: models.DeviceInfo{
			DevicePath:   device.DevicePath,
			DeviceName:   device.DeviceName,
			DeviceId:     device.DeviceID,
			Caps:         device.Caps,
			Capabilities: translateCapabilities(device.Caps),
		},
		Action:    action,
		Timestamp: timestamp,
	})
}

// Start begins serving on addr and starts hotplug monitoring.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting CamNode API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	if err := s.detector.StartMonitoring(context.Background(), s); err != nil {
		s.logger.Warn("Failed to start device monitoring", "error", err)
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down without waiting for open connections.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")

	s.detector.StopMonitoring()

	if s.options.StreamingManager != nil {
		s.options.StreamingManager.Stop()
	}

	if s.httpServer != nil {
		return s.httpServer.Close()
	}

	return nil
}

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	// Health check endpoint - no auth required
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	// Version endpoint - no auth required
	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(ctx context.Context, input *struct{}) (*models.VersionResponse, error) {
		versionInfo := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   versionInfo.Version,
				GitCommit: versionInfo.GitCommit,
				BuildDate: versionInfo.BuildDate,
				BuildID:   versionInfo.BuildID,
				GoVersion: versionInfo.GoVersion,
				Compiler:  versionInfo.Compiler,
				Platform:  versionInfo.Platform,
			},
		}, nil
	})

	s.registerDeviceRoutes()
	s.registerControlRoutes()
	s.registerFormatRoutes()
	s.registerAudioRoutes()
	s.registerPreviewRoutes()
	s.registerSSERoutes()
	s.registerLogRoutes()
	s.registerLEDRoutes()
	s.registerSystemdRoutes()
	s.registerUpdateRoutes()
}

// withAuth returns security requirement for basic auth
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}

func nowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}
