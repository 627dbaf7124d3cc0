package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/pelletier/go-toml/v2"
	"github.com/pion/webrtc/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smazurov/camnode/cmd"
	"github.com/smazurov/camnode/internal/api"
	"github.com/smazurov/camnode/internal/config"
	"github.com/smazurov/camnode/internal/events"
	"github.com/smazurov/camnode/internal/led"
	"github.com/smazurov/camnode/internal/logging"
	"github.com/smazurov/camnode/internal/streaming"
	"github.com/smazurov/camnode/internal/systemd"
	"github.com/smazurov/camnode/internal/updater"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Capture settings
	CaptureDefaultDelayMs int `help:"Default capture delay in milliseconds" default:"3000" toml:"capture.default_delay_ms" env:"CAPTURE_DEFAULT_DELAY_MS"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Preview settings
	PreviewSTUNServer string `help:"STUN server URL for WebRTC preview (empty for LAN-only)" default:"" toml:"preview.stun_server" env:"PREVIEW_STUN_SERVER"`

	// Features settings
	FeaturesLEDControl bool `help:"Enable LED control" default:"false" toml:"features.led_control_enabled" env:"FEATURES_LED_CONTROL"`

	// Update settings
	UpdateRepository string `help:"GitHub repository for self-update (owner/repo)" default:"smazurov/camnode" toml:"update.repository" env:"UPDATE_REPOSITORY"`
	UpdatePrerelease bool   `help:"Include prereleases when checking for updates" default:"false" toml:"update.prerelease" env:"UPDATE_PRERELEASE"`

	// Systemd settings
	SystemdManagedService string `help:"Systemd service unit exposed via the API" default:"" toml:"systemd.managed_service" env:"SYSTEMD_MANAGED_SERVICE"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingDevices string `help:"Devices logging level" default:"info" toml:"logging.devices" env:"LOGGING_DEVICES"`
	LoggingCapture string `help:"Capture logging level" default:"info" toml:"logging.capture" env:"LOGGING_CAPTURE"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingWebRTC  string `help:"WebRTC logging level" default:"info" toml:"logging.webrtc" env:"LOGGING_WEBRTC"`
	LoggingForward string `help:"RTP forward logging level" default:"info" toml:"logging.forward" env:"LOGGING_FORWARD"`
	LoggingAudio   string `help:"Audio logging level" default:"info" toml:"logging.audio" env:"LOGGING_AUDIO"`
	LoggingUpdater string `help:"Updater logging level" default:"info" toml:"logging.updater" env:"LOGGING_UPDATER"`
}

func main() {
	// Create Huma CLI. The closure runs after cli is assigned, so it can
	// hand the root command to the config loader for flag precedence.
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			logging.GetLogger("main").Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"devices": opts.LoggingDevices,
				"capture": opts.LoggingCapture,
				"api":     opts.LoggingAPI,
				"webrtc":  opts.LoggingWebRTC,
				"forward": opts.LoggingForward,
				"audio":   opts.LoggingAudio,
				"updater": opts.LoggingUpdater,
			},
		})

		logger := logging.GetLogger("main")

		// Watch the config file so [logging] level changes apply live
		configWatcher := config.NewConfigWatcher(opts.Config, loadLoggingSection, logger)
		configWatcher.OnReload(func(cfg logging.Config) {
			logging.ApplyLevels(cfg.Level, cfg.Modules)
			logger.Info("Reloaded logging levels from config", "path", opts.Config)
		})

		// Create event bus for in-process event handling
		eventBus := events.New()

		// Bridge log entries onto the bus for the SSE log stream
		var logSeq atomic.Uint64
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Seq:        logSeq.Add(1),
				Timestamp:  entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		// Initialize LED control if enabled
		var ledManager *led.Manager
		var ledController led.Controller
		if opts.FeaturesLEDControl {
			logger.Info("LED control enabled, initializing")
			ledController = led.New(logger)
			ledManager = led.NewManager(ledController, eventBus, logger)
		}

		// Initialize WebRTC preview manager
		streamingConfig := streaming.Config{}
		if opts.PreviewSTUNServer != "" {
			streamingConfig.ICEServers = []webrtc.ICEServer{
				{URLs: []string{opts.PreviewSTUNServer}},
			}
		}
		streamingManager := streaming.NewManager(streamingConfig, eventBus, logging.GetLogger("webrtc"))

		// Self-update service
		updateService, updateErr := updater.NewService(&updater.Options{
			Repository: opts.UpdateRepository,
			Prerelease: opts.UpdatePrerelease,
		})
		if updateErr != nil {
			logger.Warn("Self-update unavailable", "error", updateErr)
		}

		// Systemd manager for the optional managed service endpoints
		var systemdManager *systemd.Manager
		if opts.SystemdManagedService != "" {
			manager, sdErr := systemd.NewManager(context.Background())
			if sdErr != nil {
				logger.Warn("Systemd unavailable, service endpoints disabled", "error", sdErr)
			} else {
				systemdManager = manager
			}
		}

		server := api.NewServer(&api.Options{
			AuthUsername:          opts.AuthUsername,
			AuthPassword:          opts.AuthPassword,
			CaptureDefaultDelayMs: opts.CaptureDefaultDelayMs,
			EventBus:              eventBus,
			StreamingManager:      streamingManager,
			LEDController:         ledController,
			SystemdManager:        systemdManager,
			ManagedServiceName:    opts.SystemdManagedService,
			UpdateService:         updateService,
			PrometheusHandler:     promhttp.Handler(),
		})

		hooks.OnStart(func() {
			if watchErr := configWatcher.Start(); watchErr != nil {
				logger.Warn("Config watcher not started", "error", watchErr)
			}

			if ledManager != nil {
				ledManager.Start()
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			if ledManager != nil {
				ledManager.Stop()
			}
			if systemdManager != nil {
				systemdManager.Close()
			}
			if stopErr := configWatcher.Stop(); stopErr != nil {
				logger.Warn("Error stopping config watcher", "error", stopErr)
			}
		})
	})

	cli.Root().AddCommand(
		cmd.CreateDevicesCmd(),
		cmd.CreateCaptureCmd(),
		cmd.CreateForwardCmd(),
		cmd.CreateMonitorCmd(),
	)

	// Run the CLI
	cli.Run()
}

// loadLoggingSection reads the [logging] table from the TOML config file.
func loadLoggingSection(path string) (logging.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return logging.Config{}, err
	}

	var cfg struct {
		Logging logging.Config `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return logging.Config{}, err
	}
	return cfg.Logging, nil
}
