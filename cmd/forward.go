package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/smazurov/camnode/internal/forward"
	"github.com/smazurov/camnode/internal/logging"
	"github.com/spf13/cobra"
)

// CreateForwardCmd creates the forward command.
func CreateForwardCmd() *cobra.Command {
	var target string
	var payloadType uint8
	var mtu uint16
	var fps uint32
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "forward [device]",
		Short: "Forward a device's stream as RTP over UDP",
		Long: `Reads compressed frames from the device and sends them to a UDP target ` +
			`as RTP. H264 devices use the standard H264 payload format, MJPEG devices ` +
			`use RFC 2435. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			loggingConfig := logging.Config{Level: "info", Format: "text"}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("forward")

			fwd, err := forward.NewForwarder(forward.Config{
				Device:      args[0],
				Target:      target,
				PayloadType: payloadType,
				MTU:         mtu,
				FPS:         fps,
			}, nil, logger)
			if err != nil {
				logger.Error("Invalid forward configuration", "error", err)
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := fwd.Run(ctx); err != nil {
				logger.Error("Forwarding failed", "error", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "RTP destination as host:port (required)")
	cmd.Flags().Uint8Var(&payloadType, "payload-type", 96, "Dynamic RTP payload type (96-127)")
	cmd.Flags().Uint16Var(&mtu, "mtu", 1200, "Maximum RTP packet size in bytes")
	cmd.Flags().Uint32Var(&fps, "fps", 30, "Frame rate used for the RTP clock")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Use JSON log format")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
