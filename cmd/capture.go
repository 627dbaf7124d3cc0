package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/smazurov/camnode/internal/capture"
	"github.com/smazurov/camnode/internal/devices"
	"github.com/smazurov/camnode/internal/logging"
	"github.com/spf13/cobra"
)

// CreateCaptureCmd creates the capture command.
func CreateCaptureCmd() *cobra.Command {
	var output string
	var resolution string
	var delay float64
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "capture [device]",
		Short: "Capture a JPEG snapshot from a device",
		Long: `Captures a single JPEG snapshot from the given device. The device may be ` +
			`a path like /dev/video0, a bare index, or a stable by-id/by-path identifier. ` +
			`MJPEG devices pass frames through unchanged; YUYV devices are encoded locally.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			logging.Initialize(logging.Config{Level: "info", Format: "text"})
			logger := logging.GetLogger("capture")

			devicePath, err := devices.ResolveDevicePath(args[0])
			if err != nil {
				logger.Error("Failed to resolve device", "device", args[0], "error", err)
				os.Exit(1)
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if err := capture.CaptureScreenshot(ctx, devicePath, output, resolution, delay); err != nil {
				logger.Error("Capture failed", "device", devicePath, "error", err)
				os.Exit(1)
			}

			fmt.Printf("Snapshot written to %s\n", output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "snapshot.jpg", "Output file path")
	cmd.Flags().StringVar(&resolution, "resolution", "", "Capture resolution as WIDTHxHEIGHT (default: current)")
	cmd.Flags().Float64Var(&delay, "delay", 0, "Seconds to wait before grabbing the frame")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall capture timeout")

	return cmd
}
