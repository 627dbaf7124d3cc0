package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/smazurov/camnode/internal/devices"
	"github.com/smazurov/camnode/internal/logging"
	"github.com/spf13/cobra"
)

// printBroadcaster writes device changes to stdout, one line per event.
type printBroadcaster struct{}

func (printBroadcaster) BroadcastDeviceDiscovery(action string, device devices.DeviceInfo, timestamp string) {
	fmt.Printf("%s\t%s\t%s\t%s\n", timestamp, action, device.DevicePath, device.DeviceName)
}

// CreateMonitorCmd creates the monitor command.
func CreateMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch for device hotplug and signal changes",
		Long: `Prints device add, remove, and status change events as they happen. ` +
			`Covers USB hotplug via netlink and HDMI signal changes on capture cards. ` +
			`Runs until interrupted.`,
		Run: func(_ *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			detector := devices.NewDetector()
			if err := detector.StartMonitoring(ctx, printBroadcaster{}); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to start monitoring: %v\n", err)
				os.Exit(1)
			}
			defer detector.StopMonitoring()

			<-ctx.Done()
		},
	}

	return cmd
}
