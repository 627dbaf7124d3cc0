package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/smazurov/camnode/internal/devices"
	"github.com/smazurov/camnode/internal/logging"
	"github.com/smazurov/camnode/pkg/camera"
	"github.com/spf13/cobra"
)

// CreateDevicesCmd creates the devices command.
func CreateDevicesCmd() *cobra.Command {
	var showFormats bool
	var showControls bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List video capture devices",
		Long: `Enumerates V4L2 capture devices with their stable identifiers. ` +
			`Devices that fail to probe are skipped rather than aborting the listing.`,
		Run: func(_ *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})

			detector := devices.NewDetector()
			found, err := detector.FindDevices()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to enumerate devices: %v\n", err)
				os.Exit(1)
			}

			if len(found) == 0 {
				fmt.Println("No capture devices found")
				return
			}

			for _, dev := range found {
				ready := "no signal"
				if dev.Ready {
					ready = "ready"
				}
				fmt.Printf("%s\t%s\t%s\t%s\n", dev.DevicePath, dev.DeviceID, dev.DeviceName, ready)

				if showFormats {
					formats, err := detector.GetDeviceFormats(dev.DevicePath)
					if err != nil {
						fmt.Printf("\tformats unavailable: %v\n", err)
					} else {
						names := make([]string, 0, len(formats))
						for _, f := range formats {
							names = append(names, f.FormatName)
						}
						fmt.Printf("\tformats: %s\n", strings.Join(names, ", "))
					}
				}

				if showControls {
					printControls(dev.DevicePath)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&showFormats, "formats", false, "Also list each device's supported formats")
	cmd.Flags().BoolVar(&showControls, "controls", false, "Also list each device's controls")

	return cmd
}

// printControls opens the device and prints its classified control set.
func printControls(devicePath string) {
	dev, err := camera.OpenPath(devicePath)
	if err != nil {
		fmt.Printf("\tcontrols unavailable: %v\n", err)
		return
	}
	defer dev.Close()

	controls, err := dev.Controls()
	if err != nil {
		fmt.Printf("\tcontrols unavailable: %v\n", err)
		return
	}

	for _, ctrl := range controls {
		fmt.Printf("\tcontrol 0x%08x %s (%s)\n", ctrl.ID, ctrl.Name, describeRepresentation(ctrl.Repr))
	}
}

func describeRepresentation(repr camera.Representation) string {
	switch r := repr.(type) {
	case camera.Integer:
		return fmt.Sprintf("integer %d..%d step %d default %d", r.Min, r.Max, r.Step, r.Default)
	case camera.Boolean:
		return "boolean"
	case camera.Menu:
		items := make([]string, 0, len(r.Items))
		for _, item := range r.Items {
			switch v := item.(type) {
			case camera.MenuItemName:
				items = append(items, string(v))
			case camera.MenuItemValue:
				items = append(items, fmt.Sprintf("%d", int64(v)))
			}
		}
		return "menu: " + strings.Join(items, " | ")
	case camera.Button:
		return "button"
	case camera.String:
		return "string"
	case camera.Bitmask:
		return "bitmask"
	default:
		return "unknown"
	}
}
