//go:build linux

package camera

import "github.com/smazurov/camnode/pkg/linuxav/v4l2"

// classifyControl maps a raw V4L2 control description to its portable
// representation. The mapping is total: any type code outside the
// recognized set becomes Unknown. Ranges are copied verbatim as the
// driver reported them; the platform is trusted.
func classifyControl(desc v4l2.ControlDesc) Representation {
	switch desc.Type {
	case v4l2.V4L2_CTRL_TYPE_INTEGER, v4l2.V4L2_CTRL_TYPE_INTEGER64:
		return Integer{
			Min:     desc.Minimum,
			Max:     desc.Maximum,
			Step:    desc.Step,
			Default: desc.Default,
		}
	case v4l2.V4L2_CTRL_TYPE_BOOLEAN:
		return Boolean{}
	case v4l2.V4L2_CTRL_TYPE_MENU, v4l2.V4L2_CTRL_TYPE_INTEGER_MENU:
		items := make([]MenuItem, 0, len(desc.Menu))
		for _, entry := range desc.Menu {
			if entry.Numeric {
				items = append(items, MenuItemValue(entry.Value))
			} else {
				items = append(items, MenuItemName(entry.Name))
			}
		}
		return Menu{Items: items}
	case v4l2.V4L2_CTRL_TYPE_BUTTON:
		return Button{}
	case v4l2.V4L2_CTRL_TYPE_STRING:
		return String{}
	case v4l2.V4L2_CTRL_TYPE_BITMASK:
		return Bitmask{}
	default:
		return Unknown{}
	}
}

// classifyFormat maps a raw format description plus its enumerated
// frame sizes to a catalog entry. Only discrete sizes contribute
// resolutions, in driver order; stepwise and continuous ranges are
// dropped without substitution.
func classifyFormat(desc v4l2.FormatInfo, sizes []v4l2.FrameSize) FormatInfo {
	info := FormatInfo{
		FourCC:   FourCC(desc.PixelFormat),
		Emulated: desc.Emulated,
	}
	for _, size := range sizes {
		if !size.Discrete() {
			continue
		}
		info.Resolutions = append(info.Resolutions, Resolution{
			Width:  size.Width,
			Height: size.Height,
		})
	}
	return info
}
