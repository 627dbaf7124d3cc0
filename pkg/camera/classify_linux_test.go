//go:build linux

package camera

import (
	"reflect"
	"testing"

	"github.com/smazurov/camnode/pkg/linuxav/v4l2"
)

func TestClassifyControl(t *testing.T) {
	tests := []struct {
		name string
		desc v4l2.ControlDesc
		want Representation
	}{
		{
			name: "integer copies range verbatim",
			desc: v4l2.ControlDesc{
				Type:    v4l2.V4L2_CTRL_TYPE_INTEGER,
				Minimum: -64, Maximum: 64, Step: 1, Default: 0,
			},
			want: Integer{Min: -64, Max: 64, Step: 1, Default: 0},
		},
		{
			name: "integer64 keeps full width",
			desc: v4l2.ControlDesc{
				Type:    v4l2.V4L2_CTRL_TYPE_INTEGER64,
				Minimum: -1 << 40, Maximum: 1 << 40, Step: 256, Default: 42,
			},
			want: Integer{Min: -1 << 40, Max: 1 << 40, Step: 256, Default: 42},
		},
		{
			name: "inconsistent default is not validated",
			desc: v4l2.ControlDesc{
				Type:    v4l2.V4L2_CTRL_TYPE_INTEGER,
				Minimum: 0, Maximum: 10, Step: 1, Default: 999,
			},
			want: Integer{Min: 0, Max: 10, Step: 1, Default: 999},
		},
		{
			name: "boolean",
			desc: v4l2.ControlDesc{Type: v4l2.V4L2_CTRL_TYPE_BOOLEAN},
			want: Boolean{},
		},
		{
			name: "named menu",
			desc: v4l2.ControlDesc{
				Type: v4l2.V4L2_CTRL_TYPE_MENU,
				Menu: []v4l2.MenuEntry{
					{Index: 0, Name: "Disabled"},
					{Index: 1, Name: "50 Hz"},
					{Index: 2, Name: "60 Hz"},
				},
			},
			want: Menu{Items: []MenuItem{
				MenuItemName("Disabled"),
				MenuItemName("50 Hz"),
				MenuItemName("60 Hz"),
			}},
		},
		{
			name: "integer menu",
			desc: v4l2.ControlDesc{
				Type: v4l2.V4L2_CTRL_TYPE_INTEGER_MENU,
				Menu: []v4l2.MenuEntry{
					{Index: 0, Value: 30, Numeric: true},
					{Index: 1, Value: 60, Numeric: true},
				},
			},
			want: Menu{Items: []MenuItem{
				MenuItemValue(30),
				MenuItemValue(60),
			}},
		},
		{
			name: "mixed menu preserves kind and order",
			desc: v4l2.ControlDesc{
				Type: v4l2.V4L2_CTRL_TYPE_MENU,
				Menu: []v4l2.MenuEntry{
					{Index: 0, Name: "Auto"},
					{Index: 1, Value: 100, Numeric: true},
					{Index: 2, Name: "Manual"},
				},
			},
			want: Menu{Items: []MenuItem{
				MenuItemName("Auto"),
				MenuItemValue(100),
				MenuItemName("Manual"),
			}},
		},
		{
			name: "button",
			desc: v4l2.ControlDesc{Type: v4l2.V4L2_CTRL_TYPE_BUTTON},
			want: Button{},
		},
		{
			name: "string",
			desc: v4l2.ControlDesc{Type: v4l2.V4L2_CTRL_TYPE_STRING},
			want: String{},
		},
		{
			name: "bitmask",
			desc: v4l2.ControlDesc{Type: v4l2.V4L2_CTRL_TYPE_BITMASK},
			want: Bitmask{},
		},
		{
			name: "unrecognized type maps to unknown",
			desc: v4l2.ControlDesc{Type: 0x0103}, // compound type outside the set
			want: Unknown{},
		},
		{
			name: "zero type maps to unknown",
			desc: v4l2.ControlDesc{Type: 0},
			want: Unknown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyControl(tt.desc)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("classifyControl() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestClassifyFormat(t *testing.T) {
	discrete := func(w, h uint32) v4l2.FrameSize {
		return v4l2.FrameSize{Type: v4l2.V4L2_FRMSIZE_TYPE_DISCRETE, Width: w, Height: h}
	}
	stepwise := v4l2.FrameSize{
		Type:     v4l2.V4L2_FRMSIZE_TYPE_STEPWISE,
		MinWidth: 32, MaxWidth: 1920, StepWidth: 2,
		MinHeight: 32, MaxHeight: 1080, StepHeight: 2,
	}
	continuous := v4l2.FrameSize{
		Type:     v4l2.V4L2_FRMSIZE_TYPE_CONTINUOUS,
		MinWidth: 32, MaxWidth: 4096, StepWidth: 1,
		MinHeight: 32, MaxHeight: 2160, StepHeight: 1,
	}

	tests := []struct {
		name  string
		desc  v4l2.FormatInfo
		sizes []v4l2.FrameSize
		want  FormatInfo
	}{
		{
			name:  "discrete only, driver order kept",
			desc:  v4l2.FormatInfo{PixelFormat: uint32(FourCCYUYV)},
			sizes: []v4l2.FrameSize{discrete(1920, 1080), discrete(640, 480), discrete(1280, 720)},
			want: FormatInfo{
				FourCC:      FourCCYUYV,
				Resolutions: []Resolution{{1920, 1080}, {640, 480}, {1280, 720}},
			},
		},
		{
			name:  "mixed entries keep only discrete",
			desc:  v4l2.FormatInfo{PixelFormat: uint32(FourCCMJPG)},
			sizes: []v4l2.FrameSize{discrete(640, 480), stepwise, discrete(320, 240)},
			want: FormatInfo{
				FourCC:      FourCCMJPG,
				Resolutions: []Resolution{{640, 480}, {320, 240}},
			},
		},
		{
			name:  "stepwise only yields empty resolutions",
			desc:  v4l2.FormatInfo{PixelFormat: uint32(FourCCH264)},
			sizes: []v4l2.FrameSize{stepwise},
			want:  FormatInfo{FourCC: FourCCH264},
		},
		{
			name:  "continuous only yields empty resolutions",
			desc:  v4l2.FormatInfo{PixelFormat: uint32(FourCCH264)},
			sizes: []v4l2.FrameSize{continuous},
			want:  FormatInfo{FourCC: FourCCH264},
		},
		{
			name:  "duplicates are kept",
			desc:  v4l2.FormatInfo{PixelFormat: uint32(FourCCYUYV)},
			sizes: []v4l2.FrameSize{discrete(640, 480), discrete(640, 480)},
			want: FormatInfo{
				FourCC:      FourCCYUYV,
				Resolutions: []Resolution{{640, 480}, {640, 480}},
			},
		},
		{
			name: "emulated flag carried through",
			desc: v4l2.FormatInfo{PixelFormat: uint32(FourCCYUYV), Emulated: true},
			want: FormatInfo{FourCC: FourCCYUYV, Emulated: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyFormat(tt.desc, tt.sizes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("classifyFormat() = %+v, want %+v", got, tt.want)
			}
			discreteCount := 0
			for _, s := range tt.sizes {
				if s.Discrete() {
					discreteCount++
				}
			}
			if len(got.Resolutions) != discreteCount {
				t.Errorf("resolution count %d != discrete entry count %d", len(got.Resolutions), discreteCount)
			}
		})
	}
}
