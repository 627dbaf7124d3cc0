package camera

import (
	"errors"
	"reflect"
	"testing"
)

// fakeEntry is an injectable raw device with per-query failure knobs.
type fakeEntry struct {
	index    uint32
	indexErr error

	name    string
	nameErr error

	caps    Capability
	capsErr error

	controls    []ControlInfo
	controlsErr error

	formats    []FormatInfo
	formatsErr error
}

func (f *fakeEntry) Index() (uint32, error)            { return f.index, f.indexErr }
func (f *fakeEntry) Name() (string, error)             { return f.name, f.nameErr }
func (f *fakeEntry) Capabilities() (Capability, error) { return f.caps, f.capsErr }
func (f *fakeEntry) Controls() ([]ControlInfo, error)  { return f.controls, f.controlsErr }
func (f *fakeEntry) Formats() ([]FormatInfo, error)    { return f.formats, f.formatsErr }

func goodEntry(index uint32, name string) *fakeEntry {
	return &fakeEntry{
		index: index,
		name:  name,
		caps:  CapVideoCapture | CapStreaming,
		controls: []ControlInfo{
			{ID: 0x00980900, Name: "Brightness", Repr: Integer{Min: 0, Max: 255, Step: 1, Default: 128}},
		},
		formats: []FormatInfo{
			{FourCC: FourCCYUYV, Resolutions: []Resolution{{640, 480}, {1280, 720}}},
			{FourCC: FourCCMJPG, Resolutions: []Resolution{{1920, 1080}}, Emulated: false},
		},
	}
}

func TestEnumerateSkipsFailingDevices(t *testing.T) {
	probeErr := errors.New("probe failed")

	entries := []Entry{
		goodEntry(0, "Integrated Camera"),
		&fakeEntry{index: 1, name: "Broken Caps", capsErr: probeErr},
		&fakeEntry{index: 2, name: "Legacy Grabber", caps: CapVideoCapture}, // no streaming
		&fakeEntry{index: 3, name: "No Controls", caps: CapVideoCapture | CapStreaming, controlsErr: probeErr},
	}

	devices := enumerate(entries)

	if len(devices) != 1 {
		t.Fatalf("expected 1 device, got %d", len(devices))
	}
	dev := devices[0]
	if dev.Index != 0 || dev.Name != "Integrated Camera" {
		t.Errorf("wrong device survived: index=%d name=%q", dev.Index, dev.Name)
	}
	if len(dev.Formats) == 0 {
		t.Error("surviving device must have non-empty formats")
	}
}

func TestEnumerateSkipsIdentityFailures(t *testing.T) {
	identityErr := errors.New("no identity")

	entries := []Entry{
		&fakeEntry{indexErr: identityErr, name: "No Index", caps: CapVideoCapture | CapStreaming},
		&fakeEntry{index: 1, nameErr: identityErr, caps: CapVideoCapture | CapStreaming},
		goodEntry(2, "Survivor"),
	}

	devices := enumerate(entries)
	if len(devices) != 1 || devices[0].Name != "Survivor" {
		t.Fatalf("expected only the survivor, got %+v", devices)
	}
}

func TestEnumerateSkipsFormatsFailure(t *testing.T) {
	entries := []Entry{
		&fakeEntry{
			index: 0, name: "Unopenable",
			caps:       CapVideoCapture | CapStreaming,
			formatsErr: errors.New("open failed"),
		},
	}
	if devices := enumerate(entries); len(devices) != 0 {
		t.Fatalf("expected no devices, got %d", len(devices))
	}
}

func TestEnumerateEmptyControlsAreUsable(t *testing.T) {
	// A device that answers the controls query with an empty set still
	// passes the gate; only a failing query disqualifies it.
	entries := []Entry{
		&fakeEntry{
			index: 0, name: "Spartan",
			caps:    CapVideoCapture | CapStreaming,
			formats: []FormatInfo{{FourCC: FourCCYUYV}},
		},
	}
	devices := enumerate(entries)
	if len(devices) != 1 {
		t.Fatalf("expected 1 device, got %d", len(devices))
	}
	if len(devices[0].Controls) != 0 {
		t.Errorf("expected empty controls, got %d", len(devices[0].Controls))
	}
}

func TestEnumeratePreservesOrder(t *testing.T) {
	entries := []Entry{
		goodEntry(3, "third"),
		goodEntry(1, "first"),
		goodEntry(2, "second"),
	}

	devices := enumerate(entries)
	want := []string{"third", "first", "second"}
	if len(devices) != len(want) {
		t.Fatalf("expected %d devices, got %d", len(want), len(devices))
	}
	for i, name := range want {
		if devices[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, devices[i].Name, name)
		}
	}
}

func TestEnumerateIdempotent(t *testing.T) {
	entries := []Entry{
		goodEntry(0, "cam0"),
		&fakeEntry{index: 1, name: "dead", capsErr: errors.New("gone")},
		goodEntry(2, "cam2"),
	}

	first := enumerate(entries)
	second := enumerate(entries)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("enumeration not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCapabilityHas(t *testing.T) {
	tests := []struct {
		name string
		caps Capability
		want bool
	}{
		{"both flags", CapVideoCapture | CapStreaming, true},
		{"capture only", CapVideoCapture, false},
		{"streaming only", CapStreaming, false},
		{"neither", 0, false},
		{"both plus extras", CapVideoCapture | CapStreaming | 0x01000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.caps.Has(CapVideoCapture | CapStreaming); got != tt.want {
				t.Errorf("Has() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFourCCString(t *testing.T) {
	tests := []struct {
		fourcc FourCC
		want   string
	}{
		{FourCCYUYV, "YUYV"},
		{FourCCMJPG, "MJPG"},
		{FourCCH264, "H264"},
		{FourCCNV12, "NV12"},
		{FourCCOf('G', 'R', 'E', 'Y'), "GREY"},
	}

	for _, tt := range tests {
		if got := tt.fourcc.String(); got != tt.want {
			t.Errorf("FourCC(%#x).String() = %q, want %q", uint32(tt.fourcc), got, tt.want)
		}
	}
}

func TestFourCCRoundTrip(t *testing.T) {
	f := FourCCOf('Y', 'U', 'Y', 'V')
	s := f.String()
	if got := FourCCOf(s[0], s[1], s[2], s[3]); got != f {
		t.Errorf("round trip changed code: %#x -> %#x", uint32(f), uint32(got))
	}
}
