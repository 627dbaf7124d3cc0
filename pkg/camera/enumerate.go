package camera

// Capability is the set of platform capability flags of a raw device.
// The values mirror the V4L2 capability bits; other platforms map their
// equivalents onto the same two gates.
type Capability uint32

// Capability flags the enumerator gates on.
const (
	CapVideoCapture Capability = 0x00000001
	CapStreaming    Capability = 0x04000000
)

// Has reports whether all bits of want are set.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Entry is one raw device of the platform device list. Every method may
// fail independently; the enumerator treats each failure as local.
type Entry interface {
	Index() (uint32, error)
	Name() (string, error)
	Capabilities() (Capability, error)
	Controls() ([]ControlInfo, error)
	Formats() ([]FormatInfo, error)
}

// DeviceInfo is the enumeration snapshot of one device. The index is
// stable only for the lifetime of the enumeration call; replugs and
// reboots may renumber devices.
type DeviceInfo struct {
	Index    uint32
	Name     string
	Formats  []FormatInfo
	Controls []ControlInfo
}

// Enumerate returns snapshots of all usable video capture devices, in
// platform enumeration order. It never fails; devices that cannot be
// probed are skipped. The only way to get an empty result is for every
// raw device to fail the probe.
func Enumerate() []DeviceInfo {
	return enumerate(platformEntries())
}

// enumerate runs the probe pipeline over a raw device list. Each stage
// failure skips the smallest enclosing unit: a bad index, name,
// capability set, control query, or format query skips the device;
// finer-grained failures are absorbed inside the Entry implementation.
func enumerate(entries []Entry) []DeviceInfo {
	var devices []DeviceInfo

	for _, entry := range entries {
		index, err := entry.Index()
		if err != nil {
			continue
		}

		name, err := entry.Name()
		if err != nil {
			continue
		}

		caps, err := entry.Capabilities()
		if err != nil {
			continue
		}
		// read()-only legacy devices are unsupported.
		if !caps.Has(CapVideoCapture | CapStreaming) {
			continue
		}

		// A usable device must answer control introspection, even if
		// the returned set is empty.
		controls, err := entry.Controls()
		if err != nil {
			continue
		}

		formats, err := entry.Formats()
		if err != nil {
			continue
		}

		devices = append(devices, DeviceInfo{
			Index:    index,
			Name:     name,
			Formats:  formats,
			Controls: controls,
		})
	}

	return devices
}
