package camera

// Representation is the closed taxonomy of device control shapes. It is
// a sum type: exactly the types in this file implement it, and any
// platform control type outside the recognized set classifies to
// Unknown, so consumers can type-switch without a failure path.
type Representation interface {
	representation()
}

// Integer is a numeric control with an inclusive range, a step, and a
// default. Values are widened to 64-bit as reported by the platform; no
// min/max/default consistency is enforced.
type Integer struct {
	Min     int64
	Max     int64
	Step    uint64
	Default int64
}

// Boolean is an on/off control.
type Boolean struct{}

// Menu is a control whose value selects one of an ordered list of
// items. Items keep the platform's native index order.
type Menu struct {
	Items []MenuItem
}

// Button is a write-only trigger control.
type Button struct{}

// String is a free-form text control.
type String struct{}

// Bitmask is a control whose value is a set of independent bits.
type Bitmask struct{}

// Unknown is the catch-all for platform control types this package does
// not recognize. Such controls are reported, not dropped.
type Unknown struct{}

func (Integer) representation() {}
func (Boolean) representation() {}
func (Menu) representation()    {}
func (Button) representation()  {}
func (String) representation()  {}
func (Bitmask) representation() {}
func (Unknown) representation() {}

// MenuItem is one entry of a Menu control: either a named option or a
// numeric option, depending on which the platform reports per entry.
type MenuItem interface {
	menuItem()
}

// MenuItemName is a named menu option.
type MenuItemName string

// MenuItemValue is a numeric menu option.
type MenuItemValue int64

func (MenuItemName) menuItem()  {}
func (MenuItemValue) menuItem() {}

// ControlInfo describes one device control. ID is platform-assigned and
// unique within a device.
type ControlInfo struct {
	ID   uint32
	Name string
	Repr Representation
}
