//go:build linux

package v4l2

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"
)

// QueryControls enumerates all controls of an open device. The walk
// uses VIDIOC_QUERY_EXT_CTRL so 64-bit ranges come through intact,
// falling back to the classic VIDIOC_QUERYCTRL on kernels without it.
// Disabled controls and control-class markers are filtered out; menu
// controls arrive with their menu entries attached.
func QueryControls(fd int) ([]ControlDesc, error) {
	controls, err := queryExtControls(fd)
	if err == nil {
		return controls, nil
	}
	if !errors.Is(err, syscall.ENOTTY) {
		return nil, err
	}
	return queryClassicControls(fd)
}

func queryExtControls(fd int) ([]ControlDesc, error) {
	var controls []ControlDesc

	qc := v4l2_query_ext_ctrl{
		id: V4L2_CTRL_FLAG_NEXT_CTRL | V4L2_CTRL_FLAG_NEXT_COMPOUND,
	}

	for {
		if err := ioctl(fd, VIDIOC_QUERY_EXT_CTRL, unsafe.Pointer(&qc)); err != nil {
			if errors.Is(err, syscall.EINVAL) {
				break // End of enumeration
			}
			return nil, fmt.Errorf("failed to query control 0x%08x: %w", qc.id, err)
		}

		desc := ControlDesc{
			ID:      qc.id,
			Name:    cstr(qc.name[:]),
			Type:    qc.typ,
			Minimum: qc.minimum,
			Maximum: qc.maximum,
			Step:    qc.step,
			Default: qc.default_value,
			Flags:   qc.flags,
		}

		if includeControl(desc.Type, desc.Flags) {
			if desc.Type == V4L2_CTRL_TYPE_MENU || desc.Type == V4L2_CTRL_TYPE_INTEGER_MENU {
				desc.Menu = queryMenuEntries(fd, desc)
			}
			controls = append(controls, desc)
		}

		qc.id |= V4L2_CTRL_FLAG_NEXT_CTRL | V4L2_CTRL_FLAG_NEXT_COMPOUND
	}

	return controls, nil
}

func queryClassicControls(fd int) ([]ControlDesc, error) {
	var controls []ControlDesc

	qc := v4l2_queryctrl{
		id: V4L2_CTRL_FLAG_NEXT_CTRL,
	}

	for {
		if err := ioctl(fd, VIDIOC_QUERYCTRL, unsafe.Pointer(&qc)); err != nil {
			if errors.Is(err, syscall.EINVAL) {
				break // End of enumeration
			}
			return nil, fmt.Errorf("failed to query control 0x%08x: %w", qc.id, err)
		}

		desc := ControlDesc{
			ID:      qc.id,
			Name:    cstr(qc.name[:]),
			Type:    qc.typ,
			Minimum: int64(qc.minimum),
			Maximum: int64(qc.maximum),
			Step:    uint64(qc.step),
			Default: int64(qc.default_value),
			Flags:   qc.flags,
		}

		if includeControl(desc.Type, desc.Flags) {
			if desc.Type == V4L2_CTRL_TYPE_MENU || desc.Type == V4L2_CTRL_TYPE_INTEGER_MENU {
				desc.Menu = queryMenuEntries(fd, desc)
			}
			controls = append(controls, desc)
		}

		qc.id |= V4L2_CTRL_FLAG_NEXT_CTRL
	}

	return controls, nil
}

// includeControl filters out entries that are not usable controls:
// class markers are category headings, disabled controls are
// permanently unavailable on this device.
func includeControl(typ, flags uint32) bool {
	if typ == V4L2_CTRL_TYPE_CTRL_CLASS {
		return false
	}
	if flags&V4L2_CTRL_FLAG_DISABLED != 0 {
		return false
	}
	return true
}

// queryMenuEntries fetches the menu entries of a menu control in index
// order. Drivers may leave holes in the index range; those entries are
// skipped.
func queryMenuEntries(fd int, desc ControlDesc) []MenuEntry {
	var entries []MenuEntry

	for index := desc.Minimum; index <= desc.Maximum; index++ {
		qm := v4l2_querymenu{
			id:    desc.ID,
			index: uint32(index),
		}

		if err := ioctl(fd, VIDIOC_QUERYMENU, unsafe.Pointer(&qm)); err != nil {
			continue
		}

		entry := MenuEntry{Index: qm.index}
		if desc.Type == V4L2_CTRL_TYPE_INTEGER_MENU {
			entry.Value = qm.intValue()
			entry.Numeric = true
		} else {
			entry.Name = cstr(qm.name[:])
		}
		entries = append(entries, entry)
	}

	return entries
}

// GetControl reads the current value of a control.
func GetControl(fd int, id uint32) (int32, error) {
	ctrl := v4l2_control{id: id}
	if err := ioctl(fd, VIDIOC_G_CTRL, unsafe.Pointer(&ctrl)); err != nil {
		return 0, fmt.Errorf("failed to get control 0x%08x: %w", id, err)
	}
	return ctrl.value, nil
}

// SetControl writes a control value.
func SetControl(fd int, id uint32, value int32) error {
	ctrl := v4l2_control{id: id, value: value}
	if err := ioctl(fd, VIDIOC_S_CTRL, unsafe.Pointer(&ctrl)); err != nil {
		return fmt.Errorf("failed to set control 0x%08x: %w", id, err)
	}
	return nil
}

// ForceKeyFrame asks an encoding device to emit an IDR frame on the
// next capture. Cameras without the control return ENOTTY or EINVAL.
func ForceKeyFrame(fd int) error {
	return SetControl(fd, V4L2_CID_MPEG_VIDEO_FORCE_KEY_FRAME, 1)
}
