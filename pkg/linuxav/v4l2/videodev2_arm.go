//go:build linux && arm && !arm64

package v4l2

import "unsafe"

// Compile-time struct size assertions for 32-bit ARM.
// These will cause build failures if struct sizes don't match kernel expectations.
var (
	_ [104]byte = [unsafe.Sizeof(v4l2_capability{})]byte{}
	_ [64]byte  = [unsafe.Sizeof(v4l2_fmtdesc{})]byte{}
	_ [8]byte   = [unsafe.Sizeof(v4l2_frmsize_discrete{})]byte{}
	_ [24]byte  = [unsafe.Sizeof(v4l2_frmsize_stepwise{})]byte{}
	_ [44]byte  = [unsafe.Sizeof(v4l2_frmsizeenum{})]byte{}
	_ [8]byte   = [unsafe.Sizeof(v4l2_fract{})]byte{}
	_ [52]byte  = [unsafe.Sizeof(v4l2_frmivalenum{})]byte{}
	_ [48]byte  = [unsafe.Sizeof(v4l2_pix_format{})]byte{}
	_ [204]byte = [unsafe.Sizeof(v4l2_format{})]byte{}
	_ [204]byte = [unsafe.Sizeof(v4l2_streamparm{})]byte{}
	_ [20]byte  = [unsafe.Sizeof(v4l2_requestbuffers{})]byte{}
	_ [16]byte  = [unsafe.Sizeof(v4l2_timecode{})]byte{}
	_ [68]byte  = [unsafe.Sizeof(v4l2_buffer{})]byte{}
	_ [8]byte   = [unsafe.Sizeof(v4l2_control{})]byte{}
	_ [68]byte  = [unsafe.Sizeof(v4l2_queryctrl{})]byte{}
	_ [44]byte  = [unsafe.Sizeof(v4l2_querymenu{})]byte{}
	_ [232]byte = [unsafe.Sizeof(v4l2_query_ext_ctrl{})]byte{}
	_ [124]byte = [unsafe.Sizeof(v4l2_bt_timings{})]byte{}
	_ [132]byte = [unsafe.Sizeof(v4l2_dv_timings{})]byte{}
	_ [32]byte  = [unsafe.Sizeof(v4l2_event_subscription{})]byte{}
	_ [124]byte = [unsafe.Sizeof(v4l2_event{})]byte{} // Smaller on 32-bit due to timespec
)

// IOCTL constants for 32-bit ARM
// Note: Most values are the same as 64-bit since the struct sizes are identical.
// v4l2_format, v4l2_buffer, and v4l2_event differ (long, pointer, and
// timespec sizes), so their ioctls encode smaller sizes here.
const (
	VIDIOC_QUERYCAP            = 0x80685600
	VIDIOC_ENUM_FMT            = 0xc0405602
	VIDIOC_G_FMT               = 0xc0cc5604 // v4l2_format is 204 bytes (208 on 64-bit)
	VIDIOC_S_FMT               = 0xc0cc5605
	VIDIOC_REQBUFS             = 0xc0145608
	VIDIOC_QUERYBUF            = 0xc0445609 // v4l2_buffer is 68 bytes (88 on 64-bit)
	VIDIOC_QBUF                = 0xc044560f
	VIDIOC_DQBUF               = 0xc0445611
	VIDIOC_STREAMON            = 0x40045612
	VIDIOC_STREAMOFF           = 0x40045613
	VIDIOC_G_PARM              = 0xc0cc5615
	VIDIOC_S_PARM              = 0xc0cc5616
	VIDIOC_G_CTRL              = 0xc008561b
	VIDIOC_S_CTRL              = 0xc008561c
	VIDIOC_QUERYCTRL           = 0xc0445624
	VIDIOC_QUERYMENU           = 0xc02c5625
	VIDIOC_ENUM_FRAMESIZES     = 0xc02c564a
	VIDIOC_ENUM_FRAMEINTERVALS = 0xc034564b
	VIDIOC_G_DV_TIMINGS        = 0xc0845658 // v4l2_dv_timings is 132 bytes on both
	VIDIOC_DQEVENT             = 0x807c5659 // v4l2_event is 124 bytes on 32-bit (vs 136 on 64-bit)
	VIDIOC_SUBSCRIBE_EVENT     = 0x4020565a // v4l2_event_subscription is 32 bytes on both
	VIDIOC_UNSUBSCRIBE_EVENT   = 0x4020565b
	VIDIOC_QUERY_EXT_CTRL      = 0xc0e85667
)

// v4l2_capability - size 104 bytes (same as 64-bit)
type v4l2_capability struct {
	driver       [16]byte
	card         [32]byte
	bus_info     [32]byte
	version      uint32
	capabilities uint32
	device_caps  uint32
	reserved     [3]uint32
}

// v4l2_fmtdesc - size 64 bytes (same as 64-bit)
type v4l2_fmtdesc struct {
	index       uint32
	typ         uint32
	flags       uint32
	description [32]byte
	pixelformat uint32
	mbus_code   uint32
	reserved    [3]uint32
}

// v4l2_frmsize_discrete - size 8 bytes
type v4l2_frmsize_discrete struct {
	width  uint32
	height uint32
}

// v4l2_frmsize_stepwise - size 24 bytes
type v4l2_frmsize_stepwise struct {
	min_width   uint32
	max_width   uint32
	step_width  uint32
	min_height  uint32
	max_height  uint32
	step_height uint32
}

// v4l2_frmsizeenum - size 44 bytes (same as 64-bit)
type v4l2_frmsizeenum struct {
	index        uint32
	pixel_format uint32
	typ          uint32
	discrete     v4l2_frmsize_discrete
	_            [16]byte
	reserved     [2]uint32
}

// v4l2_fract - size 8 bytes
type v4l2_fract struct {
	numerator   uint32
	denominator uint32
}

// v4l2_frmival_stepwise - size 24 bytes
type v4l2_frmival_stepwise struct {
	min  v4l2_fract
	max  v4l2_fract
	step v4l2_fract
}

// v4l2_frmivalenum - size 52 bytes (same as 64-bit)
type v4l2_frmivalenum struct {
	index        uint32
	pixel_format uint32
	width        uint32
	height       uint32
	typ          uint32
	discrete     v4l2_fract
	_            [16]byte
	reserved     [2]uint32
}

// v4l2_pix_format - size 48 bytes (same as 64-bit)
type v4l2_pix_format struct {
	width        uint32
	height       uint32
	pixelformat  uint32
	field        uint32
	bytesperline uint32
	sizeimage    uint32
	colorspace   uint32
	priv         uint32
	flags        uint32
	ycbcr_enc    uint32
	quantization uint32
	xfer_func    uint32
}

// v4l2_format - size 204 bytes on 32-bit (no padding after typ)
type v4l2_format struct {
	typ uint32
	pix v4l2_pix_format
	_   [152]byte
}

// v4l2_captureparm - size 200 bytes
type v4l2_captureparm struct {
	capability   uint32
	capturemode  uint32
	timeperframe v4l2_fract
	extendedmode uint32
	readbuffers  uint32
	_            [176]byte
}

// v4l2_streamparm - size 204 bytes
type v4l2_streamparm struct {
	typ     uint32
	capture v4l2_captureparm
}

// v4l2_requestbuffers - size 20 bytes (same as 64-bit)
type v4l2_requestbuffers struct {
	count        uint32
	typ          uint32
	memory       uint32
	capabilities uint32
	flags        uint8
	reserved     [3]uint8
}

// v4l2_timecode - size 16 bytes
type v4l2_timecode struct {
	typ      uint32
	flags    uint32
	frames   uint8
	seconds  uint8
	minutes  uint8
	hours    uint8
	userbits [4]uint8
}

// v4l2_buffer - size 68 bytes on 32-bit. timestamp is a struct timeval
// (two 32-bit longs); the m union holds the mmap offset.
type v4l2_buffer struct {
	index      uint32
	typ        uint32
	bytesused  uint32
	flags      uint32
	field      uint32
	timestamp  [8]byte
	timecode   v4l2_timecode
	sequence   uint32
	memory     uint32
	offset     uint32
	length     uint32
	reserved2  uint32
	request_fd uint32
}

// v4l2_control - size 8 bytes
type v4l2_control struct {
	id    uint32
	value int32
}

// v4l2_queryctrl - size 68 bytes
type v4l2_queryctrl struct {
	id            uint32
	typ           uint32
	name          [32]byte
	minimum       int32
	maximum       int32
	step          int32
	default_value int32
	flags         uint32
	reserved      [2]uint32
}

// v4l2_querymenu - size 44 bytes. The kernel struct is packed, so the
// name/value union stays 4-aligned on every arch.
type v4l2_querymenu struct {
	id       uint32
	index    uint32
	name     [32]byte // union with __s64 value
	reserved uint32
}

// intValue extracts the 64-bit value union member (INTEGER_MENU controls).
func (m *v4l2_querymenu) intValue() int64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(m.name[i]) << (8 * i)
	}
	return int64(v)
}

// v4l2_query_ext_ctrl - size 232 bytes (same layout on all arches)
type v4l2_query_ext_ctrl struct {
	id            uint32
	typ           uint32
	name          [32]byte
	minimum       int64
	maximum       int64
	step          uint64
	default_value int64
	flags         uint32
	elem_size     uint32
	elems         uint32
	nr_of_dims    uint32
	dims          [4]uint32
	reserved      [32]uint32
}

// v4l2_bt_timings - size 124 bytes. The kernel struct is packed; the
// 64-bit pixelclock is split so the layout is identical on every arch.
type v4l2_bt_timings struct {
	width           uint32
	height          uint32
	interlaced      uint32
	polarities      uint32
	pixelclock_low  uint32
	pixelclock_high uint32
	hfrontporch     uint32
	hsync           uint32
	hbackporch      uint32
	vfrontporch     uint32
	vsync           uint32
	vbackporch      uint32
	il_vfrontporch  uint32
	il_vsync        uint32
	il_vbackporch   uint32
	standards       uint32
	flags           uint32
	picture_aspect  v4l2_fract
	cea861_vic      uint8
	hdmi_vic        uint8
	reserved        [46]byte
}

// pixelClock reassembles the split 64-bit pixel clock in Hz.
func (bt *v4l2_bt_timings) pixelClock() uint64 {
	return uint64(bt.pixelclock_low) | uint64(bt.pixelclock_high)<<32
}

// v4l2_dv_timings - size 132 bytes
type v4l2_dv_timings struct {
	typ uint32
	bt  v4l2_bt_timings
	_   [4]byte
}

// v4l2_event_subscription - size 32 bytes (same as 64-bit)
type v4l2_event_subscription struct {
	typ      uint32
	id       uint32
	flags    uint32
	reserved [5]uint32
}

// v4l2_event - size 124 bytes on 32-bit (vs 136 on 64-bit)
// The difference is due to struct timespec being 8 bytes on 32-bit vs 16 on 64-bit.
type v4l2_event struct {
	typ       uint32
	_         [4]byte
	u         [64]byte // union
	pending   uint32
	sequence  uint32
	timestamp [8]byte // struct timespec - 8 bytes on 32-bit
	id        uint32
	reserved  [8]uint32
}

// getSrcChangeChanges extracts the changes field from the event union
func (e *v4l2_event) getSrcChangeChanges() uint32 {
	return uint32(e.u[0]) | uint32(e.u[1])<<8 | uint32(e.u[2])<<16 | uint32(e.u[3])<<24
}
