//go:build linux

package v4l2

// Capability flags reported by VIDIOC_QUERYCAP.
const (
	V4L2_CAP_VIDEO_CAPTURE = 0x00000001
	V4L2_CAP_VIDEO_OUTPUT  = 0x00000002
	V4L2_CAP_READWRITE     = 0x01000000
	V4L2_CAP_STREAMING     = 0x04000000
	V4L2_CAP_DEVICE_CAPS   = 0x80000000
)

// Buffer types.
const (
	V4L2_BUF_TYPE_VIDEO_CAPTURE = 1
	V4L2_BUF_TYPE_VIDEO_OUTPUT  = 2
)

// Memory access modes for VIDIOC_REQBUFS.
const (
	V4L2_MEMORY_MMAP    = 1
	V4L2_MEMORY_USERPTR = 2
)

// Field order. Capture negotiates progressive frames only.
const (
	V4L2_FIELD_ANY  = 0
	V4L2_FIELD_NONE = 1
)

// Format flags reported by VIDIOC_ENUM_FMT.
const (
	V4L2_FMT_FLAG_COMPRESSED = 0x0001
	V4L2_FMT_FLAG_EMULATED   = 0x0002
)

// Frame size types from VIDIOC_ENUM_FRAMESIZES.
const (
	V4L2_FRMSIZE_TYPE_DISCRETE   = 1
	V4L2_FRMSIZE_TYPE_CONTINUOUS = 2
	V4L2_FRMSIZE_TYPE_STEPWISE   = 3
)

// Frame interval types from VIDIOC_ENUM_FRAMEINTERVALS.
const (
	V4L2_FRMIVAL_TYPE_DISCRETE   = 1
	V4L2_FRMIVAL_TYPE_CONTINUOUS = 2
	V4L2_FRMIVAL_TYPE_STEPWISE   = 3
)

// Control types from VIDIOC_QUERYCTRL / VIDIOC_QUERY_EXT_CTRL.
const (
	V4L2_CTRL_TYPE_INTEGER      = 1
	V4L2_CTRL_TYPE_BOOLEAN      = 2
	V4L2_CTRL_TYPE_MENU         = 3
	V4L2_CTRL_TYPE_BUTTON       = 4
	V4L2_CTRL_TYPE_INTEGER64    = 5
	V4L2_CTRL_TYPE_CTRL_CLASS   = 6
	V4L2_CTRL_TYPE_STRING       = 7
	V4L2_CTRL_TYPE_BITMASK      = 8
	V4L2_CTRL_TYPE_INTEGER_MENU = 9
)

// Control flags.
const (
	V4L2_CTRL_FLAG_DISABLED   = 0x00000001
	V4L2_CTRL_FLAG_GRABBED    = 0x00000002
	V4L2_CTRL_FLAG_READ_ONLY  = 0x00000004
	V4L2_CTRL_FLAG_INACTIVE   = 0x00000010
	V4L2_CTRL_FLAG_WRITE_ONLY = 0x00000040

	// Enumeration helpers, OR'd into the control ID.
	V4L2_CTRL_FLAG_NEXT_CTRL     = 0x80000000
	V4L2_CTRL_FLAG_NEXT_COMPOUND = 0x40000000
)

// Control IDs.
const (
	V4L2_CTRL_CLASS_USER = 0x00980000
	V4L2_CID_BASE        = V4L2_CTRL_CLASS_USER | 0x900

	V4L2_CID_MPEG_VIDEO_FORCE_KEY_FRAME = 0x009909e5
)

// Event types for VIDIOC_SUBSCRIBE_EVENT.
const (
	V4L2_EVENT_SOURCE_CHANGE = 5
)

// Source change flags.
const (
	V4L2_EVENT_SRC_CH_RESOLUTION = 0x0001
)

// Common pixel formats (little-endian fourcc packing).
const (
	V4L2_PIX_FMT_YUYV  = 0x56595559 // 'YUYV'
	V4L2_PIX_FMT_MJPEG = 0x47504A4D // 'MJPG'
	V4L2_PIX_FMT_H264  = 0x34363248 // 'H264'
	V4L2_PIX_FMT_HEVC  = 0x43564548 // 'HEVC'
	V4L2_PIX_FMT_NV12  = 0x3231564E // 'NV12'
)
