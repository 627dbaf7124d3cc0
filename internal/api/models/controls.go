package models

// ControlType names the representation of a device control.
type ControlType string

const (
	ControlInteger ControlType = "integer"
	ControlBoolean ControlType = "boolean"
	ControlMenu    ControlType = "menu"
	ControlButton  ControlType = "button"
	ControlString  ControlType = "string"
	ControlBitmask ControlType = "bitmask"
	ControlUnknown ControlType = "unknown"
)

// MenuItemInfo is one selectable menu entry. Name is set for named
// menus, Value for integer menus; exactly one is populated.
type MenuItemInfo struct {
	Name  *string `json:"name,omitempty" example:"Manual Mode" doc:"Item label for named menus"`
	Value *int64  `json:"value,omitempty" example:"50" doc:"Item value for integer menus"`
}

// ControlInfo describes a single device control. The numeric bounds
// are only present for integer controls; Items only for menus.
type ControlInfo struct {
	ID      uint32         `json:"id" example:"9963776" doc:"Driver control identifier"`
	Name    string         `json:"name" example:"Brightness" doc:"Human-readable control name"`
	Type    ControlType    `json:"type" example:"integer" doc:"Control representation"`
	Min     *int64         `json:"min,omitempty" example:"0" doc:"Minimum value (integer controls)"`
	Max     *int64         `json:"max,omitempty" example:"255" doc:"Maximum value (integer controls)"`
	Step    *uint64        `json:"step,omitempty" example:"1" doc:"Value step (integer controls)"`
	Default *int64         `json:"default,omitempty" example:"128" doc:"Driver default (integer controls)"`
	Items   []MenuItemInfo `json:"items,omitempty" doc:"Menu entries in driver order"`
	Value   *int64         `json:"value,omitempty" example:"128" doc:"Current value where readable"`
}

type ControlsData struct {
	DevicePath string        `json:"device_path" example:"/dev/video0" doc:"Path to the video device"`
	Controls   []ControlInfo `json:"controls" doc:"Controls in driver order"`
	Count      int           `json:"count" example:"12" doc:"Number of controls"`
}

type ControlsResponse struct {
	Body ControlsData
}

// ControlUpdate sets one control to a value.
type ControlUpdate struct {
	ID    uint32 `json:"id" example:"9963776" doc:"Driver control identifier"`
	Value int32  `json:"value" example:"200" doc:"New control value"`
}

type ControlUpdateRequestData struct {
	Controls []ControlUpdate `json:"controls" minItems:"1" doc:"Control updates to apply in order"`
}

type ControlUpdateResultData struct {
	Applied int      `json:"applied" example:"2" doc:"Number of controls applied"`
	Errors  []string `json:"errors,omitempty" doc:"Per-control failure messages"`
}

type ControlUpdateResponse struct {
	Body ControlUpdateResultData
}
