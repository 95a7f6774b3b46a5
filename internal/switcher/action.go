package switcher

import (
	"fmt"

	"github.com/soar/padtrack/internal/device"
	"github.com/soar/padtrack/internal/keysend"
)

// ControlKind says whether a mapping points at a button or an axis.
type ControlKind int

const (
	Button ControlKind = iota
	Axis
)

func (k ControlKind) String() string {
	switch k {
	case Button:
		return "Button"
	case Axis:
		return "Axis"
	default:
		return fmt.Sprintf("ControlKind(%d)", int(k))
	}
}

func (k ControlKind) deviceKind() device.Kind {
	if k == Axis {
		return device.KindAxis
	}
	return device.KindButton
}

// Mapping binds an action to one raw control index.
type Mapping struct {
	Kind  ControlKind `json:"kind"`
	Index int         `json:"index"`
}

func (m Mapping) String() string {
	return fmt.Sprintf("%s %d", m.Kind, m.Index)
}

// Action is a named key press that a control can trigger.
type Action struct {
	Name string
	Key  keysend.Code
}

const (
	NextTrack     = "Next Track"
	PreviousTrack = "Previous Track"
)

// DefaultActions is the fixed action set.
func DefaultActions() []Action {
	return []Action{
		{Name: NextTrack, Key: keysend.MediaNext},
		{Name: PreviousTrack, Key: keysend.MediaPrev},
	}
}

// actionRecord is the per-action state owned by the Switcher.
type actionRecord struct {
	Action
	mapping *Mapping
	// active is the logical state used for edge detection.
	active bool
	// readFailing suppresses repeated read error logs until the control
	// reads cleanly again.
	readFailing bool
}

// Edge names the transition that fired an action.
type Edge string

const (
	EdgeRelease Edge = "button release"
	EdgeRising  Edge = "axis rising edge"
)
