// Package device exposes the first connected joystick as a flat set of
// buttons and normalized axes that can be re-read once per poll.
package device

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrDeviceNotFound is returned when no joystick is connected.
	ErrDeviceNotFound = errors.New("no joystick device found")
	// ErrDisconnected is returned once when the active joystick goes away.
	ErrDisconnected = errors.New("joystick disconnected")
	// ErrControlRead is returned for an unreadable button or axis.
	ErrControlRead = errors.New("control read failed")
)

// Reader is a polled view of a single input device.
type Reader interface {
	// Poll pumps pending device events and refreshes the state that the
	// Button and Axis calls report. Call it once per tick.
	Poll() error
	Connected() bool
	Name() string
	ButtonCount() int
	AxisCount() int
	Button(index int) (bool, error)
	// Axis returns the axis position in [-1, 1].
	Axis(index int) (float64, error)
}

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// ControlError reports a control index outside the device's range.
func ControlError(kind string, index, count int) error {
	return errors.Wrapf(ErrControlRead, "%s %d out of range (device has %d)", kind, index, count)
}
