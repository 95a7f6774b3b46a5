// Package sdljoy implements device.Reader on top of the SDL3 joystick API.
// Importing it loads the SDL3 shared library.
package sdljoy

import (
	"log"

	"github.com/jupiterrider/purego-sdl3/sdl"
	"github.com/pkg/errors"

	"github.com/soar/padtrack/internal/device"
)

type joystickInfo struct {
	joystick  *sdl.Joystick
	name      string
	id        sdl.JoystickID
	vendorID  uint16
	productID uint16
}

// SDL reads the first connected joystick through the SDL3 joystick API.
// It is not safe for concurrent use; every method, Open and Close included,
// must run on the same OS-locked goroutine.
type SDL struct {
	joysticks map[sdl.JoystickID]*joystickInfo
	active    *joystickInfo
	// lost is set when the active joystick disappears and cleared once the
	// next Poll has reported it.
	lost bool
}

// Open initializes the SDL joystick subsystem and adopts the first joystick.
// When nothing is plugged in it returns a usable reader together with
// device.ErrDeviceNotFound; the reader picks up a joystick on a later Poll.
func Open() (*SDL, error) {
	if !sdl.Init(sdl.InitJoystick) {
		return nil, errors.Errorf("SDL init failed: %s", sdl.GetError())
	}
	log.Println("SDL3 Joystick subsystem initialized")

	s := &SDL{joysticks: make(map[sdl.JoystickID]*joystickInfo)}
	for _, id := range sdl.GetJoysticks() {
		s.openJoystick(id)
	}
	if s.active == nil {
		return s, device.ErrDeviceNotFound
	}
	return s, nil
}

// Close releases all joysticks and shuts SDL down.
func (s *SDL) Close() {
	for id, info := range s.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(s.joysticks, id)
	}
	s.active = nil
	sdl.Quit()
}

// Poll drains the SDL event queue, which also refreshes joystick state.
func (s *SDL) Poll() error {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			s.openJoystick(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			s.removeJoystick(event.JDevice().Which)
		}
	}

	if s.active != nil && !sdl.JoystickConnected(s.active.joystick) {
		s.removeJoystick(s.active.id)
	}
	if s.lost {
		s.lost = false
		return device.ErrDisconnected
	}
	return nil
}

func (s *SDL) Connected() bool {
	return s.active != nil
}

func (s *SDL) Name() string {
	if s.active == nil {
		return ""
	}
	return s.active.name
}

// Identity returns the USB vendor and product of the active joystick.
func (s *SDL) Identity() (vendorID, productID uint16) {
	if s.active == nil {
		return 0, 0
	}
	return s.active.vendorID, s.active.productID
}

// Label renders a control name using the known controller layouts.
func (s *SDL) Label(kind device.Kind, index int) string {
	v, p := s.Identity()
	return device.ControlLabel(v, p, kind, index)
}

func (s *SDL) ButtonCount() int {
	if s.active == nil {
		return 0
	}
	return int(sdl.GetNumJoystickButtons(s.active.joystick))
}

func (s *SDL) AxisCount() int {
	if s.active == nil {
		return 0
	}
	return int(sdl.GetNumJoystickAxes(s.active.joystick))
}

func (s *SDL) Button(index int) (bool, error) {
	if s.active == nil {
		return false, errors.Wrap(device.ErrControlRead, device.ErrDeviceNotFound.Error())
	}
	if n := s.ButtonCount(); index < 0 || index >= n {
		return false, device.ControlError("button", index, n)
	}
	return sdl.GetJoystickButton(s.active.joystick, int32(index)), nil
}

func (s *SDL) Axis(index int) (float64, error) {
	if s.active == nil {
		return 0, errors.Wrap(device.ErrControlRead, device.ErrDeviceNotFound.Error())
	}
	if n := s.AxisCount(); index < 0 || index >= n {
		return 0, device.ControlError("axis", index, n)
	}
	return device.NormalizeAxis(sdl.GetJoystickAxis(s.active.joystick, int32(index))), nil
}

func (s *SDL) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := s.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		log.Printf("Failed to open joystick %d: %s", instanceID, sdl.GetError())
		return
	}

	info := &joystickInfo{
		joystick:  js,
		name:      sdl.GetJoystickName(js),
		id:        sdl.GetJoystickID(js),
		vendorID:  sdl.GetJoystickVendor(js),
		productID: sdl.GetJoystickProduct(js),
	}
	s.joysticks[info.id] = info

	log.Printf("Joystick connected: %s (VID=%04X PID=%04X) type=%s axes=%d buttons=%d",
		info.name, info.vendorID, info.productID, device.ControllerType(info.vendorID, info.productID),
		sdl.GetNumJoystickAxes(js), sdl.GetNumJoystickButtons(js))

	// Only the first joystick is ever used.
	if s.active == nil {
		s.active = info
		s.lost = false
		log.Printf("Active joystick set: %s (ID=%d)", info.name, info.id)
	}
}

func (s *SDL) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := s.joysticks[instanceID]
	if !exists {
		return
	}

	log.Printf("Joystick disconnected: %s", info.name)
	sdl.CloseJoystick(info.joystick)
	delete(s.joysticks, instanceID)

	if s.active != nil && s.active.id == instanceID {
		s.active = nil
		s.lost = true
		// Fall back to whatever else is still plugged in.
		for _, other := range s.joysticks {
			if sdl.JoystickConnected(other.joystick) {
				s.active = other
				log.Printf("Active joystick switched to: %s (ID=%d)", other.name, other.id)
				break
			}
		}
	}
}
