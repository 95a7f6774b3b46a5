package switcher

import (
	"github.com/pkg/errors"

	"github.com/soar/padtrack/internal/device"
)

// Phase is the calibration state.
type Phase int

const (
	Idle Phase = iota
	WaitingBaseline
	Sampling
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case WaitingBaseline:
		return "waiting_baseline"
	case Sampling:
		return "sampling"
	default:
		return "unknown"
	}
}

type control struct {
	kind  ControlKind
	index int
}

type calibration struct {
	phase  Phase
	target *actionRecord
	// baseline holds whether each control was active when sampling began.
	baseline map[control]bool
	// cancel stops the pending baseline capture.
	cancel func()
	// gen invalidates baseline callbacks from superseded requests.
	gen uint64
}

func (c *calibration) pending() bool {
	return c.phase != Idle
}

func (c *calibration) reset() {
	if c.cancel != nil {
		c.cancel()
	}
	c.phase = Idle
	c.target = nil
	c.baseline = nil
	c.cancel = nil
}

// Phase reports the current calibration state.
func (s *Switcher) Phase() Phase {
	return s.cal.phase
}

// RequestAssignment starts learning a control for the named action. After
// the baseline delay the current state of every control is recorded; the
// first control that then flips from inactive to active becomes the
// action's mapping. A request made while another is pending replaces it.
func (s *Switcher) RequestAssignment(name string) error {
	rec, ok := s.byName[name]
	if !ok {
		err := errors.Wrapf(ErrUnknownAction, "%q", name)
		s.logf("Assignment rejected: %v", err)
		return err
	}
	if !s.dev.Connected() {
		s.logf("No joystick device found!")
		return ErrNoDevice
	}

	if s.cal.pending() {
		s.logf("Assignment for '%s' replaced by '%s'.", s.cal.target.Name, name)
		s.cal.reset()
	}

	s.cal.gen++
	gen := s.cal.gen
	s.cal.phase = WaitingBaseline
	s.cal.target = rec
	s.cal.cancel = s.sched.ScheduleOnce(s.opts.BaselineDelay, func() {
		if s.cal.gen == gen {
			s.captureBaseline()
		}
	})
	s.logf("Assignment: Waiting %dms to record baseline for '%s'. Make sure the control is inactive.",
		s.opts.BaselineDelay.Milliseconds(), name)
	s.changed()
	return nil
}

// CancelAssignment abandons a pending assignment, if any.
func (s *Switcher) CancelAssignment() {
	if !s.cal.pending() {
		return
	}
	s.logf("Assignment for '%s' cancelled.", s.cal.target.Name)
	s.cal.reset()
	s.changed()
}

func (s *Switcher) captureBaseline() {
	if s.cal.phase != WaitingBaseline {
		return
	}
	s.cal.cancel = nil

	pollErr := s.dev.Poll()
	if deviceLost(pollErr, s.dev) {
		s.abortAssignment()
		return
	}

	baseline := make(map[control]bool, s.dev.ButtonCount()+s.dev.AxisCount())
	for i := 0; i < s.dev.ButtonCount(); i++ {
		pressed, err := s.dev.Button(i)
		if err != nil {
			// Unreadable controls are left out, which makes them
			// ineligible for this assignment.
			continue
		}
		baseline[control{Button, i}] = pressed
	}
	for i := 0; i < s.dev.AxisCount(); i++ {
		v, err := s.dev.Axis(i)
		if err != nil {
			continue
		}
		baseline[control{Axis, i}] = v > 0
	}

	s.cal.baseline = baseline
	s.cal.phase = Sampling
	s.logf("Baseline for assignment recorded. Now flip the desired control for assignment.")
	s.changed()
}

func (s *Switcher) calibrationTick(pollErr error) {
	if deviceLost(pollErr, s.dev) {
		s.abortAssignment()
		return
	}
	if s.cal.phase != Sampling {
		return
	}

	// Buttons always win over axes in the same tick.
	for i := 0; i < s.dev.ButtonCount(); i++ {
		if s.wasActive(Button, i) {
			continue
		}
		if pressed, err := s.dev.Button(i); err == nil && pressed {
			s.acceptMapping(Mapping{Kind: Button, Index: i}, "")
			return
		}
	}
	for i := 0; i < s.dev.AxisCount(); i++ {
		if s.wasActive(Axis, i) {
			continue
		}
		if v, err := s.dev.Axis(i); err == nil && v > 0 {
			s.acceptMapping(Mapping{Kind: Axis, Index: i}, formatValue(v))
			return
		}
	}
}

// wasActive treats controls missing from the baseline as active.
func (s *Switcher) wasActive(kind ControlKind, index int) bool {
	active, ok := s.cal.baseline[control{kind, index}]
	return !ok || active
}

func (s *Switcher) acceptMapping(m Mapping, detail string) {
	rec := s.cal.target
	rec.mapping = &m
	rec.active = false
	rec.readFailing = false
	s.cal.reset()

	if detail != "" {
		s.logf("Assigned '%s' to %s (value: %s).", rec.Name, s.label(m), detail)
	} else {
		s.logf("Assigned '%s' to %s.", rec.Name, s.label(m))
	}
	s.changed()
}

func (s *Switcher) abortAssignment() {
	err := errors.Wrapf(ErrAssignmentAborted, "'%s'", s.cal.target.Name)
	s.cal.reset()
	s.logf("%v: joystick disconnected", err)
	s.changed()
}

func deviceLost(pollErr error, dev device.Reader) bool {
	return errors.Is(pollErr, device.ErrDisconnected) || !dev.Connected()
}
