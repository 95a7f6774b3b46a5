// Package switcher turns joystick controls into media key presses.
//
// A Switcher owns the per-action mappings and logical states, the
// learn-by-flip calibration and the edge detection that fires keys. It is
// driven by Tick from a single goroutine and is not safe for concurrent use;
// other goroutines go through Remote.
package switcher

import (
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/soar/padtrack/internal/device"
	"github.com/soar/padtrack/internal/keysend"
)

const DefaultBaselineDelay = 500 * time.Millisecond

var (
	ErrUnknownAction     = errors.New("unknown action")
	ErrNoDevice          = errors.New("no joystick device found")
	ErrAssignmentAborted = errors.New("assignment aborted")
	ErrInvalidThreshold  = errors.New("threshold must be in (0, 1]")
)

// Scheduler defers a callback onto the goroutine that drives Tick.
type Scheduler interface {
	ScheduleOnce(delay time.Duration, fn func()) (cancel func())
}

// labeler is implemented by readers that know friendly control names.
type labeler interface {
	Label(kind device.Kind, index int) string
}

// Fire describes one emitted key press.
type Fire struct {
	Action  string       `json:"action"`
	Key     keysend.Code `json:"key"`
	Edge    Edge         `json:"edge"`
	Control Mapping      `json:"control"`
	Time    time.Time    `json:"time"`
}

// Options configures a Switcher. Zero values pick the defaults.
type Options struct {
	Actions       []Action
	Profile       string
	Threshold     float64
	BaselineDelay time.Duration

	// LogSink receives every status line. Defaults to the standard logger.
	LogSink func(msg string)
	// OnFire is called after a key has been sent.
	OnFire func(Fire)
	// OnChange is called with a fresh View whenever something a user
	// would see has changed.
	OnChange func(View)
	Now      func() time.Time
}

type Switcher struct {
	dev   device.Reader
	keys  keysend.Sender
	sched Scheduler
	opts  Options

	actions   []*actionRecord
	byName    map[string]*actionRecord
	profile   string
	threshold float64
	connected bool

	cal calibration
}

// New builds a Switcher. The profile and threshold options are validated;
// an explicit threshold overrides the profile's.
func New(dev device.Reader, keys keysend.Sender, sched Scheduler, opts Options) (*Switcher, error) {
	if len(opts.Actions) == 0 {
		opts.Actions = DefaultActions()
	}
	if opts.Profile == "" {
		opts.Profile = DefaultProfile
	}
	if opts.BaselineDelay <= 0 {
		opts.BaselineDelay = DefaultBaselineDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Switcher{
		dev:    dev,
		keys:   keys,
		sched:  sched,
		opts:   opts,
		byName: make(map[string]*actionRecord, len(opts.Actions)),
	}
	for _, a := range opts.Actions {
		if _, dup := s.byName[a.Name]; dup {
			return nil, errors.Errorf("duplicate action %q", a.Name)
		}
		rec := &actionRecord{Action: a}
		s.actions = append(s.actions, rec)
		s.byName[a.Name] = rec
	}

	p, err := LookupProfile(opts.Profile)
	if err != nil {
		return nil, err
	}
	s.profile, s.threshold = p.Name, p.Threshold
	if opts.Threshold != 0 {
		if !ValidThreshold(opts.Threshold) {
			return nil, errors.Wrapf(ErrInvalidThreshold, "%v", opts.Threshold)
		}
		s.profile, s.threshold = CustomProfile, opts.Threshold
	}

	s.connected = dev.Connected()
	return s, nil
}

// Tick polls the device once and runs either the calibration step or the
// monitor, never both.
func (s *Switcher) Tick() {
	pollErr := s.dev.Poll()
	s.trackConnection(pollErr)

	if s.cal.pending() {
		s.calibrationTick(pollErr)
		return
	}
	s.monitorTick()
}

func (s *Switcher) trackConnection(pollErr error) {
	lost := errors.Is(pollErr, device.ErrDisconnected)
	if lost {
		s.logf("Joystick lost: %v", pollErr)
	}
	now := s.dev.Connected()
	// A lost joystick may have been replaced by another one in the same poll.
	if now == s.connected && !(lost && now) {
		return
	}
	s.connected = now
	if now {
		s.logf("Using joystick: %s", s.dev.Name())
	}
	s.changed()
}

// CurrentMapping returns the mapping of the named action, if any.
func (s *Switcher) CurrentMapping(name string) (Mapping, bool) {
	rec, ok := s.byName[name]
	if !ok || rec.mapping == nil {
		return Mapping{}, false
	}
	return *rec.mapping, true
}

// Threshold returns the axis toggle threshold in use.
func (s *Switcher) Threshold() float64 {
	return s.threshold
}

// SetThreshold sets an explicit axis toggle threshold.
func (s *Switcher) SetThreshold(t float64) error {
	if !ValidThreshold(t) {
		err := errors.Wrapf(ErrInvalidThreshold, "%v", t)
		s.logf("Rejected threshold: %v", err)
		return err
	}
	s.profile, s.threshold = CustomProfile, t
	s.logf("Toggle threshold = %v", t)
	s.changed()
	return nil
}

// SetProfile switches to a named radio profile and its threshold.
func (s *Switcher) SetProfile(name string) error {
	p, err := LookupProfile(name)
	if err != nil {
		s.logf("Rejected radio type: %v", err)
		return err
	}
	s.profile, s.threshold = p.Name, p.Threshold
	s.logf("Radio type set to %s; toggle threshold = %v", p.Name, p.Threshold)
	s.changed()
	return nil
}

func (s *Switcher) label(m Mapping) string {
	if l, ok := s.dev.(labeler); ok {
		return l.Label(m.Kind.deviceKind(), m.Index)
	}
	return m.String()
}

func (s *Switcher) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if s.opts.LogSink != nil {
		s.opts.LogSink(msg)
		return
	}
	log.Println(msg)
}

func (s *Switcher) changed() {
	if s.opts.OnChange != nil {
		s.opts.OnChange(s.View())
	}
}
