package switcher

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/soar/padtrack/internal/device"
	"github.com/soar/padtrack/internal/keysend"
)

type fakeDevice struct {
	buttons   []bool
	axes      []float64
	name      string
	connected bool
	// pollErr is returned by the next Poll only.
	pollErr error
	polls   int
}

func newFakeDevice(buttons, axes int) *fakeDevice {
	return &fakeDevice{
		buttons:   make([]bool, buttons),
		axes:      make([]float64, axes),
		name:      "Fake Radio",
		connected: true,
	}
}

func (d *fakeDevice) Poll() error {
	d.polls++
	err := d.pollErr
	d.pollErr = nil
	return err
}

func (d *fakeDevice) Connected() bool { return d.connected }
func (d *fakeDevice) Name() string    { return d.name }

func (d *fakeDevice) ButtonCount() int {
	if !d.connected {
		return 0
	}
	return len(d.buttons)
}

func (d *fakeDevice) AxisCount() int {
	if !d.connected {
		return 0
	}
	return len(d.axes)
}

func (d *fakeDevice) Button(i int) (bool, error) {
	if !d.connected || i < 0 || i >= len(d.buttons) {
		return false, errors.Wrapf(device.ErrControlRead, "button %d", i)
	}
	return d.buttons[i], nil
}

func (d *fakeDevice) Axis(i int) (float64, error) {
	if !d.connected || i < 0 || i >= len(d.axes) {
		return 0, errors.Wrapf(device.ErrControlRead, "axis %d", i)
	}
	return d.axes[i], nil
}

// disconnect simulates the device going away before the next Poll.
func (d *fakeDevice) disconnect() {
	d.connected = false
	d.pollErr = device.ErrDisconnected
}

type oneShot struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

type fakeScheduler struct {
	pending []*oneShot
}

func (f *fakeScheduler) ScheduleOnce(delay time.Duration, fn func()) func() {
	o := &oneShot{delay: delay, fn: fn}
	f.pending = append(f.pending, o)
	return func() { o.cancelled = true }
}

// runPending fires every one-shot that has not been cancelled.
func (f *fakeScheduler) runPending() int {
	p := f.pending
	f.pending = nil
	n := 0
	for _, o := range p {
		if !o.cancelled {
			o.fn()
			n++
		}
	}
	return n
}

type recordingSender struct {
	taps []keysend.Code
	err  error
}

func (r *recordingSender) Tap(code keysend.Code) error {
	r.taps = append(r.taps, code)
	return r.err
}

type harness struct {
	t     *testing.T
	dev   *fakeDevice
	sched *fakeScheduler
	keys  *recordingSender
	sw    *Switcher
	logs  []string
	fires []Fire
	views []View
}

func newHarness(t *testing.T, dev *fakeDevice, opts Options) *harness {
	t.Helper()
	h := &harness{t: t, dev: dev, sched: &fakeScheduler{}, keys: &recordingSender{}}
	opts.LogSink = func(msg string) { h.logs = append(h.logs, msg) }
	opts.OnFire = func(f Fire) { h.fires = append(h.fires, f) }
	opts.OnChange = func(v View) { h.views = append(h.views, v) }
	sw, err := New(dev, h.keys, h.sched, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	h.sw = sw
	return h
}

// assign walks one action through calibration, calling flip between the
// baseline capture and the sampling tick.
func (h *harness) assign(name string, flip func()) {
	h.t.Helper()
	if err := h.sw.RequestAssignment(name); err != nil {
		h.t.Fatalf("RequestAssignment(%q) failed: %v", name, err)
	}
	if n := h.sched.runPending(); n != 1 {
		h.t.Fatalf("Expected one baseline capture, ran %d", n)
	}
	flip()
	h.sw.Tick()
	if h.sw.Phase() != Idle {
		h.t.Fatalf("Assignment of %q did not complete, phase %v", name, h.sw.Phase())
	}
}

func (h *harness) tapCount() int {
	return len(h.keys.taps)
}

func (h *harness) logged(substr string) int {
	n := 0
	for _, l := range h.logs {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}
