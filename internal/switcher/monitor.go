package switcher

import "strconv"

func (s *Switcher) monitorTick() {
	if !s.dev.Connected() {
		return
	}
	for _, rec := range s.actions {
		if rec.mapping == nil {
			continue
		}
		switch rec.mapping.Kind {
		case Button:
			s.checkButton(rec)
		case Axis:
			s.checkAxis(rec)
		}
	}
}

// checkButton fires on release: a press arms the action, the following
// release sends the key.
func (s *Switcher) checkButton(rec *actionRecord) {
	pressed, err := s.dev.Button(rec.mapping.Index)
	if !s.readResult(rec, err) {
		return
	}
	switch {
	case rec.active && !pressed:
		rec.active = false
		s.fire(rec, EdgeRelease)
		s.changed()
	case !rec.active && pressed:
		rec.active = true
		s.changed()
	}
}

// checkAxis fires when the axis crosses above the threshold after having
// been below threshold-0.5.
func (s *Switcher) checkAxis(rec *actionRecord) {
	v, err := s.dev.Axis(rec.mapping.Index)
	if !s.readResult(rec, err) {
		return
	}
	now := NextAxisState(rec.active, v, s.threshold)
	if now == rec.active {
		return
	}
	rec.active = now
	if now {
		s.fire(rec, EdgeRising)
	}
	s.changed()
}

// readResult logs the first of a run of read failures and reports whether
// the value can be used.
func (s *Switcher) readResult(rec *actionRecord, err error) bool {
	if err != nil {
		if !rec.readFailing {
			rec.readFailing = true
			s.logf("Error reading %s for '%s': %v", rec.mapping, rec.Name, err)
		}
		return false
	}
	if rec.readFailing {
		rec.readFailing = false
		s.logf("%s for '%s' readable again.", rec.mapping, rec.Name)
	}
	return true
}

func (s *Switcher) fire(rec *actionRecord, edge Edge) {
	if err := s.keys.Tap(rec.Key); err != nil {
		s.logf("Failed to send key for '%s': %v", rec.Name, err)
	}
	s.logf("Action '%s' triggered (%s).", rec.Name, edge)
	if s.opts.OnFire != nil {
		s.opts.OnFire(Fire{
			Action:  rec.Name,
			Key:     rec.Key,
			Edge:    edge,
			Control: *rec.mapping,
			Time:    s.opts.Now(),
		})
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
