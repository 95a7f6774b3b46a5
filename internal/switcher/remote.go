package switcher

// Poster runs a function on the goroutine that owns the Switcher.
type Poster interface {
	Post(fn func())
}

// Remote forwards calls from other goroutines onto the Switcher's own
// goroutine. Results are reported through the log sink and OnChange.
type Remote struct {
	s *Switcher
	p Poster
}

func (s *Switcher) Remote(p Poster) *Remote {
	return &Remote{s: s, p: p}
}

func (r *Remote) RequestAssignment(name string) {
	r.p.Post(func() { _ = r.s.RequestAssignment(name) })
}

func (r *Remote) CancelAssignment() {
	r.p.Post(r.s.CancelAssignment)
}

func (r *Remote) SetProfile(name string) {
	r.p.Post(func() { _ = r.s.SetProfile(name) })
}

func (r *Remote) SetThreshold(t float64) {
	r.p.Post(func() { _ = r.s.SetThreshold(t) })
}

// Refresh republishes the current View through OnChange.
func (r *Remote) Refresh() {
	r.p.Post(r.s.changed)
}
