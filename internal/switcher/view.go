package switcher

// ActionView is the display state of one action.
type ActionView struct {
	Name    string   `json:"name"`
	Key     string   `json:"key"`
	Mapping *Mapping `json:"mapping,omitempty"`
	Label   string   `json:"label"`
	Active  bool     `json:"active"`
}

// View is a snapshot of everything the user-facing surface shows.
type View struct {
	Device    string       `json:"device"`
	Connected bool         `json:"connected"`
	Profile   string       `json:"profile"`
	Profiles  []Profile    `json:"profiles"`
	Threshold float64      `json:"threshold"`
	Phase     string       `json:"phase"`
	Assigning string       `json:"assigning,omitempty"`
	Actions   []ActionView `json:"actions"`
}

// View builds a snapshot of the current state.
func (s *Switcher) View() View {
	v := View{
		Device:    s.dev.Name(),
		Connected: s.dev.Connected(),
		Profile:   s.profile,
		Profiles:  Profiles(),
		Threshold: s.threshold,
		Phase:     s.cal.phase.String(),
		Actions:   make([]ActionView, 0, len(s.actions)),
	}
	if s.cal.target != nil {
		v.Assigning = s.cal.target.Name
	}
	for _, rec := range s.actions {
		av := ActionView{
			Name:   rec.Name,
			Key:    rec.Key.String(),
			Label:  "None",
			Active: rec.active,
		}
		if rec.mapping != nil {
			m := *rec.mapping
			av.Mapping = &m
			av.Label = s.label(m)
		}
		v.Actions = append(v.Actions, av)
	}
	return v
}
