package switcher

import (
	"strings"

	"github.com/pkg/errors"
)

// Profile is a named axis toggle threshold. RC transmitters differ in how
// far a switch travels, so each radio gets its own.
type Profile struct {
	Name      string  `json:"name"`
	Threshold float64 `json:"threshold"`
}

var profiles = []Profile{
	{Name: "FrSky", Threshold: 0.8},
	{Name: "SquidStick", Threshold: 0.9},
}

// DefaultProfile is used when nothing else is configured.
const DefaultProfile = "FrSky"

// CustomProfile is reported after an explicit SetThreshold.
const CustomProfile = "Custom"

// ErrUnknownProfile is returned by LookupProfile.
var ErrUnknownProfile = errors.New("unknown radio profile")

// Profiles lists the built-in profiles.
func Profiles() []Profile {
	return append([]Profile(nil), profiles...)
}

// LookupProfile finds a profile by name, ignoring case.
func LookupProfile(name string) (Profile, error) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Profile{}, errors.Wrapf(ErrUnknownProfile, "%q", name)
}

// ValidThreshold reports whether t can be used as an axis toggle threshold.
func ValidThreshold(t float64) bool {
	return t > 0 && t <= 1
}
