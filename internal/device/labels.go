package device

import "fmt"

// Kind tells buttons and axes apart in labels.
type Kind int

const (
	KindButton Kind = iota
	KindAxis
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "Button"
	case KindAxis:
		return "Axis"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// layout names the raw indices of a known controller family.
type layout struct {
	Name    string
	Axes    map[int]string
	Buttons map[int]string
}

var xboxLayout = &layout{
	Name: "xbox",
	Axes: map[int]string{0: "left_x", 1: "left_y", 2: "right_x", 3: "right_y", 4: "lt", 5: "rt"},
	Buttons: map[int]string{
		0: "a", 1: "b", 2: "x", 3: "y", 4: "lb", 5: "rb",
		6: "select", 7: "start", 8: "l3", 9: "r3", 10: "home",
	},
}

var playstationLayout = &layout{
	Name: "playstation",
	Axes: map[int]string{0: "left_x", 1: "left_y", 2: "right_x", 3: "right_y", 4: "l2", 5: "r2"},
	Buttons: map[int]string{
		0: "cross", 1: "circle", 2: "square", 3: "triangle",
		4: "share", 5: "ps", 6: "options", 7: "l3", 8: "r3", 9: "l1", 10: "r1",
	},
}

var switchProLayout = &layout{
	Name: "switch_pro",
	Axes: map[int]string{0: "left_x", 1: "left_y", 2: "right_x", 3: "right_y"},
	Buttons: map[int]string{
		0: "a", 1: "b", 2: "x", 3: "y", 4: "l", 5: "r",
		6: "minus", 7: "plus", 8: "l3", 9: "r3", 10: "home",
	},
}

// Known vendor/product IDs.
type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*layout{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxLayout, // Xbox 360
	{0x045E, 0x02FF}: xboxLayout, // Xbox One
	{0x045E, 0x0B12}: xboxLayout, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxLayout, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationLayout, // DualSense
	{0x054C, 0x09CC}: playstationLayout, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationLayout, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProLayout,
}

// ControllerType returns the family name for a vendor/product pair, or
// "generic" for anything else (RC transmitters land here).
func ControllerType(vendorID, productID uint16) string {
	if l, ok := knownDevices[deviceKey{vendorID, productID}]; ok {
		return l.Name
	}
	return "generic"
}

// ControlLabel renders a control for display, e.g. "Button 0 (a)". Unknown
// devices and indices get the bare "Button 0".
func ControlLabel(vendorID, productID uint16, kind Kind, index int) string {
	base := fmt.Sprintf("%s %d", kind, index)
	l, ok := knownDevices[deviceKey{vendorID, productID}]
	if !ok {
		return base
	}
	names := l.Buttons
	if kind == KindAxis {
		names = l.Axes
	}
	if name, ok := names[index]; ok {
		return fmt.Sprintf("%s (%s)", base, name)
	}
	return base
}
