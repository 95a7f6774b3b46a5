package keysend

// Linux evdev codes (KEY_NEXTSONG, KEY_PREVIOUSSONG).
const (
	MediaNext Code = 163
	MediaPrev Code = 165

	unsupported Code = -1
)

func (c Code) native() int { return int(c) }
