package keysend

// keybd_event treats values above 0xFFF as virtual-key codes.
const vkOffset = 0xFFF

// VK_MEDIA_NEXT_TRACK and VK_MEDIA_PREV_TRACK.
const (
	MediaNext Code = 0xB0 + vkOffset
	MediaPrev Code = 0xB1 + vkOffset

	unsupported Code = -1
)

// native strips the keybd_event offset so logs show the plain VK code.
func (c Code) native() int {
	if c > vkOffset {
		return int(c - vkOffset)
	}
	return int(c)
}
