//go:build !linux && !windows

package keysend

const (
	MediaNext Code = unsupported
	MediaPrev Code = unsupported

	unsupported Code = -1
)

func (c Code) native() int { return int(c) }
