// Package keysend injects synthetic key presses.
package keysend

import (
	"fmt"
	"log"
	"time"

	"github.com/micmonay/keybd_event"
	"github.com/pkg/errors"
)

// ErrUnsupported is returned when the platform has no code for a key.
var ErrUnsupported = errors.New("key injection not supported on this platform")

// Code is a platform key code as understood by keybd_event.
type Code int

// String prints the platform key code in hex, e.g. 0xb0.
func (c Code) String() string {
	if c == unsupported {
		return "unsupported"
	}
	return fmt.Sprintf("0x%02x", c.native())
}

// Sender emits one key-down followed by one key-up.
type Sender interface {
	Tap(code Code) error
}

// Keyboard sends keys through the OS input layer (uinput on Linux,
// SendInput on Windows).
type Keyboard struct {
	kb keybd_event.KeyBonding
}

// NewKeyboard creates the virtual keyboard. On Linux the new uinput device
// needs a moment before the desktop accepts events from it, so this call
// waits for settle before returning.
func NewKeyboard(settle time.Duration) (*Keyboard, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize keyboard")
	}
	if settle > 0 {
		time.Sleep(settle)
	}
	return &Keyboard{kb: kb}, nil
}

// Tap presses and releases code.
func (k *Keyboard) Tap(code Code) error {
	if code == unsupported {
		return ErrUnsupported
	}
	k.kb.Clear()
	k.kb.SetKeys(int(code))
	if err := k.kb.Press(); err != nil {
		return errors.Wrapf(err, "key down %s", code)
	}
	if err := k.kb.Release(); err != nil {
		return errors.Wrapf(err, "key up %s", code)
	}
	log.Printf("Sent key: %s", code)
	return nil
}

// LogSender only logs. Used for --dry-run.
type LogSender struct{}

func (LogSender) Tap(code Code) error {
	log.Printf("Sent key: %s (dry run)", code)
	return nil
}
