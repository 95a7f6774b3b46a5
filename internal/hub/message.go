package hub

import (
	"time"

	"github.com/soar/padtrack/internal/switcher"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string         `json:"type"`      // Message type: "state", "log", "fired"
	Seq       int64          `json:"seq"`       // Sequence number for ordering
	Timestamp int64          `json:"timestamp"` // Unix timestamp in milliseconds
	State     *switcher.View `json:"state,omitempty"`
	Line      string         `json:"line,omitempty"`
	Fire      *switcher.Fire `json:"fire,omitempty"`
}

// NewStateMessage creates a "state" message with a full view snapshot.
func NewStateMessage(seq int64, v *switcher.View) *WSMessage {
	return &WSMessage{
		Type:      "state",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		State:     v,
	}
}

// NewLogMessage creates a "log" message carrying one status line.
func NewLogMessage(seq int64, line string) *WSMessage {
	return &WSMessage{
		Type:      "log",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Line:      line,
	}
}

// NewFiredMessage creates a "fired" message for an emitted key press.
func NewFiredMessage(seq int64, f *switcher.Fire) *WSMessage {
	return &WSMessage{
		Type:      "fired",
		Seq:       seq,
		Timestamp: f.Time.UnixMilli(),
		Fire:      f,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type      string  `json:"type"` // "assign", "cancel", "set_profile", "set_threshold"
	Action    string  `json:"action,omitempty"`
	Profile   string  `json:"profile,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}
