package hub

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// Controller receives the commands clients send.
type Controller interface {
	RequestAssignment(name string)
	CancelAssignment()
	SetProfile(name string)
	SetThreshold(t float64)
}

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer func() {
		c.conn.Close()
	}()

	for msg := range c.send {
		err := c.conn.WriteMessage(websocket.TextMessage, msg)
		if err != nil {
			break
		}
	}
}

// ReadPump reads messages from the WebSocket and hands commands to ctrl.
func (c *Client) ReadPump(ctrl Controller) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Error parsing client message: %v", err)
			continue
		}
		dispatch(ctrl, clientMsg)
	}
}

func dispatch(ctrl Controller, msg ClientMessage) {
	switch msg.Type {
	case "assign":
		ctrl.RequestAssignment(msg.Action)
	case "cancel":
		ctrl.CancelAssignment()
	case "set_profile":
		ctrl.SetProfile(msg.Profile)
	case "set_threshold":
		ctrl.SetThreshold(msg.Threshold)
	default:
		log.Printf("Unknown client message type %q", msg.Type)
	}
}
