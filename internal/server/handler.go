package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/soar/padtrack/internal/hub"
)

// The default origin check applies: the page that opens the socket must be
// served by this process, so other sites cannot trigger assignments.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func handleWebSocket(h *hub.Hub, b *hub.Broadcaster, ctrl hub.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := hub.NewClient(h, conn)
		if !h.Register(client) {
			conn.Close()
			return
		}

		// Send current state to the new client
		b.SendInitialState(client)

		go client.WritePump()
		go client.ReadPump(ctrl)
	}
}
