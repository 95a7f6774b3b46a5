package server

import (
	"context"
	"io/fs"
	"log"
	"net/http"

	"github.com/soar/padtrack/internal/hub"
)

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	ctrl        hub.Controller
	assets      *assets
	addr        string
	httpServer  *http.Server
}

// New prepares the web view. The frontend files are minified here, so a
// broken asset fails startup rather than the first request.
func New(h *hub.Hub, b *hub.Broadcaster, ctrl hub.Controller, frontendFS fs.FS, addr string) (*Server, error) {
	a, err := loadAssets(frontendFS)
	if err != nil {
		return nil, err
	}
	s := &Server{
		hub:         h,
		broadcaster: b,
		ctrl:        ctrl,
		assets:      a,
		addr:        addr,
	}
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	return s, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster, s.ctrl))

	// Static files (frontend)
	mux.Handle("/", s.assets)
	return mux
}

func (s *Server) ListenAndServe() error {
	log.Printf("HTTP server listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
