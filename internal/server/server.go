package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/dmolnar/joyremap/internal/hub"
	"github.com/dmolnar/joyremap/internal/pipeline"
)

// Server exposes the live pipeline over HTTP: a WebSocket stream for
// monitors and JSON snapshot endpoints.
type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	pipeline    *pipeline.Pipeline
	addr        string
	httpServer  *http.Server
}

func New(h *hub.Hub, b *hub.Broadcaster, pl *pipeline.Pipeline, addr string) *Server {
	return &Server{
		hub:         h,
		broadcaster: b,
		pipeline:    pl,
		addr:        addr,
	}
}

func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster))

	// JSON snapshot of the current pipeline output
	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		state := s.pipeline.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(state); err != nil {
			log.Printf("Error encoding state: %v", err)
		}
	})

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	log.Printf("HTTP server listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		log.Println("Shutting down HTTP server...")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
