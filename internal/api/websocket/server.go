package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server pushes completed projection runs to connected clients.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
}

// NewServer creates a new WebSocket server
func NewServer() *Server {
	return &Server{
		hub: NewHub(),
	}
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.port = port

	// Start the hub in a goroutine
	go s.hub.Run()

	// Set up HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/projections", s.handleProjections)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleProjections handles WebSocket connections for projection updates
func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// BroadcastRun sends a completed projection run to all connected clients.
func (s *Server) BroadcastRun(run interface{}) {
	data, err := json.Marshal(run)
	if err != nil {
		log.Printf("Failed to marshal projection run for broadcast: %v", err)
		return
	}
	s.hub.Broadcast(data)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
