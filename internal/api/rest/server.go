package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fortuna/pythia/internal/cache"
	"github.com/fortuna/pythia/internal/projection"
	"github.com/gorilla/mux"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server. onRefresh fires after every
// successful on-demand run, so the caller can fan the result out (the
// daemon broadcasts it over WebSocket).
func NewServer(port string, rc *cache.RedisCache, runner *projection.Runner, onRefresh func(*projection.Result)) *Server {
	handler := NewHandler(rc, runner, onRefresh)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/projections", handler.GetProjections).Methods("GET")
	api.HandleFunc("/projections/refresh", handler.RefreshProjections).Methods("POST")
	api.HandleFunc("/projections/matchups", handler.GetMatchups).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
