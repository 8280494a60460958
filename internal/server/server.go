// Package server wires the relay's HTTP routes.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"subtasker/internal/handler"
	"subtasker/internal/logging"
)

const (
	// SuggestionsPath is the relay endpoint.
	SuggestionsPath = "/api/get-suggestions"

	// HealthPath reports liveness.
	HealthPath = "/health"
)

// Config holds HTTP server settings.
type Config struct {
	Addr         string
	StaticDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the suggestion API and static files.
type Server struct {
	config     Config
	httpServer *http.Server
	listener   net.Listener
	handler    http.Handler
}

// NewServer creates a server that relays suggestions through suggestions.
func NewServer(config Config, suggestions *handler.SuggestionHandler) *Server {
	s := &Server{config: config}

	mux := http.NewServeMux()
	mux.Handle(SuggestionsPath, suggestions)
	mux.HandleFunc(HealthPath, s.healthCheck)
	if config.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(config.StaticDir)))
	}

	s.handler = handler.WithRequestID(s.loggingMiddleware(mux))
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
	return s
}

// Handler returns the root handler (for testing).
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Shutdown. Listen must be called first.
// Returns nil after a clean shutdown.
func (s *Server) Serve() error {
	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		logging.Warn("failed to write health response", "error", err)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == HealthPath {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		log := logging.With("request_id", handler.RequestID(r.Context()))
		log.Debug("started", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
		log.Debug("completed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
