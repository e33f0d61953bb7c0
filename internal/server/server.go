// Package server provides the HTTP surface of airdraw: the JSON control API,
// the live MJPEG and websocket feeds, and the control page.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayusman/airdraw/internal/app"
	"github.com/ayusman/airdraw/internal/server/api"
	"github.com/ayusman/airdraw/internal/store"
)

// Config holds the server configuration.
type Config struct {
	App   *app.App
	Store *store.Store
	// StreamFPS is the MJPEG frame rate. Zero selects DefaultStreamFPS.
	StreamFPS int
}

// Server represents the HTTP server for the airdraw application.
type Server struct {
	config Config
	router chi.Router
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.StreamFPS <= 0 {
		config.StreamFPS = DefaultStreamFPS
	}
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		if s.config.Store != nil {
			api.NewSessionsHandler(s.config.Store).RegisterRoutes(r)
		}

		if s.config.App != nil {
			api.NewCanvasHandler(s.config.App).RegisterRoutes(r)
			api.NewCaptureHandler(s.config.App).RegisterRoutes(r)

			canvas := s.config.App.Canvas()
			r.Method(http.MethodGet, "/stream", NewStreamHandler(canvas, s.config.StreamFPS))
			r.Method(http.MethodGet, "/events", NewEventsHandler(canvas))
		}
	})

	if s.config.App != nil {
		r.Get("/", s.handleIndex)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}
	if s.config.App != nil {
		response["capturing"] = s.config.App.IsCapturing()
		response["mode"] = s.config.App.Canvas().Mode()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleIndex renders the control page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := IndexPage(s.config.App.Canvas().State(), s.config.App.IsCapturing())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
