package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rtkit/nlmgr/internal/log"
	"github.com/rtkit/nlmgr/internal/rtnl"
)

// Server exposes read-only netlink state over HTTP.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	inspector  *Inspector
}

// NewServer creates a new API server backed by the given manager
func NewServer(bindAddr string, mgr *rtnl.Manager) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		inspector: NewInspector(mgr),
	}

	// Setup middleware
	s.router.Use(RecoveryMiddleware)
	s.router.Use(LoggingMiddleware)
	s.router.Use(CORSMiddleware)

	// Setup routes
	s.setupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         bindAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/links", func(r chi.Router) {
			r.Get("/", HandleLinks(s.inspector))
			r.Get("/{link_name}", HandleLinkGet(s.inspector))
		})
		r.Get("/addresses", HandleAddresses(s.inspector))
		r.Get("/neighbors", HandleNeighbors(s.inspector))
		r.Get("/routes", HandleRoutes(s.inspector))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
	})
}

// Start starts the API server
func (s *Server) Start() error {
	log.Infof("[API] Starting nlmgr API server")
	log.Infof("[API] Bind address: %s", s.httpServer.Addr)
	log.Infof("[API] Example: curl http://%s/api/v1/links", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop gracefully stops the API server
func (s *Server) Stop(ctx context.Context) error {
	log.Infof("[API] Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}
