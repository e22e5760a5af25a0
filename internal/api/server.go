// Package api exposes the authenticated proxy routes the web client talks
// to. Each handler extracts the bearer token from the request, forwards the
// call upstream, and maps the upstream status into the normalized
// {success, data|error} envelope. The proxy holds no state of its own.
package api

import (
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Config controls the proxy.
type Config struct {
	// UpstreamURL is the external backend base URL (API_URL).
	UpstreamURL string
	// Timeout bounds a single upstream round trip.
	Timeout time.Duration
}

// DefaultConfig returns the standard settings used when no overrides are
// provided.
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

// Server proxies document and template traffic to the external backend.
type Server struct {
	router   chi.Router
	upstream string
	client   *http.Client
	logger   *zap.Logger
}

// NewServer builds the proxy with its routes mounted.
func NewServer(cfg Config, logger *zap.Logger) (*Server, error) {
	upstream := strings.TrimRight(strings.TrimSpace(cfg.UpstreamURL), "/")
	if upstream == "" {
		return nil, errMissingUpstream
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}

	s := &Server{
		router:   chi.NewRouter(),
		upstream: upstream,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Use(requestID)
	s.router.Use(s.logRequests)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/templates", s.proxyJSON("Template not found"))

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.proxyJSON("Document not found"))
			r.Post("/", s.proxyJSON("Document not found"))
			r.Post("/export", s.proxyBinary())

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.proxyJSON("Document not found"))
				r.Put("/", s.proxyJSON("Document not found"))
				r.Delete("/", s.proxyJSON("Document not found"))
			})
		})
	})
}

// Handler returns the mounted router.
func (s *Server) Handler() http.Handler { return s.router }
