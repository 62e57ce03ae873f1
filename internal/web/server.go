// Package web provides the HTTP server and handlers for the dataset dashboard.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/autoimmunedb/internal/config"
	"github.com/JonMunkholm/autoimmunedb/internal/content"
	"github.com/JonMunkholm/autoimmunedb/internal/core"
	"github.com/JonMunkholm/autoimmunedb/internal/session"
	mw "github.com/JonMunkholm/autoimmunedb/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the dashboard.
type Server struct {
	cfg      *config.Config
	page     *content.Page
	sessions *session.Store
	uploads  *core.UploadLimiter
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, page *content.Page, sessions *session.Store, uploads *core.UploadLimiter) *Server {
	s := &Server{
		cfg:      cfg,
		page:     page,
		sessions: sessions,
		uploads:  uploads,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := mw.NewRateLimiter(s.cfg.Rate.RequestsPerMinute)
		s.router.Use(limiter.Middleware(s.handleRateLimited))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.router.Get("/healthz", s.handleHealth)

	// Everything below reads or writes the browser's dataset slot
	s.router.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleIndex)
		r.Post("/search", s.handleSearch)
		r.Post("/reset", s.handleResetPage)

		upload := r
		if s.cfg.Rate.Enabled {
			upload = r.With(mw.NewRateLimiter(s.cfg.Rate.UploadLimit).Middleware(s.handleRateLimited))
		}
		upload.Post("/upload", s.handleUpload)

		r.Get("/export/results.csv", s.handleExportCSV)
		r.Get("/export/results.xlsx", s.handleExportXLSX)

		r.Route("/api", func(r chi.Router) {
			r.Get("/search", s.handleAPISearch)
			r.Get("/dataset", s.handleAPIDataset)
			r.Post("/reset", s.handleAPIReset)
		})
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown waits for in-flight uploads to finish parsing, then gracefully
// stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if status := s.uploads.Status(); status.Active > 0 {
		slog.Info("waiting for uploads to complete", "active", status.Active)
		if err := s.uploads.WaitForDrain(ctx); err != nil {
			slog.Warn("uploads did not complete in time", "error", err)
		}
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
// Page images are hot-linked, so the CSP allows https images.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			if enableCSP {
				w.Header().Set("Content-Security-Policy",
					"default-src 'self'; style-src 'self'; img-src 'self' data: https:; form-action 'self'; frame-ancestors 'none'")
			}

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}

// handleRateLimited answers requests rejected by the rate limiter.
func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, core.ErrRateLimited, http.StatusTooManyRequests)
}

// handleHealth reports liveness plus session and upload counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"sessions":    s.sessions.Count(),
		"session_ttl": s.sessions.TTL().String(),
		"uploads":     s.uploads.Status(),
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
