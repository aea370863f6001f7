// Package server serves sectioned sheet data over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ukaji3/sheetsections-go/internal/config"
	"github.com/ukaji3/sheetsections-go/internal/metrics"
)

// Server is the HTTP front end of a Loader.
type Server struct {
	cfg     *config.Config
	loader  *Loader
	metrics *metrics.Metrics
	logger  *slog.Logger
	router  chi.Router
}

// New creates a Server and its routes. A nil m disables /metrics and request
// instrumentation.
func New(cfg *config.Config, loader *Loader, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, loader: loader, metrics: m, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(StructuredLogger(s.logger))
	r.Use(Recoverer(s.logger))
	if s.metrics != nil {
		r.Use(Instrument(s.metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if rl := s.cfg.Security.RateLimit; rl.Enabled {
			r.Use(RateLimiter(rl.RPS, rl.Burst))
		}
		r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

		r.Get("/", s.handlePage)
		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/sections", s.handleWorkbook)
			r.Get("/sheets/{gid}/sections", s.handleSheet)
			r.Get("/sheets/{gid}/rows", s.handleRows)
		})
	})

	return r
}

// Start serves on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
