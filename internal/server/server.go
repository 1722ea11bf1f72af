// Package server implements the HTTP API for ordering rectangle sets.
//
// The API is stateless: every request carries a full rectangle document,
// and responses are derived artifacts (orderings, text views, rendered
// graphs). Derived artifacts are cached by document hash.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ordrect/ordrect/pkg/cache"
)

// Server encapsulates the HTTP API server.
type Server struct {
	logger *log.Logger
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
}

// Options configures a Server.
type Options struct {
	// Logger receives request and handler logs. Defaults to log.Default().
	Logger *log.Logger

	// Cache stores derived artifacts. Defaults to a NullCache.
	Cache cache.Cache

	// Keyer builds cache keys. Defaults to the standard scheme.
	Keyer cache.Keyer

	// CacheTTL bounds the lifetime of cached artifacts. Zero means no
	// expiration.
	CacheTTL time.Duration
}

// New creates an API server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	return &Server{
		logger: opts.Logger,
		cache:  opts.Cache,
		keyer:  opts.Keyer,
		ttl:    opts.CacheTTL,
	}
}

// Router builds the HTTP handler with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/order", s.handleOrder)
		r.Post("/view", s.handleView)
		r.Post("/overlap", s.handleOverlap)
		r.Post("/render", s.handleRender)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully with a 10 second drain window.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request with its duration and status.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	})
}
