// Package server exposes a tether.Store over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/v1/tips          stored (pinned) tips
//	PUT    /api/v1/tips          replace the stored tips
//	DELETE /api/v1/tips          unpin every stored tip
//	GET    /api/v1/tips/{id}     one tip's view
//	GET    /api/v1/visible       rendered tips
//	POST   /api/v1/events        dispatch one event
//	POST   /api/v1/place         run the placement engine
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phanxgames/tether"
	"github.com/phanxgames/tether/persist"
)

// Server serializes HTTP access to a store. A tether.Store is not safe for
// concurrent use, so every handler that touches it holds mu.
type Server struct {
	mu      sync.Mutex
	store   *tether.Store
	backend persist.Backend
	log     *log.Logger
}

// New creates a server over s. Tip list changes made through the API are
// saved to b when it is non-nil.
func New(s *tether.Store, b persist.Backend, l *log.Logger) *Server {
	if l == nil {
		l = tether.Logger()
	}
	return &Server{store: s, backend: b, log: l}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", healthzHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tips", s.listTipsHandler)
		r.Put("/tips", s.replaceTipsHandler)
		r.Delete("/tips", s.clearTipsHandler)
		r.Get("/tips/{id}", s.tipHandler)
		r.Get("/visible", s.visibleHandler)
		r.Post("/events", s.eventHandler)
		r.Post("/place", placeHandler)
	})
	return r
}

// Locked runs fn while holding the store lock. Frame loops sharing the
// store with the server advance it through Locked.
func (s *Server) Locked(fn func(*tether.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.store)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "elapsed", time.Since(start).Round(time.Microsecond))
	})
}
