// Package api serves the collage pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/compositions                 compose (and fill) a new layout
//	GET    /v1/compositions                 list stored layouts
//	GET    /v1/compositions/{id}            fetch a stored layout
//	DELETE /v1/compositions/{id}
//	GET    /v1/compositions/{id}/render     render as svg, png or json
//	POST   /v1/fill                         fill the negative space of a fragment list
//	POST   /v1/scale                        cover-scale a mask onto a target
//	POST   /v1/sessions                     start an image-usage session
//	GET    /v1/sessions/{id}
//	DELETE /v1/sessions/{id}
//
// Errors are returned as {"code": "...", "message": "..."} with INVALID_*
// codes mapped to 400 and NOT_FOUND codes to 404.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/assemblage/pkg/pipeline"
	"github.com/matzehuels/assemblage/pkg/session"
	"github.com/matzehuels/assemblage/pkg/store"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 4 << 20

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Runner   *pipeline.Runner
	Store    store.Store
	Sessions session.Store
	Logger   *log.Logger

	// Defaults are applied to compose requests before the request body.
	Defaults pipeline.Options

	// SessionTTL is the lifetime of sessions created through the API.
	SessionTTL time.Duration
}

// NewServer creates a server. Nil dependencies are replaced by in-memory
// implementations and a discard logger.
func NewServer(runner *pipeline.Runner, st store.Store, sessions session.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	return &Server{
		Runner:     runner,
		Store:      st,
		Sessions:   sessions,
		Logger:     logger,
		SessionTTL: session.DefaultTTL,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/compositions", func(r chi.Router) {
			r.Post("/", s.handleCreateComposition)
			r.Get("/", s.handleListCompositions)
			r.Get("/{id}", s.handleGetComposition)
			r.Delete("/{id}", s.handleDeleteComposition)
			r.Get("/{id}/render", s.handleRenderComposition)
		})
		r.Post("/fill", s.handleFill)
		r.Post("/scale", s.handleScale)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/{id}", s.handleGetSession)
			r.Delete("/{id}", s.handleDeleteSession)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFoundRoute(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"})
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
