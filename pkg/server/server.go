// Package server exposes a venue editing session over HTTP.
//
// The server owns one live document: a [venue.Store] holding the
// sections, a [drag.Controller] for pointer gestures, and a debounced
// [pipeline.Scheduler] that re-realizes the floor plan after edits.
// Clients mutate sections through the JSON API and read back the
// rendered plan from /document.svg, so a thin browser frontend needs no
// layout logic of its own.
//
// Endpoints:
//
//	GET    /api/sections            list sections
//	POST   /api/sections            add a section by type
//	GET    /api/sections/{id}       fetch one section
//	PUT    /api/sections/{id}      replace a section's configuration
//	PATCH  /api/sections/{id}      move a section or set balcony position
//	DELETE /api/sections/{id}      delete a section
//	POST   /api/sections/{id}/rows        append a row
//	DELETE /api/sections/{id}/rows/{idx}  delete a row
//	GET    /api/categories          list the category palette
//	POST   /api/gestures            drive the drag state machine
//	POST   /api/save                persist the document
//	GET    /document.svg            rendered floor plan
//	GET    /document.json           draw commands as JSON
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

	"github.com/hallplan/hallplan/pkg/cache"
	hallerrors "github.com/hallplan/hallplan/pkg/errors"
	"github.com/hallplan/hallplan/pkg/drag"
	"github.com/hallplan/hallplan/pkg/geometry"
	"github.com/hallplan/hallplan/pkg/layout"
	"github.com/hallplan/hallplan/pkg/store"
	"github.com/hallplan/hallplan/pkg/venue"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Document is the name the session loads from and saves to.
	Document string

	// Canvas sets the drawing surface. Zero means document defaults.
	Canvas venue.Canvas
}

// Server is one live editing session over a single document.
type Server struct {
	cfg    Config
	logger *log.Logger
	docs   store.DocumentStore
	cache  cache.Cache
	keyer  cache.Keyer

	mu       sync.Mutex
	sections *venue.Store
	ctrl     *drag.Controller
	latest   []layout.Command
	dirty    bool // edits arrived while a gesture was in flight

	http *http.Server
}

// New creates a server over the given document store. The named
// document is loaded if it exists; otherwise the session starts empty.
// If c is nil, rendering is uncached.
func New(cfg Config, docs store.DocumentStore, c cache.Cache, logger *log.Logger) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Document == "" {
		cfg.Document = "default"
	}
	if cfg.Canvas.Width <= 0 {
		cfg.Canvas.Width = venue.DefaultCanvasWidth
	}
	if cfg.Canvas.Height <= 0 {
		cfg.Canvas.Height = venue.DefaultCanvasHeight
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		docs:     docs,
		cache:    c,
		keyer:    cache.NewDefaultKeyer(),
		sections: venue.NewStore(),
	}
	s.ctrl = drag.NewController(s.sections, s.viewport())

	doc, err := docs.Load(context.Background(), cfg.Document)
	switch {
	case err == nil:
		if cfg.Canvas.Width == venue.DefaultCanvasWidth && cfg.Canvas.Height == venue.DefaultCanvasHeight {
			s.cfg.Canvas = doc.Canvas
			s.ctrl = drag.NewController(s.sections, s.viewport())
		}
		if err := s.sections.Load(doc); err != nil {
			return nil, err
		}
		logger.Info("loaded document", "name", cfg.Document, "sections", len(doc.Sections))
	case hallerrors.Is(err, hallerrors.ErrCodeDocumentNotFound):
		logger.Info("starting empty document", "name", cfg.Document)
	default:
		return nil, err
	}
	s.realizeLocked()

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler, for embedding in another mux or
// for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe runs the server until ctx is canceled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "document", s.cfg.Document)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Route("/sections", func(r chi.Router) {
			r.Get("/", s.handleListSections)
			r.Post("/", s.handleAddSection)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSection)
				r.Put("/", s.handleReplaceSection)
				r.Patch("/", s.handlePatchSection)
				r.Delete("/", s.handleDeleteSection)
				r.Post("/rows", s.handleAddRow)
				r.Delete("/rows/{index}", s.handleDeleteRow)
			})
		})
		r.Get("/categories", s.handleListCategories)
		r.Post("/gestures", s.handleGesture)
		r.Post("/save", s.handleSave)
	})
	r.Get("/document.svg", s.handleRenderSVG)
	r.Get("/document.json", s.handleRenderJSON)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) viewport() geometry.Rect {
	return geometry.Rect{W: s.cfg.Canvas.Width, H: s.cfg.Canvas.Height}
}

// realizeLocked sweeps deferred category work and rebuilds the command
// list. Re-layout is deferred while a gesture is in flight so the
// client's drag preview stays stable. Callers hold s.mu or are
// single-threaded (startup).
func (s *Server) realizeLocked() {
	if s.ctrl.Active() {
		s.dirty = true
		return
	}
	s.sections.Sweep()
	s.latest = layout.Layout(s.sections.Snapshot(), s.viewport())
	s.dirty = false
}
