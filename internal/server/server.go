// Package server exposes the business network analyzer over HTTP.
//
// All mutations are serialized behind one mutex and persisted to the
// configured store before the response is written, so a successful status
// always means the change is durable. Error bodies use `{"detail": ...}`
// with a status derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BurakErdilli/biznet-analyzer/internal/config"
	"github.com/BurakErdilli/biznet-analyzer/pkg/errors"
	"github.com/BurakErdilli/biznet-analyzer/pkg/network"
	"github.com/BurakErdilli/biznet-analyzer/pkg/store"
)

// Server owns the live network and its persistence.
type Server struct {
	mu     sync.Mutex
	net    *network.Network
	st     store.Store
	cfg    config.Config
	logger *log.Logger
}

// New creates a server, loading the last saved snapshot from the store.
// A store with no snapshot yields an empty network with the configured
// default settings.
func New(ctx context.Context, cfg config.Config, st store.Store, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{st: st, cfg: cfg, logger: logger}

	data, err := st.Load(ctx)
	switch {
	case err == nil:
		net, err := network.Decode(data, cfg.Settings())
		if err != nil {
			return nil, err
		}
		s.net = net
		logger.Info("loaded network", "nodes", net.NodeCount(), "edges", net.EdgeCount())
	case stderrors.Is(err, store.ErrNotFound):
		s.net = network.New(cfg.Settings())
		logger.Info("starting with empty network")
	default:
		return nil, err
	}
	return s, nil
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/network", s.handleGetNetwork)
		r.Post("/nodes", s.handleAddNode)
		r.Post("/nodes/bulk-delete", s.handleBulkDelete)
		r.Delete("/nodes/{id}", s.handleRemoveNode)
		r.Get("/nodes/{id}/insight", s.handleInsight)
		r.Post("/nodes/{id}/subtree", s.handleAddSubtree)
		r.Get("/suggestions", s.handleSuggestions)
		r.Post("/settings", s.handleUpdateSettings)
		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)
		r.Get("/render", s.handleRender)
	})

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: s.cfg.Server.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		s.cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
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
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// persist saves the current network. Called with the mutex held, after a
// successful mutation and before the response is written.
func (s *Server) persist(ctx context.Context) error {
	data, err := s.net.Snapshot().Encode()
	if err != nil {
		return err
	}
	if err := s.st.Save(ctx, data); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "persist network")
	}
	return nil
}
