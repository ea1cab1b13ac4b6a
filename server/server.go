// Package server exposes the archived run history over a read-only HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conveyorci/conveyor/logging"
	"github.com/conveyorci/conveyor/pipeline"
	"github.com/conveyorci/conveyor/runstore"
)

// Server serves the run-history API.
type Server struct {
	store *runstore.Store
	log   logging.Logger
}

// New creates a Server over the given run store.
func New(store *runstore.Store, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop{}
	}
	return &Server{store: store, log: log}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)

	return r
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.Info("run-history API listening", map[string]any{"addr": addr})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, _ *http.Request) {
	runs, err := s.store.List()
	if err != nil {
		s.log.Error("listing runs", map[string]any{"error": err.Error()})
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "cannot list runs"})
		return
	}
	if runs == nil {
		runs = []*pipeline.Run{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.store.Load(id)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", map[string]any{"error": err.Error()})
	}
}
