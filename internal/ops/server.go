// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

// Package ops serves the operations-only HTTP surface: Prometheus
// metrics, liveness, and read-only scoring introspection. The platform's
// application API lives elsewhere and is out of scope here.
package ops

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/veracite/veracite/internal/models"
	"github.com/veracite/veracite/internal/scoring"
	"github.com/veracite/veracite/internal/storage"
)

// Config holds the listener settings.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server is the ops listener. It implements suture.Service.
type Server struct {
	cfg    Config
	engine *scoring.Engine
	store  *storage.Store
	logger zerolog.Logger
}

// New creates the ops server.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, engine *scoring.Engine, store *storage.Store, logger zerolog.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		cfg:    cfg,
		engine: engine,
		store:  store,
		logger: logger.With().Str("service", "ops").Logger(),
	}
}

// Routes builds the router. Exposed separately for handler tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", s.handleLive)

	r.Route("/api/v1/scoring", func(r chi.Router) {
		r.Get("/health", s.handleScoringHealth)
		r.Get("/notes/{id}/score", s.handleNoteScore)
		r.Get("/top", s.handleTopNotes)
	})

	return r
}

// Serve implements the suture.Service interface.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("ops listener starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("ops listener shutdown failed")
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// String returns the service name for logging.
func (s *Server) String() string {
	return "ops-server"
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScoringHealth(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.Health(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleNoteScore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := s.store.GetNote(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	result, err := s.engine.ScoreNote(r.Context(), note)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTopNotes(w http.ResponseWriter, r *http.Request) {
	req := scoring.RankRequest{Limit: 10}

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > 1000 {
			s.writeError(w, http.StatusBadRequest, errors.New("limit must be an integer in [1, 1000]"))
			return
		}
		req.Limit = limit
	}
	if v := q.Get("min_confidence"); v != "" {
		conf, ok := scoring.ParseConfidence(v)
		if !ok {
			s.writeError(w, http.StatusBadRequest, errors.New("unknown min_confidence"))
			return
		}
		req.MinConfidence = &conf
	}
	if v := q.Get("tier"); v != "" {
		tier, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, errors.New("tier must be an integer level"))
			return
		}
		req.TierFilter = &tier
	}

	result, err := s.engine.TopNotes(r.Context(), noteSource{s.store}, req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// noteSource adapts the store to the ranker's candidate source.
type noteSource struct {
	store *storage.Store
}

func (n noteSource) FetchNotes(ctx context.Context, offset, limit int) ([]*models.NoteRecord, error) {
	return n.store.FetchNotes(ctx, offset, limit)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
