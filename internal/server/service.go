package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docfusion/internal/common"
	"docfusion/internal/pipeline"
	"docfusion/internal/repository"
)

// Server exposes the extraction pipeline over HTTP.
type Server struct {
	cfg    common.ServerConfig
	proc   *pipeline.Processor
	store  *repository.JobStore
	logger *slog.Logger
}

func New(cfg common.ServerConfig, proc *pipeline.Processor, store *repository.JobStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, proc: proc, store: store, logger: logger}
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/ocr", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/status", s.handleStatus)
		r.Get("/jobs", s.handleJobs)
	})
	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("server.write_json.failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
