// Package api exposes the rendering pipeline over HTTP. It is a thin
// JSON wrapper: one POST endpoint runs the full pipeline, artifacts
// come back base64-encoded in the response body.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gambitproject/draw-tree/pkg/buildinfo"
	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/pipeline"
)

// maxSourceBytes bounds the request body; game files are tiny and a
// huge body is always a mistake.
const maxSourceBytes = 1 << 20

// Server handles HTTP requests against a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates an API server around an existing runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Heartbeat("/healthz"))

	r.Get("/version", s.handleVersion)
	r.Post("/render", s.handleRender)

	return r
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"version": buildinfo.String()})
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps pipeline errors to HTTP statuses and writes the
// error body. Input problems are the client's fault, layout blowups
// are unprocessable, toolchain failures are upstream errors.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeParse, errors.ErrCodeValidation, errors.ErrCodeConfig, errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeLayout:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeCompile, errors.ErrCodeRaster:
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
