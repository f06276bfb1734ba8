package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"imageeditor/internal/infra"
	"imageeditor/internal/materialize"
	"imageeditor/internal/providers/gemini"
)

// Generator is the external model call the handlers depend on.
// *gemini.Gateway satisfies it.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (*gemini.Result, error)
}

// App carries the dependencies shared by every handler.
type App struct {
	Gateway      Generator
	Results      materialize.Materializer
	Logger       *infra.Logger
	MaxBodyBytes int64
}

func NewApp(gateway Generator, results materialize.Materializer, logger *infra.Logger, maxBodyBytes int64) *App {
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &App{
		Gateway:      gateway,
		Results:      results,
		Logger:       logger,
		MaxBodyBytes: maxBodyBytes,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error answers a client-side problem.
func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, errorResponse{Error: message})
}

// failure answers a downstream problem with the underlying error as details.
func (a *App) failure(w http.ResponseWriter, message string, err error) {
	a.json(w, http.StatusInternalServerError, errorResponse{Error: message, Details: err.Error()})
}

// MethodNotAllowed is installed as the router's 405 handler.
func (a *App) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	a.error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (a *App) limitBody(w http.ResponseWriter, r *http.Request) {
	if a.MaxBodyBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, a.MaxBodyBytes)
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// Health reports liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
