// Package handlers implements the HTTP API surface. Handlers are thin: they
// decode, delegate to the orchestrator, and encode. No pipeline logic lives
// here.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"deckgen/internal/adapter/repo"
	"deckgen/internal/domain"
	"deckgen/internal/infra"
	"deckgen/internal/orchestrator"
	"deckgen/internal/storage"
)

// App carries handler dependencies.
type App struct {
	Orchestrator *orchestrator.Orchestrator
	Store        *storage.FileStore
	Archive      *repo.JobRepositoryPG
	Logger       infra.Logger
	MinSlides    int
	MaxSlides    int
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps a domain error onto its HTTP status and writes the standard
// error envelope.
func (a *App) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	}
	if code == http.StatusInternalServerError {
		a.Logger.Error().Err(err).Msg("http: internal error")
	}
	a.json(w, code, map[string]string{"error": err.Error()})
}
