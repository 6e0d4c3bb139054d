package handlers

import (
	"net/http"

	"deckgen/internal/domain"
	"deckgen/internal/ingest"
)

// Config exposes the closed parameter domains so clients can render pickers
// without hardcoding the enumerations.
func (a *App) Config(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"themes":         domain.Themes(),
		"text_sizes":     domain.TextSizes(),
		"tones":          domain.Tones(),
		"audiences":      domain.Audiences(),
		"min_slides":     a.MinSlides,
		"max_slides":     a.MaxSlides,
		"document_types": ingest.SupportedExtensions(),
	})
}

// Health is the liveness probe.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// History lists archived terminal jobs when an archive is configured.
func (a *App) History(w http.ResponseWriter, r *http.Request) {
	if a.Archive == nil {
		a.json(w, http.StatusOK, map[string]any{"jobs": []any{}})
		return
	}
	jobs, err := a.Archive.ListRecent(r.Context(), 50)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"jobs": jobs})
}
