package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Download streams a completed job's artifact. Jobs that are not completed
// have no artifact and report not found.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	path, filename, err := a.Orchestrator.ArtifactPath(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", pptxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}

// Preview returns the planned slide content as JSON, without asset bytes.
// Available from the moment planning succeeds.
func (a *App) Preview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	slides, err := a.Orchestrator.Preview(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"job_id": id, "slides": slides})
}
