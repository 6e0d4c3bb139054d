package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"deckgen/internal/domain"
)

// GenerateReq is the submission payload. Exactly one of topic and
// document_path must be set; document_path is the key returned by Upload.
// Flowcharts accepts shorthand diagrams ("A->B;B->C") or full Mermaid source,
// each becoming a dedicated slide after the generated outline.
type GenerateReq struct {
	Topic        string   `json:"topic"`
	DocumentPath string   `json:"document_path"`
	SlideCount   int      `json:"slide_count"`
	Theme        string   `json:"theme"`
	TextSize     string   `json:"text_size"`
	Tone         string   `json:"tone"`
	Audience     string   `json:"audience"`
	Filename     string   `json:"filename"`
	Flowcharts   []string `json:"flowcharts"`
}

// Generate accepts a submission and returns the job id immediately. Progress
// is observed through Status.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, fmt.Errorf("%w: malformed request body", domain.ErrValidation))
		return
	}

	input := domain.Input{Topic: req.Topic, Flowcharts: req.Flowcharts}
	if req.DocumentPath != "" {
		path, err := a.Store.Path(req.DocumentPath)
		if err != nil {
			a.fail(w, fmt.Errorf("%w: invalid document path", domain.ErrValidation))
			return
		}
		input.DocumentPath = path
	}

	params := domain.Params{
		SlideCount: req.SlideCount,
		Theme:      domain.Theme(req.Theme),
		TextSize:   domain.TextSize(req.TextSize),
		Tone:       domain.Tone(req.Tone),
		Audience:   domain.Audience(req.Audience),
		Filename:   req.Filename,
	}

	id, err := a.Orchestrator.Submit(input, params)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusAccepted, map[string]string{"job_id": id})
}

// Status returns the non-blocking snapshot of a job.
func (a *App) Status(w http.ResponseWriter, r *http.Request) {
	snap, err := a.Orchestrator.Poll(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, snap)
}

// Cancel requests cooperative cancellation of a running job.
func (a *App) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Orchestrator.Cancel(id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"job_id": id, "status": "cancellation requested"})
}

// Jobs lists every known job, newest first.
func (a *App) Jobs(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"jobs": a.Orchestrator.Jobs()})
}
