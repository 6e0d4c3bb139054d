// Package orchestrator owns the job lifecycle: it accepts submissions,
// drives each job through the pipeline stages on its own goroutine, and
// answers non-blocking polls. All job state mutation happens here.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"deckgen/internal/assemble"
	"deckgen/internal/domain"
	"deckgen/internal/infra"
	"deckgen/internal/ingest"
	"deckgen/internal/planner"
	"deckgen/internal/storage"
)

// Planner produces an outline for a job.
type Planner interface {
	Plan(ctx context.Context, req planner.Request) (*domain.Outline, error)
}

// Enricher resolves slide visuals in place.
type Enricher interface {
	Enrich(ctx context.Context, slides []domain.SlideSpec) error
}

// JobArchive records terminal jobs for later inspection. Archival is best
// effort: a failure is logged, never propagated into the job.
type JobArchive interface {
	SaveTerminal(ctx context.Context, job domain.Job) error
}

// IngestFunc extracts plain text from an uploaded document.
type IngestFunc func(path string) (string, error)

// AssembleFunc serializes a deck into artifact bytes.
type AssembleFunc func(slides []domain.SlideSpec, params domain.Params) ([]byte, error)

// Options configures an Orchestrator.
type Options struct {
	Planner   Planner
	Enricher  Enricher
	Store     *storage.FileStore
	Archive   JobArchive
	Logger    infra.Logger
	MinSlides int
	MaxSlides int

	// Ingest and Assemble default to the production implementations; tests
	// substitute fakes.
	Ingest   IngestFunc
	Assemble AssembleFunc
}

// handle pairs a job record with its cancellation control and a private copy
// of the planned outline, kept for content previews.
type handle struct {
	job    domain.Job
	slides []domain.SlideSpec
	cancel context.CancelFunc
	done   chan struct{}
}

// Orchestrator is safe for concurrent use. Jobs run on their own goroutines
// rooted in the orchestrator's base context, so an HTTP request finishing
// never cancels the work it submitted.
type Orchestrator struct {
	planner   Planner
	enricher  Enricher
	store     *storage.FileStore
	archive   JobArchive
	logger    infra.Logger
	ingest    IngestFunc
	assemble  AssembleFunc
	minSlides int
	maxSlides int

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup

	mu   sync.RWMutex
	jobs map[string]*handle
}

// New constructs an Orchestrator ready to accept submissions.
func New(opts Options) *Orchestrator {
	ingestFn := opts.Ingest
	if ingestFn == nil {
		ingestFn = ingest.ExtractFile
	}
	assembleFn := opts.Assemble
	if assembleFn == nil {
		assembleFn = assemble.Build
	}
	minSlides := opts.MinSlides
	if minSlides < 1 {
		minSlides = 3
	}
	maxSlides := opts.MaxSlides
	if maxSlides < minSlides {
		maxSlides = 20
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		planner:    opts.Planner,
		enricher:   opts.Enricher,
		store:      opts.Store,
		archive:    opts.Archive,
		logger:     opts.Logger,
		ingest:     ingestFn,
		assemble:   assembleFn,
		minSlides:  minSlides,
		maxSlides:  maxSlides,
		baseCtx:    ctx,
		baseCancel: cancel,
		jobs:       make(map[string]*handle),
	}
}

// Submit validates the request, registers a queued job and starts its
// pipeline goroutine. Validation failures wrap domain.ErrValidation and no
// job is created for them.
func (o *Orchestrator) Submit(input domain.Input, params domain.Params) (string, error) {
	if input.Topic == "" && input.DocumentPath == "" {
		return "", fmt.Errorf("%w: a topic or a document is required", domain.ErrValidation)
	}
	if input.Topic != "" && input.DocumentPath != "" {
		return "", fmt.Errorf("%w: topic and document are mutually exclusive", domain.ErrValidation)
	}
	if err := params.Normalize(o.minSlides, o.maxSlides); err != nil {
		return "", err
	}
	if err := o.baseCtx.Err(); err != nil {
		return "", fmt.Errorf("orchestrator shutting down: %w", err)
	}

	id := uuid.NewString()
	jobCtx, cancel := context.WithCancel(o.baseCtx)
	h := &handle{
		job: domain.Job{
			ID:        id,
			State:     domain.JobStateQueued,
			Input:     input,
			Params:    params,
			CreatedAt: time.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	o.mu.Lock()
	o.jobs[id] = h
	o.mu.Unlock()

	o.wg.Add(1)
	go o.run(jobCtx, h)

	o.logger.Info().Str("job_id", id).Str("topic", input.Topic).Msg("orchestrator: job submitted")
	return id, nil
}

// Poll returns a point-in-time snapshot. It never blocks on pipeline work.
func (o *Orchestrator) Poll(id string) (domain.Snapshot, error) {
	o.mu.RLock()
	h, ok := o.jobs[id]
	if !ok {
		o.mu.RUnlock()
		return domain.Snapshot{}, fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}
	snap := snapshotOf(h.job)
	o.mu.RUnlock()
	return snap, nil
}

// Cancel requests cooperative cancellation. Cancelling a terminal or unknown
// job is reported so callers can distinguish the cases; cancelling a running
// job twice is harmless.
func (o *Orchestrator) Cancel(id string) error {
	o.mu.RLock()
	h, ok := o.jobs[id]
	var terminal bool
	if ok {
		terminal = h.job.State.Terminal()
	}
	o.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: job %s", domain.ErrNotFound, id)
	}
	if terminal {
		return nil
	}
	h.cancel()
	o.logger.Info().Str("job_id", id).Msg("orchestrator: cancellation requested")
	return nil
}

// SlidePreview is the lightweight per-slide view served to pollers wanting
// content before downloading. Asset bytes are deliberately excluded.
type SlidePreview struct {
	Index     int      `json:"index"`
	Title     string   `json:"title"`
	Bullets   []string `json:"bullets,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Visual    string   `json:"visual"`
	HasAsset  bool     `json:"has_asset"`
	ImageFrom string   `json:"image_credit,omitempty"`
}

// Preview returns the planned outline for a job. It becomes available once
// planning succeeds; before that, or for unknown jobs, ErrNotFound.
func (o *Orchestrator) Preview(id string) ([]SlidePreview, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	h, ok := o.jobs[id]
	if !ok || len(h.slides) == 0 {
		return nil, fmt.Errorf("%w: no outline for job %s", domain.ErrNotFound, id)
	}
	previews := make([]SlidePreview, len(h.slides))
	for i, slide := range h.slides {
		preview := SlidePreview{
			Index:    slide.Index,
			Title:    slide.Title,
			Bullets:  slide.Bullets,
			Notes:    slide.Notes,
			Visual:   string(slide.Intent),
			HasAsset: slide.HasVisual(),
		}
		if slide.Image != nil {
			preview.ImageFrom = slide.Image.Photographer
		}
		previews[i] = preview
	}
	return previews, nil
}

// Jobs lists snapshots of every known job, newest first.
func (o *Orchestrator) Jobs() []domain.Snapshot {
	o.mu.RLock()
	snaps := make([]domain.Snapshot, 0, len(o.jobs))
	for _, h := range o.jobs {
		snaps = append(snaps, snapshotOf(h.job))
	}
	o.mu.RUnlock()

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	return snaps
}

// Shutdown cancels every running job and waits for their goroutines, bounded
// by ctx.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.baseCancel()
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run drives one job through the pipeline. Every stage observes ctx; a
// cancellation seen at a stage boundary terminates the job as cancelled and
// discards any partial artifact.
func (o *Orchestrator) run(ctx context.Context, h *handle) {
	defer o.wg.Done()
	defer close(h.done)
	defer h.cancel()

	id := h.job.ID

	// Ingest
	o.setState(h, domain.JobStateIngesting)
	document := ""
	if path := h.job.Input.DocumentPath; path != "" {
		text, err := o.ingest(path)
		if err != nil {
			o.finishError(ctx, h, fmt.Errorf("ingest: %w", err))
			return
		}
		if text == "" {
			o.finishError(ctx, h, fmt.Errorf("%w: document contains no extractable text", domain.ErrValidation))
			return
		}
		document = text
	}
	if o.cancelledAt(ctx, h) {
		return
	}

	// Plan
	o.setState(h, domain.JobStatePlanning)
	outline, err := o.planner.Plan(ctx, planner.Request{
		Topic:    h.job.Input.Topic,
		Document: document,
		Params:   h.job.Params,
	})
	if err != nil {
		o.finishError(ctx, h, err)
		return
	}
	if extra := planner.ManualDiagramSlides(h.job.Input.Flowcharts, len(outline.Slides)); len(extra) > 0 {
		outline.Slides = append(outline.Slides, extra...)
	}
	o.mu.Lock()
	h.job.SlideCount = len(outline.Slides)
	h.slides = clonePreviewSlides(outline.Slides)
	o.mu.Unlock()
	if o.cancelledAt(ctx, h) {
		return
	}

	// Enrich
	o.setState(h, domain.JobStateEnriching)
	if err := o.enricher.Enrich(ctx, outline.Slides); err != nil {
		o.finishError(ctx, h, err)
		return
	}
	o.mu.Lock()
	h.slides = clonePreviewSlides(outline.Slides)
	o.mu.Unlock()
	if o.cancelledAt(ctx, h) {
		return
	}

	// Render and persist
	o.setState(h, domain.JobStateRendering)
	artifact, err := o.assemble(outline.Slides, h.job.Params)
	if err != nil {
		o.finishError(ctx, h, err)
		return
	}
	key := fmt.Sprintf("jobs/%s/%s.pptx", id, h.job.Params.Filename)
	storedKey, err := o.store.Write(ctx, key, artifact)
	if err != nil {
		o.finishError(ctx, h, fmt.Errorf("persist artifact: %w", err))
		return
	}
	if ctx.Err() != nil {
		// Cancelled during the final write: the artifact must not outlive
		// the job.
		o.discardArtifact(storedKey)
		o.finishCancelled(h)
		return
	}

	o.mu.Lock()
	h.endCurrentStage()
	h.job.State = domain.JobStateCompleted
	h.job.ArtifactPath = storedKey
	job := h.job
	o.mu.Unlock()

	o.logger.Info().
		Str("job_id", id).
		Int("slides", job.SlideCount).
		Str("artifact", storedKey).
		Msg("orchestrator: job completed")
	o.archiveTerminal(job)
}

// clonePreviewSlides copies the outline for the preview surface. Enrichment
// mutates the pipeline's own slice off-lock, so Preview must never alias it;
// the copy is refreshed once enrichment has finished.
func clonePreviewSlides(slides []domain.SlideSpec) []domain.SlideSpec {
	out := make([]domain.SlideSpec, len(slides))
	copy(out, slides)
	for i := range out {
		out[i].Bullets = append([]string(nil), slides[i].Bullets...)
	}
	return out
}

// cancelledAt checks for cancellation at a stage boundary and finalizes the
// job if it was requested.
func (o *Orchestrator) cancelledAt(ctx context.Context, h *handle) bool {
	if ctx.Err() == nil {
		return false
	}
	o.finishCancelled(h)
	return true
}

func (o *Orchestrator) setState(h *handle, state domain.JobState) {
	o.mu.Lock()
	h.endCurrentStage()
	h.job.State = state
	h.job.Timings = append(h.job.Timings, domain.StageTiming{State: state, StartedAt: time.Now()})
	o.mu.Unlock()
}

// endCurrentStage stamps the end time of the most recent timing. Callers hold
// the orchestrator lock.
func (h *handle) endCurrentStage() {
	if n := len(h.job.Timings); n > 0 && h.job.Timings[n-1].EndedAt.IsZero() {
		h.job.Timings[n-1].EndedAt = time.Now()
	}
}

// finishError marks the job failed, unless the underlying cause was the job's
// own cancellation, which takes precedence over any error it produced.
func (o *Orchestrator) finishError(ctx context.Context, h *handle, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		o.finishCancelled(h)
		return
	}
	kind := domain.ClassifyError(err)

	o.mu.Lock()
	h.endCurrentStage()
	h.job.State = domain.JobStateFailed
	h.job.Error = &domain.CapturedError{Kind: kind, Message: err.Error()}
	job := h.job
	o.mu.Unlock()

	o.logger.Error().
		Err(err).
		Str("job_id", job.ID).
		Str("kind", string(kind)).
		Msg("orchestrator: job failed")
	o.archiveTerminal(job)
}

func (o *Orchestrator) finishCancelled(h *handle) {
	o.mu.Lock()
	if h.job.State.Terminal() {
		o.mu.Unlock()
		return
	}
	h.endCurrentStage()
	h.job.State = domain.JobStateCancelled
	h.job.Error = &domain.CapturedError{Kind: domain.ErrKindCancelled, Message: "cancelled by request"}
	job := h.job
	o.mu.Unlock()

	o.logger.Info().Str("job_id", job.ID).Msg("orchestrator: job cancelled")
	o.archiveTerminal(job)
}

// discardArtifact removes a partially persisted artifact. Uses a fresh
// context because the job's own context is already cancelled.
func (o *Orchestrator) discardArtifact(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.store.Remove(ctx, key); err != nil {
		o.logger.Warn().Err(err).Str("key", key).Msg("orchestrator: discard partial artifact")
	}
}

func (o *Orchestrator) archiveTerminal(job domain.Job) {
	if o.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := o.archive.SaveTerminal(ctx, job); err != nil {
		o.logger.Warn().Err(err).Str("job_id", job.ID).Msg("orchestrator: archive terminal job")
	}
}

func snapshotOf(job domain.Job) domain.Snapshot {
	return domain.Snapshot{
		JobID:        job.ID,
		State:        job.State,
		Stage:        stageLabel(job.State),
		Percent:      job.State.Percent(),
		SlideCount:   job.SlideCount,
		ArtifactPath: job.ArtifactPath,
		CreatedAt:    job.CreatedAt,
		Error:        job.Error,
	}
}

// stageLabel is the human-readable progress message shown by pollers.
func stageLabel(state domain.JobState) string {
	switch state {
	case domain.JobStateQueued:
		return "Waiting to start"
	case domain.JobStateIngesting:
		return "Reading source material"
	case domain.JobStatePlanning:
		return "Generating outline"
	case domain.JobStateEnriching:
		return "Finding images and diagrams"
	case domain.JobStateRendering:
		return "Building presentation"
	case domain.JobStateCompleted:
		return "Presentation ready"
	case domain.JobStateFailed:
		return "Generation failed"
	case domain.JobStateCancelled:
		return "Cancelled"
	}
	return string(state)
}
