package orchestrator

import (
	"context"
	"time"

	"deckgen/internal/domain"
)

// RunRetention loops until ctx is done, removing artifacts and in-memory job
// records older than age. Generated decks are ephemeral; callers are expected
// to download promptly.
func (o *Orchestrator) RunRetention(ctx context.Context, interval, age time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.sweep(ctx, age)
		}
	}
}

// sweep performs one retention pass.
func (o *Orchestrator) sweep(ctx context.Context, age time.Duration) {
	removed, err := o.store.CleanupOlderThan(ctx, age)
	if err != nil {
		o.logger.Warn().Err(err).Msg("retention: artifact cleanup")
	}

	cutoff := time.Now().Add(-age)
	expired := 0
	o.mu.Lock()
	for id, h := range o.jobs {
		if h.job.State.Terminal() && h.job.CreatedAt.Before(cutoff) {
			delete(o.jobs, id)
			expired++
		}
	}
	o.mu.Unlock()

	if removed > 0 || expired > 0 {
		o.logger.Info().
			Int("artifacts_removed", removed).
			Int("jobs_expired", expired).
			Msg("retention: sweep complete")
	}
}

// ArtifactPath resolves a completed job's artifact to an absolute filesystem
// path for download streaming. Non-completed jobs have no artifact.
func (o *Orchestrator) ArtifactPath(id string) (string, string, error) {
	o.mu.RLock()
	h, ok := o.jobs[id]
	var state domain.JobState
	var key, filename string
	if ok {
		state = h.job.State
		key = h.job.ArtifactPath
		filename = h.job.Params.Filename
	}
	o.mu.RUnlock()

	if !ok || state != domain.JobStateCompleted || key == "" {
		return "", "", domain.ErrNotFound
	}
	path, err := o.store.Path(key)
	if err != nil {
		return "", "", err
	}
	return path, filename + ".pptx", nil
}
