package oracle

import (
	"context"

	"golang.org/x/sync/semaphore"

	"deckgen/internal/domain"
)

// TextGenerator is the generative text oracle. Implementations may time out
// or return malformed structure; callers own validation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageSearcher resolves a query into a downloaded stock photo satisfying the
// configured minimum size constraints. A nil ImageRef with nil error means the
// search came back empty.
type ImageSearcher interface {
	Search(ctx context.Context, query string) (*domain.ImageRef, error)
}

// DiagramRenderer turns a textual diagram description into raster bytes using
// an isolated rendering context.
type DiagramRenderer interface {
	Render(ctx context.Context, source string) ([]byte, error)
}

// Throttle bounds concurrent outbound oracle calls process-wide so shared
// provider quotas are respected regardless of how many jobs are in flight.
type Throttle struct {
	sem *semaphore.Weighted
}

// NewThrottle creates a throttle admitting at most n concurrent calls.
func NewThrottle(n int) *Throttle {
	if n < 1 {
		n = 1
	}
	return &Throttle{sem: semaphore.NewWeighted(int64(n))}
}

// Acquire blocks until a slot is free or the context is done.
func (t *Throttle) Acquire(ctx context.Context) error {
	if t == nil {
		return ctx.Err()
	}
	return t.sem.Acquire(ctx, 1)
}

// Release returns a slot.
func (t *Throttle) Release() {
	if t != nil {
		t.sem.Release(1)
	}
}
