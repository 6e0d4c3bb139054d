// Package enrich resolves each slide's visual intent into a concrete asset:
// a stock photo from the image-search oracle, or a diagram rendered in an
// isolated context. Slides are independent; a failure is absorbed by its own
// slide and never aborts the job.
package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"

	"deckgen/internal/domain"
	"deckgen/internal/infra"
	"deckgen/internal/oracle"
)

// Options configures an Enricher.
type Options struct {
	Images   oracle.ImageSearcher
	Diagrams oracle.DiagramRenderer
	Retry    oracle.RetryPolicy
	Workers  int
	Logger   infra.Logger
}

// Enricher runs per-slide lookups with bounded concurrency, reassembling
// results by SlideSpec.Index so output order never depends on which external
// call finished first.
type Enricher struct {
	images   oracle.ImageSearcher
	diagrams oracle.DiagramRenderer
	retry    oracle.RetryPolicy
	workers  int
	logger   infra.Logger
}

// New constructs an Enricher. A worker bound below one is raised to one.
func New(opts Options) *Enricher {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Enricher{
		images:   opts.Images,
		diagrams: opts.Diagrams,
		retry:    opts.Retry,
		workers:  workers,
		logger:   opts.Logger,
	}
}

// Enrich resolves visuals for every slide in place. Each goroutine owns
// exactly one slide element, keyed by index, so no reordering step is needed.
// The only error Enrich returns is context cancellation; per-slide failures
// downgrade the slide to no visual.
func (e *Enricher) Enrich(ctx context.Context, slides []domain.SlideSpec) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range slides {
		slide := &slides[i]
		if slide.Intent == domain.VisualNone {
			continue
		}
		g.Go(func() error {
			// Cancellation is observed before each per-slide call.
			if err := ctx.Err(); err != nil {
				return err
			}
			e.resolve(ctx, slide)
			return nil
		})
	}

	return g.Wait()
}

// resolve performs one slide's lookup. Failures are logged and absorbed; the
// slide proceeds with no visual.
func (e *Enricher) resolve(ctx context.Context, slide *domain.SlideSpec) {
	switch slide.Intent {
	case domain.VisualPhoto:
		ref, err := e.searchImage(ctx, slide)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			e.logger.Warn().
				Err(err).
				Int("slide", slide.Index).
				Str("query", slide.ImageQuery).
				Msg("enrich: image lookup failed, slide proceeds without visual")
			slide.Intent = domain.VisualNone
			return
		}
		if ref == nil {
			e.logger.Warn().
				Int("slide", slide.Index).
				Str("query", slide.ImageQuery).
				Msg("enrich: no acceptable image found, slide proceeds without visual")
			slide.Intent = domain.VisualNone
			return
		}
		slide.Image = ref

	case domain.VisualDiagram:
		data, err := e.renderDiagram(ctx, slide)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			e.logger.Warn().
				Err(err).
				Int("slide", slide.Index).
				Msg("enrich: diagram render failed, slide proceeds without visual")
			slide.Intent = domain.VisualNone
			return
		}
		slide.Diagram = &domain.DiagramRef{Source: slide.DiagramSource, Data: data}
	}
}

// searchImage tries the planner's query first, then a query derived from the
// slide's own text when the first finds nothing acceptable.
func (e *Enricher) searchImage(ctx context.Context, slide *domain.SlideSpec) (*domain.ImageRef, error) {
	for _, query := range Queries(slide) {
		var ref *domain.ImageRef
		err := e.retry.Do(ctx, func(ctx context.Context) error {
			var callErr error
			ref, callErr = e.images.Search(ctx, query)
			return callErr
		})
		if err != nil {
			return nil, err
		}
		if ref != nil {
			return ref, nil
		}
	}
	return nil, nil
}

func (e *Enricher) renderDiagram(ctx context.Context, slide *domain.SlideSpec) ([]byte, error) {
	var data []byte
	err := e.retry.Do(ctx, func(ctx context.Context) error {
		var callErr error
		data, callErr = e.diagrams.Render(ctx, slide.DiagramSource)
		return callErr
	})
	return data, err
}
