// Package planner turns a topic or ingested document into an ordered outline
// of SlideSpecs by issuing exactly one structured-generation request per job,
// with a bounded repair loop for malformed oracle output.
package planner

import (
	"context"
	"fmt"
	"strings"

	"deckgen/internal/domain"
	"deckgen/internal/infra"
	"deckgen/internal/oracle"
)

// Options configures a Planner.
type Options struct {
	Oracle         oracle.TextGenerator
	Retry          oracle.RetryPolicy
	MinSlides      int
	MaxSlides      int
	RepairAttempts int
	Logger         infra.Logger
}

// Planner asks the generative oracle for an outline and validates the result
// against the slide schema.
type Planner struct {
	oracle         oracle.TextGenerator
	retry          oracle.RetryPolicy
	minSlides      int
	maxSlides      int
	repairAttempts int
	logger         infra.Logger
}

// Request carries the planner inputs for one job.
type Request struct {
	Topic    string
	Document string
	Params   domain.Params
}

// New constructs a Planner, applying defaults for unset bounds.
func New(opts Options) *Planner {
	minSlides := opts.MinSlides
	if minSlides < 1 {
		minSlides = 3
	}
	maxSlides := opts.MaxSlides
	if maxSlides < minSlides {
		maxSlides = 20
	}
	repairs := opts.RepairAttempts
	if repairs < 0 {
		repairs = 0
	}
	return &Planner{
		oracle:         opts.Oracle,
		retry:          opts.Retry,
		minSlides:      minSlides,
		maxSlides:      maxSlides,
		repairAttempts: repairs,
		logger:         opts.Logger,
	}
}

// SlideCount resolves the slide count for the request: an explicit count is
// clamped to the configured bounds, otherwise the count is derived from the
// input length.
func (p *Planner) SlideCount(req Request) int {
	if req.Params.SlideCount > 0 {
		return clamp(req.Params.SlideCount, p.minSlides, p.maxSlides)
	}
	text := req.Document
	if text == "" {
		text = req.Topic
	}
	return SuggestCount(text, p.minSlides, p.maxSlides)
}

// SuggestCount derives a slide count from input length: roughly one slide per
// sixty words, clamped to the bounds. The exact mapping is a tunable policy,
// not a contract.
func SuggestCount(text string, minSlides, maxSlides int) int {
	words := len(strings.Fields(text))
	return clamp(words/60, minSlides, maxSlides)
}

// Plan issues the generation request and parses the response into an Outline.
// Malformed responses trigger up to repairAttempts corrective re-requests;
// exhausting them fails with domain.ErrOracleContract. The returned outline
// always has between minSlides and maxSlides slides, each with a non-empty
// title.
func (p *Planner) Plan(ctx context.Context, req Request) (*domain.Outline, error) {
	count := p.SlideCount(req)
	var prompt string
	if req.Document != "" {
		prompt = buildDocumentPrompt(req.Document, count, req.Params)
	} else {
		prompt = buildTopicPrompt(req.Topic, count, req.Params)
	}

	current := prompt
	var lastViolation string
	for attempt := 0; attempt <= p.repairAttempts; attempt++ {
		raw, err := p.generate(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("outline generation: %w", err)
		}

		slides := parseOutline(raw)
		violation := p.validate(slides, count)
		if violation == "" {
			if len(slides) > p.maxSlides {
				slides = slides[:p.maxSlides]
			}
			p.logger.Info().
				Int("slides", len(slides)).
				Int("requested", count).
				Int("attempt", attempt+1).
				Msg("planner: outline accepted")
			return &domain.Outline{Slides: slides}, nil
		}

		lastViolation = violation
		p.logger.Warn().
			Str("violation", violation).
			Int("attempt", attempt+1).
			Msg("planner: outline rejected, requesting repair")
		current = buildRepairPrompt(prompt, raw, violation)
	}

	return nil, fmt.Errorf("%w: %s after %d repair attempts", domain.ErrOracleContract, lastViolation, p.repairAttempts)
}

// generate wraps the single oracle call with the transient-failure retry
// policy.
func (p *Planner) generate(ctx context.Context, prompt string) (string, error) {
	var raw string
	err := p.retry.Do(ctx, func(ctx context.Context) error {
		var callErr error
		raw, callErr = p.oracle.Generate(ctx, prompt)
		return callErr
	})
	return raw, err
}

// validate checks the parsed slides against the outline schema. It returns a
// human-readable violation for the repair prompt, or "" when acceptable.
func (p *Planner) validate(slides []domain.SlideSpec, requested int) string {
	if len(slides) == 0 {
		return "no slides could be parsed from the response"
	}
	for _, slide := range slides {
		if strings.TrimSpace(slide.Title) == "" {
			return fmt.Sprintf("slide %d has an empty title", slide.Index+1)
		}
	}
	if len(slides) < p.minSlides {
		return fmt.Sprintf("response contains %d slides but %d were requested (minimum %d)", len(slides), requested, p.minSlides)
	}
	return ""
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
