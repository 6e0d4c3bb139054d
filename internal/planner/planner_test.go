package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"deckgen/internal/domain"
	"deckgen/internal/oracle"
)

// scriptedOracle returns canned responses in order, recording the prompts it
// saw.
type scriptedOracle struct {
	responses []string
	errs      []error
	prompts   []string
	calls     int
}

func (s *scriptedOracle) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", nil
}

func validOutline(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "Slide %d: Topic Section %d\n- A bullet with enough substance to keep\n\n", i, i)
	}
	return b.String()
}

func newTestPlanner(o oracle.TextGenerator, repairs int) *Planner {
	return New(Options{
		Oracle:         o,
		Retry:          oracle.RetryPolicy{MaxAttempts: 1},
		MinSlides:      3,
		MaxSlides:      20,
		RepairAttempts: repairs,
		Logger:         zerolog.Nop(),
	})
}

func TestPlanAcceptsValidOutline(t *testing.T) {
	o := &scriptedOracle{responses: []string{validOutline(5)}}
	p := newTestPlanner(o, 2)

	outline, err := p.Plan(context.Background(), Request{Topic: "anything", Params: domain.Params{SlideCount: 5}})
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	if len(outline.Slides) != 5 {
		t.Fatalf("slides = %d, want 5", len(outline.Slides))
	}
	if o.calls != 1 {
		t.Fatalf("oracle calls = %d, want 1", o.calls)
	}
}

func TestPlanRepairsMalformedResponse(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		"Sure! Here is a fascinating essay instead of an outline.",
		validOutline(4),
	}}
	p := newTestPlanner(o, 2)

	outline, err := p.Plan(context.Background(), Request{Topic: "anything", Params: domain.Params{SlideCount: 4}})
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	if len(outline.Slides) != 4 {
		t.Fatalf("slides = %d, want 4", len(outline.Slides))
	}
	if o.calls != 2 {
		t.Fatalf("oracle calls = %d, want 2 (original + one repair)", o.calls)
	}
	if !strings.Contains(o.prompts[1], "no slides could be parsed") {
		t.Errorf("repair prompt does not name the violation:\n%s", o.prompts[1])
	}
}

func TestPlanExhaustsRepairBudget(t *testing.T) {
	o := &scriptedOracle{responses: []string{"nope", "still nope", "nope again"}}
	p := newTestPlanner(o, 2)

	_, err := p.Plan(context.Background(), Request{Topic: "anything", Params: domain.Params{SlideCount: 4}})
	if err == nil {
		t.Fatal("Plan() = nil, want contract error")
	}
	if !errors.Is(err, domain.ErrOracleContract) {
		t.Fatalf("Plan() = %v, want ErrOracleContract", err)
	}
	if o.calls != 3 {
		t.Fatalf("oracle calls = %d, want 3 (original + 2 repairs)", o.calls)
	}
}

func TestPlanPropagatesTransientAfterRetries(t *testing.T) {
	transient := fmt.Errorf("%w: dial tcp: timeout", domain.ErrTransientOracle)
	o := &scriptedOracle{errs: []error{transient}}
	p := newTestPlanner(o, 2)

	_, err := p.Plan(context.Background(), Request{Topic: "anything"})
	if !errors.Is(err, domain.ErrTransientOracle) {
		t.Fatalf("Plan() = %v, want ErrTransientOracle", err)
	}
	if o.calls != 1 {
		t.Fatalf("oracle calls = %d, want 1 (repair loop must not retry transport errors)", o.calls)
	}
}

func TestPlanTruncatesOverlongOutline(t *testing.T) {
	o := &scriptedOracle{responses: []string{validOutline(25)}}
	p := newTestPlanner(o, 0)

	outline, err := p.Plan(context.Background(), Request{Topic: "anything", Params: domain.Params{SlideCount: 20}})
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	if len(outline.Slides) != 20 {
		t.Fatalf("slides = %d, want truncation to 20", len(outline.Slides))
	}
}

func TestPlanRejectsEmptyTitle(t *testing.T) {
	raw := "Slide 1: \n- A fine bullet with plenty of words\n\n" + validOutline(3)
	// The first header has an empty title; validation must catch it.
	o := &scriptedOracle{responses: []string{raw}}
	p := newTestPlanner(o, 0)

	_, err := p.Plan(context.Background(), Request{Topic: "anything", Params: domain.Params{SlideCount: 4}})
	if !errors.Is(err, domain.ErrOracleContract) {
		t.Fatalf("Plan() = %v, want ErrOracleContract for empty title", err)
	}
}

func TestSlideCount(t *testing.T) {
	p := newTestPlanner(&scriptedOracle{}, 0)

	if got := p.SlideCount(Request{Params: domain.Params{SlideCount: 7}}); got != 7 {
		t.Errorf("explicit count = %d, want 7", got)
	}
	if got := p.SlideCount(Request{Params: domain.Params{SlideCount: 99}}); got != 20 {
		t.Errorf("overlarge count = %d, want clamp to 20", got)
	}
	if got := p.SlideCount(Request{Topic: "short topic"}); got != 3 {
		t.Errorf("tiny input count = %d, want minimum 3", got)
	}

	words := strings.Repeat("word ", 600)
	if got := p.SlideCount(Request{Document: words}); got != 10 {
		t.Errorf("600-word document count = %d, want 10", got)
	}
}

func TestPromptCarriesParameters(t *testing.T) {
	o := &scriptedOracle{responses: []string{validOutline(3)}}
	p := newTestPlanner(o, 0)

	req := Request{
		Topic: "ocean currents",
		Params: domain.Params{
			SlideCount: 3,
			Tone:       domain.ToneAcademic,
			Audience:   domain.AudienceStudents,
		},
	}
	if _, err := p.Plan(context.Background(), req); err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	prompt := o.prompts[0]
	for _, want := range []string{"ocean currents", "academic", "students"} {
		if !strings.Contains(strings.ToLower(prompt), want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
