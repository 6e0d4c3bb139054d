package planner

import (
	"strings"
	"testing"

	"deckgen/internal/domain"
)

const sampleOutline = `Slide 1: Renewable Energy Overview
- Solar and wind now dominate new capacity worldwide
- Costs have fallen over 80 percent in a decade
notes: Open with the cost curve story.
image_query: solar panels wind turbines field

Slide 2: How Grid Storage Works
- Batteries absorb excess generation during peak sun
- Stored power is dispatched during evening demand
flowchart_description: flowchart TD
    A[Generation] --> B[Battery]
    B --> C[Grid]

Slide 3: Key Takeaways
- The transition is driven by economics, not mandates
notes: omit
image_query: none
`

func TestParseOutline(t *testing.T) {
	slides := parseOutline(sampleOutline)
	if len(slides) != 3 {
		t.Fatalf("parsed %d slides, want 3", len(slides))
	}

	first := slides[0]
	if first.Title != "Renewable Energy Overview" {
		t.Errorf("slide 1 title = %q", first.Title)
	}
	if len(first.Bullets) != 2 {
		t.Fatalf("slide 1 bullets = %d, want 2", len(first.Bullets))
	}
	if first.Notes != "Open with the cost curve story." {
		t.Errorf("slide 1 notes = %q", first.Notes)
	}
	if first.Intent != domain.VisualPhoto {
		t.Errorf("slide 1 intent = %q, want photo", first.Intent)
	}
	if first.ImageQuery != "solar panels wind turbines field" {
		t.Errorf("slide 1 image query = %q", first.ImageQuery)
	}

	second := slides[1]
	if second.Intent != domain.VisualDiagram {
		t.Errorf("slide 2 intent = %q, want diagram", second.Intent)
	}
	if !strings.HasPrefix(second.DiagramSource, "flowchart TD") {
		t.Errorf("slide 2 diagram source = %q", second.DiagramSource)
	}
	if !strings.Contains(second.DiagramSource, "B --> C[Grid]") {
		t.Errorf("multi-line flowchart not captured: %q", second.DiagramSource)
	}

	third := slides[2]
	if third.Intent != domain.VisualNone {
		t.Errorf("slide 3 intent = %q, want none (omitted markers)", third.Intent)
	}
	if third.Notes != "" {
		t.Errorf("slide 3 notes = %q, want empty", third.Notes)
	}

	for i, slide := range slides {
		if slide.Index != i {
			t.Errorf("slide %d has index %d", i, slide.Index)
		}
	}
}

func TestParseOutlineStripsCodeFence(t *testing.T) {
	fenced := "```text\nSlide 1: Only Slide\n- A bullet long enough to keep\n```"
	slides := parseOutline(fenced)
	if len(slides) != 1 {
		t.Fatalf("parsed %d slides, want 1", len(slides))
	}
	if slides[0].Title != "Only Slide" {
		t.Errorf("title = %q", slides[0].Title)
	}
}

func TestParseOutlineNoHeaders(t *testing.T) {
	if slides := parseOutline("I'm sorry, I cannot help with that."); slides != nil {
		t.Fatalf("parsed %d slides from refusal text, want none", len(slides))
	}
}

func TestParseOutlineDiagramWinsOverPhoto(t *testing.T) {
	raw := `Slide 1: Both Markers
- Something descriptive here
image_query: data center racks
flowchart_description: flowchart TD
    A[In] --> B[Out]
`
	slides := parseOutline(raw)
	if len(slides) != 1 {
		t.Fatalf("parsed %d slides, want 1", len(slides))
	}
	if slides[0].Intent != domain.VisualDiagram {
		t.Fatalf("intent = %q, want diagram to win over photo", slides[0].Intent)
	}
	if slides[0].ImageQuery == "" {
		t.Error("image query should still be retained for fallback")
	}
}

func TestParseOutlineDropsShortLines(t *testing.T) {
	raw := "Slide 1: Title Here\n- ok\n- a bullet that is long enough\n"
	slides := parseOutline(raw)
	if len(slides[0].Bullets) != 1 {
		t.Fatalf("bullets = %v, want only the long one", slides[0].Bullets)
	}
}
