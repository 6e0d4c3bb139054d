package planner

import (
	"strings"
	"testing"

	"deckgen/internal/domain"
)

func TestValidateMermaid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"placeholder omit", "omit", ""},
		{"placeholder buried", "flowchart TD\n    A --> none", ""},
		{"valid flowchart", "flowchart TD\n    A[Start] --> B[End]", "flowchart TD\nA[Start] --> B[End]"},
		{"valid graph", "graph LR\n    A --> B", "graph LR\nA --> B"},
		{"prose rejected", "This slide should show a process diagram", ""},
		{"bare edge promoted", "Input -> Process", "flowchart TD\n    Input -> Process"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateMermaid(tc.in); got != tc.want {
				t.Fatalf("ValidateMermaid(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSimpleToMermaid(t *testing.T) {
	got := SimpleToMermaid("Start -> Review -> End")
	if !strings.HasPrefix(got, "flowchart TD") {
		t.Fatalf("missing header: %q", got)
	}
	for _, want := range []string{"Start([Start])", "End([End])", "Review[Review]", "Start --> Review", "Review --> End"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestSimpleToMermaidPassthrough(t *testing.T) {
	src := "pie\n    \"A\" : 40\n    \"B\" : 60"
	if got := SimpleToMermaid(src); got != src {
		t.Fatalf("existing diagram modified: %q", got)
	}
}

func TestSimpleToMermaidNoEdges(t *testing.T) {
	if got := SimpleToMermaid("just words, no arrows"); got != "" {
		t.Fatalf("SimpleToMermaid = %q, want empty", got)
	}
}

func TestSimpleToMermaidDecisionNode(t *testing.T) {
	got := SimpleToMermaid("Start -> Approval Decision -> End")
	if !strings.Contains(got, "{Approval Decision}") {
		t.Fatalf("decision node not braced:\n%s", got)
	}
}

func TestSimpleToMermaidQuestionMarkIsDecision(t *testing.T) {
	// The question mark is stripped from the label but still selects the
	// decision shape.
	got := SimpleToMermaid("Start -> Is valid? -> End")
	if !strings.Contains(got, "Is_valid{Is valid}") {
		t.Fatalf("question node not braced:\n%s", got)
	}
}

func TestManualDiagramSlides(t *testing.T) {
	slides := ManualDiagramSlides([]string{
		"Intake -> Review -> Approve",
		"no arrows here",
		"Submit -> Done",
	}, 5)

	if len(slides) != 2 {
		t.Fatalf("slides = %d, want 2 (unusable description skipped)", len(slides))
	}
	if slides[0].Index != 5 || slides[1].Index != 6 {
		t.Errorf("indexes = %d, %d, want 5, 6", slides[0].Index, slides[1].Index)
	}
	if slides[0].Title != "Process Flow 1" || slides[1].Title != "Process Flow 2" {
		t.Errorf("titles = %q, %q", slides[0].Title, slides[1].Title)
	}
	for _, slide := range slides {
		if slide.Intent != domain.VisualDiagram {
			t.Errorf("slide %d intent = %q, want diagram", slide.Index, slide.Intent)
		}
		if !strings.HasPrefix(slide.DiagramSource, "flowchart TD") {
			t.Errorf("slide %d source = %q", slide.Index, slide.DiagramSource)
		}
	}
}

func TestManualDiagramSlidesSingleTitle(t *testing.T) {
	slides := ManualDiagramSlides([]string{"Intake -> Review"}, 3)
	if len(slides) != 1 || slides[0].Title != "Process Flow" {
		t.Fatalf("slides = %+v, want one untitled-suffix slide", slides)
	}
}
