package planner

import (
	"fmt"
	"regexp"
	"strings"

	"deckgen/internal/domain"
)

var mermaidTypes = []string{"flowchart", "graph", "sequencediagram", "gantt", "pie", "gitgraph"}

// ValidateMermaid cleans a candidate Mermaid fragment and returns the usable
// source, or "" when the fragment cannot produce a diagram. Oracles sometimes
// emit placeholder words instead of omitting the field, and sometimes a bare
// edge chain without a diagram header; both are handled here.
func ValidateMermaid(description string) string {
	var lines []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ""
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, word := range []string{"omit", "none", "null", "undefined"} {
			if strings.Contains(lower, word) {
				return ""
			}
		}
	}

	first := strings.ToLower(lines[0])
	for _, t := range mermaidTypes {
		if strings.HasPrefix(first, t) {
			return strings.Join(lines, "\n")
		}
	}

	// A single bare edge chain is promoted to a flowchart.
	if len(lines) == 1 && strings.Contains(lines[0], "->") {
		return "flowchart TD\n    " + lines[0]
	}
	return ""
}

var (
	edgeSplit     = regexp.MustCompile(`[;\n,]`)
	arrowSplit    = regexp.MustCompile(`-->|->|=>|→`)
	nodeSanitizer = regexp.MustCompile(`[^\w\s-]`)
	nodeSpaces    = regexp.MustCompile(`\s+`)
)

// SimpleToMermaid converts the shorthand edge format ("A->B;B->C") accepted
// from manual submissions into Mermaid source. Inputs that already carry a
// diagram header pass through untouched. Returns "" when no edges exist.
func SimpleToMermaid(description string) string {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	for _, t := range mermaidTypes {
		if strings.HasPrefix(lower, t) {
			return trimmed
		}
	}

	type edge struct{ from, to string }
	type node struct {
		label    string
		decision bool
	}
	var (
		edges []edge
		order []string
		seen  = map[string]node{}
	)
	addNode := func(label string) string {
		raw := strings.TrimSpace(label)
		clean := strings.TrimSpace(nodeSanitizer.ReplaceAllString(raw, ""))
		id := nodeSpaces.ReplaceAllString(clean, "_")
		if id == "" {
			return ""
		}
		if _, ok := seen[id]; !ok {
			// The decision shape is decided on the raw text; sanitizing
			// strips the question mark the caller wrote.
			seen[id] = node{
				label:    clean,
				decision: strings.Contains(raw, "?") || strings.Contains(strings.ToLower(raw), "decision"),
			}
			order = append(order, id)
		}
		return id
	}

	for _, part := range edgeSplit.Split(trimmed, -1) {
		part = strings.TrimSpace(part)
		if part == "" || !arrowSplit.MatchString(part) {
			continue
		}
		hops := arrowSplit.Split(part, -1)
		for i := 0; i+1 < len(hops); i++ {
			from := addNode(hops[i])
			to := addNode(hops[i+1])
			if from != "" && to != "" {
				edges = append(edges, edge{from, to})
			}
		}
	}
	if len(edges) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("flowchart TD")
	for _, id := range order {
		n := seen[id]
		lower := strings.ToLower(n.label)
		switch {
		case lower == "start" || lower == "begin" || lower == "end" || lower == "finish" || lower == "stop":
			b.WriteString("\n    " + id + "([" + n.label + "])")
		case n.decision:
			b.WriteString("\n    " + id + "{" + n.label + "}")
		default:
			b.WriteString("\n    " + id + "[" + n.label + "]")
		}
	}
	for _, e := range edges {
		b.WriteString("\n    " + e.from + " --> " + e.to)
	}
	return b.String()
}

// ManualDiagramSlides converts caller-supplied shorthand flowcharts into
// dedicated diagram slides appended after the generated outline, starting at
// startIndex. Descriptions that yield no usable diagram are skipped.
func ManualDiagramSlides(descriptions []string, startIndex int) []domain.SlideSpec {
	var slides []domain.SlideSpec
	for _, desc := range descriptions {
		source := ValidateMermaid(SimpleToMermaid(desc))
		if source == "" {
			continue
		}
		slides = append(slides, domain.SlideSpec{
			Index:         startIndex + len(slides),
			Title:         "Process Flow",
			Intent:        domain.VisualDiagram,
			DiagramSource: source,
		})
	}
	if len(slides) > 1 {
		for i := range slides {
			slides[i].Title = fmt.Sprintf("Process Flow %d", i+1)
		}
	}
	return slides
}
