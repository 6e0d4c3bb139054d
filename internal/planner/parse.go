package planner

import (
	"regexp"
	"strings"

	"deckgen/internal/domain"
)

// Trailing whitespace stays same-line so an empty title is not silently
// backfilled from the next line.
var slideHeader = regexp.MustCompile(`(?im)^[ \t]*slide[ \t]+\d+[ \t]*:[ \t]*`)

// parseOutline turns raw oracle text into ordered SlideSpecs. It is
// deliberately forgiving about decoration (bullet symbols, code fences) and
// strict only about the structure the schema demands: at least one slide,
// each with a non-empty title.
func parseOutline(raw string) []domain.SlideSpec {
	raw = stripCodeFence(raw)
	headers := slideHeader.FindAllStringIndex(raw, -1)
	if len(headers) == 0 {
		return nil
	}

	var slides []domain.SlideSpec
	for i, loc := range headers {
		end := len(raw)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		block := raw[loc[1]:end]
		spec := parseSlideBlock(block)
		spec.Index = len(slides)
		slides = append(slides, spec)
	}
	return slides
}

// parseSlideBlock parses one slide's region: first line is the title, plain
// lines are bullets, and notes:/image_query:/flowchart_description: markers
// carry optional fields. Flowchart content may span multiple lines.
func parseSlideBlock(block string) domain.SlideSpec {
	lines := strings.Split(block, "\n")
	spec := domain.SlideSpec{Intent: domain.VisualNone}

	var flowchart []string
	inFlowchart := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if i == 0 {
			spec.Title = strings.TrimSpace(trimmed)
			continue
		}
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "image_query:"):
			inFlowchart = false
			query := strings.TrimSpace(trimmed[len("image_query:"):])
			if !isOmitted(query) {
				spec.ImageQuery = query
			}
		case strings.HasPrefix(lower, "notes:"):
			inFlowchart = false
			notes := strings.TrimSpace(trimmed[len("notes:"):])
			if !isOmitted(notes) {
				spec.Notes = notes
			}
		case strings.HasPrefix(lower, "flowchart_description:"):
			inFlowchart = true
			head := strings.TrimSpace(trimmed[len("flowchart_description:"):])
			if head != "" {
				flowchart = append(flowchart, head)
			}
		case inFlowchart && trimmed != "" && !looksLikeBullet(trimmed):
			// Indented continuation lines belong to the flowchart.
			flowchart = append(flowchart, trimmed)
		default:
			inFlowchart = false
			bullet := strings.TrimLeft(trimmed, "-•* ")
			if len(bullet) > 5 {
				spec.Bullets = append(spec.Bullets, bullet)
			}
		}
	}

	if source := ValidateMermaid(strings.Join(flowchart, "\n")); source != "" {
		spec.DiagramSource = source
	}
	classifyIntent(&spec)
	return spec
}

// classifyIntent decides the visual intent from the planner markers. Diagrams
// win over photos when both were suggested.
func classifyIntent(spec *domain.SlideSpec) {
	switch {
	case spec.DiagramSource != "":
		spec.Intent = domain.VisualDiagram
	case spec.ImageQuery != "":
		spec.Intent = domain.VisualPhoto
	default:
		spec.Intent = domain.VisualNone
	}
}

func looksLikeBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*")
}

func isOmitted(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "omit", "none", "null", "n/a":
		return true
	}
	return false
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```text")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
