package planner

import (
	"fmt"
	"strings"

	"deckgen/internal/domain"
)

// The oracle is asked for a fixed line-oriented format rather than JSON: the
// upstream models follow it more reliably, and the parser tolerates the
// decorations they add anyway.
const outlineFormat = `FORMAT FOR EACH SLIDE:
Slide N: Title
Bullet point 1 (plain text, no bullet symbols)
Bullet point 2 (clear, concise content)
Bullet point 3 (comprehensive information)
notes: [one or two sentences of speaker notes, or omit]
image_query: [specific stock photo search terms, or omit]
flowchart_description: [mermaid.js flowchart syntax, or omit]

CONTENT GUIDELINES:
- Write bullet points as plain text without manual bullet symbols
- Keep bullets concise but informative (100-150 characters ideal)
- Focus on key points that support the slide title

FLOWCHART GUIDELINES:
- Use for processes, workflows, decision trees, or step-by-step procedures
- Use Mermaid.js syntax: flowchart TD (top-down) or flowchart LR (left-right)
- Example: flowchart TD
    A[Start] --> B[Process]
    B --> C{Decision?}
    C -->|Yes| D[Action]
    C -->|No| E[Alternative]`

// buildTopicPrompt asks for an outline generated from a bare topic.
func buildTopicPrompt(topic string, count int, params domain.Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-slide presentation on the topic: %s.\n", count, topic)
	b.WriteString("Each slide should have a title and 3-5 bullet points.\n")
	b.WriteString("For each slide, decide if a relevant image or flowchart would enhance the content.\n\n")
	b.WriteString(outlineFormat)
	fmt.Fprintf(&b, "\n\nTone: %s\nAudience: %s\nTheme: %s\n", params.Tone, params.Audience, params.Theme)
	b.WriteString("\nReturn ONLY plain text in this format.\n")
	return b.String()
}

// buildDocumentPrompt asks for an outline summarizing ingested document text.
func buildDocumentPrompt(document string, count int, params domain.Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following document content into a %d-slide presentation.\n", count)
	b.WriteString("Each slide should have a title and 3-5 bullet points.\n")
	b.WriteString("For each slide, decide if a relevant image or flowchart would enhance the content.\n\n")
	b.WriteString(outlineFormat)
	fmt.Fprintf(&b, "\n\nTone: %s\nAudience: %s\nTheme: %s\n", params.Tone, params.Audience, params.Theme)
	fmt.Fprintf(&b, "\nDocument Content:\n%s\n", document)
	b.WriteString("\nReturn ONLY plain text in this format.\n")
	return b.String()
}

// buildRepairPrompt asks the oracle to correct its own malformed output.
func buildRepairPrompt(original, raw, violation string) string {
	var b strings.Builder
	b.WriteString("Your previous response did not follow the required slide format.\n")
	fmt.Fprintf(&b, "Problem: %s\n\n", violation)
	b.WriteString("Previous response:\n")
	b.WriteString(truncate(raw, 4000))
	b.WriteString("\n\nRegenerate the full response, correcting the problem. ")
	b.WriteString("The original request follows.\n\n")
	b.WriteString(original)
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
