package domain

// VisualIntent declares what kind of visual asset a slide wants.
type VisualIntent string

const (
	VisualNone    VisualIntent = "none"
	VisualPhoto   VisualIntent = "photo"
	VisualDiagram VisualIntent = "diagram"
)

// ImageRef is a resolved stock photo: the query that found it, where it came
// from, attribution, and the downloaded bytes.
type ImageRef struct {
	Query           string
	SourceURL       string
	Photographer    string
	PhotographerURL string
	Width           int
	Height          int
	Data            []byte
}

// DiagramRef is a rendered diagram: the textual graph description and the
// raster bytes produced by the rendering context.
type DiagramRef struct {
	Source string
	Data   []byte
}

// SlideSpec is the abstract description of one slide. Index defines the
// stable output order regardless of enrichment completion order.
type SlideSpec struct {
	Index         int
	Title         string
	Bullets       []string
	Notes         string
	Intent        VisualIntent
	ImageQuery    string
	DiagramSource string
	Image         *ImageRef
	Diagram       *DiagramRef
}

// HasVisual reports whether enrichment resolved an asset for the slide.
func (s *SlideSpec) HasVisual() bool {
	return s.Image != nil || s.Diagram != nil
}

// VisualData returns the resolved asset bytes, diagrams first, matching the
// priority used when both intents were suggested.
func (s *SlideSpec) VisualData() []byte {
	if s.Diagram != nil {
		return s.Diagram.Data
	}
	if s.Image != nil {
		return s.Image.Data
	}
	return nil
}

// Outline is the ordered slide list produced by the planner.
type Outline struct {
	Slides []SlideSpec
}
