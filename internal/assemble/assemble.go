// Package assemble serializes a resolved deck into a pptx archive. A pptx
// file is a zip of OOXML parts; this package writes those parts directly so
// the output opens in PowerPoint, LibreOffice and Keynote without any
// external renderer.
package assemble

import (
	"archive/zip"
	"bytes"
	"fmt"

	"deckgen/internal/domain"
	"deckgen/internal/layout"
)

// mediaPart is one embedded image payload and the archive name it was
// assigned.
type mediaPart struct {
	name        string
	contentType string
	data        []byte
}

// Build renders the slides into a complete pptx archive. Slides are written
// in Index order. Any serialization failure is fatal for the whole deck and
// is reported as a render error.
func Build(slides []domain.SlideSpec, params domain.Params) ([]byte, error) {
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: deck has no slides", domain.ErrRender)
	}

	theme := layout.ProfileFor(params.Theme)
	sizes := layout.SizesFor(params.TextSize)

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	var media []mediaPart
	slideXMLs := make([]string, len(slides))
	slideRels := make([]string, len(slides))
	hasPNG, hasJPEG := false, false

	for i := range slides {
		resolved := layout.Resolve(slides[i], theme, sizes)

		imageRel := ""
		if resolved.VisualBox != nil {
			data := slides[i].VisualData()
			part, err := newMediaPart(len(media)+1, data)
			if err != nil {
				return nil, fmt.Errorf("%w: slide %d visual: %v", domain.ErrRender, i+1, err)
			}
			media = append(media, part)
			switch part.contentType {
			case "image/png":
				hasPNG = true
			case "image/jpeg":
				hasJPEG = true
			}
			imageRel = "rId2"
			slideRels[i] = slideRelsXML(part.name)
		} else {
			slideRels[i] = slideRelsXML("")
		}

		slideXMLs[i] = slideXML(resolved, imageRel)
	}

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML(len(slides), hasPNG, hasJPEG)},
		{"_rels/.rels", rootRelsXML},
		{"ppt/presentation.xml", presentationXML(len(slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(len(slides))},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML(theme)},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML(theme)},
	}
	for _, part := range parts {
		if err := writePart(archive, part.name, []byte(part.data)); err != nil {
			return nil, err
		}
	}

	for i := range slides {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		if err := writePart(archive, name, []byte(slideXMLs[i])); err != nil {
			return nil, err
		}
		relsName := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1)
		if err := writePart(archive, relsName, []byte(slideRels[i])); err != nil {
			return nil, err
		}
	}

	for _, part := range media {
		if err := writePart(archive, "ppt/media/"+part.name, part.data); err != nil {
			return nil, err
		}
	}

	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalize archive: %v", domain.ErrRender, err)
	}
	return buf.Bytes(), nil
}

func writePart(archive *zip.Writer, name string, data []byte) error {
	w, err := archive.Create(name)
	if err != nil {
		return fmt.Errorf("%w: create part %s: %v", domain.ErrRender, name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: write part %s: %v", domain.ErrRender, name, err)
	}
	return nil
}

// newMediaPart sniffs the image format from its magic bytes and assigns the
// archive file name. Only the two formats the oracles produce are accepted.
func newMediaPart(n int, data []byte) (mediaPart, error) {
	if len(data) == 0 {
		return mediaPart{}, fmt.Errorf("empty image payload")
	}
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return mediaPart{name: fmt.Sprintf("image%d.png", n), contentType: "image/png", data: data}, nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return mediaPart{name: fmt.Sprintf("image%d.jpeg", n), contentType: "image/jpeg", data: data}, nil
	}
	return mediaPart{}, fmt.Errorf("unrecognized image format")
}
