package assemble

import (
	"fmt"
	"strings"

	"deckgen/internal/layout"
)

// slideXML renders one slide part from its resolved layout. imageRel is the
// relationship id of the embedded media part, or "" when the slide carries no
// visual.
func slideXML(resolved layout.ResolvedLayout, imageRel string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld>`)
	b.WriteString(`<p:bg><p:bgPr>`)
	b.WriteString(gradientFillXML(resolved.Background))
	b.WriteString(`<a:effectLst/></p:bgPr></p:bg>`)
	b.WriteString(`<p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr/>`)

	shapeID := 2
	b.WriteString(textBoxXML(shapeID, "Title", resolved.TitleBox, titleParagraphs(resolved)))
	shapeID++

	if len(resolved.Bullets) > 0 {
		b.WriteString(textBoxXML(shapeID, "Body", resolved.BodyBox, bodyParagraphs(resolved)))
		shapeID++
	}

	if resolved.VisualBox != nil && imageRel != "" {
		b.WriteString(pictureXML(shapeID, imageRel, *resolved.VisualBox))
	}

	b.WriteString(`</p:spTree>`)
	b.WriteString(`</p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func textBoxXML(id int, name string, box layout.Box, paragraphs string) string {
	var b strings.Builder
	b.WriteString(`<p:sp>`)
	fmt.Fprintf(&b, `<p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, name)
	b.WriteString(`<p:spPr>`)
	b.WriteString(xfrmXML(box))
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	b.WriteString(`</p:spPr>`)
	b.WriteString(`<p:txBody>`)
	b.WriteString(`<a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr>`)
	b.WriteString(`<a:lstStyle/>`)
	b.WriteString(paragraphs)
	b.WriteString(`</p:txBody>`)
	b.WriteString(`</p:sp>`)
	return b.String()
}

func titleParagraphs(resolved layout.ResolvedLayout) string {
	align := ""
	if resolved.Kind == layout.KindTitle {
		align = ` algn="ctr"`
	}
	return fmt.Sprintf(`<a:p><a:pPr%s/>%s</a:p>`, align, runXML(resolved.Title, resolved.TitleStyle))
}

func bodyParagraphs(resolved layout.ResolvedLayout) string {
	var b strings.Builder
	for _, bullet := range resolved.Bullets {
		if resolved.Kind == layout.KindTitle {
			// Subtitle line, no bullet glyph.
			fmt.Fprintf(&b, `<a:p><a:pPr algn="ctr"><a:buNone/></a:pPr>%s</a:p>`, runXML(bullet, resolved.BodyStyle))
			continue
		}
		fmt.Fprintf(&b, `<a:p><a:pPr indent="-228600" marL="228600"><a:buChar char="&#8226;"/></a:pPr>%s</a:p>`, runXML(bullet, resolved.BodyStyle))
	}
	return b.String()
}

// runXML renders a single text run. OOXML expresses point sizes in
// hundredths.
func runXML(text string, style layout.TextStyle) string {
	bold := ""
	if style.Bold {
		bold = ` b="1"`
	}
	return fmt.Sprintf(
		`<a:r><a:rPr lang="en-US" sz="%d"%s dirty="0">`+
			`<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`+
			`<a:latin typeface="%s"/>`+
			`</a:rPr><a:t>%s</a:t></a:r>`,
		style.Size*100, bold, style.Color.Hex(), esc(style.Font), esc(text))
}

func pictureXML(id int, rel string, box layout.Box) string {
	var b strings.Builder
	b.WriteString(`<p:pic>`)
	fmt.Fprintf(&b, `<p:nvPicPr><p:cNvPr id="%d" name="Visual %d"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`, id, id)
	fmt.Fprintf(&b, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, rel)
	b.WriteString(`<p:spPr>`)
	b.WriteString(xfrmXML(box))
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	b.WriteString(`</p:spPr>`)
	b.WriteString(`</p:pic>`)
	return b.String()
}

func xfrmXML(box layout.Box) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, box.X, box.Y, box.W, box.H)
}
