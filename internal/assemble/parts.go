package assemble

import (
	"fmt"
	"strings"

	"deckgen/internal/layout"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const rootRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`</Relationships>`

const slideMasterRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

const slideLayoutXML = xmlHeader +
	`<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" type="blank">` +
	`<p:cSld name="Blank">` +
	`<p:spTree>` +
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr/>` +
	`</p:spTree>` +
	`</p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

func contentTypesXML(slideCount int, hasPNG, hasJPEG bool) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	if hasPNG {
		b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	}
	if hasJPEG {
		b.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	}
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func presentationXML(slideCount int) string {
	width, height := layout.SlideSize()

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, 1+i)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, width, height)
	fmt.Fprintf(&b, `<p:notesSz cx="%d" cy="%d"/>`, height, width)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, 1+i, i)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// slideRelsXML builds a slide's relationship part. Every slide references its
// layout; slides with a visual additionally embed their media part as rId2.
func slideRelsXML(mediaName string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	if mediaName != "" {
		fmt.Fprintf(&b, `<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/%s"/>`, mediaName)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func slideMasterXML(theme layout.ThemeProfile) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld>`)
	b.WriteString(`<p:bg><p:bgPr>`)
	b.WriteString(gradientFillXML(theme.Background))
	b.WriteString(`<a:effectLst/></p:bgPr></p:bg>`)
	b.WriteString(`<p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr/>`)
	b.WriteString(`</p:spTree>`)
	b.WriteString(`</p:cSld>`)
	b.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	b.WriteString(`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>`)
	b.WriteString(`</p:sldMaster>`)
	return b.String()
}

func themeXML(theme layout.ThemeProfile) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Deck Theme">`)
	b.WriteString(`<a:themeElements>`)
	b.WriteString(`<a:clrScheme name="Deck">`)
	b.WriteString(`<a:dk1><a:srgbClr val="000000"/></a:dk1>`)
	b.WriteString(`<a:lt1><a:srgbClr val="FFFFFF"/></a:lt1>`)
	fmt.Fprintf(&b, `<a:dk2><a:srgbClr val="%s"/></a:dk2>`, theme.Colors.Primary.Hex())
	fmt.Fprintf(&b, `<a:lt2><a:srgbClr val="%s"/></a:lt2>`, theme.Background.Start.Hex())
	fmt.Fprintf(&b, `<a:accent1><a:srgbClr val="%s"/></a:accent1>`, theme.Colors.Primary.Hex())
	fmt.Fprintf(&b, `<a:accent2><a:srgbClr val="%s"/></a:accent2>`, theme.Colors.Secondary.Hex())
	fmt.Fprintf(&b, `<a:accent3><a:srgbClr val="%s"/></a:accent3>`, theme.Colors.Accent.Hex())
	fmt.Fprintf(&b, `<a:accent4><a:srgbClr val="%s"/></a:accent4>`, theme.Colors.Primary.Hex())
	fmt.Fprintf(&b, `<a:accent5><a:srgbClr val="%s"/></a:accent5>`, theme.Colors.Secondary.Hex())
	fmt.Fprintf(&b, `<a:accent6><a:srgbClr val="%s"/></a:accent6>`, theme.Colors.Accent.Hex())
	b.WriteString(`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>`)
	b.WriteString(`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>`)
	b.WriteString(`</a:clrScheme>`)
	b.WriteString(`<a:fontScheme name="Deck">`)
	fmt.Fprintf(&b, `<a:majorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`, esc(theme.Fonts.Title))
	fmt.Fprintf(&b, `<a:minorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>`, esc(theme.Fonts.Body))
	b.WriteString(`</a:fontScheme>`)
	b.WriteString(`<a:fmtScheme name="Deck">`)
	b.WriteString(`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>`)
	b.WriteString(`<a:lnStyleLst><a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>`)
	b.WriteString(`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>`)
	b.WriteString(`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>`)
	b.WriteString(`</a:fmtScheme>`)
	b.WriteString(`</a:themeElements>`)
	b.WriteString(`</a:theme>`)
	return b.String()
}

// gradientFillXML renders a two-stop vertical gradient.
func gradientFillXML(g layout.Gradient) string {
	return fmt.Sprintf(
		`<a:gradFill><a:gsLst>`+
			`<a:gs pos="0"><a:srgbClr val="%s"/></a:gs>`+
			`<a:gs pos="100000"><a:srgbClr val="%s"/></a:gs>`+
			`</a:gsLst><a:lin ang="5400000" scaled="1"/></a:gradFill>`,
		g.Start.Hex(), g.End.Hex())
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func esc(s string) string {
	return xmlEscaper.Replace(s)
}
