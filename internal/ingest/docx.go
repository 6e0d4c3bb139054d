package ingest

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractDocx pulls paragraph text out of the main document part of a .docx
// archive. Paragraphs are joined by newlines, matching how word processors
// export plain text.
func extractDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer func() {
		_ = archive.Close()
	}()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document part: %w", err)
		}
		text, err := docxParagraphs(rc)
		_ = rc.Close()
		if err != nil {
			return "", err
		}
		return text, nil
	}
	return "", errors.New("archive has no word/document.xml part")
}

// docxParagraphs streams the document XML, concatenating <w:t> runs and
// breaking on paragraph ends.
func docxParagraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var (
		b      strings.Builder
		inText bool
	)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document part: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
