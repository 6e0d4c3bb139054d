package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// extractPDF pulls the text layer out of every page, joined by newlines.
// Scanned PDFs without a text layer yield an error rather than an empty
// outline downstream.
func extractPDF(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		_ = doc.Close()
	}()

	var b strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", page+1, err)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", errors.New("pdf contains no extractable text")
	}
	return b.String(), nil
}
