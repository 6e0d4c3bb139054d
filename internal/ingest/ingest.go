// Package ingest extracts plain text from uploaded documents. It is a pure
// transformation: no job state, no external calls.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deckgen/internal/domain"
)

// SupportedExtensions lists the document types the ingestor accepts.
func SupportedExtensions() []string {
	return []string{".txt", ".docx", ".pdf"}
}

// ExtractFile reads the document at path and returns its plain text. The
// format is detected from the extension; unsupported extensions wrap
// domain.ErrValidation.
func ExtractFile(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read text document: %w", err)
		}
		return normalize(string(data)), nil
	case ".docx":
		text, err := extractDocx(path)
		if err != nil {
			return "", fmt.Errorf("read docx document: %w", err)
		}
		return normalize(text), nil
	case ".pdf":
		text, err := extractPDF(path)
		if err != nil {
			return "", fmt.Errorf("read pdf document: %w", err)
		}
		return normalize(text), nil
	default:
		return "", fmt.Errorf("%w: unsupported document type %q", domain.ErrValidation, ext)
	}
}

// normalize collapses Windows line endings and trims outer whitespace so the
// planner sees a consistent body regardless of source format.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}
