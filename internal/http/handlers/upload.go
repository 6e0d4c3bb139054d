package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"deckgen/internal/domain"
	"deckgen/internal/ingest"
	"deckgen/internal/planner"
)

const maxUploadBytes = 16 << 20

// Upload accepts a document, stores it, and returns the storage key along
// with a content preview and a suggested slide count. The returned key is
// what Generate expects in document_path.
func (a *App) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("document")
	if err != nil {
		a.fail(w, fmt.Errorf("%w: missing document field", domain.ErrValidation))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !supportedExt(ext) {
		a.fail(w, fmt.Errorf("%w: unsupported document type %q, accepted: %s",
			domain.ErrValidation, ext, strings.Join(ingest.SupportedExtensions(), ", ")))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		a.fail(w, fmt.Errorf("%w: read upload", domain.ErrValidation))
		return
	}

	key := fmt.Sprintf("uploads/%s%s", uuid.NewString(), ext)
	storedKey, err := a.Store.Write(r.Context(), key, data)
	if err != nil {
		a.fail(w, err)
		return
	}

	path, err := a.Store.Path(storedKey)
	if err != nil {
		a.fail(w, err)
		return
	}
	text, err := ingest.ExtractFile(path)
	if err != nil {
		a.fail(w, err)
		return
	}
	if text == "" {
		a.fail(w, fmt.Errorf("%w: document contains no extractable text", domain.ErrValidation))
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"document_path":   storedKey,
		"filename":        header.Filename,
		"preview":         contentPreview(text, 500),
		"word_count":      len(strings.Fields(text)),
		"suggested_count": planner.SuggestCount(text, a.MinSlides, a.MaxSlides),
	})
}

func supportedExt(ext string) bool {
	for _, candidate := range ingest.SupportedExtensions() {
		if ext == candidate {
			return true
		}
	}
	return false
}

// contentPreview truncates on a rune boundary so multi-byte text stays valid.
func contentPreview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
