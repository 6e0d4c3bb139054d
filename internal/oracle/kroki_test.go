package oracle

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"deckgen/internal/domain"
)

func newTestKroki(t *testing.T, rt roundTripFunc) *KrokiRenderer {
	t.Helper()
	renderer, err := NewKrokiRenderer(KrokiOptions{
		BaseURL:    "https://kroki.test",
		HTTPClient: &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("NewKrokiRenderer: %v", err)
	}
	return renderer
}

func TestKrokiRender(t *testing.T) {
	var gotPath, gotBody string
	renderer := newTestKroki(t, func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		body, _ := io.ReadAll(req.Body)
		gotBody = string(body)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("png-bytes")),
		}, nil
	})

	source := "flowchart TD\n    A --> B"
	data, err := renderer.Render(context.Background(), source)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("data = %q", data)
	}
	if gotPath != "/mermaid/png" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody != source {
		t.Errorf("posted body = %q", gotBody)
	}
}

func TestKrokiRejectedSourceIsRenderError(t *testing.T) {
	renderer := newTestKroki(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(strings.NewReader("syntax error at line 2")),
		}, nil
	})
	_, err := renderer.Render(context.Background(), "flowchart TD\n   <<bad>>")
	if !errors.Is(err, domain.ErrRender) {
		t.Fatalf("err = %v, want ErrRender", err)
	}
	if errors.Is(err, domain.ErrTransientOracle) {
		t.Fatal("rejected source must not be retried as transient")
	}
	if !strings.Contains(err.Error(), "syntax error at line 2") {
		t.Errorf("error does not carry the renderer detail: %v", err)
	}
}

func TestKrokiServerErrorIsTransient(t *testing.T) {
	renderer := newTestKroki(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})
	_, err := renderer.Render(context.Background(), "flowchart TD\n A-->B")
	if !errors.Is(err, domain.ErrTransientOracle) {
		t.Fatalf("err = %v, want ErrTransientOracle", err)
	}
}

func TestKrokiEmptySource(t *testing.T) {
	renderer := newTestKroki(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected for empty source")
		return nil, nil
	})
	_, err := renderer.Render(context.Background(), "   ")
	if !errors.Is(err, domain.ErrRender) {
		t.Fatalf("err = %v, want ErrRender", err)
	}
}

func TestKrokiEmptyResponse(t *testing.T) {
	renderer := newTestKroki(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})
	_, err := renderer.Render(context.Background(), "flowchart TD\n A-->B")
	if !errors.Is(err, domain.ErrRender) {
		t.Fatalf("err = %v, want ErrRender", err)
	}
}
