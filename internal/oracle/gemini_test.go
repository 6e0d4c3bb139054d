package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"deckgen/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestGemini(t *testing.T, rt roundTripFunc) *GeminiClient {
	t.Helper()
	client, err := NewGeminiClient(GeminiOptions{
		APIKey:     "test-key",
		Model:      "gemini-test",
		BaseURL:    "https://gemini.test/v1beta",
		HTTPClient: &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}
	return client
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	client := newTestGemini(t, func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		gotKey = req.Header.Get("x-goog-api-key")
		return jsonResponse(http.StatusOK, `{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Slide 1: Hello"}]}}]
		}`), nil
	})

	text, err := client.Generate(context.Background(), "make slides")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Slide 1: Hello" {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/v1beta/models/gemini-test:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
}

func TestGeminiTransientStatuses(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		client := newTestGemini(t, func(req *http.Request) (*http.Response, error) {
			return jsonResponse(status, `{"error": {"code": 1, "message": "overloaded"}}`), nil
		})
		_, err := client.Generate(context.Background(), "x")
		if !errors.Is(err, domain.ErrTransientOracle) {
			t.Errorf("status %d: err = %v, want ErrTransientOracle", status, err)
		}
	}
}

func TestGeminiPermanentStatus(t *testing.T) {
	client := newTestGemini(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"error": {"message": "invalid argument"}}`), nil
	})
	_, err := client.Generate(context.Background(), "x")
	if err == nil || errors.Is(err, domain.ErrTransientOracle) {
		t.Fatalf("err = %v, want permanent failure", err)
	}
	if !strings.Contains(err.Error(), "invalid argument") {
		t.Errorf("error does not carry the API message: %v", err)
	}
}

func TestGeminiTransportErrorIsTransient(t *testing.T) {
	client := newTestGemini(t, func(req *http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("dial tcp: connection refused")
	})
	_, err := client.Generate(context.Background(), "x")
	if !errors.Is(err, domain.ErrTransientOracle) {
		t.Fatalf("err = %v, want ErrTransientOracle", err)
	}
}

func TestGeminiEmptyCandidates(t *testing.T) {
	client := newTestGemini(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"candidates": []}`), nil
	})
	text, err := client.Generate(context.Background(), "x")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "" {
		t.Fatalf("text = %q, want empty so the planner treats it as malformed", text)
	}
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiClient(GeminiOptions{}); err == nil {
		t.Fatal("NewGeminiClient without key = nil error")
	}
}
