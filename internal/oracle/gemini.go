package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"deckgen/internal/domain"
	"deckgen/internal/infra"
)

// GeminiOptions controls how the Gemini text client is configured.
type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Throttle   *Throttle
	Logger     *infra.Logger
}

// GeminiClient calls the Gemini generateContent API with a single text part
// and returns the first candidate's text. It deliberately performs no output
// validation; the planner owns the outline contract.
type GeminiClient struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	throttle *Throttle
	logger   *infra.Logger
}

const geminiDefaultTimeout = 60 * time.Second

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature    float64 `json:"temperature"`
	CandidateCount int     `json:"candidateCount,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewGeminiClient constructs a Gemini client with sane defaults.
func NewGeminiClient(opts GeminiOptions) (*GeminiClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-1.5-pro"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &GeminiClient{
		apiKey:   strings.TrimSpace(opts.APIKey),
		model:    model,
		baseURL:  baseURL,
		client:   client,
		throttle: opts.Throttle,
		logger:   logger,
	}, nil
}

// Model returns the configured model identifier.
func (g *GeminiClient) Model() string {
	return g.model
}

// Generate issues one generateContent request and returns the raw candidate
// text. Network failures, timeouts, 429 and 5xx responses are reported as
// transient; an empty candidate list returns empty text so the caller can
// treat it as a malformed response.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if g.throttle != nil {
		if err := g.throttle.Acquire(ctx); err != nil {
			return "", err
		}
		defer g.throttle.Release()
	}

	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:    0,
			CandidateCount: 1,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: gemini: %v", domain.ErrTransientOracle, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		message := readAPIError(resp.Body)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", fmt.Errorf("%w: gemini status %d: %s", domain.ErrTransientOracle, resp.StatusCode, message)
		}
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, message)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	text := extractText(out)
	g.logger.Debug().
		Str("model", g.model).
		Int("chars", len(text)).
		Msg("oracle: gemini generation complete")
	return text, nil
}

func extractText(resp geminiResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				b.WriteString(part.Text)
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}

func readAPIError(r io.Reader) string {
	var apiErr geminiErrorResponse
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return strings.TrimSpace(string(data))
}

var _ TextGenerator = (*GeminiClient)(nil)
