package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"deckgen/internal/domain"
	"deckgen/internal/infra"
)

// PexelsOptions controls how the Pexels image-search client is configured.
type PexelsOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Throttle   *Throttle
	Logger     *infra.Logger

	// MinWidth/MinHeight reject photos below the quality floor. Zero values
	// fall back to 800x600.
	MinWidth  int
	MinHeight int
}

// PexelsClient resolves a query into the first landscape photo satisfying the
// minimum size constraint, downloading the best available rendition.
type PexelsClient struct {
	apiKey    string
	baseURL   string
	client    *http.Client
	throttle  *Throttle
	logger    *infra.Logger
	minWidth  int
	minHeight int
}

const (
	pexelsDefaultTimeout = 30 * time.Second
	pexelsPerPage        = 5
)

type pexelsSearchResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

type pexelsPhoto struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	URL             string `json:"url"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	Src             struct {
		Large2x string `json:"large2x"`
		Large   string `json:"large"`
		Medium  string `json:"medium"`
	} `json:"src"`
}

// NewPexelsClient constructs a Pexels client with sane defaults.
func NewPexelsClient(opts PexelsOptions) (*PexelsClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("pexels api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.pexels.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: pexelsDefaultTimeout}
	}
	minWidth, minHeight := opts.MinWidth, opts.MinHeight
	if minWidth <= 0 {
		minWidth = 800
	}
	if minHeight <= 0 {
		minHeight = 600
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &PexelsClient{
		apiKey:    strings.TrimSpace(opts.APIKey),
		baseURL:   baseURL,
		client:    client,
		throttle:  opts.Throttle,
		logger:    logger,
		minWidth:  minWidth,
		minHeight: minHeight,
	}, nil
}

// Search queries for landscape photos and returns the first result meeting
// the size floor, with its bytes downloaded. A nil ImageRef with nil error
// means no acceptable photo exists for the query.
func (p *PexelsClient) Search(ctx context.Context, query string) (*domain.ImageRef, error) {
	if p.throttle != nil {
		if err := p.throttle.Acquire(ctx); err != nil {
			return nil, err
		}
		defer p.throttle.Release()
	}

	endpoint := p.baseURL + "/search?" + url.Values{
		"query":       []string{query},
		"per_page":    []string{strconv.Itoa(pexelsPerPage)},
		"orientation": []string{"landscape"},
		"size":        []string{"large"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: pexels: %v", domain.ErrTransientOracle, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: pexels status %d", domain.ErrTransientOracle, resp.StatusCode)
		}
		return nil, fmt.Errorf("pexels status %d", resp.StatusCode)
	}

	var out pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode pexels response: %w", err)
	}

	for _, photo := range out.Photos {
		if photo.Width < p.minWidth || photo.Height < p.minHeight {
			continue
		}
		src := firstNonEmpty(photo.Src.Large2x, photo.Src.Large, photo.Src.Medium)
		if src == "" {
			continue
		}
		data, err := p.download(ctx, src)
		if err != nil {
			return nil, err
		}
		p.logger.Debug().
			Str("query", query).
			Str("photographer", photo.Photographer).
			Int("bytes", len(data)).
			Msg("oracle: pexels photo resolved")
		return &domain.ImageRef{
			Query:           query,
			SourceURL:       photo.URL,
			Photographer:    photo.Photographer,
			PhotographerURL: photo.PhotographerURL,
			Width:           photo.Width,
			Height:          photo.Height,
			Data:            data,
		}, nil
	}

	p.logger.Debug().Str("query", query).Msg("oracle: pexels returned no acceptable photos")
	return nil, nil
}

func (p *PexelsClient) download(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: pexels download: %v", domain.ErrTransientOracle, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: pexels download status %d", domain.ErrTransientOracle, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: pexels download read: %v", domain.ErrTransientOracle, err)
	}
	return data, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var _ ImageSearcher = (*PexelsClient)(nil)
