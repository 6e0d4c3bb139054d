package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"deckgen/internal/domain"
	"deckgen/internal/infra"
)

// KrokiOptions controls how the diagram rendering client is configured.
type KrokiOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Throttle   *Throttle
	Logger     *infra.Logger
}

// KrokiRenderer submits Mermaid sources to a Kroki-compatible rendering
// service and returns the raster PNG. The render happens in the service's
// sandboxed browser context, so a hostile or broken diagram can at worst fail
// its own slide.
type KrokiRenderer struct {
	baseURL  string
	client   *http.Client
	throttle *Throttle
	logger   *infra.Logger
}

const krokiDefaultTimeout = 30 * time.Second

// NewKrokiRenderer constructs a renderer against the given base URL.
func NewKrokiRenderer(opts KrokiOptions) (*KrokiRenderer, error) {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("kroki base url is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: krokiDefaultTimeout}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &KrokiRenderer{
		baseURL:  baseURL,
		client:   client,
		throttle: opts.Throttle,
		logger:   logger,
	}, nil
}

// Render posts the Mermaid source and returns PNG bytes. Rejected sources
// (4xx) wrap domain.ErrRender; transport failures and 5xx are transient.
func (k *KrokiRenderer) Render(ctx context.Context, source string) ([]byte, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: empty diagram source", domain.ErrRender)
	}
	if k.throttle != nil {
		if err := k.throttle.Acquire(ctx); err != nil {
			return nil, err
		}
		defer k.throttle.Release()
	}

	endpoint := k.baseURL + "/mermaid/png"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("create render request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "image/png")

	resp, err := k.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: diagram render: %v", domain.ErrTransientOracle, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: diagram render status %d", domain.ErrTransientOracle, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: diagram rejected (status %d): %s", domain.ErrRender, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: diagram render read: %v", domain.ErrTransientOracle, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: renderer returned empty image", domain.ErrRender)
	}

	k.logger.Debug().Int("bytes", len(data)).Msg("oracle: diagram rendered")
	return data, nil
}

var _ DiagramRenderer = (*KrokiRenderer)(nil)
