package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pricecore/oracle-core/pkg/quote"
	"github.com/pricecore/oracle-core/pkg/retry"
)

// DefaultFetchTimeout is the per-call timeout spec.md §5 requires for
// every ingestor call, absent an explicit override.
const DefaultFetchTimeout = 10 * time.Second

// wireQuote is the JSON shape HTTPIngestor expects from a provider
// endpoint: one object per symbol requested.
type wireQuote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
	Source    string  `json:"source"`
}

// HTTPIngestor polls a JSON REST endpoint for raw quotes, wrapping
// each attempt in retry.Do per spec.md §4.6.
type HTTPIngestor struct {
	name       string
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
	timeout    time.Duration
}

var _ Ingestor = (*HTTPIngestor)(nil)

// HTTPIngestorConfig configures an HTTPIngestor.
type HTTPIngestorConfig struct {
	Name       string
	BaseURL    string
	HTTPClient *http.Client
	RetryPolicy retry.Policy
	Timeout    time.Duration
}

// NewHTTPIngestor builds an HTTPIngestor from cfg, applying defaults
// for an unset HTTP client and timeout.
func NewHTTPIngestor(cfg HTTPIngestorConfig) *HTTPIngestor {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPIngestor{
		name:       cfg.Name,
		baseURL:    cfg.BaseURL,
		httpClient: client,
		policy:     cfg.RetryPolicy,
		timeout:    timeout,
	}
}

// Name implements Ingestor.
func (h *HTTPIngestor) Name() string { return h.name }

// FetchQuotes implements Ingestor: GETs baseURL?symbols=a,b,c and
// decodes a JSON array of wireQuote, retried per h.policy.
func (h *HTTPIngestor) FetchQuotes(ctx context.Context, symbols []string) ([]quote.RawQuote, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var raws []quote.RawQuote
	err := retry.Do(fetchCtx, h.policy, func(attemptCtx context.Context) error {
		quotes, fetchErr := h.fetchOnce(attemptCtx, symbols)
		if fetchErr != nil {
			return fetchErr
		}
		raws = quotes
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", h.name, ErrProviderError, err)
	}
	return raws, nil
}

func (h *HTTPIngestor) fetchOnce(ctx context.Context, symbols []string) ([]quote.RawQuote, error) {
	reqURL := h.baseURL
	if len(symbols) > 0 {
		reqURL += "?symbols=" + url.QueryEscape(strings.Join(symbols, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrIngestionTimeout, ctx.Err())
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrProviderError, resp.StatusCode, h.name)
	}

	var wire []wireQuote
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderError, err)
	}

	raws := make([]quote.RawQuote, len(wire))
	for i, w := range wire {
		raws[i] = quote.RawQuote{
			Symbol:    w.Symbol,
			Price:     w.Price,
			Timestamp: w.Timestamp,
			Source:    w.Source,
		}
	}
	return raws, nil
}
