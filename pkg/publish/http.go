package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrPublishFailure wraps any error surfaced by HTTPPublisher.Publish.
var ErrPublishFailure = fmt.Errorf("publish failure")

// HTTPPublisher POSTs a Submission as JSON and decodes the response as
// a Receipt, treating its contents as opaque per spec.md §6.
type HTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
}

var _ Publisher = (*HTTPPublisher)(nil)

// NewHTTPPublisher builds an HTTPPublisher posting to endpoint.
func NewHTTPPublisher(endpoint string, httpClient *http.Client) *HTTPPublisher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPPublisher{endpoint: endpoint, httpClient: httpClient}
}

// Publish implements Publisher.
func (p *HTTPPublisher) Publish(ctx context.Context, submission Submission) (Receipt, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrPublishFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrPublishFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrPublishFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Receipt{}, fmt.Errorf("%w: status %d", ErrPublishFailure, resp.StatusCode)
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrPublishFailure, err)
	}
	return receipt, nil
}
