// Package ratefeed polls an external exchange rate API and appends each
// observation to the rate time series.
package ratefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
)

// maxResponseSize caps the feed response body (256KB)
const maxResponseSize = 256 * 1024

// Source fetches the current rate from an external provider.
type Source interface {
	Fetch(ctx context.Context) (decimal.Decimal, error)
}

// HTTPSource reads the BCV USD/VES rate from the dolarvzla public API.
// The response shape is {"current": {"usd": <number>}, ...}.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource creates a new HTTPSource
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, httpClient: client}
}

type feedResponse struct {
	Current struct {
		USD *decimal.Decimal `json:"usd"`
	} `json:"current"`
}

// Fetch returns the current USD rate from the provider
func (s *HTTPSource) Fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate feed unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read feed response: %w", err)
	}

	var parsed feedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode feed response: %w", err)
	}

	if parsed.Current.USD == nil || parsed.Current.USD.IsZero() {
		return decimal.Zero, fmt.Errorf("rate feed response missing current.usd")
	}

	return *parsed.Current.USD, nil
}

// Ensure HTTPSource implements Source
var _ Source = (*HTTPSource)(nil)
