// Package oracle implements price-reference rate sources for the auction
// engine's price floor. The engine queries a source synchronously at
// auction-creation time only; sources here never run background pollers.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shenfeiyu123456/auctionmarket/core"
)

// StaticSource returns a fixed rate on every query. It backs deterministic
// tests and environments without a live reference feed.
type StaticSource struct {
	Rate core.Rate
}

var _ core.RateSource = (*StaticSource)(nil)

// NewStaticSource returns a source reporting value with the given decimal
// precision, timestamped at creation.
func NewStaticSource(value decimal.Decimal, decimals int32) *StaticSource {
	return &StaticSource{Rate: core.Rate{
		Value:     value,
		Decimals:  decimals,
		UpdatedAt: time.Now(),
	}}
}

func (s *StaticSource) LatestRate(ctx context.Context) (core.Rate, error) {
	return s.Rate, nil
}

// rateDocument is the JSON body served by the reference-rate endpoint.
type rateDocument struct {
	Rate      string    `json:"rate"`       // raw integer-scaled rate, e.g. "200000000000"
	Decimals  int32     `json:"decimals"`   // decimal precision of Rate, e.g. 8
	UpdatedAt time.Time `json:"updated_at"` // when the rate was produced
}

// HTTPSource fetches the current reference rate from an HTTP endpoint
// serving a rateDocument. Transient failures are retried with exponential
// backoff before the query is given up as failed.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	attempts   int
}

var _ core.RateSource = (*HTTPSource)(nil)

// NewHTTPSource returns a source for the given endpoint URL.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		attempts:   3,
	}
}

// LatestRate queries the endpoint, retrying transient failures.
func (s *HTTPSource) LatestRate(ctx context.Context) (core.Rate, error) {
	var lastErr error
	for i := 0; i < s.attempts; i++ {
		if i > 0 {
			// Exponential backoff: 1s, 2s, ...
			delay := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return core.Rate{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		rate, err := s.fetch(ctx)
		if err == nil {
			return rate, nil
		}
		lastErr = err
	}
	return core.Rate{}, fmt.Errorf("rate fetch failed after %d attempts: %w", s.attempts, lastErr)
}

func (s *HTTPSource) fetch(ctx context.Context) (core.Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return core.Rate{}, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return core.Rate{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.Rate{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Rate{}, err
	}

	var doc rateDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return core.Rate{}, fmt.Errorf("malformed rate document: %w", err)
	}

	value, err := decimal.NewFromString(doc.Rate)
	if err != nil {
		return core.Rate{}, fmt.Errorf("malformed rate value %q: %w", doc.Rate, err)
	}

	return core.Rate{
		Value:     value,
		Decimals:  doc.Decimals,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
