package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/goliatone/go-docgen/pkg/model"
)

const templatesPath = "/web/templates"

// FetcherOption customises a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if hc != nil {
			f.http = hc
		}
	}
}

// WithBackoff overrides the retry schedule.
func WithBackoff(base time.Duration, maxRetries uint64) FetcherOption {
	return func(f *Fetcher) {
		if base > 0 {
			f.backoffBase = base
		}
		f.maxRetries = maxRetries
	}
}

// Fetcher pulls the template catalog from the backend. Fetching is an
// idempotent GET, so transient failures (network errors, 5xx) are retried
// with exponential backoff — unlike document CRUD, which never retries.
type Fetcher struct {
	baseURL     string
	http        *http.Client
	backoffBase time.Duration
	maxRetries  uint64
}

// NewFetcher builds a Fetcher for the backend at baseURL.
func NewFetcher(baseURL string, opts ...FetcherOption) (*Fetcher, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("catalog: base url is required")
	}
	f := &Fetcher{
		baseURL:     trimmed,
		http:        http.DefaultClient,
		backoffBase: 500 * time.Millisecond,
		maxRetries:  3,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Fetch retrieves and validates the remote catalog.
func (f *Fetcher) Fetch(ctx context.Context) (*Catalog, error) {
	var templates []model.Template

	backoff := retry.WithMaxRetries(f.maxRetries, retry.NewExponential(f.backoffBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		fetched, err := f.fetchOnce(ctx)
		if err != nil {
			return err
		}
		templates = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return New(templates...)
}

func (f *Fetcher) fetchOnce(ctx context.Context) ([]model.Template, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+templatesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("catalog: fetch: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, retry.RetryableError(fmt.Errorf("catalog: fetch: upstream status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: fetch: upstream status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("catalog: read response: %w", err))
	}

	var env struct {
		Success bool             `json:"success"`
		Data    []model.Template `json:"data"`
		Error   string           `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("catalog: decode response: %w", err)
	}
	if !env.Success && env.Error != "" {
		return nil, fmt.Errorf("catalog: fetch: %s", env.Error)
	}
	return env.Data, nil
}
