// Package documents is the persistence gateway for generated documents: a
// thin CRUD client over the external backend API. Each operation is one
// request/response round trip; there are no local transaction semantics and
// no conflict detection — last write wins. Reads are served through a
// time-boxed cache that mutating operations invalidate explicitly.
package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-docgen/internal/cache"
	"github.com/goliatone/go-docgen/pkg/model"
)

const basePath = "/web/documents"

const listCacheKey = "documents:list"

func docCacheKey(id string) string { return "documents:" + id }

// TokenProvider supplies the bearer token attached to every request. The
// gateway does not own authentication; it forwards whatever the session
// layer hands it.
type TokenProvider func() string

// Option customises the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenProvider sets the bearer token source.
func WithTokenProvider(provider TokenProvider) Option {
	return func(c *Client) {
		c.token = provider
	}
}

// WithCache replaces the response cache, mainly so tests can inject a
// deterministic clock.
func WithCache(store *cache.Store) Option {
	return func(c *Client) {
		if store != nil {
			c.cache = store
		}
	}
}

// Client talks to the backend document store. Construct with New; the zero
// value is not usable.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenProvider
	cache   *cache.Store
}

// New builds a gateway client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("documents: base url is required")
	}
	c := &Client{
		baseURL: trimmed,
		http:    http.DefaultClient,
		cache:   cache.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// CreateInput holds the payload for Create.
type CreateInput struct {
	TemplateID string       `json:"templateId"`
	Values     model.Values `json:"values"`
	Title      string       `json:"title,omitempty"`
}

// UpdateInput holds the payload for Update. Zero-value fields are still sent;
// the backend applies last-write-wins semantics.
type UpdateInput struct {
	TemplateID string       `json:"templateId"`
	Values     model.Values `json:"values"`
	Title      string       `json:"title,omitempty"`
}

// envelope is the normalized {success, data|error} wire shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// List returns the caller's documents, newest first as ordered by the
// backend. Results are cached until the TTL lapses or a mutation invalidates
// them.
func (c *Client) List(ctx context.Context) ([]model.Document, error) {
	if cached, ok := c.cache.Get(listCacheKey); ok {
		if docs, ok := cached.([]model.Document); ok {
			return docs, nil
		}
	}

	var docs []model.Document
	if err := c.do(ctx, http.MethodGet, basePath, nil, &docs); err != nil {
		return nil, err
	}
	c.cache.Set(listCacheKey, docs)
	return docs, nil
}

// Get fetches a single document by ID.
func (c *Client) Get(ctx context.Context, id string) (*model.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("documents: document id is required")
	}
	if cached, ok := c.cache.Get(docCacheKey(id)); ok {
		if doc, ok := cached.(*model.Document); ok {
			return doc, nil
		}
	}

	var doc model.Document
	if err := c.do(ctx, http.MethodGet, basePath+"/"+id, nil, &doc); err != nil {
		return nil, err
	}
	c.cache.Set(docCacheKey(id), &doc)
	return &doc, nil
}

// Create persists a new document from a template and a completed values map.
func (c *Client) Create(ctx context.Context, in CreateInput) (*model.Document, error) {
	if strings.TrimSpace(in.TemplateID) == "" {
		return nil, fmt.Errorf("documents: template id is required")
	}
	var doc model.Document
	if err := c.do(ctx, http.MethodPost, basePath, in, &doc); err != nil {
		return nil, err
	}
	c.cache.Invalidate(listCacheKey)
	return &doc, nil
}

// Update overwrites an existing document. Last write wins; there is no
// version or ETag check.
func (c *Client) Update(ctx context.Context, id string, in UpdateInput) (*model.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("documents: document id is required")
	}
	var doc model.Document
	if err := c.do(ctx, http.MethodPut, basePath+"/"+id, in, &doc); err != nil {
		return nil, err
	}
	c.cache.Invalidate(listCacheKey, docCacheKey(id))
	return &doc, nil
}

// Delete removes a document.
func (c *Client) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("documents: document id is required")
	}
	if err := c.do(ctx, http.MethodDelete, basePath+"/"+id, nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(listCacheKey, docCacheKey(id))
	return nil
}

// do executes one round trip and decodes the response envelope into out.
// Transport failures and non-success envelopes surface as errors; the caller
// owns user-facing messaging. Nothing here retries: document CRUD is not
// safely repeatable from this layer.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("documents: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("documents: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := strings.TrimSpace(c.token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("documents: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("documents: read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// A non-JSON body is tolerated for error statuses; the status code
		// alone is enough to classify the failure.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusToError(resp.StatusCode, env.Error)
	}
	if len(raw) > 0 && !env.Success && env.Error != "" {
		return &StatusError{Code: resp.StatusCode, Message: env.Error}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("documents: decode response: %w", err)
	}
	return nil
}
