// Package export requests PDF/DOCX conversion of a filled template from the
// external conversion service. The service owns the actual format work; this
// client assembles the payload, carries the binary back, and reports
// failures as user-visible errors without retrying.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goliatone/go-docgen/pkg/documents"
	"github.com/goliatone/go-docgen/pkg/model"
)

const exportPath = "/web/documents/export"

// Format names a conversion target.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Valid reports whether the format is one the conversion service accepts.
func (f Format) Valid() bool {
	return f == FormatPDF || f == FormatDOCX
}

// File is the returned binary plus the metadata needed to hand it to the
// user as a download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

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
func WithTokenProvider(provider documents.TokenProvider) Option {
	return func(c *Client) {
		c.token = provider
	}
}

// Client converts filled templates into downloadable files.
type Client struct {
	baseURL string
	http    *http.Client
	token   documents.TokenProvider
}

// New builds an export client for the conversion service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("export: base url is required")
	}
	c := &Client{baseURL: trimmed, http: http.DefaultClient}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

type exportRequest struct {
	TemplateID string       `json:"templateId"`
	Values     model.Values `json:"values"`
	Format     Format       `json:"format"`
}

// Export posts {templateId, values, format} and returns the converted file.
// Non-2xx statuses map to the same typed failures the document gateway uses.
func (c *Client) Export(ctx context.Context, templateID string, values model.Values, format Format) (*File, error) {
	if strings.TrimSpace(templateID) == "" {
		return nil, fmt.Errorf("export: template id is required")
	}
	if !format.Valid() {
		return nil, fmt.Errorf("export: unsupported format %q", format)
	}

	payload, err := json.Marshal(exportRequest{TemplateID: templateID, Values: values, Format: format})
	if err != nil {
		return nil, fmt.Errorf("export: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+exportPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("export: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if token := strings.TrimSpace(c.token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("export: read response: %w", err)
	}

	return &File{
		Name:        fileName(resp, templateID, format),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func statusError(resp *http.Response) error {
	message := ""
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		var env struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &env) == nil {
			message = env.Error
		}
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return documents.ErrUnauthorized
	case http.StatusNotFound:
		return documents.ErrNotFound
	default:
		return &documents.StatusError{Code: resp.StatusCode, Message: message}
	}
}

// fileName prefers the Content-Disposition filename, falling back to
// "<templateID>.<format>".
func fileName(resp *http.Response, templateID string, format Format) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := strings.TrimSpace(params["filename"]); name != "" {
				return name
			}
		}
	}
	return templateID + "." + string(format)
}
