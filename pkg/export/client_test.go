package export

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-docgen/pkg/documents"
	"github.com/goliatone/go-docgen/pkg/model"
)

func TestExportReturnsBinary(t *testing.T) {
	t.Parallel()

	payload := []byte("%PDF-1.7 fake")
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/web/documents/export", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req struct {
			TemplateID string       `json:"templateId"`
			Values     model.Values `json:"values"`
			Format     string       `json:"format"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "employment_contract", req.TemplateID)
		assert.Equal(t, "pdf", req.Format)

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="contract.pdf"`)
		_, _ = w.Write(payload)
	}))
	defer backend.Close()

	client, err := New(backend.URL, WithTokenProvider(func() string { return "tok" }))
	require.NoError(t, err)

	file, err := client.Export(context.Background(), "employment_contract", model.Values{"employer": "x"}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, payload, file.Data)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "contract.pdf", file.Name)
}

func TestExportFilenameFallback(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("bytes"))
	}))
	defer backend.Close()

	client, err := New(backend.URL)
	require.NoError(t, err)

	file, err := client.Export(context.Background(), "claim_letter", nil, FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, "claim_letter.docx", file.Name)
}

func TestExportFailuresAreTyped(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("X-Scenario") {
		case "unauthorized":
			w.WriteHeader(http.StatusUnauthorized)
		case "missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "converter offline"})
		}
	}))
	defer backend.Close()

	scenario := ""
	client, err := New(backend.URL, WithHTTPClient(&http.Client{
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r.Header.Set("X-Scenario", scenario)
			return http.DefaultTransport.RoundTrip(r)
		}),
	}))
	require.NoError(t, err)

	scenario = "unauthorized"
	_, err = client.Export(context.Background(), "t", nil, FormatPDF)
	assert.ErrorIs(t, err, documents.ErrUnauthorized)

	scenario = "missing"
	_, err = client.Export(context.Background(), "t", nil, FormatPDF)
	assert.ErrorIs(t, err, documents.ErrNotFound)

	scenario = "broken"
	_, err = client.Export(context.Background(), "t", nil, FormatPDF)
	var statusErr *documents.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode())
	assert.Contains(t, statusErr.Error(), "converter offline")
}

func TestExportInputValidation(t *testing.T) {
	t.Parallel()

	client, err := New("http://localhost:9")
	require.NoError(t, err)

	_, err = client.Export(context.Background(), "", nil, FormatPDF)
	assert.Error(t, err)
	_, err = client.Export(context.Background(), "t", nil, Format("xlsx"))
	assert.Error(t, err)
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
