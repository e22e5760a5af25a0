package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

var errMissingUpstream = errors.New("api: upstream url is required")

// envelope is the normalized response shape every proxy route emits.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// proxyJSON forwards the request upstream and wraps the JSON response in the
// envelope. notFound is the resource-specific message used for upstream 404s.
func (s *Server) proxyJSON(notFound string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, ok := s.forward(w, r)
		if !ok {
			return
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			writeError(w, http.StatusBadGateway, "Upstream response unreadable")
			return
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			writeJSON(w, resp.StatusCode, envelope{Success: true, Data: dataPayload(body)})
			return
		}
		s.writeUpstreamError(w, resp.StatusCode, notFound, body)
	}
}

// proxyBinary forwards the request upstream and streams the binary response
// through unchanged on success. Errors still use the envelope.
func (s *Server) proxyBinary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, ok := s.forward(w, r)
		if !ok {
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			for _, header := range []string{"Content-Type", "Content-Disposition", "Content-Length"} {
				if value := resp.Header.Get(header); value != "" {
					w.Header().Set(header, value)
				}
			}
			w.WriteHeader(resp.StatusCode)
			_, _ = io.Copy(w, resp.Body)
			return
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.writeUpstreamError(w, resp.StatusCode, "Export failed", body)
	}
}

// forward performs the upstream round trip. It writes the error response
// itself and reports ok=false when the caller should stop.
func (s *Server) forward(w http.ResponseWriter, r *http.Request) (*http.Response, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, s.upstream+upstreamPath(r.URL.Path), r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Request failed")
		return nil, false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", r.Header.Get("Accept"))
	if ct := r.Header.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("upstream request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "Upstream unavailable")
		return nil, false
	}
	return resp, true
}

func (s *Server) writeUpstreamError(w http.ResponseWriter, status int, notFound string, body []byte) {
	switch status {
	case http.StatusUnauthorized:
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case http.StatusNotFound:
		writeError(w, http.StatusNotFound, notFound)
	default:
		message := upstreamMessage(body)
		if message == "" {
			message = "Request failed"
		}
		// The upstream status is preserved so callers can distinguish
		// client mistakes from backend failures.
		writeError(w, status, message)
	}
}

// upstreamPath rewrites the public /api prefix to the backend's /web prefix.
func upstreamPath(path string) string {
	return "/web" + strings.TrimPrefix(path, "/api")
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// dataPayload passes JSON bodies through untouched and quotes anything else
// so the envelope stays valid JSON.
func dataPayload(body []byte) json.RawMessage {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(trimmed)
	return quoted
}

func upstreamMessage(body []byte) string {
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	return env.Message
}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}
