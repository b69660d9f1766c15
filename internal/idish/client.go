// Package idish is the typed client for the iDISH REST backend. A thin
// request wrapper attaches the bearer token from an explicitly passed session
// and maps non-2xx responses to *APIError; per-resource services build the
// domain operations on top of it.
package idish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"idish/internal/metrics"
	"idish/internal/models"

	"github.com/rs/zerolog"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient builds a backend client. No client-side timeout is set: requests
// are bounded only by their context, so callers cancel superseded fetches
// instead of racing them.
func NewClient(baseURL string, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger.With().Str("component", "backend-client").Logger(),
	}
}

// RequestOptions mirrors the wrapper contract: method, optional JSON body and
// whether the call must carry the session's bearer token.
type RequestOptions struct {
	Method       string
	Body         any
	RequiresAuth bool
	Token        string
}

// Do issues one JSON request and decodes the response into out (when non-nil).
// RequiresAuth with an empty token fails fast with ErrAuthRequired before any
// network activity.
func (c *Client) Do(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}
	if opts.RequiresAuth && opts.Token == "" {
		return ErrAuthRequired
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", opts.Method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if opts.RequiresAuth {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackend(endpointGroup(endpoint), "error", time.Since(start))
		return fmt.Errorf("request %s %s: %w", opts.Method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	metrics.ObserveBackend(endpointGroup(endpoint), strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return fmt.Errorf("read response %s %s: %w", opts.Method, endpoint, err)
	}

	c.logger.Debug().
		Str("method", opts.Method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response %s %s: %w", opts.Method, endpoint, err)
		}
	}
	return nil
}

// decodeError extracts the backend's {"error": "..."} message, falling back
// to a generic string when the payload is not usable.
func decodeError(statusCode int, data []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	message := genericErrorMessage
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	return &APIError{StatusCode: statusCode, Message: message}
}

// endpointGroup reduces an endpoint to its first two path segments so metric
// labels stay bounded regardless of resource IDs.
func endpointGroup(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	parts := strings.SplitN(strings.TrimPrefix(endpoint, "/"), "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[0] + "/" + parts[1]
	}
	return "/" + parts[0]
}

// token extracts the bearer token from an optional session.
func token(sess *models.Session) string {
	if sess == nil {
		return ""
	}
	return sess.AccessToken
}
