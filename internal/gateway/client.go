// Package gateway is the token-bearing REST client for the spectrum-analysis
// backend. Every authenticated call reads the access token from the durable
// key-value store at request time; a missing token fails with ErrNoToken
// before anything is sent.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/spectro/pkg/types"
)

// RequestIDHeader carries a per-request UUID v7 for backend log correlation.
const RequestIDHeader = "X-Request-ID"

// Options configure a Client. Zero values select defaults.
type Options struct {
	// HTTPClient defaults to a client with Timeout (0 keeps the transport
	// default of no client-side deadline).
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
	Metrics    *Metrics
}

// Client calls the backend REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  types.KeyValueStore
	logger  *slog.Logger
	metrics *Metrics
}

// New creates a Client for the API rooted at baseURL (for example
// http://localhost:8080/api). tokens supplies the bearer token.
func New(baseURL string, tokens types.KeyValueStore, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, types.ErrAPIURLInvalid
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	return &Client{
		baseURL: u,
		http:    hc,
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Metrics returns the client's request metrics.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// request describes one backend call. route is the path template used as
// the metrics label; path is the concrete, already escaped path below the
// base URL.
type request struct {
	method string
	route  string
	path   string
	query  url.Values
	body   any
	auth   bool
}

// do sends req and decodes a 2xx JSON body into out (when out is non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	var token string
	if req.auth {
		t, err := c.accessToken()
		if err != nil {
			return err
		}
		token = t
	}

	u := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := newRequestID()
	httpReq.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(req.method, req.route, "transport_error", elapsed)
		c.logger.Debug("request failed",
			"method", req.method,
			"path", req.path,
			"request_id", requestID,
			"error", err,
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrTransport, ctxErr)
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	c.metrics.observe(req.method, req.route, strconv.Itoa(resp.StatusCode), elapsed)
	c.logger.Debug("request completed",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
		"request_id", requestID,
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// accessToken reads the bearer token from the durable store.
func (c *Client) accessToken() (string, error) {
	if c.tokens == nil {
		return "", ErrNoToken
	}
	token, err := c.tokens.Get(types.KeyAccessToken)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("reading access token: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// errorMessage extracts "message" (or "error") from an error body.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// newRequestID generates a UUID v7 request ID.
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
