// Package recommend is the HTTP client for the external recommendation
// service. It posts a query and decodes the ranked vehicles plus the optional
// headline suggestion.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tbourn/go-motormony/internal/domain"
)

const (
	DefaultURL       = "http://127.0.0.1:5000/recommend"
	DefaultTopK      = 100
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 8 << 20
)

// Recommender is what the service layer needs from a recommendation backend.
type Recommender interface {
	Recommend(ctx context.Context, query string) (*Response, error)
}

// Request is the POST body sent to the service.
type Request struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// Response is the decoded service reply.
type Response struct {
	Results    []domain.Vehicle   `json:"results"`
	Suggestion *domain.Suggestion `json:"carpilot_suggestion,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Config holds client settings. Zero values fall back to defaults.
type Config struct {
	URL     string
	TopK    int
	Timeout time.Duration
	// Transport overrides the base round tripper (tests). It is still wrapped
	// with otelhttp.
	Transport http.RoundTripper
}

// Client talks to the recommendation service over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
	topK       int
	maxBody    int64
}

// NewClient builds a client with an instrumented transport.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = DefaultURL
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		url:     cfg.URL,
		topK:    cfg.TopK,
		maxBody: maxResponseBytes,
	}
}

// Recommend posts {query, top_k}. A non-2xx status or a non-empty error field
// fails the query even when results are present. All failures wrap
// ErrService as a *ServiceError.
func (c *Client) Recommend(ctx context.Context, query string) (*Response, error) {
	body, err := json.Marshal(Request{Query: query, TopK: c.topK})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &ServiceError{Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}
	defer resp.Body.Close()

	// One byte past the cap tells a full-size body from a truncated one.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &ServiceError{Status: resp.StatusCode, Message: "read response", Err: err}
	}
	if int64(len(raw)) > c.maxBody {
		return nil, &ServiceError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("response too large (over %d bytes)", c.maxBody),
			Err:     ErrResponseTooLarge,
		}
	}

	var out Response
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(out.Error)
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &ServiceError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &ServiceError{Status: resp.StatusCode, Message: "invalid response body", Err: decodeErr}
	}
	if msg := strings.TrimSpace(out.Error); msg != "" {
		return nil, &ServiceError{Status: resp.StatusCode, Message: msg}
	}
	if out.Results == nil {
		out.Results = []domain.Vehicle{}
	}
	return &out, nil
}
