// Package agent provides a client for the company enrichment agent service.
//
// The agent does its own multi-step research per request and is treated as
// opaque here. The client makes exactly one HTTP attempt per call: retry
// policy belongs to the row driver, which bounds how many times a row may
// invoke the agent.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the enrichment agent operations.
type Client interface {
	// Lookup asks the agent for a company's core details.
	Lookup(ctx context.Context, req LookupRequest) (*CompanyCore, error)
	// Contacts asks the agent for named contacts at a known company.
	Contacts(ctx context.Context, req ContactsRequest) (*ContactsResult, error)
}

// StatusError is returned for non-200 agent responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("agent: status %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the status indicates a retryable server-side
// condition.
func (e *StatusError) Transient() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// Option configures the agent client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the per-call timeout. Agent calls run a whole
// research loop server-side, so the default is a generous 2 minutes.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit throttles calls to rps requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// WithMaxSteps sets the step budget hint forwarded with every request.
func WithMaxSteps(n int) Option {
	return func(c *httpClient) {
		c.maxSteps = n
	}
}

type httpClient struct {
	apiKey   string
	baseURL  string
	maxSteps int
	limiter  *rate.Limiter
	http     *http.Client
}

// NewClient creates a new enrichment agent client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		baseURL:  "https://agent.sells-group.internal",
		maxSteps: 120,
		http: &http.Client{
			Timeout: 2 * time.Minute,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Lookup(ctx context.Context, req LookupRequest) (*CompanyCore, error) {
	if req.MaxSteps == 0 {
		req.MaxSteps = c.maxSteps
	}

	var result CompanyCore
	if err := c.post(ctx, "/v1/lookup", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) Contacts(ctx context.Context, req ContactsRequest) (*ContactsResult, error) {
	if req.MaxSteps == 0 {
		req.MaxSteps = c.maxSteps
	}

	var result ContactsResult
	if err := c.post(ctx, "/v1/contacts", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// post sends one JSON request and decodes the response. No retries here.
func (c *httpClient) post(ctx context.Context, path string, payload any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "agent: rate limit")
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "agent: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "agent: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "agent: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "agent: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "agent: unmarshal response")
	}
	return nil
}
