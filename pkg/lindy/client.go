// Package lindy is the client for the external Lindy automation agent. The
// agent accepts a research task, acknowledges immediately, and posts results
// back to our callback webhook at an arbitrary later time.
package lindy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Trigger acknowledgement must arrive within this window; the eventual
// callback is unbounded and arrives out-of-band.
const defaultTimeout = 60 * time.Second

// Client defines the Lindy trigger operation.
type Client interface {
	Trigger(ctx context.Context, req TriggerRequest) error
}

// TriggerRequest is the task payload forwarded to the agent.
type TriggerRequest struct {
	RequestID          string         `json:"request_id"`
	Company            string         `json:"company"`
	IncludeCompetitive bool           `json:"include_competitive,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CallbackURL        string         `json:"callback_url,omitempty"`
}

// APIError is returned when the agent responds with a non-2xx status. Status
// and body are carried opaquely so the caller can pass them through.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lindy: HTTP %d: %s", e.StatusCode, e.Body)
}

// ErrTimeout is returned when the trigger endpoint does not acknowledge
// within the client timeout.
var ErrTimeout = errors.New("lindy: trigger request timed out")

// Option configures the httpClient.
type Option func(*httpClient)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the default 60s acknowledgement timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.timeout = d
	}
}

// WithAuthHeader sends the shared secret in the named header instead of
// Authorization: Bearer.
func WithAuthHeader(name string) Option {
	return func(c *httpClient) {
		c.authHeader = name
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	webhookURL string
	secret     string
	authHeader string
	timeout    time.Duration
	http       *http.Client
}

// NewClient creates a new Lindy client posting to webhookURL, authenticated
// with the shared secret.
func NewClient(webhookURL, secret string, opts ...Option) Client {
	c := &httpClient{
		webhookURL: webhookURL,
		secret:     secret,
		timeout:    defaultTimeout,
		http: &http.Client{
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

// Trigger forwards the task payload and returns once the agent acknowledges.
// Non-2xx responses surface as *APIError; a missed acknowledgement window
// surfaces as ErrTimeout.
func (c *httpClient) Trigger(ctx context.Context, req TriggerRequest) error {
	buf, err := json.Marshal(req)
	if err != nil {
		return eris.Wrap(err, "lindy: marshal trigger request")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "lindy: create trigger request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		if c.authHeader != "" {
			httpReq.Header.Set(c.authHeader, c.secret)
		} else {
			httpReq.Header.Set("Authorization", "Bearer "+c.secret)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return eris.Wrap(err, "lindy: execute trigger request")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "lindy: read trigger response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	return nil
}
