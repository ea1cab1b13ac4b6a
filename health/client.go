// Package health checks a deployed service's HTTP health endpoint.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusUp is the sentinel value a healthy service reports.
const StatusUp = "UP"

// Result is the transient outcome of one health poll.
type Result struct {
	URL    string
	Body   string
	Status string // parsed status field; empty when the body is malformed
}

// Up reports whether the parsed status matches the healthy sentinel.
func (r *Result) Up() bool { return r.Status == StatusUp }

// Client polls health endpoints over HTTP.
type Client struct {
	http *http.Client
}

// NewClient creates a Client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Check fetches url and parses the status field from its JSON body.
// A reachable endpoint always yields a Result; a malformed or status-less
// body yields a Result with an empty Status, not an error.
func (c *Client) Check(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching health endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading health response: %w", err)
	}

	res := &Result{URL: url, Body: string(body)}

	var parsed struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		res.Status = parsed.Status
	}
	return res, nil
}
