// Package gate reads an external static-analysis quality-gate judgment.
package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Status is an externally computed quality-gate judgment.
type Status string

const (
	StatusOK      Status = "OK"
	StatusError   Status = "ERROR"
	StatusPending Status = "PENDING"
)

// Client fetches gate judgments over HTTP.
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

type gateResponse struct {
	Status        string `json:"status"`
	ProjectStatus struct {
		Status string `json:"status"`
	} `json:"projectStatus"`
}

// Status fetches the gate judgment from url. It accepts either a top-level
// status field or the analysis server's nested projectStatus.status form.
// Judgments other than OK and ERROR are reported as PENDING.
func (c *Client) Status(ctx context.Context, url string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating gate request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching quality gate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("quality gate endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading gate response: %w", err)
	}

	var gr gateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("parsing gate response: %w", err)
	}

	raw := gr.ProjectStatus.Status
	if raw == "" {
		raw = gr.Status
	}
	if raw == "" {
		return "", fmt.Errorf("gate response has no status field")
	}

	switch Status(strings.ToUpper(raw)) {
	case StatusOK:
		return StatusOK, nil
	case StatusError:
		return StatusError, nil
	default:
		return StatusPending, nil
	}
}
