package stages

import (
	"context"
	"time"

	"github.com/conveyorci/conveyor/health"
	"github.com/conveyorci/conveyor/pipeline"
)

const defaultHealthInterval = 5 * time.Second

// HealthCheckStage waits a fixed delay, then polls the service's health
// endpoint and requires the JSON status field to be "UP". By default it
// polls exactly once; attempts > 1 enables a fixed-interval retry.
type HealthCheckStage struct {
	name     string
	url      string
	delay    time.Duration
	attempts int
	interval time.Duration
	client   *health.Client
}

// NewHealthCheckStage creates a HealthCheckStage. attempts < 1 means a
// single poll; zero interval falls back to 5s.
func NewHealthCheckStage(name, url string, delay time.Duration, attempts int, interval time.Duration) *HealthCheckStage {
	if attempts < 1 {
		attempts = 1
	}
	if interval <= 0 {
		interval = defaultHealthInterval
	}
	return &HealthCheckStage{
		name:     name,
		url:      url,
		delay:    delay,
		attempts: attempts,
		interval: interval,
		client:   health.NewClient(0),
	}
}

func (s *HealthCheckStage) Name() string { return s.name }

func (s *HealthCheckStage) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	url := rc.Env.Expand(s.url)

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return pipeline.NewExternalError(s.name, ctx.Err())
		case <-time.After(s.delay):
		}
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		res, err := s.client.Check(ctx, url)
		switch {
		case err != nil:
			lastErr = pipeline.NewExternalError(s.name, err)
		case res.Up():
			return nil
		case res.Status == "":
			lastErr = pipeline.NewPredicateError(s.name, "health response has no status field: %q", truncate(res.Body, 200))
		default:
			lastErr = pipeline.NewPredicateError(s.name, "health status %q, want %q", res.Status, health.StatusUp)
		}

		rc.Log.Debug("health check attempt failed", map[string]any{
			"stage":   s.name,
			"attempt": attempt,
			"error":   lastErr.Error(),
		})

		if attempt < s.attempts {
			select {
			case <-ctx.Done():
				return pipeline.NewExternalError(s.name, ctx.Err())
			case <-time.After(s.interval):
			}
		}
	}
	return lastErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
