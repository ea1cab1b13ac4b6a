package stages

import (
	"context"
	"fmt"
	"time"

	"github.com/conveyorci/conveyor/gate"
	"github.com/conveyorci/conveyor/pipeline"
)

const (
	defaultGateInterval = 5 * time.Second
	defaultGateTimeout  = 2 * time.Minute
)

// QualityGateStage polls an external static-analysis judgment at a fixed
// interval until it resolves or the bounded wait elapses. A timeout is a
// failed outcome, not a retry.
type QualityGateStage struct {
	name     string
	url      string
	interval time.Duration
	timeout  time.Duration
	client   *gate.Client
}

// NewQualityGateStage creates a QualityGateStage. Zero interval and timeout
// fall back to 5s / 2m.
func NewQualityGateStage(name, url string, interval, timeout time.Duration) *QualityGateStage {
	if interval <= 0 {
		interval = defaultGateInterval
	}
	if timeout <= 0 {
		timeout = defaultGateTimeout
	}
	return &QualityGateStage{
		name:     name,
		url:      url,
		interval: interval,
		timeout:  timeout,
		client:   gate.NewClient(0),
	}
}

func (s *QualityGateStage) Name() string { return s.name }

func (s *QualityGateStage) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	url := rc.Env.Expand(s.url)
	deadline := time.Now().Add(s.timeout)

	for {
		status, err := s.client.Status(ctx, url)
		if err != nil {
			return pipeline.NewExternalError(s.name, err)
		}

		switch status {
		case gate.StatusOK:
			return nil
		case gate.StatusError:
			return pipeline.NewPredicateError(s.name, "quality gate returned ERROR")
		}

		rc.Log.Debug("quality gate pending", map[string]any{"stage": s.name, "url": url})

		if time.Now().After(deadline) {
			return pipeline.NewTimeoutError(s.name,
				fmt.Errorf("quality gate not resolved within %s", s.timeout))
		}

		select {
		case <-ctx.Done():
			return pipeline.NewExternalError(s.name, ctx.Err())
		case <-time.After(s.interval):
		}
	}
}
