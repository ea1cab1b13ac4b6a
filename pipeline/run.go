package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Status is the lifecycle state of a run or a stage result.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// StageResult records the outcome of one executed stage.
type StageResult struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	ExitCode   int    `json:"exit_code,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Run is the record of one pipeline execution. It is owned by the Executor
// for its lifetime and archived when the run completes.
type Run struct {
	ID         string        `json:"id"`
	Pipeline   string        `json:"pipeline"`
	Commit     string        `json:"commit,omitempty"`
	Status     Status        `json:"status"`
	StageIndex int           `json:"stage_index"`
	Stages     []StageResult `json:"stages,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// NewRun creates a Pending run for the given pipeline and commit hash.
func NewRun(pipelineName, commit string) *Run {
	return &Run{
		ID:       newRunID(),
		Pipeline: pipelineName,
		Commit:   commit,
		Status:   StatusPending,
	}
}

func newRunID() string {
	suffix := make([]byte, 4)
	rand.Read(suffix) //nolint:errcheck
	return time.Now().UTC().Format("20060102-150405") + "-" + hex.EncodeToString(suffix)
}

// Start transitions the run from Pending to Running.
func (r *Run) Start() error {
	if r.Status != StatusPending {
		return fmt.Errorf("cannot start run in status %s", r.Status)
	}
	r.Status = StatusRunning
	r.StartedAt = time.Now().UTC()
	return nil
}

// BeginStage records that the stage at index i is about to execute.
func (r *Run) BeginStage(i int) {
	r.StageIndex = i
}

// RecordStage appends a finished stage's result.
func (r *Run) RecordStage(res StageResult) {
	r.Stages = append(r.Stages, res)
}

// Succeed transitions the run from Running to Succeeded.
func (r *Run) Succeed() error {
	if r.Status != StatusRunning {
		return fmt.Errorf("cannot succeed run in status %s", r.Status)
	}
	r.Status = StatusSucceeded
	now := time.Now().UTC()
	r.FinishedAt = &now
	return nil
}

// Fail transitions the run from Running to Failed, recording the cause.
func (r *Run) Fail(err error) error {
	if r.Status != StatusRunning {
		return fmt.Errorf("cannot fail run in status %s", r.Status)
	}
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	now := time.Now().UTC()
	r.FinishedAt = &now
	return nil
}

// Finished reports whether the run reached a terminal status.
func (r *Run) Finished() bool {
	return r.Status == StatusSucceeded || r.Status == StatusFailed
}

// Duration returns the wall-clock time the run took, or zero if unfinished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
