package pipeline

import (
	"context"
	"fmt"
	"time"
)

// StageReporter receives progress events during a run. Implementations must
// not mutate the run record.
type StageReporter interface {
	RunStarted(run *Run, totalStages int)
	StageStarted(index int, name string)
	StageFinished(res StageResult)
	RunFinished(run *Run)
}

// NopReporter is a StageReporter that does nothing.
type NopReporter struct{}

func (NopReporter) RunStarted(*Run, int)      {}
func (NopReporter) StageStarted(int, string)  {}
func (NopReporter) StageFinished(StageResult) {}
func (NopReporter) RunFinished(*Run)          {}

// Archiver persists a run record once it reaches a terminal state.
type Archiver interface {
	Archive(run *Run) error
}

// Executor runs a pipeline's stages in order against a live Run, stopping at
// the first failure, then fires post-run hooks and archives the run.
type Executor struct {
	Hooks    *HookRegistry
	Reporter StageReporter
	Archiver Archiver
}

// Execute runs each stage sequentially. The returned error is the first
// stage failure (or cancellation); hook and archive errors are only logged.
func (e *Executor) Execute(ctx context.Context, p *Pipeline, rc *RunContext) error {
	rep := e.Reporter
	if rep == nil {
		rep = NopReporter{}
	}

	if err := rc.Run.Start(); err != nil {
		return NewDefinitionError("starting run: %v", err)
	}
	rep.RunStarted(rc.Run, len(p.Stages()))

	var runErr error
	for i, s := range p.Stages() {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("run cancelled before stage %s: %w", s.Name(), err)
			break
		}

		rc.Run.BeginStage(i)
		rep.StageStarted(i, s.Name())
		rc.Log.Info("stage started", map[string]any{"stage": s.Name(), "index": i})

		start := time.Now()
		err := s.Execute(ctx, rc)
		res := StageResult{
			Name:       s.Name(),
			Status:     StatusSucceeded,
			DurationMS: time.Since(start).Milliseconds(),
		}
		if err != nil {
			res.Status = StatusFailed
			res.Error = err.Error()
			res.ExitCode = ExitCode(err)
		}
		rc.Run.RecordStage(res)
		rep.StageFinished(res)

		if err != nil {
			rc.Log.Error("stage failed", map[string]any{"stage": s.Name(), "error": err.Error()})
			runErr = fmt.Errorf("stage %s: %w", s.Name(), err)
			break
		}
		rc.Log.Info("stage succeeded", map[string]any{
			"stage":       s.Name(),
			"duration_ms": res.DurationMS,
		})
	}

	if runErr != nil {
		rc.Run.Fail(runErr) //nolint:errcheck
	} else {
		rc.Run.Succeed() //nolint:errcheck
	}

	e.firePostHooks(ctx, rc)
	rep.RunFinished(rc.Run)

	if e.Archiver != nil {
		if err := e.Archiver.Archive(rc.Run); err != nil {
			rc.Log.Warn("archiving run failed", map[string]any{"error": err.Error()})
		}
	}

	return runErr
}

// firePostHooks runs exactly one of the success/failure hooks, then the
// always hooks. Hooks still run when the outer context was cancelled.
func (e *Executor) firePostHooks(ctx context.Context, rc *RunContext) {
	if e.Hooks == nil {
		return
	}
	hookCtx := context.WithoutCancel(ctx)

	point := OnSuccess
	if rc.Run.Status == StatusFailed {
		point = OnFailure
	}
	if err := e.Hooks.Fire(hookCtx, point, rc); err != nil {
		rc.Log.Warn("post-run hook failed", map[string]any{"error": err.Error()})
	}
	if err := e.Hooks.Fire(hookCtx, Always, rc); err != nil {
		rc.Log.Warn("always hook failed", map[string]any{"error": err.Error()})
	}
}
