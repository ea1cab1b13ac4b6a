// Package pipeline provides the sequential deployment pipeline core:
// stage definitions, the run record, post-run hooks, and the executor.
package pipeline

import (
	"context"
)

// Stage is a single named unit of pipeline work with a pass/fail outcome.
type Stage interface {
	Name() string
	Execute(ctx context.Context, rc *RunContext) error
}

// Pipeline is an ordered sequence of stages. Immutable once constructed.
type Pipeline struct {
	name   string
	stages []Stage
}

// New creates a Pipeline, validating that stage names are unique and
// non-empty. Validation failures are DefinitionErrors.
func New(name string, stages ...Stage) (*Pipeline, error) {
	if name == "" {
		return nil, NewDefinitionError("pipeline name is required")
	}
	seen := make(map[string]bool, len(stages))
	for i, s := range stages {
		n := s.Name()
		if n == "" {
			return nil, NewDefinitionError("stage %d has an empty name", i)
		}
		if seen[n] {
			return nil, NewDefinitionError("duplicate stage name %q", n)
		}
		seen[n] = true
	}
	return &Pipeline{name: name, stages: stages}, nil
}

// Name returns the pipeline's name.
func (p *Pipeline) Name() string { return p.name }

// Stages returns the ordered stage list.
func (p *Pipeline) Stages() []Stage { return p.stages }
