// Package stages provides the builtin stage implementations a pipeline
// definition can reference.
package stages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/conveyorci/conveyor/pipeline"
	"github.com/conveyorci/conveyor/shell"
)

// CommandStage runs an ordered list of shell commands, stopping at the first
// failure. Environment bindings are substituted into each command before it runs.
type CommandStage struct {
	name     string
	commands []string
	timeout  time.Duration // per-command; zero disables
}

// NewCommandStage creates a CommandStage.
func NewCommandStage(name string, commands []string, timeout time.Duration) *CommandStage {
	return &CommandStage{name: name, commands: commands, timeout: timeout}
}

func (s *CommandStage) Name() string { return s.name }

func (s *CommandStage) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	for _, raw := range s.commands {
		command := rc.Env.Expand(raw)
		rc.Log.Debug("running command", map[string]any{"stage": s.name, "command": command})

		res, err := shell.Run(ctx, command, shell.Options{
			Dir:     rc.WorkDir,
			Env:     rc.Env.Environ(),
			Timeout: s.timeout,
			Tee:     rc.Output,
		})
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return pipeline.NewTimeoutError(s.name,
					fmt.Errorf("command %q timed out after %s", raw, s.timeout))
			}
			return pipeline.NewExecutionError(s.name, res.ExitCode,
				fmt.Errorf("command %q: %w", raw, err))
		}
	}
	return nil
}
