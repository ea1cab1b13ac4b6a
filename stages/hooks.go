package stages

import (
	"context"
	"fmt"

	"github.com/conveyorci/conveyor/pipeline"
	"github.com/conveyorci/conveyor/shell"
	"github.com/conveyorci/conveyor/types"
)

// HookFromCommands wraps a post-hook command list as a pipeline Hook. Every
// command runs even if an earlier one fails; failures are reported together.
func HookFromCommands(commands []string) pipeline.Hook {
	return func(ctx context.Context, rc *pipeline.RunContext) error {
		var firstErr error
		for _, raw := range commands {
			command := rc.Env.Expand(raw)
			if _, err := shell.Run(ctx, command, shell.Options{
				Dir: rc.WorkDir,
				Env: rc.Env.Environ(),
				Tee: rc.Output,
			}); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("hook command %q: %w", raw, err)
			}
		}
		return firstErr
	}
}

// RegisterHooks wires a definition's post block into a HookRegistry.
func RegisterHooks(reg *pipeline.HookRegistry, post types.PostConfig) {
	if len(post.OnSuccess) > 0 {
		reg.Register(pipeline.OnSuccess, HookFromCommands(post.OnSuccess))
	}
	if len(post.OnFailure) > 0 {
		reg.Register(pipeline.OnFailure, HookFromCommands(post.OnFailure))
	}
	if len(post.Always) > 0 {
		reg.Register(pipeline.Always, HookFromCommands(post.Always))
	}
}
