// Package shell executes stage commands via the system shell.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Result holds the outcome of one shell command.
type Result struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// Options configures a shell command execution.
type Options struct {
	Dir     string
	Env     []string      // extra KEY=VALUE pairs appended to the process env
	Timeout time.Duration // zero means no timeout
	Tee     io.Writer     // optional live sink for combined output
}

// Run executes command with `sh -c`, capturing combined stdout+stderr.
// The process is always reaped, whichever way the call exits. On timeout the
// returned error wraps context.DeadlineExceeded. The Result is non-nil even
// on failure so the caller can read the exit code and partial output.
func Run(ctx context.Context, command string, opts Options) (*Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)

	var buf bytes.Buffer
	var sink io.Writer = &buf
	if opts.Tee != nil {
		sink = io.MultiWriter(&buf, opts.Tee)
	}
	cmd.Stdout = sink
	cmd.Stderr = sink

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Output:   buf.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("command timed out after %s: %w", opts.Timeout, context.DeadlineExceeded)
		}
		return res, fmt.Errorf("command failed with exit code %d: %w", res.ExitCode, err)
	}
	return res, nil
}
