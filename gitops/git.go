// Package gitops wraps the git CLI for reading the source revision and
// pushing manifest-repository updates.
package gitops

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes a command in a directory and returns its combined
// output. Abstracted so tests can substitute a fake.
type CommandRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

var _ CommandRunner = ExecRunner{}

func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// FakeRunner records invocations and returns canned results. Test helper.
type FakeRunner struct {
	Calls  [][]string
	Output string
	Err    error
}

var _ CommandRunner = (*FakeRunner)(nil)

func (f *FakeRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	f.Calls = append(f.Calls, args)
	return f.Output, f.Err
}

// Author is the fixed commit identity used for manifest updates.
type Author struct {
	Name  string
	Email string
}

// Git operates on one repository checkout.
type Git struct {
	runner CommandRunner
	dir    string
}

// New creates a Git over the checkout at dir using the real git CLI.
func New(dir string) *Git {
	return &Git{runner: ExecRunner{}, dir: dir}
}

// NewWithRunner creates a Git with a custom CommandRunner.
func NewWithRunner(dir string, r CommandRunner) *Git {
	return &Git{runner: r, dir: dir}
}

// Clone checks out url into dir. A branch may be empty for the remote default.
func Clone(ctx context.Context, r CommandRunner, url, branch, dir string) error {
	args := []string{"git", "clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "-b", branch)
	}
	args = append(args, url, dir)
	_, err := r.Run(ctx, "", args...)
	return err
}

// HeadCommit returns the short hash of the current HEAD.
func (g *Git) HeadCommit(ctx context.Context) (string, error) {
	return g.runner.Run(ctx, g.dir, "git", "rev-parse", "--short", "HEAD")
}

// HasChanges reports whether the working tree differs from HEAD.
func (g *Git) HasChanges(ctx context.Context) (bool, error) {
	out, err := g.runner.Run(ctx, g.dir, "git", "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Add stages the given path.
func (g *Git) Add(ctx context.Context, path string) error {
	_, err := g.runner.Run(ctx, g.dir, "git", "add", path)
	return err
}

// Commit records staged changes under the given author identity.
func (g *Git) Commit(ctx context.Context, msg string, author Author) error {
	_, err := g.runner.Run(ctx, g.dir, "git",
		"-c", "user.name="+author.Name,
		"-c", "user.email="+author.Email,
		"commit", "-m", msg)
	return err
}

// Push sends the current branch to origin. An empty branch pushes HEAD.
func (g *Git) Push(ctx context.Context, branch string) error {
	ref := branch
	if ref == "" {
		ref = "HEAD"
	}
	_, err := g.runner.Run(ctx, g.dir, "git", "push", "origin", ref)
	return err
}
