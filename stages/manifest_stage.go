package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/conveyorci/conveyor/gitops"
	"github.com/conveyorci/conveyor/pipeline"
)

// tagLine matches the single image-tag line of a deployment manifest.
var tagLine = regexp.MustCompile(`(?m)^([ \t]*)tag:[^\n]*$`)

// ManifestStage rewrites the `tag:` line of a deployment manifest to the
// run's commit hash, then commits and pushes under a fixed author identity.
// When the rewrite changes nothing, no commit or push is made, so repeating
// the stage with the same commit hash is idempotent.
type ManifestStage struct {
	name   string
	repo   string // remote to clone; empty operates on the work dir checkout
	branch string
	path   string // manifest path relative to the checkout
	msg    string
	author gitops.Author
	runner gitops.CommandRunner
}

// ManifestStageOptions configures a ManifestStage.
type ManifestStageOptions struct {
	Repo    string
	Branch  string
	Path    string
	Message string
	Author  gitops.Author
	Runner  gitops.CommandRunner // nil uses the real git CLI
}

// NewManifestStage creates a ManifestStage.
func NewManifestStage(name string, opts ManifestStageOptions) *ManifestStage {
	runner := opts.Runner
	if runner == nil {
		runner = gitops.ExecRunner{}
	}
	author := opts.Author
	if author.Name == "" {
		author.Name = "conveyor"
	}
	if author.Email == "" {
		author.Email = "conveyor@localhost"
	}
	return &ManifestStage{
		name:   name,
		repo:   opts.Repo,
		branch: opts.Branch,
		path:   opts.Path,
		msg:    opts.Message,
		author: author,
		runner: runner,
	}
}

func (s *ManifestStage) Name() string { return s.name }

func (s *ManifestStage) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	commit := rc.Run.Commit
	if commit == "" {
		return pipeline.NewExecutionError(s.name, 1,
			fmt.Errorf("no commit hash available for the manifest tag"))
	}

	checkout := rc.WorkDir
	if s.repo != "" {
		dir, err := os.MkdirTemp("", "conveyor-gitops-")
		if err != nil {
			return pipeline.NewExecutionError(s.name, 1, fmt.Errorf("creating checkout dir: %w", err))
		}
		defer os.RemoveAll(dir) //nolint:errcheck

		repo := rc.Env.Expand(s.repo)
		if err := gitops.Clone(ctx, s.runner, repo, s.branch, dir); err != nil {
			return pipeline.NewExternalError(s.name, fmt.Errorf("cloning manifest repo: %w", err))
		}
		checkout = dir
	}

	changed, err := s.rewriteTag(filepath.Join(checkout, s.path), commit)
	if err != nil {
		return pipeline.NewExecutionError(s.name, 1, err)
	}
	if !changed {
		rc.Log.Info("manifest already up to date", map[string]any{"stage": s.name, "commit": commit})
		return nil
	}

	git := gitops.NewWithRunner(checkout, s.runner)
	msg := s.msg
	if msg == "" {
		msg = fmt.Sprintf("update image tag to %s", commit)
	}

	if err := git.Add(ctx, s.path); err != nil {
		return pipeline.NewExecutionError(s.name, 1, fmt.Errorf("staging manifest: %w", err))
	}
	if err := git.Commit(ctx, msg, s.author); err != nil {
		return pipeline.NewExecutionError(s.name, 1, fmt.Errorf("committing manifest: %w", err))
	}
	if err := git.Push(ctx, s.branch); err != nil {
		return pipeline.NewExternalError(s.name, fmt.Errorf("pushing manifest: %w", err))
	}

	rc.Log.Info("manifest updated", map[string]any{"stage": s.name, "path": s.path, "commit": commit})
	return nil
}

// rewriteTag replaces the manifest's single tag line with the commit hash.
// The file must pre-exist and contain exactly one tag line. It reports
// whether the file content actually changed.
func (s *ManifestStage) rewriteTag(path, commit string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("manifest %s: %w", s.path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading manifest %s: %w", s.path, err)
	}

	matches := tagLine.FindAll(data, -1)
	if len(matches) != 1 {
		return false, fmt.Errorf("manifest %s: expected exactly one tag: line, found %d", s.path, len(matches))
	}

	updated := tagLine.ReplaceAll(data, []byte("${1}tag: "+commit))
	if string(updated) == string(data) {
		return false, nil
	}
	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing manifest %s: %w", s.path, err)
	}
	return true, nil
}
