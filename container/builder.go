// Package container builds and pushes container images via the docker,
// podman, or buildah CLIs.
package container

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Builder is the interface for container image builders.
type Builder interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Push(ctx context.Context, image string) error
	Available() bool
	Name() string
}

// BuildOptions configures a container image build.
type BuildOptions struct {
	ContextDir string
	Dockerfile string
	Tag        string
	Platform   string
	NoCache    bool
	BuildArgs  map[string]string
	Labels     map[string]string
}

// BuildResult holds the result of a container image build.
type BuildResult struct {
	ImageID string
	Tag     string
}

// Detect returns the first available container builder in order:
// docker, podman, buildah. Returns nil if none is available.
func Detect() Builder {
	builders := []Builder{
		&DockerBuilder{},
		&PodmanBuilder{},
		&BuildahBuilder{},
	}
	for _, b := range builders {
		if b.Available() {
			return b
		}
	}
	return nil
}

// Get returns a builder by name, or nil if the name is unknown.
func Get(name string) Builder {
	switch name {
	case "docker":
		return &DockerBuilder{}
	case "podman":
		return &PodmanBuilder{}
	case "buildah":
		return &BuildahBuilder{}
	default:
		return nil
	}
}

// composeBuildArgs assembles the CLI argument list shared by all builders.
// Map-derived flags are sorted so the command line is deterministic.
func composeBuildArgs(verb string, opts BuildOptions) []string {
	args := []string{verb}

	if opts.Tag != "" {
		args = append(args, "-t", opts.Tag)
	}
	if opts.Dockerfile != "" {
		args = append(args, "-f", opts.Dockerfile)
	}
	if opts.Platform != "" {
		args = append(args, "--platform", opts.Platform)
	}
	if opts.NoCache {
		args = append(args, "--no-cache")
	}
	for _, k := range sortedKeys(opts.BuildArgs) {
		args = append(args, "--build-arg", fmt.Sprintf("%s=%s", k, opts.BuildArgs[k]))
	}
	for _, k := range sortedKeys(opts.Labels) {
		args = append(args, "--label", fmt.Sprintf("%s=%s", k, opts.Labels[k]))
	}

	contextDir := opts.ContextDir
	if contextDir == "" {
		contextDir = "."
	}
	return append(args, contextDir)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// runCapture runs bin with args, returning stdout; on failure the error
// includes the captured stderr.
func runCapture(ctx context.Context, bin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s %s failed: %s: %w", bin, args[0], strings.TrimSpace(stderr.String()), err)
	}
	return string(out), nil
}

// lastLine returns the final non-empty line of CLI output, where podman and
// buildah print the built image ID.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
