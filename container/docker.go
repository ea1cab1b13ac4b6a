package container

import (
	"context"
	"os/exec"
	"strings"
)

// DockerBuilder builds container images using the docker CLI.
type DockerBuilder struct{}

func (b *DockerBuilder) Name() string { return "docker" }

func (b *DockerBuilder) Available() bool {
	return exec.Command("docker", "info").Run() == nil
}

func (b *DockerBuilder) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	out, err := runCapture(ctx, "docker", composeBuildArgs("build", opts)...)
	if err != nil {
		return nil, err
	}
	return &BuildResult{
		ImageID: parseDockerImageID(out),
		Tag:     opts.Tag,
	}, nil
}

func (b *DockerBuilder) Push(ctx context.Context, image string) error {
	_, err := runCapture(ctx, "docker", "push", image)
	return err
}

// parseDockerImageID extracts the image ID from docker build output.
// Docker prints "Successfully built <id>" or a bare sha256 hash.
func parseDockerImageID(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if after, ok := strings.CutPrefix(line, "Successfully built "); ok {
			return after
		}
		if strings.HasPrefix(line, "sha256:") {
			return line
		}
	}
	return lastLine(output)
}
