package container

import (
	"context"
	"os/exec"
)

// PodmanBuilder builds container images using the podman CLI.
type PodmanBuilder struct{}

func (b *PodmanBuilder) Name() string { return "podman" }

func (b *PodmanBuilder) Available() bool {
	return exec.Command("podman", "info").Run() == nil
}

func (b *PodmanBuilder) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	out, err := runCapture(ctx, "podman", composeBuildArgs("build", opts)...)
	if err != nil {
		return nil, err
	}
	// podman prints the image ID on the last line
	return &BuildResult{
		ImageID: lastLine(out),
		Tag:     opts.Tag,
	}, nil
}

func (b *PodmanBuilder) Push(ctx context.Context, image string) error {
	_, err := runCapture(ctx, "podman", "push", image)
	return err
}
