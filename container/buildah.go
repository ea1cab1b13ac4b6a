package container

import (
	"context"
	"os/exec"
)

// BuildahBuilder builds container images using the buildah CLI.
type BuildahBuilder struct{}

func (b *BuildahBuilder) Name() string { return "buildah" }

func (b *BuildahBuilder) Available() bool {
	return exec.Command("buildah", "version").Run() == nil
}

func (b *BuildahBuilder) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	out, err := runCapture(ctx, "buildah", composeBuildArgs("bud", opts)...)
	if err != nil {
		return nil, err
	}
	// buildah prints the image ID on the last line
	return &BuildResult{
		ImageID: lastLine(out),
		Tag:     opts.Tag,
	}, nil
}

func (b *BuildahBuilder) Push(ctx context.Context, image string) error {
	_, err := runCapture(ctx, "buildah", "push", image)
	return err
}
