package stages

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/conveyorci/conveyor/container"
	"github.com/conveyorci/conveyor/pipeline"
)

// ImageStage builds a container image tagged with the run's commit hash and
// optionally pushes it to the registry.
type ImageStage struct {
	name       string
	builder    container.Builder
	repository string
	contextDir string
	dockerfile string
	platform   string
	push       bool
}

// ImageStageOptions configures an ImageStage.
type ImageStageOptions struct {
	Builder    container.Builder // nil means detect at execution time
	Repository string
	ContextDir string
	Dockerfile string
	Platform   string
	Push       bool
}

// NewImageStage creates an ImageStage.
func NewImageStage(name string, opts ImageStageOptions) *ImageStage {
	return &ImageStage{
		name:       name,
		builder:    opts.Builder,
		repository: opts.Repository,
		contextDir: opts.ContextDir,
		dockerfile: opts.Dockerfile,
		platform:   opts.Platform,
		push:       opts.Push,
	}
}

func (s *ImageStage) Name() string { return s.name }

func (s *ImageStage) Execute(ctx context.Context, rc *pipeline.RunContext) error {
	builder := s.builder
	if builder == nil {
		builder = container.Detect()
		if builder == nil {
			return pipeline.NewExternalError(s.name,
				fmt.Errorf("no container builder available (tried docker, podman, buildah)"))
		}
	}

	tag := rc.Run.Commit
	if tag == "" {
		return pipeline.NewExecutionError(s.name, 1,
			fmt.Errorf("no commit hash available to tag the image"))
	}
	image := rc.Env.Expand(s.repository) + ":" + tag

	contextDir := rc.Env.Expand(s.contextDir)
	if contextDir == "" {
		contextDir = rc.WorkDir
	} else if !filepath.IsAbs(contextDir) {
		contextDir = filepath.Join(rc.WorkDir, contextDir)
	}

	rc.Log.Info("building image", map[string]any{
		"stage":   s.name,
		"image":   image,
		"builder": builder.Name(),
	})

	result, err := builder.Build(ctx, container.BuildOptions{
		ContextDir: contextDir,
		Dockerfile: rc.Env.Expand(s.dockerfile),
		Tag:        image,
		Platform:   s.platform,
		Labels:     map[string]string{"org.opencontainers.image.revision": tag},
	})
	if err != nil {
		return pipeline.NewExecutionError(s.name, 1, fmt.Errorf("building image: %w", err))
	}
	rc.Log.Info("image built", map[string]any{"stage": s.name, "image_id": result.ImageID})

	if s.push {
		if err := builder.Push(ctx, image); err != nil {
			return pipeline.NewExternalError(s.name, fmt.Errorf("pushing image: %w", err))
		}
		rc.Log.Info("image pushed", map[string]any{"stage": s.name, "image": image})
	}
	return nil
}
