package stages

import (
	"strconv"
	"time"

	"github.com/conveyorci/conveyor/container"
	"github.com/conveyorci/conveyor/gitops"
	"github.com/conveyorci/conveyor/pipeline"
	"github.com/conveyorci/conveyor/types"
)

// FactoryOptions carries collaborator overrides for stage construction.
type FactoryOptions struct {
	Builder   container.Builder    // image stages; nil detects at execution time
	GitRunner gitops.CommandRunner // manifest stages; nil uses the real git CLI
}

// Build assembles a Pipeline from a parsed definition. Definition problems
// surface as DefinitionErrors before anything executes.
func Build(cfg *types.PipelineConfig, opts FactoryOptions) (*pipeline.Pipeline, error) {
	built := make([]pipeline.Stage, 0, len(cfg.Stages))
	for _, sc := range cfg.Stages {
		st, err := fromStageConfig(sc, opts)
		if err != nil {
			return nil, err
		}
		built = append(built, st)
	}
	return pipeline.New(cfg.Pipeline, built...)
}

func fromStageConfig(sc types.StageConfig, opts FactoryOptions) (pipeline.Stage, error) {
	timeout, err := parseDuration(sc.Timeout, 0)
	if err != nil {
		return nil, pipeline.NewDefinitionError("stage %q: invalid timeout %q", sc.Name, sc.Timeout)
	}

	if sc.Uses == "" {
		if len(sc.Run) == 0 {
			return nil, pipeline.NewDefinitionError("stage %q: one of run or uses is required", sc.Name)
		}
		return NewCommandStage(sc.Name, sc.Run, timeout), nil
	}

	switch sc.Uses {
	case "quality-gate":
		interval, err := parseWithDuration(sc, "interval", 0)
		if err != nil {
			return nil, err
		}
		gateTimeout, err := parseWithDuration(sc, "timeout", timeout)
		if err != nil {
			return nil, err
		}
		return NewQualityGateStage(sc.Name, sc.With["url"], interval, gateTimeout), nil

	case "health-check":
		delay, err := parseWithDuration(sc, "delay", 0)
		if err != nil {
			return nil, err
		}
		interval, err := parseWithDuration(sc, "interval", 0)
		if err != nil {
			return nil, err
		}
		attempts := 1
		if v := sc.With["attempts"]; v != "" {
			attempts, err = strconv.Atoi(v)
			if err != nil || attempts < 1 {
				return nil, pipeline.NewDefinitionError("stage %q: invalid with.attempts %q", sc.Name, v)
			}
		}
		return NewHealthCheckStage(sc.Name, sc.With["url"], delay, attempts, interval), nil

	case "image":
		builder := opts.Builder
		if name := sc.With["builder"]; name != "" {
			builder = container.Get(name)
			if builder == nil {
				return nil, pipeline.NewDefinitionError("stage %q: unknown builder %q", sc.Name, name)
			}
		}
		return NewImageStage(sc.Name, ImageStageOptions{
			Builder:    builder,
			Repository: sc.With["repository"],
			ContextDir: sc.With["context"],
			Dockerfile: sc.With["dockerfile"],
			Platform:   sc.With["platform"],
			Push:       sc.With["push"] != "false",
		}), nil

	case "manifest-update":
		return NewManifestStage(sc.Name, ManifestStageOptions{
			Repo:    sc.With["repo"],
			Branch:  sc.With["branch"],
			Path:    sc.With["path"],
			Message: sc.With["message"],
			Author: gitops.Author{
				Name:  sc.With["author_name"],
				Email: sc.With["author_email"],
			},
			Runner: opts.GitRunner,
		}), nil

	default:
		return nil, pipeline.NewDefinitionError("stage %q: unknown builtin %q", sc.Name, sc.Uses)
	}
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func parseWithDuration(sc types.StageConfig, key string, def time.Duration) (time.Duration, error) {
	v := sc.With[key]
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, pipeline.NewDefinitionError("stage %q: invalid with.%s %q", sc.Name, key, v)
	}
	return d, nil
}
