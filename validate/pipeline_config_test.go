package validate

import (
	"strings"
	"testing"

	"github.com/conveyorci/conveyor/types"
)

func TestValidatePipelineConfigValid(t *testing.T) {
	cfg := &types.PipelineConfig{
		Pipeline: "payments-deploy",
		Version:  "1.2.0",
		Stages: []types.StageConfig{
			{Name: "build", Run: []string{"make build"}},
			{Name: "gate", Uses: "quality-gate", With: map[string]string{"url": "https://sonar.example.com/api"}},
		},
	}

	r := ValidatePipelineConfig(cfg)
	if !r.IsValid() {
		t.Fatalf("expected valid, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
}

func TestValidatePipelineConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *types.PipelineConfig
		want string
	}{
		{
			name: "missing pipeline name",
			cfg:  &types.PipelineConfig{Stages: []types.StageConfig{{Name: "a", Run: []string{"x"}}}},
			want: "pipeline is required",
		},
		{
			name: "bad pipeline name",
			cfg:  &types.PipelineConfig{Pipeline: "Has Spaces", Stages: []types.StageConfig{{Name: "a", Run: []string{"x"}}}},
			want: "must match",
		},
		{
			name: "no stages",
			cfg:  &types.PipelineConfig{Pipeline: "demo"},
			want: "at least one stage is required",
		},
		{
			name: "duplicate stage names",
			cfg: &types.PipelineConfig{Pipeline: "demo", Stages: []types.StageConfig{
				{Name: "build", Run: []string{"x"}},
				{Name: "build", Run: []string{"y"}},
			}},
			want: "duplicate stage name",
		},
		{
			name: "run and uses together",
			cfg: &types.PipelineConfig{Pipeline: "demo", Stages: []types.StageConfig{
				{Name: "a", Run: []string{"x"}, Uses: "health-check", With: map[string]string{"url": "http://x"}},
			}},
			want: "mutually exclusive",
		},
		{
			name: "neither run nor uses",
			cfg: &types.PipelineConfig{Pipeline: "demo", Stages: []types.StageConfig{
				{Name: "a"},
			}},
			want: "one of run or uses is required",
		},
		{
			name: "unknown builtin",
			cfg: &types.PipelineConfig{Pipeline: "demo", Stages: []types.StageConfig{
				{Name: "a", Uses: "teleport"},
			}},
			want: "unknown builtin",
		},
		{
			name: "builtin missing required with",
			cfg: &types.PipelineConfig{Pipeline: "demo", Stages: []types.StageConfig{
				{Name: "a", Uses: "image"},
			}},
			want: "requires with.repository",
		},
		{
			name: "bad timeout",
			cfg: &types.PipelineConfig{Pipeline: "demo", Stages: []types.StageConfig{
				{Name: "a", Run: []string{"x"}, Timeout: "soon"},
			}},
			want: "invalid timeout",
		},
		{
			name: "negative timeout",
			cfg: &types.PipelineConfig{Pipeline: "demo", Stages: []types.StageConfig{
				{Name: "a", Run: []string{"x"}, Timeout: "-5s"},
			}},
			want: "timeout must be positive",
		},
		{
			name: "bad with interval",
			cfg: &types.PipelineConfig{Pipeline: "demo", Stages: []types.StageConfig{
				{Name: "a", Uses: "quality-gate", With: map[string]string{"url": "http://x", "interval": "often"}},
			}},
			want: "invalid with.interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidatePipelineConfig(tt.cfg)
			if r.IsValid() {
				t.Fatalf("expected errors, got none")
			}
			found := false
			for _, e := range r.Errors {
				if strings.Contains(e, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", r.Errors, tt.want)
			}
		})
	}
}

func TestValidatePipelineConfigWarnings(t *testing.T) {
	cfg := &types.PipelineConfig{
		Pipeline: "demo",
		Version:  "v1",
		Stages: []types.StageConfig{
			{Name: "a", Run: []string{"x"}, With: map[string]string{"url": "http://x"}},
		},
	}

	r := ValidatePipelineConfig(cfg)
	if !r.IsValid() {
		t.Fatalf("expected valid, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 2 {
		t.Fatalf("warnings = %v, want semver and ignored-with warnings", r.Warnings)
	}
}
