// Package types holds configuration types for conveyor.yaml.
package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PipelineConfig represents the top-level conveyor.yaml definition.
type PipelineConfig struct {
	Pipeline   string            `yaml:"pipeline"`
	Version    string            `yaml:"version,omitempty"`
	WorkDir    string            `yaml:"workdir,omitempty"`
	Env        map[string]string `yaml:"env,omitempty"`
	RequireEnv []string          `yaml:"require_env,omitempty"`
	Stages     []StageConfig     `yaml:"stages"`
	Post       PostConfig        `yaml:"post,omitempty"`
}

// StageConfig declares one stage: either a shell command list (run) or a
// builtin (uses + with), never both.
type StageConfig struct {
	Name    string            `yaml:"name"`
	Run     []string          `yaml:"run,omitempty"`
	Uses    string            `yaml:"uses,omitempty"`
	With    map[string]string `yaml:"with,omitempty"`
	Timeout string            `yaml:"timeout,omitempty"`
}

// PostConfig declares post-run hook commands.
type PostConfig struct {
	Always    []string `yaml:"always,omitempty"`
	OnSuccess []string `yaml:"on_success,omitempty"`
	OnFailure []string `yaml:"on_failure,omitempty"`
}

// ParsePipelineConfig parses raw YAML bytes into a PipelineConfig and checks
// required fields.
func ParsePipelineConfig(data []byte) (*PipelineConfig, error) {
	var cfg PipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing pipeline config: %w", err)
	}

	if cfg.Pipeline == "" {
		return nil, fmt.Errorf("pipeline config: pipeline is required")
	}
	if len(cfg.Stages) == 0 {
		return nil, fmt.Errorf("pipeline config: at least one stage is required")
	}

	return &cfg, nil
}
