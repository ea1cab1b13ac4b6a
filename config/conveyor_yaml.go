// Package config loads conveyor.yaml files and resolves run environments.
package config

import (
	"fmt"
	"os"

	"github.com/conveyorci/conveyor/pipeline"
	"github.com/conveyorci/conveyor/types"
)

// LoadPipelineConfig reads and parses a conveyor.yaml file from the given path.
func LoadPipelineConfig(path string) (*types.PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline config %s: %w", path, err)
	}
	return types.ParsePipelineConfig(data)
}

// ResolveBindings builds the run's environment bindings from the definition's
// env block and required process environment variables. Values in the env
// block may reference process environment variables with ${VAR}. A missing
// required variable is a DefinitionError, raised before any stage runs.
// The commit hash, when known, is bound as COMMIT unless the definition
// binds it explicitly.
func ResolveBindings(cfg *types.PipelineConfig, getenv func(string) string, commit string) (*pipeline.Bindings, error) {
	vals := make(map[string]string, len(cfg.Env)+len(cfg.RequireEnv)+1)

	for k, v := range cfg.Env {
		vals[k] = os.Expand(v, getenv)
	}

	for _, name := range cfg.RequireEnv {
		v := getenv(name)
		if v == "" {
			return nil, pipeline.NewDefinitionError("required environment variable %s is not set", name)
		}
		vals[name] = v
	}

	if commit != "" {
		if _, ok := vals["COMMIT"]; !ok {
			vals["COMMIT"] = commit
		}
	}

	return pipeline.NewBindings(vals), nil
}
