package validate

import (
	"fmt"
	"regexp"
	"time"

	"github.com/conveyorci/conveyor/types"
)

var (
	pipelineNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)
	semverPattern       = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

	knownBuiltins = map[string]bool{
		"quality-gate":    true,
		"health-check":    true,
		"image":           true,
		"manifest-update": true,
	}

	// URL-bearing builtins and their required with parameters.
	requiredWith = map[string][]string{
		"quality-gate":    {"url"},
		"health-check":    {"url"},
		"image":           {"repository"},
		"manifest-update": {"path"},
	}
)

// ValidationResult holds errors and warnings from definition validation.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ValidatePipelineConfig checks a parsed PipelineConfig for errors and warnings.
func ValidatePipelineConfig(cfg *types.PipelineConfig) *ValidationResult {
	r := &ValidationResult{}

	if cfg.Pipeline == "" {
		r.Errors = append(r.Errors, "pipeline is required")
	} else if !pipelineNamePattern.MatchString(cfg.Pipeline) {
		r.Errors = append(r.Errors, fmt.Sprintf("pipeline %q must match ^[a-z0-9-]+$", cfg.Pipeline))
	}

	if cfg.Version != "" && !semverPattern.MatchString(cfg.Version) {
		r.Warnings = append(r.Warnings, fmt.Sprintf("version %q is not valid semver", cfg.Version))
	}

	if len(cfg.Stages) == 0 {
		r.Errors = append(r.Errors, "at least one stage is required")
	}

	seen := make(map[string]bool, len(cfg.Stages))
	for i, s := range cfg.Stages {
		prefix := fmt.Sprintf("stages[%d]", i)
		if s.Name == "" {
			r.Errors = append(r.Errors, prefix+": name is required")
		} else {
			if seen[s.Name] {
				r.Errors = append(r.Errors, fmt.Sprintf("%s: duplicate stage name %q", prefix, s.Name))
			}
			seen[s.Name] = true
			prefix = fmt.Sprintf("stage %q", s.Name)
		}

		switch {
		case len(s.Run) > 0 && s.Uses != "":
			r.Errors = append(r.Errors, prefix+": run and uses are mutually exclusive")
		case len(s.Run) == 0 && s.Uses == "":
			r.Errors = append(r.Errors, prefix+": one of run or uses is required")
		}

		if s.Uses != "" {
			if !knownBuiltins[s.Uses] {
				r.Errors = append(r.Errors, fmt.Sprintf("%s: unknown builtin %q (known: quality-gate, health-check, image, manifest-update)", prefix, s.Uses))
			}
			for _, key := range requiredWith[s.Uses] {
				if s.With[key] == "" {
					r.Errors = append(r.Errors, fmt.Sprintf("%s: builtin %s requires with.%s", prefix, s.Uses, key))
				}
			}
		} else if len(s.With) > 0 {
			r.Warnings = append(r.Warnings, prefix+": with is ignored without uses")
		}

		if s.Timeout != "" {
			if d, err := time.ParseDuration(s.Timeout); err != nil {
				r.Errors = append(r.Errors, fmt.Sprintf("%s: invalid timeout %q", prefix, s.Timeout))
			} else if d <= 0 {
				r.Errors = append(r.Errors, fmt.Sprintf("%s: timeout must be positive", prefix))
			}
		}

		for _, key := range []string{"interval", "delay", "timeout"} {
			if v, ok := s.With[key]; ok {
				if _, err := time.ParseDuration(v); err != nil {
					r.Errors = append(r.Errors, fmt.Sprintf("%s: invalid with.%s %q", prefix, key, v))
				}
			}
		}
	}

	return r
}
