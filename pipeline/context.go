package pipeline

import (
	"io"
	"os"
	"sort"

	"github.com/conveyorci/conveyor/logging"
)

// Bindings is the environment for a run: resolved once at run start,
// read-only afterward.
type Bindings struct {
	vals map[string]string
}

// NewBindings copies vals into an immutable Bindings.
func NewBindings(vals map[string]string) *Bindings {
	m := make(map[string]string, len(vals))
	for k, v := range vals {
		m[k] = v
	}
	return &Bindings{vals: m}
}

// Lookup returns the value bound to name.
func (b *Bindings) Lookup(name string) (string, bool) {
	v, ok := b.vals[name]
	return v, ok
}

// Expand substitutes ${VAR} and $VAR references in s with bound values.
// Unbound references expand to the empty string.
func (b *Bindings) Expand(s string) string {
	return os.Expand(s, func(name string) string {
		return b.vals[name]
	})
}

// Environ returns the bindings as sorted KEY=VALUE pairs for process env injection.
func (b *Bindings) Environ() []string {
	env := make([]string, 0, len(b.vals))
	for k, v := range b.vals {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// RunContext carries all state through one pipeline run.
type RunContext struct {
	WorkDir  string
	Env      *Bindings
	Run      *Run
	Log      logging.Logger
	Output   io.Writer // sink for stage command output; nil discards
	Verbose  bool
	Warnings []string
}

// NewRunContext creates a RunContext with sensible defaults for optional fields.
func NewRunContext(workDir string, env *Bindings, run *Run, log logging.Logger) *RunContext {
	if env == nil {
		env = NewBindings(nil)
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &RunContext{
		WorkDir: workDir,
		Env:     env,
		Run:     run,
		Log:     log,
		Output:  io.Discard,
	}
}

// AddWarning appends a non-fatal warning to surface after the run.
func (rc *RunContext) AddWarning(msg string) {
	rc.Warnings = append(rc.Warnings, msg)
}
