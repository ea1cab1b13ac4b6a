package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure so callers can tell retryable
// conditions from fatal ones.
type Kind int

const (
	// KindUnknown marks errors that did not come from the pipeline.
	KindUnknown Kind = iota
	// KindDefinition is an invalid pipeline definition, caught before any stage runs.
	KindDefinition
	// KindExecution is a non-zero exit from a stage's commands.
	KindExecution
	// KindPredicate is a stage that ran but whose success predicate rejected the result.
	KindPredicate
	// KindTimeout is a bounded wait that elapsed without resolution.
	KindTimeout
	// KindExternal is an unreachable or rejecting external collaborator.
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindDefinition:
		return "definition"
	case KindExecution:
		return "execution"
	case KindPredicate:
		return "predicate"
	case KindTimeout:
		return "timeout"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline failure. Stage is empty for errors raised
// before any stage ran. ExitCode is only meaningful for KindExecution.
type Error struct {
	Kind     Kind
	Stage    string
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("stage %s: %s error: %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewDefinitionError reports an invalid pipeline definition.
func NewDefinitionError(format string, args ...any) *Error {
	return &Error{Kind: KindDefinition, Err: fmt.Errorf(format, args...)}
}

// NewExecutionError reports a stage whose commands exited non-zero.
func NewExecutionError(stage string, exitCode int, err error) *Error {
	return &Error{Kind: KindExecution, Stage: stage, ExitCode: exitCode, Err: err}
}

// NewPredicateError reports a stage whose success predicate rejected the result.
func NewPredicateError(stage string, format string, args ...any) *Error {
	return &Error{Kind: KindPredicate, Stage: stage, Err: fmt.Errorf(format, args...)}
}

// NewTimeoutError reports a bounded wait that elapsed.
func NewTimeoutError(stage string, err error) *Error {
	return &Error{Kind: KindTimeout, Stage: stage, Err: err}
}

// NewExternalError reports an unreachable or rejecting collaborator.
func NewExternalError(stage string, err error) *Error {
	return &Error{Kind: KindExternal, Stage: stage, Err: err}
}

// KindOf returns the Kind of err if it is (or wraps) a pipeline Error,
// KindUnknown otherwise.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// ExitCode maps err to the process exit code the executor should surface:
// 0 for nil, a failed stage's own exit code when it has one, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var pe *Error
	if errors.As(err, &pe) && pe.Kind == KindExecution && pe.ExitCode > 0 {
		return pe.ExitCode
	}
	return 1
}
