package pipeline

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := NewTimeoutError("quality-gate", errors.New("not resolved"))

	if kind := KindOf(err); kind != KindTimeout {
		t.Fatalf("KindOf = %v, want %v", kind, KindTimeout)
	}

	// Classification survives wrapping.
	wrapped := fmt.Errorf("stage quality-gate: %w", err)
	if kind := KindOf(wrapped); kind != KindTimeout {
		t.Fatalf("KindOf(wrapped) = %v, want %v", kind, KindTimeout)
	}

	if kind := KindOf(errors.New("plain")); kind != KindUnknown {
		t.Fatalf("KindOf(plain error) = %v, want %v", kind, KindUnknown)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"execution with code", NewExecutionError("build", 3, errors.New("make failed")), 3},
		{"execution wrapped", fmt.Errorf("stage build: %w", NewExecutionError("build", 7, errors.New("x"))), 7},
		{"execution without code", NewExecutionError("build", 0, errors.New("x")), 1},
		{"predicate", NewPredicateError("health", "status DOWN"), 1},
		{"plain", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("%s: ExitCode = %d, want %d", tt.name, got, tt.want)
		}
	}
}
