package pipeline

import (
	"errors"
	"testing"
)

func TestRunLifecycle(t *testing.T) {
	run := NewRun("payments", "abc1234")

	if run.Status != StatusPending {
		t.Fatalf("new run status = %s, want %s", run.Status, StatusPending)
	}
	if run.ID == "" {
		t.Fatal("new run has empty ID")
	}

	if err := run.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if run.Status != StatusRunning {
		t.Fatalf("status after Start = %s, want %s", run.Status, StatusRunning)
	}

	if err := run.Succeed(); err != nil {
		t.Fatalf("Succeed() error: %v", err)
	}
	if run.Status != StatusSucceeded || !run.Finished() {
		t.Fatalf("status after Succeed = %s, finished = %v", run.Status, run.Finished())
	}
	if run.FinishedAt == nil {
		t.Fatal("FinishedAt not set")
	}
}

func TestRunFail(t *testing.T) {
	run := NewRun("payments", "abc1234")
	if err := run.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := run.Fail(errors.New("boom")); err != nil {
		t.Fatalf("Fail() error: %v", err)
	}
	if run.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", run.Status, StatusFailed)
	}
	if run.Error != "boom" {
		t.Fatalf("error = %q, want %q", run.Error, "boom")
	}
}

func TestRunInvalidTransitions(t *testing.T) {
	run := NewRun("payments", "")

	if err := run.Succeed(); err == nil {
		t.Fatal("Succeed() on pending run should fail")
	}
	if err := run.Fail(errors.New("x")); err == nil {
		t.Fatal("Fail() on pending run should fail")
	}

	if err := run.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := run.Start(); err == nil {
		t.Fatal("second Start() should fail")
	}

	if err := run.Succeed(); err != nil {
		t.Fatalf("Succeed() error: %v", err)
	}
	if err := run.Fail(errors.New("x")); err == nil {
		t.Fatal("Fail() after terminal state should fail")
	}
}
