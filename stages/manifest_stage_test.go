package stages

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conveyorci/conveyor/gitops"
	"github.com/conveyorci/conveyor/pipeline"
)

const sampleManifest = `apiVersion: apps/v1
kind: Deployment
spec:
  template:
    spec:
      containers:
        - name: payments
          image:
            repository: registry.example.com/payments
            tag: old1234
`

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "deployment.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestManifestStageRewritesTagAndPushes(t *testing.T) {
	rc := newTestRunContext(t, nil)
	writeManifest(t, rc.WorkDir, sampleManifest)

	runner := &gitops.FakeRunner{}
	s := NewManifestStage("manifest", ManifestStageOptions{
		Path:   "deployment.yaml",
		Branch: "main",
		Runner: runner,
	})

	if err := s.Execute(context.Background(), rc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(rc.WorkDir, "deployment.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "            tag: abc1234\n") {
		t.Errorf("manifest not rewritten with indentation preserved:\n%s", data)
	}
	if strings.Contains(string(data), "old1234") {
		t.Errorf("old tag still present:\n%s", data)
	}

	if len(runner.Calls) != 3 {
		t.Fatalf("git calls = %v, want add, commit, push", runner.Calls)
	}
	if runner.Calls[0][1] != "add" {
		t.Errorf("first call = %v, want git add", runner.Calls[0])
	}
	commit := strings.Join(runner.Calls[1], " ")
	if !strings.Contains(commit, "user.name=conveyor") || !strings.Contains(commit, "commit") {
		t.Errorf("commit call = %q", commit)
	}
	push := strings.Join(runner.Calls[2], " ")
	if push != "git push origin main" {
		t.Errorf("push call = %q", push)
	}
}

func TestManifestStageUnchangedSkipsGit(t *testing.T) {
	rc := newTestRunContext(t, nil)
	current := strings.Replace(sampleManifest, "tag: old1234", "tag: abc1234", 1)
	writeManifest(t, rc.WorkDir, current)

	runner := &gitops.FakeRunner{}
	s := NewManifestStage("manifest", ManifestStageOptions{Path: "deployment.yaml", Runner: runner})

	if err := s.Execute(context.Background(), rc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(runner.Calls) != 0 {
		t.Errorf("git calls = %v, want none when content is unchanged", runner.Calls)
	}
}

func TestManifestStageMissingFile(t *testing.T) {
	rc := newTestRunContext(t, nil)
	runner := &gitops.FakeRunner{}
	s := NewManifestStage("manifest", ManifestStageOptions{Path: "deployment.yaml", Runner: runner})

	err := s.Execute(context.Background(), rc)
	if pipeline.KindOf(err) != pipeline.KindExecution {
		t.Fatalf("err = %v, want ExecutionError", err)
	}
	if len(runner.Calls) != 0 {
		t.Errorf("git calls = %v, want none", runner.Calls)
	}
}

func TestManifestStageAmbiguousTagLines(t *testing.T) {
	rc := newTestRunContext(t, nil)
	writeManifest(t, rc.WorkDir, "tag: one\nother:\n  tag: two\n")

	s := NewManifestStage("manifest", ManifestStageOptions{Path: "deployment.yaml", Runner: &gitops.FakeRunner{}})
	err := s.Execute(context.Background(), rc)
	if err == nil || !strings.Contains(err.Error(), "exactly one tag") {
		t.Fatalf("err = %v, want ambiguity error", err)
	}
}

func TestManifestStageNoCommitHash(t *testing.T) {
	run := pipeline.NewRun("demo", "")
	rc := pipeline.NewRunContext(t.TempDir(), nil, run, nil)

	s := NewManifestStage("manifest", ManifestStageOptions{Path: "deployment.yaml", Runner: &gitops.FakeRunner{}})
	err := s.Execute(context.Background(), rc)
	if pipeline.KindOf(err) != pipeline.KindExecution {
		t.Fatalf("err = %v, want ExecutionError", err)
	}
}

func TestManifestStageCloneFailure(t *testing.T) {
	rc := newTestRunContext(t, nil)

	runner := &gitops.FakeRunner{Err: os.ErrPermission}
	s := NewManifestStage("manifest", ManifestStageOptions{
		Repo:   "git@example.com:deploy/manifests.git",
		Path:   "deployment.yaml",
		Runner: runner,
	})

	err := s.Execute(context.Background(), rc)
	if pipeline.KindOf(err) != pipeline.KindExternal {
		t.Fatalf("err = %v, want ExternalError", err)
	}
}
