package runstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/conveyorci/conveyor/pipeline"
)

func archivedRun(t *testing.T, s *Store, id string, started time.Time) *pipeline.Run {
	t.Helper()
	run := &pipeline.Run{
		ID:        id,
		Pipeline:  "demo",
		Status:    pipeline.StatusSucceeded,
		StartedAt: started,
	}
	if err := s.Archive(run); err != nil {
		t.Fatal(err)
	}
	return run
}

func TestArchiveAndLoad(t *testing.T) {
	s := New(t.TempDir())
	run := pipeline.NewRun("demo", "abc1234")
	run.Start()
	run.RecordStage(pipeline.StageResult{Name: "build", Status: pipeline.StatusSucceeded})
	run.Succeed()

	if err := s.Archive(run); err != nil {
		t.Fatalf("Archive() error: %v", err)
	}

	got, err := s.Load(run.ID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.ID != run.ID || got.Pipeline != "demo" || got.Commit != "abc1234" {
		t.Errorf("Load() = %+v", got)
	}
	if got.Status != pipeline.StatusSucceeded || len(got.Stages) != 1 {
		t.Errorf("Load() = %+v", got)
	}
}

func TestLoadMissing(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	s := New(t.TempDir())
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	archivedRun(t, s, "run-old", base)
	archivedRun(t, s, "run-new", base.Add(time.Hour))

	runs, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("List() = %d runs", len(runs))
	}
	if runs[0].ID != "run-new" || runs[1].ID != "run-old" {
		t.Errorf("order = %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestListEmptyStore(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("List() = %d runs, want 0", len(runs))
	}
}

func TestListSkipsCorruptRecords(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	archivedRun(t, s, "run-good", time.Now().UTC())
	if err := os.WriteFile(filepath.Join(dir, "runs", "bad.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-good" {
		t.Errorf("List() = %+v", runs)
	}
}

func TestLogWriter(t *testing.T) {
	s := New(t.TempDir())
	w, err := s.LogWriter("run-1")
	if err != nil {
		t.Fatalf("LogWriter() error: %v", err)
	}
	if _, err := w.Write([]byte("building payments\n")); err != nil {
		t.Fatal(err)
	}
	w.Close()

	data, err := os.ReadFile(s.LogPath("run-1"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "building payments\n" {
		t.Errorf("log = %q", data)
	}
}
