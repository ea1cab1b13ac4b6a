// Package runstore persists pipeline run records and their logs on disk.
package runstore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conveyorci/conveyor/pipeline"
)

// Store archives runs as JSON files under <dir>/runs and captures stage
// output under <dir>/logs.
type Store struct {
	dir string
}

// New creates a Store rooted at dir (typically .conveyor).
func New(dir string) *Store {
	return &Store{dir: dir}
}

var _ pipeline.Archiver = (*Store)(nil)

func (s *Store) runsDir() string { return filepath.Join(s.dir, "runs") }
func (s *Store) logsDir() string { return filepath.Join(s.dir, "logs") }

// Archive writes the run record to <dir>/runs/<id>.json.
func (s *Store) Archive(run *pipeline.Run) error {
	if err := os.MkdirAll(s.runsDir(), 0o755); err != nil {
		return fmt.Errorf("creating run store: %w", err)
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", run.ID, err)
	}
	path := filepath.Join(s.runsDir(), run.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run %s: %w", run.ID, err)
	}
	return nil
}

// Load reads one archived run by id.
func (s *Store) Load(id string) (*pipeline.Run, error) {
	data, err := os.ReadFile(filepath.Join(s.runsDir(), id+".json"))
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	var run pipeline.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parsing run %s: %w", id, err)
	}
	return &run, nil
}

// List returns all archived runs, most recently started first.
func (s *Store) List() ([]*pipeline.Run, error) {
	entries, err := os.ReadDir(s.runsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	var runs []*pipeline.Run
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		run, err := s.Load(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue // skip unreadable records
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// LogWriter opens the log sink for a run's captured stage output.
func (s *Store) LogWriter(runID string) (io.WriteCloser, error) {
	if err := os.MkdirAll(s.logsDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.Create(s.LogPath(runID))
	if err != nil {
		return nil, fmt.Errorf("creating run log: %w", err)
	}
	return f, nil
}

// LogPath returns where a run's captured output lives.
func (s *Store) LogPath(runID string) string {
	return filepath.Join(s.logsDir(), runID+".log")
}
