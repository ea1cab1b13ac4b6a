package stages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/conveyorci/conveyor/pipeline"
)

func TestQualityGateStagePassesWhenOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"projectStatus":{"status":"OK"}}`))
	}))
	defer srv.Close()

	s := NewQualityGateStage("gate", srv.URL, 10*time.Millisecond, time.Second)
	if err := s.Execute(context.Background(), newTestRunContext(t, nil)); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
}

func TestQualityGateStagePollsUntilResolved(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Write([]byte(`{"status":"PENDING"}`))
			return
		}
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()

	s := NewQualityGateStage("gate", srv.URL, 10*time.Millisecond, time.Second)
	if err := s.Execute(context.Background(), newTestRunContext(t, nil)); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestQualityGateStageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ERROR"}`))
	}))
	defer srv.Close()

	s := NewQualityGateStage("gate", srv.URL, 10*time.Millisecond, time.Second)
	err := s.Execute(context.Background(), newTestRunContext(t, nil))
	if pipeline.KindOf(err) != pipeline.KindPredicate {
		t.Fatalf("err = %v, want PredicateError", err)
	}
}

func TestQualityGateStageTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"PENDING"}`))
	}))
	defer srv.Close()

	s := NewQualityGateStage("gate", srv.URL, 10*time.Millisecond, 50*time.Millisecond)
	err := s.Execute(context.Background(), newTestRunContext(t, nil))
	if pipeline.KindOf(err) != pipeline.KindTimeout {
		t.Fatalf("err = %v, want TimeoutError", err)
	}
}

func TestQualityGateStageUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s := NewQualityGateStage("gate", srv.URL, 10*time.Millisecond, time.Second)
	err := s.Execute(context.Background(), newTestRunContext(t, nil))
	if pipeline.KindOf(err) != pipeline.KindExternal {
		t.Fatalf("err = %v, want ExternalError", err)
	}
}

func TestQualityGateStageExpandsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("projectKey") != "payments" {
			t.Errorf("projectKey = %q", r.URL.Query().Get("projectKey"))
		}
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()

	rc := newTestRunContext(t, map[string]string{"PROJECT": "payments"})
	s := NewQualityGateStage("gate", srv.URL+"?projectKey=${PROJECT}", 10*time.Millisecond, time.Second)
	if err := s.Execute(context.Background(), rc); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
}
