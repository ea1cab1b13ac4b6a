package gate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Status
	}{
		{"top-level OK", `{"status":"OK"}`, StatusOK},
		{"nested projectStatus", `{"projectStatus":{"status":"ERROR"}}`, StatusError},
		{"lowercase ok", `{"status":"ok"}`, StatusOK},
		{"in progress maps to pending", `{"status":"IN_PROGRESS"}`, StatusPending},
		{"nested wins over top-level", `{"status":"ERROR","projectStatus":{"status":"OK"}}`, StatusOK},
	}

	c := NewClient(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, http.StatusOK, tt.body)
			got, err := c.Status(context.Background(), srv.URL)
			if err != nil {
				t.Fatalf("Status() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http error", http.StatusServiceUnavailable, "", "returned"},
		{"malformed json", http.StatusOK, "not json", "parsing"},
		{"no status field", http.StatusOK, `{"other":1}`, "no status field"},
	}

	c := NewClient(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			_, err := c.Status(context.Background(), srv.URL)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
