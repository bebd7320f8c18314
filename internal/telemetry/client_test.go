package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReportStartAndEnd(t *testing.T) {
	var endBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/study-sessions":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "sess-1"})
		case "/study-sessions/sess-1/end":
			if err := json.NewDecoder(r.Body).Decode(&endBody); err != nil {
				t.Errorf("decode end body: %v", err)
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := start
	c := New(srv.URL, WithClock(func() time.Time { return now }))

	h := c.ReportStart(context.Background(), "biology-ch13")
	if h.Zero() || h.ID != "sess-1" {
		t.Fatalf("handle = %+v", h)
	}

	now = start.Add(7*time.Minute + 30*time.Second)
	c.ReportEnd(context.Background(), h, Summary{QuestionsAnswered: 5, CorrectCount: 4})

	if endBody["duration_minutes"] != float64(7) {
		t.Fatalf("duration_minutes = %v, want 7 (floor of 7m30s)", endBody["duration_minutes"])
	}
	if endBody["questions_answered"] != float64(5) || endBody["correct_count"] != float64(4) {
		t.Fatalf("summary not forwarded: %v", endBody)
	}
}

func TestDurationMinimumOneMinute(t *testing.T) {
	var endBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/study-sessions" {
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "s"})
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&endBody)
	}))
	defer srv.Close()

	start := time.Now()
	c := New(srv.URL, WithClock(func() time.Time { return start }))
	h := c.ReportStart(context.Background(), "ctx")
	c.ReportEnd(context.Background(), h, Summary{}) // zero elapsed
	if endBody["duration_minutes"] != float64(1) {
		t.Fatalf("duration_minutes = %v, want minimum 1", endBody["duration_minutes"])
	}
}

func TestFailuresAreSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	h := c.ReportStart(context.Background(), "ctx")
	if !h.Zero() {
		t.Fatalf("failed start must return zero handle, got %+v", h)
	}
	// Ending with a zero handle is a silent no-op.
	c.ReportEnd(context.Background(), h, Summary{})

	// Unreachable endpoint: still no panic, no error surfaced.
	dead := New("http://127.0.0.1:1")
	if h := dead.ReportStart(context.Background(), "ctx"); !h.Zero() {
		t.Fatalf("unreachable endpoint must return zero handle")
	}
}

func TestDisabledClient(t *testing.T) {
	c := New("")
	if h := c.ReportStart(context.Background(), "ctx"); !h.Zero() {
		t.Fatalf("disabled client must return zero handle")
	}
	c.ReportEnd(context.Background(), Handle{ID: "x", StartedAt: time.Now()}, Summary{})
}
