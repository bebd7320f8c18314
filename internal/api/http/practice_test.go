package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neetsprint/neetsprint-server/internal/content"
	"github.com/neetsprint/neetsprint-server/internal/practice"
	"github.com/neetsprint/neetsprint-server/internal/quiz"
	"github.com/neetsprint/neetsprint-server/internal/telemetry"
)

// fakeContent satisfies content.Store from a map.
type fakeContent struct {
	chapters map[string]content.Chapter
}

func (f *fakeContent) PutChapter(ch content.Chapter) error { f.chapters[ch.ID] = ch; return nil }
func (f *fakeContent) GetChapter(id string) (content.Chapter, error) {
	ch, ok := f.chapters[id]
	if !ok {
		return content.Chapter{}, content.ErrNotFound
	}
	return ch, nil
}
func (f *fakeContent) ListChapters(string) ([]content.Summary, error) { return nil, nil }
func (f *fakeContent) DeleteChapter(string) error                     { return nil }
func (f *fakeContent) GetQuestions(id string, includeAnswers bool) ([]quiz.Question, error) {
	ch, ok := f.chapters[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	qs, _ := quiz.Normalize(ch.Questions)
	if !includeAnswers {
		for i := range qs {
			qs[i].CorrectOptionID = ""
			qs[i].Explanation = ""
		}
	}
	return qs, nil
}

func newPracticeRouter(t *testing.T, tel *telemetry.Client) (*chi.Mux, *PracticeHandlers) {
	t.Helper()
	store := &fakeContent{chapters: map[string]content.Chapter{
		"biology-ch13": {
			ID: "biology-ch13", Subject: content.SubjectBiology, Title: "Photosynthesis",
			Questions: []quiz.RawQuestion{
				{ID: "1", Question: "q1",
					Options:       []quiz.RawOption{{Text: "x"}, {Text: "y"}},
					CorrectAnswer: quiz.RawAnswer{Index: 1, Numeric: true}},
				{ID: "2", Question: "q2",
					Options:       []quiz.RawOption{{Text: "x"}, {Text: "y"}},
					CorrectAnswer: quiz.RawAnswer{Letter: "A"}},
			},
		},
	}}
	h := NewPracticeHandlers(practice.NewRegistry(), store, tel)
	r := chi.NewRouter()
	r.Post("/practice-sessions", h.Start)
	r.Get("/practice-sessions/{sessionID}", h.Get)
	r.Post("/practice-sessions/{sessionID}/select", h.Select)
	r.Post("/practice-sessions/{sessionID}/reveal", h.Reveal)
	r.Post("/practice-sessions/{sessionID}/submit", h.Submit)
	r.Post("/practice-sessions/{sessionID}/reset", h.Reset)
	return r, h
}

func doJSON(t *testing.T, r http.Handler, method, url string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestPracticeFlow(t *testing.T) {
	r, _ := newPracticeRouter(t, nil)

	rec, snap := doJSON(t, r, "POST", "/practice-sessions", map[string]string{"chapter_id": "biology-ch13"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: %d %s", rec.Code, rec.Body)
	}
	id := snap["id"].(string)
	if snap["phase"] != "not_started" {
		t.Fatalf("phase = %v", snap["phase"])
	}
	// Answer keys must not leak in the starting snapshot.
	for _, q := range snap["questions"].([]any) {
		if q.(map[string]any)["correct_option_id"] != nil {
			t.Fatalf("answer key leaked: %v", q)
		}
	}

	// Premature submit: 422 with the unanswered list.
	rec, body := doJSON(t, r, "POST", "/practice-sessions/"+id+"/submit", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("premature submit: %d", rec.Code)
	}
	if len(body["unanswered"].([]any)) != 2 {
		t.Fatalf("unanswered = %v", body["unanswered"])
	}

	// Reveal before selecting: 409.
	rec, _ = doJSON(t, r, "POST", "/practice-sessions/"+id+"/reveal", map[string]string{"question_id": "1"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("reveal without selection: %d", rec.Code)
	}

	for q, opt := range map[string]string{"1": "B", "2": "B"} {
		rec, _ = doJSON(t, r, "POST", "/practice-sessions/"+id+"/select",
			map[string]string{"question_id": q, "option_id": opt})
		if rec.Code != http.StatusOK {
			t.Fatalf("select %s: %d %s", q, rec.Code, rec.Body)
		}
	}

	rec, snap = doJSON(t, r, "POST", "/practice-sessions/"+id+"/submit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body)
	}
	res := snap["result"].(map[string]any)
	if res["correct_count"] != float64(1) || res["total_count"] != float64(2) {
		t.Fatalf("result = %v", res)
	}
	if snap["band"] != "practice" {
		t.Fatalf("band = %v", snap["band"])
	}

	// Selecting after submit: 409.
	rec, _ = doJSON(t, r, "POST", "/practice-sessions/"+id+"/select",
		map[string]string{"question_id": "1", "option_id": "A"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("select after submit: %d", rec.Code)
	}

	rec, snap = doJSON(t, r, "POST", "/practice-sessions/"+id+"/reset", nil)
	if rec.Code != http.StatusOK || snap["phase"] != "not_started" {
		t.Fatalf("reset: %d %v", rec.Code, snap["phase"])
	}
}

func TestStartUnknownChapter(t *testing.T) {
	r, _ := newPracticeRouter(t, nil)
	rec, _ := doJSON(t, r, "POST", "/practice-sessions", map[string]string{"chapter_id": "nope"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}
}

// The end report on reset must describe the sitting being closed, not
// the wiped session.
func TestResetReportsClosedSittingProgress(t *testing.T) {
	ends := make(chan map[string]any, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/study-sessions" {
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "tel-1"})
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		ends <- body
	}))
	defer srv.Close()

	r, h := newPracticeRouter(t, telemetry.New(srv.URL))

	rec, snap := doJSON(t, r, "POST", "/practice-sessions", map[string]string{"chapter_id": "biology-ch13"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: %d %s", rec.Code, rec.Body)
	}
	id := snap["id"].(string)

	// Wait for the async start report to land its handle.
	deadline := time.Now().Add(2 * time.Second)
	for {
		h.mu.Lock()
		_, ok := h.handles[id]
		h.mu.Unlock()
		if ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("start report never resolved")
		}
		time.Sleep(5 * time.Millisecond)
	}

	rec, _ = doJSON(t, r, "POST", "/practice-sessions/"+id+"/select",
		map[string]string{"question_id": "1", "option_id": "B"})
	if rec.Code != http.StatusOK {
		t.Fatalf("select: %d %s", rec.Code, rec.Body)
	}

	rec, _ = doJSON(t, r, "POST", "/practice-sessions/"+id+"/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: %d %s", rec.Code, rec.Body)
	}

	select {
	case body := <-ends:
		if body["questions_answered"] != float64(1) {
			t.Fatalf("end reported questions_answered = %v, want 1", body["questions_answered"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no end report after reset")
	}
}
