package study

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite" // driver for "sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "study_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`
CREATE TABLE bookmarks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  chapter_id TEXT NOT NULL,
  question_id TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  UNIQUE (user_id, chapter_id, question_id)
);
CREATE TABLE notes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  chapter_id TEXT NOT NULL,
  title TEXT NOT NULL,
  body TEXT NOT NULL DEFAULT '',
  updated_at INTEGER NOT NULL
);
CREATE TABLE study_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  context_id TEXT NOT NULL,
  started_at INTEGER NOT NULL,
  ended_at INTEGER,
  duration_minutes INTEGER NOT NULL DEFAULT 0,
  questions_answered INTEGER NOT NULL DEFAULT 0,
  correct_count INTEGER NOT NULL DEFAULT 0
);`); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestBookmarkToggle(t *testing.T) {
	s := NewSQLStore(openTestDB(t))
	on, err := s.ToggleBookmark("u1", "ch1", "q1")
	if err != nil || !on {
		t.Fatalf("first toggle: on=%v err=%v", on, err)
	}
	list, err := s.ListBookmarks("u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v, %d rows", err, len(list))
	}
	off, err := s.ToggleBookmark("u1", "ch1", "q1")
	if err != nil || off {
		t.Fatalf("second toggle: on=%v err=%v", off, err)
	}
	list, _ = s.ListBookmarks("u1")
	if len(list) != 0 {
		t.Fatalf("bookmark not removed")
	}
}

func TestNotesCRUD(t *testing.T) {
	s := NewSQLStore(openTestDB(t))
	n, err := s.PutNote(Note{UserID: "u1", ChapterID: "ch1", Title: "Calvin cycle", Body: "3 phases"})
	if err != nil || n.ID == 0 {
		t.Fatalf("insert: %+v %v", n, err)
	}
	n.Body = "fixation, reduction, regeneration"
	if _, err := s.PutNote(n); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.ListNotes("u1", "ch1")
	if err != nil || len(got) != 1 || got[0].Body != n.Body {
		t.Fatalf("list: %v %+v", err, got)
	}
	// Updating someone else's note fails.
	other := n
	other.UserID = "u2"
	if _, err := s.PutNote(other); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user update err = %v", err)
	}
	if err := s.DeleteNote(n.ID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteNote(n.ID, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete err = %v", err)
	}
}

func TestStudySessionLifecycle(t *testing.T) {
	s := NewSQLStore(openTestDB(t))
	ss, err := s.StartStudySession("u1", "biology-ch13")
	if err != nil || ss.ID == "" {
		t.Fatalf("start: %+v %v", ss, err)
	}
	got, err := s.GetStudySession(ss.ID)
	if err != nil || got.EndedAt != nil {
		t.Fatalf("fresh session: %+v %v", got, err)
	}

	first := time.Now()
	got, err = s.EndStudySession(ss.ID, first, 12, 10, 7)
	if err != nil || got.EndedAt == nil || got.DurationMinutes != 12 {
		t.Fatalf("end: %+v %v", got, err)
	}

	// Second end is ignored; the first recording wins.
	again, err := s.EndStudySession(ss.ID, first.Add(time.Hour), 99, 1, 1)
	if err != nil {
		t.Fatalf("re-end: %v", err)
	}
	if again.DurationMinutes != 12 || *again.EndedAt != first.Unix() {
		t.Fatalf("re-end overwrote first end: %+v", again)
	}

	list, err := s.ListStudySessions("u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %d", err, len(list))
	}
}

func TestEndClampsDurationToOneMinute(t *testing.T) {
	s := NewSQLStore(openTestDB(t))
	ss, _ := s.StartStudySession("u1", "ctx")
	got, err := s.EndStudySession(ss.ID, time.Now(), 0, 0, 0)
	if err != nil || got.DurationMinutes != 1 {
		t.Fatalf("duration = %d, want 1", got.DurationMinutes)
	}
}
