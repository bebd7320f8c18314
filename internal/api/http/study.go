package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neetsprint/neetsprint-server/internal/study"
)

// POST /bookmarks  { "chapter_id", "question_id" } — toggle semantics.
func ToggleBookmarkHandler(store *study.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ChapterID  string `json:"chapter_id"`
			QuestionID string `json:"question_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChapterID == "" || req.QuestionID == "" {
			writeError(w, http.StatusBadRequest, "chapter_id and question_id required")
			return
		}
		on, err := store.ToggleBookmark(subjectOr(r, "anonymous"), req.ChapterID, req.QuestionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"bookmarked": on})
	}
}

// GET /bookmarks
func ListBookmarksHandler(store *study.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := store.ListBookmarks(subjectOr(r, "anonymous"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if out == nil {
			out = []study.Bookmark{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /notes — insert when id is absent, update otherwise.
func PutNoteHandler(store *study.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var n study.Note
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if n.ChapterID == "" || n.Title == "" {
			writeError(w, http.StatusBadRequest, "chapter_id and title required")
			return
		}
		n.UserID = subjectOr(r, "anonymous")
		saved, err := store.PutNote(n)
		if err != nil {
			if errors.Is(err, study.ErrNotFound) {
				writeError(w, http.StatusNotFound, "note not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

// GET /notes?chapter_id=...
func ListNotesHandler(store *study.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := store.ListNotes(subjectOr(r, "anonymous"), r.URL.Query().Get("chapter_id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if out == nil {
			out = []study.Note{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DELETE /notes/{noteID}
func DeleteNoteHandler(store *study.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "noteID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad note id")
			return
		}
		if err := store.DeleteNote(id, subjectOr(r, "anonymous")); err != nil {
			if errors.Is(err, study.ErrNotFound) {
				writeError(w, http.StatusNotFound, "note not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /study-sessions  { "context_id" } — the telemetry start call.
func StartStudySessionHandler(store *study.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ContextID string `json:"context_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ContextID == "" {
			writeError(w, http.StatusBadRequest, "context_id required")
			return
		}
		ss, err := store.StartStudySession(subjectOr(r, "anonymous"), req.ContextID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, ss)
	}
}

// POST /study-sessions/{sessionID}/end — the telemetry end call.
func EndStudySessionHandler(store *study.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EndedAt           string `json:"ended_at"`
			DurationMinutes   int    `json:"duration_minutes"`
			QuestionsAnswered int    `json:"questions_answered"`
			CorrectCount      int    `json:"correct_count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		endedAt := time.Now()
		if req.EndedAt != "" {
			t, err := time.Parse(time.RFC3339, req.EndedAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, "ended_at must be RFC3339")
				return
			}
			endedAt = t
		}
		ss, err := store.EndStudySession(chi.URLParam(r, "sessionID"), endedAt,
			req.DurationMinutes, req.QuestionsAnswered, req.CorrectCount)
		if err != nil {
			if errors.Is(err, study.ErrNotFound) {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ss)
	}
}

// GET /study-sessions
func ListStudySessionsHandler(store *study.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := store.ListStudySessions(subjectOr(r, "anonymous"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if out == nil {
			out = []study.StudySession{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
