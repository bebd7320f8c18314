package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neetsprint/neetsprint-server/internal/content"
	"github.com/neetsprint/neetsprint-server/internal/quiz"
)

// GET /chapters?subject=physics
func ListChaptersHandler(store content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := store.ListChapters(r.URL.Query().Get("subject"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if out == nil {
			out = []content.Summary{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /chapters/{chapterID} — study material without the raw question
// bank; questions are served separately with answer keys stripped.
func GetChapterHandler(store content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, err := store.GetChapter(chi.URLParam(r, "chapterID"))
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				writeError(w, http.StatusNotFound, "chapter not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		ch.Questions = nil
		writeJSON(w, http.StatusOK, ch)
	}
}

// GET /chapters/{chapterID}/questions — learner view, no answer keys.
func GetChapterQuestionsHandler(store content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.GetQuestions(chi.URLParam(r, "chapterID"), false)
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				writeError(w, http.StatusNotFound, "chapter not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if qs == nil {
			qs = []quiz.Question{}
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

// PUT /chapters — admin upsert of chapter content.
func PutChapterHandler(store content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ch content.Chapter
		if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		if ch.ID == "" || ch.Subject == "" || ch.Title == "" {
			writeError(w, http.StatusBadRequest, "id, subject and title required")
			return
		}
		// Reject content whose question bank normalizes to nothing.
		if len(ch.Questions) > 0 {
			qs, err := quiz.Normalize(ch.Questions)
			if len(qs) == 0 && err != nil {
				writeError(w, http.StatusBadRequest, "no valid questions: "+err.Error())
				return
			}
		}
		if err := store.PutChapter(ch); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": ch.ID})
	}
}

// DELETE /chapters/{chapterID}
func DeleteChapterHandler(store content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteChapter(chi.URLParam(r, "chapterID"))
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				writeError(w, http.StatusNotFound, "chapter not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
