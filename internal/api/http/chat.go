package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neetsprint/neetsprint-server/internal/chat"
	"github.com/neetsprint/neetsprint-server/internal/content"
)

// GET /chat/health
func ChatHealthHandler(tutor *chat.Tutor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := map[string]any{"configured": tutor != nil}
		if tutor != nil {
			res["model"] = tutor.Model()
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /chapters/{chapterID}/chat  { "message", "history": [...] }
func ChapterChatHandler(tutor *chat.Tutor, store content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tutor == nil {
			writeError(w, http.StatusServiceUnavailable, "chat is not configured")
			return
		}
		var req struct {
			Message string         `json:"message"`
			History []chat.Message `json:"history"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		ch, err := store.GetChapter(chi.URLParam(r, "chapterID"))
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				writeError(w, http.StatusNotFound, "chapter not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		answer, err := tutor.Ask(r.Context(), ch, req.History, req.Message)
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrMessageEmpty), errors.Is(err, chat.ErrMessageTooLong):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				writeError(w, http.StatusBadGateway, "tutor is unavailable, try again shortly")
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"answer": answer, "model": tutor.Model()})
	}
}
