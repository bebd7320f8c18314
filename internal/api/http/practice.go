package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/neetsprint/neetsprint-server/internal/content"
	"github.com/neetsprint/neetsprint-server/internal/practice"
	"github.com/neetsprint/neetsprint-server/internal/quiz"
	"github.com/neetsprint/neetsprint-server/internal/telemetry"
)

// PracticeHandlers orchestrates the quiz engine, chapter content and
// the telemetry side-channel. Telemetry runs in goroutines and never
// feeds back into quiz state.
type PracticeHandlers struct {
	Registry  *practice.Registry
	Content   content.Store
	Telemetry *telemetry.Client

	mu      sync.Mutex
	handles map[string]telemetry.Handle // session ID -> telemetry handle
}

func NewPracticeHandlers(reg *practice.Registry, store content.Store, tel *telemetry.Client) *PracticeHandlers {
	return &PracticeHandlers{
		Registry:  reg,
		Content:   store,
		Telemetry: tel,
		handles:   map[string]telemetry.Handle{},
	}
}

// POST /practice-sessions  { "chapter_id": "..." }
func (h *PracticeHandlers) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChapterID string `json:"chapter_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChapterID == "" {
		writeError(w, http.StatusBadRequest, "chapter_id required")
		return
	}
	userID := subjectOr(r, "anonymous")
	qs, err := h.Content.GetQuestions(req.ChapterID, true)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			writeError(w, http.StatusNotFound, "chapter not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(qs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "chapter has no practice questions")
		return
	}
	snap := h.Registry.Start(req.ChapterID, userID, qs)
	h.reportStart(snap.ID, req.ChapterID)
	writeJSON(w, http.StatusCreated, snap)
}

// GET /practice-sessions/{sessionID}
func (h *PracticeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Registry.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		practiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// POST /practice-sessions/{sessionID}/select  { "question_id", "option_id" }
func (h *PracticeHandlers) Select(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID string `json:"question_id"`
		OptionID   string `json:"option_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	snap, err := h.Registry.Select(chi.URLParam(r, "sessionID"), req.QuestionID, req.OptionID)
	if err != nil {
		practiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// POST /practice-sessions/{sessionID}/reveal  { "question_id" }
func (h *PracticeHandlers) Reveal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID string `json:"question_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	snap, err := h.Registry.Reveal(chi.URLParam(r, "sessionID"), req.QuestionID)
	if err != nil {
		practiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// POST /practice-sessions/{sessionID}/submit
func (h *PracticeHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	snap, err := h.Registry.Submit(id)
	if err != nil {
		practiceError(w, err)
		return
	}
	h.reportEnd(id, snap)
	writeJSON(w, http.StatusOK, snap)
}

// POST /practice-sessions/{sessionID}/reset
func (h *PracticeHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	// A restart closes the tracked sitting and opens a fresh one; the
	// end report must carry the progress of the sitting being closed,
	// not the wiped state.
	before, err := h.Registry.Get(id)
	if err != nil {
		practiceError(w, err)
		return
	}
	snap, err := h.Registry.Reset(id)
	if err != nil {
		practiceError(w, err)
		return
	}
	h.reportEnd(id, before)
	h.reportStart(id, snap.ChapterID)
	writeJSON(w, http.StatusOK, snap)
}

// DELETE /practice-sessions/{sessionID}
func (h *PracticeHandlers) Drop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	snap, err := h.Registry.Get(id)
	if err == nil {
		h.reportEnd(id, snap)
	}
	h.Registry.Drop(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *PracticeHandlers) reportStart(sessionID, chapterID string) {
	if h.Telemetry == nil {
		return
	}
	// The handle lands asynchronously: an end that races ahead of the
	// start finds no handle and the sitting goes unreported. Best-effort
	// telemetry tolerates that; quiz state never waits on it.
	go func() {
		hd := h.Telemetry.ReportStart(context.Background(), chapterID)
		if hd.Zero() {
			return
		}
		h.mu.Lock()
		h.handles[sessionID] = hd
		h.mu.Unlock()
	}()
}

func (h *PracticeHandlers) reportEnd(sessionID string, snap practice.Snapshot) {
	if h.Telemetry == nil {
		return
	}
	h.mu.Lock()
	hd, ok := h.handles[sessionID]
	delete(h.handles, sessionID)
	h.mu.Unlock()
	if !ok {
		return
	}
	sum := telemetry.Summary{QuestionsAnswered: snap.Answered}
	if snap.Result != nil {
		sum.QuestionsAnswered = snap.Result.TotalCount
		sum.CorrectCount = snap.Result.CorrectCount
	}
	go h.Telemetry.ReportEnd(context.Background(), hd, sum)
}

func practiceError(w http.ResponseWriter, err error) {
	var inc *quiz.IncompleteSessionError
	switch {
	case errors.Is(err, practice.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.As(err, &inc):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "please answer all questions before submitting",
			"unanswered": inc.Unanswered,
		})
	case errors.Is(err, quiz.ErrInvalidState), errors.Is(err, quiz.ErrNoSelection):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, quiz.ErrUnknownQuestion), errors.Is(err, quiz.ErrUnknownOption):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
