// Package practice hosts in-flight quiz sessions for the API surface.
// Sessions live in memory only: a session is owned by the view that
// opened it and is replaced wholesale when the learner restarts or the
// chapter's question set changes.
package practice

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/neetsprint/neetsprint-server/internal/quiz"
)

var ErrNotFound = errors.New("practice: session not found")

// Snapshot is the JSON view of a session handed to the client. Correct
// options and explanations are only present for revealed questions.
type Snapshot struct {
	ID         string            `json:"id"`
	ChapterID  string            `json:"chapter_id"`
	UserID     string            `json:"user_id"`
	Phase      quiz.Phase        `json:"phase"`
	Questions  []quiz.Question   `json:"questions"`
	Selections map[string]string `json:"selections"`
	Answered   int               `json:"answered"`
	Total      int               `json:"total"`
	Result     *quiz.Result      `json:"result,omitempty"`
	Band       quiz.Band         `json:"band,omitempty"`
}

type entry struct {
	id        string
	chapterID string
	userID    string
	sess      *quiz.Session
}

// Registry is a mutex-guarded map of live sessions keyed by ID, with a
// secondary owner index so a learner holds at most one session per
// chapter.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	byOwner  map[string]string // userID+"|"+chapterID -> session ID
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: map[string]*entry{},
		byOwner:  map[string]string{},
	}
}

func ownerKey(userID, chapterID string) string { return userID + "|" + chapterID }

// Start opens a session over the given questions, replacing any prior
// session the learner held for the chapter.
func (r *Registry) Start(chapterID, userID string, questions []quiz.Question) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ownerKey(userID, chapterID)
	if old, ok := r.byOwner[key]; ok {
		delete(r.sessions, old)
	}
	e := &entry{
		id:        uuid.NewString(),
		chapterID: chapterID,
		userID:    userID,
		sess:      quiz.NewSession(questions),
	}
	r.sessions[e.id] = e
	r.byOwner[key] = e.id
	return snapshot(e)
}

// Get returns the current view of a session.
func (r *Registry) Get(id string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snapshot(e), nil
}

// Select records an answer.
func (r *Registry) Select(id, questionID, optionID string) (Snapshot, error) {
	return r.apply(id, func(s *quiz.Session) error {
		return s.SelectAnswer(questionID, optionID)
	})
}

// Reveal shows one question's answer and explanation.
func (r *Registry) Reveal(id, questionID string) (Snapshot, error) {
	return r.apply(id, func(s *quiz.Session) error {
		return s.RevealAnswer(questionID)
	})
}

// Submit finalizes the session.
func (r *Registry) Submit(id string) (Snapshot, error) {
	return r.apply(id, func(s *quiz.Session) error {
		_, err := s.Submit()
		return err
	})
}

// Reset returns the session to its initial state.
func (r *Registry) Reset(id string) (Snapshot, error) {
	return r.apply(id, func(s *quiz.Session) error {
		s.Reset()
		return nil
	})
}

// Drop discards a session (view closed).
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		delete(r.byOwner, ownerKey(e.userID, e.chapterID))
		delete(r.sessions, id)
	}
}

func (r *Registry) apply(id string, fn func(*quiz.Session) error) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	if err := fn(e.sess); err != nil {
		return Snapshot{}, err
	}
	return snapshot(e), nil
}

func snapshot(e *entry) Snapshot {
	s := e.sess
	answered, total := s.Progress()
	snap := Snapshot{
		ID:         e.id,
		ChapterID:  e.chapterID,
		UserID:     e.userID,
		Phase:      s.Phase(),
		Selections: s.Selections(),
		Answered:   answered,
		Total:      total,
	}
	for _, q := range s.Questions() {
		if !s.Revealed(q.ID) {
			// Hide the key until the learner checks or submits.
			q.CorrectOptionID = ""
			q.Explanation = ""
		}
		snap.Questions = append(snap.Questions, q)
	}
	if res, ok := s.Result(); ok {
		snap.Result = &res
		snap.Band = quiz.CompletionBand(res.CorrectCount, res.TotalCount)
	}
	return snap
}
