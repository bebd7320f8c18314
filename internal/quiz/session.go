package quiz

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseSubmitted  Phase = "submitted"
)

// Session holds one quiz's lifecycle: an immutable question set,
// the learner's selections, per-question reveal flags, and the frozen
// result once submitted. It is a plain synchronous value; callers own
// it exclusively and drive it from UI events one at a time.
type Session struct {
	questions  []Question
	byID       map[string]int
	selections map[string]string
	revealed   map[string]bool
	phase      Phase
	result     Result
}

// NewSession starts a session over the given canonical questions.
func NewSession(questions []Question) *Session {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	byID := make(map[string]int, len(qs))
	for i, q := range qs {
		byID[q.ID] = i
	}
	return &Session{
		questions:  qs,
		byID:       byID,
		selections: map[string]string{},
		revealed:   map[string]bool{},
		phase:      PhaseNotStarted,
	}
}

func (s *Session) Phase() Phase { return s.phase }

// Questions returns the session's question set in presentation order.
func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Selected reports the chosen option for a question, if any.
func (s *Session) Selected(questionID string) (string, bool) {
	sel, ok := s.selections[questionID]
	return sel, ok
}

// Selections returns a copy of the current answer map.
func (s *Session) Selections() map[string]string {
	out := make(map[string]string, len(s.selections))
	for k, v := range s.selections {
		out[k] = v
	}
	return out
}

// Revealed reports whether a question's answer/explanation is shown.
func (s *Session) Revealed(questionID string) bool { return s.revealed[questionID] }

// Progress reports how many questions have a selection.
func (s *Session) Progress() (answered, total int) {
	return len(s.selections), len(s.questions)
}

// Result returns the frozen score; ok is false until Submit succeeds.
func (s *Session) Result() (Result, bool) {
	if s.phase != PhaseSubmitted {
		return Result{}, false
	}
	return s.result, true
}

// SelectAnswer records (or overwrites) the learner's choice for a
// question. A first selection moves the session into PhaseInProgress.
// Re-selecting also clears that question's reveal flag: checking an
// answer and then picking a different option hides the explanation
// again ("try again" behavior).
func (s *Session) SelectAnswer(questionID, optionID string) error {
	if s.phase == PhaseSubmitted {
		return ErrInvalidState
	}
	i, ok := s.byID[questionID]
	if !ok {
		return ErrUnknownQuestion
	}
	valid := false
	for _, o := range s.questions[i].Options {
		if o.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return ErrUnknownOption
	}
	s.selections[questionID] = optionID
	delete(s.revealed, questionID)
	if s.phase == PhaseNotStarted {
		s.phase = PhaseInProgress
	}
	return nil
}

// RevealAnswer marks a question's answer/explanation as shown. The
// question must already have a selection. Revealing an already
// revealed question is a no-op.
func (s *Session) RevealAnswer(questionID string) error {
	if _, ok := s.byID[questionID]; !ok {
		return ErrUnknownQuestion
	}
	if _, ok := s.selections[questionID]; !ok {
		return ErrNoSelection
	}
	s.revealed[questionID] = true
	return nil
}

// Submit finalizes the session: every question must have a selection.
// On success the score is computed and frozen, every question is
// revealed, and the session enters PhaseSubmitted. Submitting an
// already submitted session returns the frozen result unchanged.
func (s *Session) Submit() (Result, error) {
	if s.phase == PhaseSubmitted {
		return s.result, nil
	}
	var unanswered []string
	for _, q := range s.questions {
		if _, ok := s.selections[q.ID]; !ok {
			unanswered = append(unanswered, q.ID)
		}
	}
	if len(unanswered) > 0 {
		return Result{}, &IncompleteSessionError{Unanswered: unanswered}
	}
	correct, total := Score(s.questions, s.selections)
	s.result = Result{CorrectCount: correct, TotalCount: total, Complete: true}
	for _, q := range s.questions {
		s.revealed[q.ID] = true
	}
	s.phase = PhaseSubmitted
	return s.result, nil
}

// Reset clears selections, reveals and any frozen result, returning
// the session to PhaseNotStarted. Always succeeds.
func (s *Session) Reset() {
	s.selections = map[string]string{}
	s.revealed = map[string]bool{}
	s.result = Result{}
	s.phase = PhaseNotStarted
}
