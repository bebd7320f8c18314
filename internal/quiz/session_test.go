package quiz

import (
	"errors"
	"testing"
)

func fourOptions() []Option {
	return []Option{{ID: "A", Text: "a"}, {ID: "B", Text: "b"}, {ID: "C", Text: "c"}, {ID: "D", Text: "d"}}
}

func testQuestions(correct ...string) []Question {
	qs := make([]Question, len(correct))
	for i, c := range correct {
		qs[i] = Question{
			ID:              string(rune('1' + i)),
			Prompt:          "q",
			Options:         fourOptions(),
			CorrectOptionID: c,
			Explanation:     "because",
		}
	}
	return qs
}

func TestSelectMovesNotStartedToInProgress(t *testing.T) {
	s := NewSession(testQuestions("A", "B"))
	if s.Phase() != PhaseNotStarted {
		t.Fatalf("phase = %s", s.Phase())
	}
	if err := s.SelectAnswer("1", "A"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if s.Phase() != PhaseInProgress {
		t.Fatalf("phase = %s, want in_progress", s.Phase())
	}
}

func TestSelectionOverwriteClearsReveal(t *testing.T) {
	s := NewSession(testQuestions("B"))
	if err := s.SelectAnswer("1", "A"); err != nil {
		t.Fatalf("select A: %v", err)
	}
	if err := s.RevealAnswer("1"); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if !s.Revealed("1") {
		t.Fatalf("expected revealed")
	}
	if err := s.SelectAnswer("1", "B"); err != nil {
		t.Fatalf("re-select: %v", err)
	}
	if sel, _ := s.Selected("1"); sel != "B" {
		t.Fatalf("selection = %q, want B", sel)
	}
	if s.Revealed("1") {
		t.Fatalf("re-selecting must hide the previously revealed answer")
	}
	if answered, _ := s.Progress(); answered != 1 {
		t.Fatalf("answered = %d, want exactly one selection", answered)
	}
}

func TestRevealRequiresSelection(t *testing.T) {
	s := NewSession(testQuestions("A"))
	if err := s.RevealAnswer("1"); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
	if err := s.RevealAnswer("9"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("err = %v, want ErrUnknownQuestion", err)
	}
}

func TestSubmitRequiresCompleteness(t *testing.T) {
	s := NewSession(testQuestions("A", "B", "C"))
	if err := s.SelectAnswer("1", "A"); err != nil {
		t.Fatal(err)
	}
	_, err := s.Submit()
	var inc *IncompleteSessionError
	if !errors.As(err, &inc) {
		t.Fatalf("err = %v, want *IncompleteSessionError", err)
	}
	if len(inc.Unanswered) != 2 {
		t.Fatalf("unanswered = %v, want 2 ids", inc.Unanswered)
	}
	// State unchanged by the failed submit.
	if s.Phase() != PhaseInProgress {
		t.Fatalf("phase = %s after failed submit", s.Phase())
	}
	if s.Revealed("1") {
		t.Fatalf("failed submit must not reveal anything")
	}
}

func TestSubmitRevealsAllAndFreezesResult(t *testing.T) {
	s := NewSession(testQuestions("A", "B"))
	for id, opt := range map[string]string{"1": "A", "2": "C"} {
		if err := s.SelectAnswer(id, opt); err != nil {
			t.Fatal(err)
		}
	}
	res, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.CorrectCount != 1 || res.TotalCount != 2 || !res.Complete {
		t.Fatalf("result = %+v", res)
	}
	for _, q := range s.Questions() {
		if !s.Revealed(q.ID) {
			t.Fatalf("question %s not revealed after submit", q.ID)
		}
	}
	if s.Phase() != PhaseSubmitted {
		t.Fatalf("phase = %s", s.Phase())
	}
	// Selecting after submit is rejected.
	if err := s.SelectAnswer("1", "B"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("select after submit: err = %v, want ErrInvalidState", err)
	}
	// Re-submitting returns the frozen result.
	again, err := s.Submit()
	if err != nil || again != res {
		t.Fatalf("re-submit: %+v, %v", again, err)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := NewSession(testQuestions("A", "B"))
	_ = s.SelectAnswer("1", "A")
	_ = s.SelectAnswer("2", "B")
	_ = s.RevealAnswer("1")
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	if s.Phase() != PhaseNotStarted {
		t.Fatalf("phase = %s", s.Phase())
	}
	if answered, _ := s.Progress(); answered != 0 {
		t.Fatalf("answered = %d after reset", answered)
	}
	if s.Revealed("1") || s.Revealed("2") {
		t.Fatalf("reveal state survived reset")
	}
	if _, ok := s.Result(); ok {
		t.Fatalf("result survived reset")
	}
	// Session is reusable after reset.
	if err := s.SelectAnswer("1", "B"); err != nil {
		t.Fatalf("select after reset: %v", err)
	}
}

func TestUnknownIDsRejected(t *testing.T) {
	s := NewSession(testQuestions("A"))
	if err := s.SelectAnswer("9", "A"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("err = %v", err)
	}
	if err := s.SelectAnswer("1", "Z"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("err = %v", err)
	}
}

// Full learner walkthrough: 5 questions, one wrong answer, individual
// reveals, 4/5 "great", then a reset back to a clean session.
func TestEndToEndScenario(t *testing.T) {
	s := NewSession(testQuestions("B", "B", "C", "A", "D"))
	picks := []string{"B", "A", "C", "A", "D"}
	for i, p := range picks {
		id := string(rune('1' + i))
		if err := s.SelectAnswer(id, p); err != nil {
			t.Fatalf("select %s: %v", id, err)
		}
		if err := s.RevealAnswer(id); err != nil {
			t.Fatalf("reveal %s: %v", id, err)
		}
	}
	res, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.CorrectCount != 4 || res.TotalCount != 5 {
		t.Fatalf("score = %d/%d, want 4/5", res.CorrectCount, res.TotalCount)
	}
	if band := CompletionBand(res.CorrectCount, res.TotalCount); band != BandGreat {
		t.Fatalf("band = %s, want great (4 >= 0.7*5)", band)
	}
	s.Reset()
	if s.Phase() != PhaseNotStarted {
		t.Fatalf("phase after reset = %s", s.Phase())
	}
	if answered, total := s.Progress(); answered != 0 || total != 5 {
		t.Fatalf("progress after reset = %d/%d", answered, total)
	}
}
