package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidState is returned when an operation is attempted in a
	// session phase that forbids it (e.g. selecting after submit).
	ErrInvalidState = errors.New("quiz: operation not allowed in current phase")

	// ErrNoSelection is returned when a reveal is requested for a
	// question that has no recorded selection yet.
	ErrNoSelection = errors.New("quiz: question has no selection")

	// ErrUnknownQuestion / ErrUnknownOption guard against IDs that do
	// not belong to the session's question set.
	ErrUnknownQuestion = errors.New("quiz: unknown question id")
	ErrUnknownOption   = errors.New("quiz: unknown option id")
)

// ValidationError reports malformed source question data. It is
// per-question: callers skip the offending question rather than
// aborting the whole set.
type ValidationError struct {
	QuestionID string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.QuestionID == "" {
		return "quiz: invalid question: " + e.Reason
	}
	return fmt.Sprintf("quiz: invalid question %s: %s", e.QuestionID, e.Reason)
}

// IncompleteSessionError is returned by Submit when one or more
// questions still lack a selection.
type IncompleteSessionError struct {
	Unanswered []string
}

func (e *IncompleteSessionError) Error() string {
	return fmt.Sprintf("quiz: %d question(s) unanswered: %s",
		len(e.Unanswered), strings.Join(e.Unanswered, ","))
}
