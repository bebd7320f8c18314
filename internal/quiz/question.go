// Package quiz implements the practice-quiz engine shared by every
// chapter surface: question normalization, the session state machine,
// and score evaluation. It is pure and does no I/O; telemetry and
// persistence live with the callers.
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Option is one answer choice. ID is a stable label ("A","B",...)
// independent of render order.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is the canonical representation every consumer works with,
// decoupled from how source content encoded options and answers.
type Question struct {
	ID              string   `json:"id"`
	Prompt          string   `json:"prompt"`
	Options         []Option `json:"options"`
	CorrectOptionID string   `json:"correct_option_id,omitempty"`
	Explanation     string   `json:"explanation,omitempty"`
	Difficulty      int      `json:"difficulty,omitempty"`
}

// RawOption accepts both encodings seen in source content: a bare
// string, or an {"id","text"} object.
type RawOption struct {
	ID   string
	Text string
}

func (o *RawOption) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		o.ID, o.Text = "", s
		return nil
	}
	var obj struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	o.ID, o.Text = obj.ID, obj.Text
	return nil
}

func (o RawOption) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id,omitempty"`
		Text string `json:"text"`
	}{o.ID, o.Text})
}

// RawAnswer accepts a 0-based numeric index or a letter code.
type RawAnswer struct {
	Letter  string
	Index   int
	Numeric bool
}

func (a *RawAnswer) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		a.Index, a.Numeric = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	a.Letter, a.Numeric = s, false
	return nil
}

func (a RawAnswer) MarshalJSON() ([]byte, error) {
	if a.Numeric {
		return json.Marshal(a.Index)
	}
	return json.Marshal(a.Letter)
}

// RawQuestion is the boundary shape for question ingestion. Both field
// aliases observed in source content are accepted (questionText vs
// question, explanation vs solutionDetail).
type RawQuestion struct {
	ID             json.Number `json:"id"`
	QuestionText   string      `json:"questionText,omitempty"`
	Question       string      `json:"question,omitempty"`
	Options        []RawOption `json:"options"`
	CorrectAnswer  RawAnswer   `json:"correctAnswer"`
	Explanation    string      `json:"explanation,omitempty"`
	SolutionDetail string      `json:"solutionDetail,omitempty"`
	Difficulty     int         `json:"difficulty,omitempty"`
}

// optionLabel maps a 0-based index to its letter label: 0→"A", 1→"B".
func optionLabel(i int) string { return string(rune('A' + i)) }

// NormalizeQuestion converts one raw question into canonical form.
// Synthesized option labels preserve array order. Already-canonical
// input passes through unchanged, so normalization is idempotent.
func NormalizeQuestion(raw RawQuestion) (Question, error) {
	id := raw.ID.String()
	if len(raw.Options) == 0 {
		return Question{}, &ValidationError{QuestionID: id, Reason: "no options"}
	}

	prompt := raw.QuestionText
	if prompt == "" {
		prompt = raw.Question
	}
	explanation := raw.Explanation
	if explanation == "" {
		explanation = raw.SolutionDetail
	}

	opts := make([]Option, len(raw.Options))
	seen := make(map[string]bool, len(raw.Options))
	for i, o := range raw.Options {
		oid := o.ID
		if oid == "" {
			oid = optionLabel(i)
		}
		if seen[oid] {
			return Question{}, &ValidationError{QuestionID: id, Reason: fmt.Sprintf("duplicate option id %q", oid)}
		}
		seen[oid] = true
		opts[i] = Option{ID: oid, Text: o.Text}
	}

	correct := raw.CorrectAnswer.Letter
	if raw.CorrectAnswer.Numeric {
		if raw.CorrectAnswer.Index < 0 || raw.CorrectAnswer.Index >= len(opts) {
			return Question{}, &ValidationError{QuestionID: id, Reason: fmt.Sprintf("correct answer index %d out of range", raw.CorrectAnswer.Index)}
		}
		correct = opts[raw.CorrectAnswer.Index].ID
	}
	if !seen[correct] {
		return Question{}, &ValidationError{QuestionID: id, Reason: fmt.Sprintf("correct answer %q matches no option", correct)}
	}

	return Question{
		ID:              id,
		Prompt:          prompt,
		Options:         opts,
		CorrectOptionID: correct,
		Explanation:     explanation,
		Difficulty:      raw.Difficulty,
	}, nil
}

// Normalize converts a raw question set, skipping malformed entries so
// one bad question does not abort the whole quiz. The returned error,
// if any, joins the per-question validation failures; the returned
// slice always holds the questions that normalized cleanly.
func Normalize(raws []RawQuestion) ([]Question, error) {
	out := make([]Question, 0, len(raws))
	var errs []error
	for _, raw := range raws {
		q, err := NormalizeQuestion(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, q)
	}
	return out, errors.Join(errs...)
}
