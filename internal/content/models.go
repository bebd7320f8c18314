// Package content stores and serves subject-chapter study material:
// key concepts, formulas, notes and practice questions.
package content

import "github.com/neetsprint/neetsprint-server/internal/quiz"

const (
	SubjectBiology   = "biology"
	SubjectBotany    = "botany"
	SubjectChemistry = "chemistry"
	SubjectPhysics   = "physics"
)

type KeyConcept struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Formula     string `json:"formula,omitempty"`
}

type Chapter struct {
	ID            string             `json:"id"`
	Subject       string             `json:"subject"`
	ChapterNumber int                `json:"chapter_number"`
	Title         string             `json:"title"`
	Introduction  string             `json:"introduction,omitempty"`
	KeyConcepts   []KeyConcept       `json:"key_concepts,omitempty"`
	Formulas      []string           `json:"formulas,omitempty"`
	Notes         string             `json:"notes,omitempty"` // markdown study notes
	Questions     []quiz.RawQuestion `json:"questions,omitempty"`
	CreatedAt     int64              `json:"created_at,omitempty"`
}

// Summary is the list-view shape; heavy fields stay behind GetChapter.
type Summary struct {
	ID            string `json:"id"`
	Subject       string `json:"subject"`
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

// Store is the chapter persistence contract.
type Store interface {
	PutChapter(ch Chapter) error
	GetChapter(id string) (Chapter, error)
	ListChapters(subject string) ([]Summary, error)
	// GetQuestions returns the chapter's normalized questions. When
	// includeAnswers is false the correct option and explanation are
	// stripped, mirroring what a learner-facing fetch may see.
	GetQuestions(chapterID string, includeAnswers bool) ([]quiz.Question, error)
	DeleteChapter(id string) error
}
