// Package study persists learner outcomes: bookmarked questions,
// chapter notes and tracked study sessions. Quiz state itself is never
// stored here; only what outlives the view.
package study

type Bookmark struct {
	ID         int64  `json:"id"`
	UserID     string `json:"user_id"`
	ChapterID  string `json:"chapter_id"`
	QuestionID string `json:"question_id"`
	CreatedAt  int64  `json:"created_at"`
}

type Note struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	ChapterID string `json:"chapter_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	UpdatedAt int64  `json:"updated_at"`
}

// StudySession is one tracked sitting. EndedAt stays nil until the
// client reports the end; duration is whole minutes, minimum 1.
type StudySession struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	ContextID         string `json:"context_id"`
	StartedAt         int64  `json:"started_at"`
	EndedAt           *int64 `json:"ended_at,omitempty"`
	DurationMinutes   int    `json:"duration_minutes,omitempty"`
	QuestionsAnswered int    `json:"questions_answered,omitempty"`
	CorrectCount      int    `json:"correct_count,omitempty"`
}
