package study

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("study: not found")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// ToggleBookmark adds the bookmark if absent, removes it if present.
// Returns true when the question ends up bookmarked.
func (s *SQLStore) ToggleBookmark(userID, chapterID, questionID string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM bookmarks WHERE user_id=$1 AND chapter_id=$2 AND question_id=$3`,
		userID, chapterID, questionID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	_, err = s.db.Exec(`INSERT INTO bookmarks (user_id,chapter_id,question_id,created_at) VALUES ($1,$2,$3,$4)`,
		userID, chapterID, questionID, time.Now().Unix())
	return err == nil, err
}

func (s *SQLStore) ListBookmarks(userID string) ([]Bookmark, error) {
	rows, err := s.db.Query(`SELECT id,user_id,chapter_id,question_id,created_at
		FROM bookmarks WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.ChapterID, &b.QuestionID, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// PutNote inserts when ID is zero, otherwise updates the caller's own
// note.
func (s *SQLStore) PutNote(n Note) (Note, error) {
	n.UpdatedAt = time.Now().Unix()
	if n.ID == 0 {
		row := s.db.QueryRow(`INSERT INTO notes (user_id,chapter_id,title,body,updated_at)
			VALUES ($1,$2,$3,$4,$5) RETURNING id`,
			n.UserID, n.ChapterID, n.Title, n.Body, n.UpdatedAt)
		if err := row.Scan(&n.ID); err != nil {
			return Note{}, err
		}
		return n, nil
	}
	res, err := s.db.Exec(`UPDATE notes SET title=$1, body=$2, updated_at=$3 WHERE id=$4 AND user_id=$5`,
		n.Title, n.Body, n.UpdatedAt, n.ID, n.UserID)
	if err != nil {
		return Note{}, err
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		return Note{}, ErrNotFound
	}
	return n, nil
}

func (s *SQLStore) ListNotes(userID, chapterID string) ([]Note, error) {
	q := `SELECT id,user_id,chapter_id,title,body,updated_at FROM notes WHERE user_id=$1`
	args := []any{userID}
	if chapterID != "" {
		q += ` AND chapter_id=$2`
		args = append(args, chapterID)
	}
	q += ` ORDER BY updated_at DESC, id DESC`
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.ChapterID, &n.Title, &n.Body, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteNote(id int64, userID string) error {
	res, err := s.db.Exec(`DELETE FROM notes WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) StartStudySession(userID, contextID string) (StudySession, error) {
	ss := StudySession{
		ID:        uuid.NewString(),
		UserID:    userID,
		ContextID: contextID,
		StartedAt: time.Now().Unix(),
	}
	_, err := s.db.Exec(`INSERT INTO study_sessions (id,user_id,context_id,started_at,questions_answered,correct_count,duration_minutes)
		VALUES ($1,$2,$3,$4,0,0,0)`,
		ss.ID, ss.UserID, ss.ContextID, ss.StartedAt)
	if err != nil {
		return StudySession{}, err
	}
	return ss, nil
}

// EndStudySession closes a session. Ending an already-ended session is
// a no-op that keeps the first end.
func (s *SQLStore) EndStudySession(id string, endedAt time.Time, durationMinutes, questionsAnswered, correctCount int) (StudySession, error) {
	if durationMinutes < 1 {
		durationMinutes = 1
	}
	_, err := s.db.Exec(`UPDATE study_sessions
		SET ended_at=$1, duration_minutes=$2, questions_answered=$3, correct_count=$4
		WHERE id=$5 AND ended_at IS NULL`,
		endedAt.Unix(), durationMinutes, questionsAnswered, correctCount, id)
	if err != nil {
		return StudySession{}, err
	}
	return s.GetStudySession(id)
}

func (s *SQLStore) GetStudySession(id string) (StudySession, error) {
	row := s.db.QueryRow(`SELECT id,user_id,context_id,started_at,ended_at,duration_minutes,questions_answered,correct_count
		FROM study_sessions WHERE id=$1`, id)
	var ss StudySession
	var ended sql.NullInt64
	if err := row.Scan(&ss.ID, &ss.UserID, &ss.ContextID, &ss.StartedAt, &ended,
		&ss.DurationMinutes, &ss.QuestionsAnswered, &ss.CorrectCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StudySession{}, ErrNotFound
		}
		return StudySession{}, err
	}
	if ended.Valid {
		ss.EndedAt = &ended.Int64
	}
	return ss, nil
}

func (s *SQLStore) ListStudySessions(userID string) ([]StudySession, error) {
	rows, err := s.db.Query(`SELECT id,user_id,context_id,started_at,ended_at,duration_minutes,questions_answered,correct_count
		FROM study_sessions WHERE user_id=$1 ORDER BY started_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StudySession
	for rows.Next() {
		var ss StudySession
		var ended sql.NullInt64
		if err := rows.Scan(&ss.ID, &ss.UserID, &ss.ContextID, &ss.StartedAt, &ended,
			&ss.DurationMinutes, &ss.QuestionsAnswered, &ss.CorrectCount); err != nil {
			return nil, err
		}
		if ended.Valid {
			ss.EndedAt = &ended.Int64
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}
