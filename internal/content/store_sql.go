package content

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/neetsprint/neetsprint-server/internal/quiz"
)

var ErrNotFound = errors.New("content: chapter not found")

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutChapter(ch Chapter) error {
	kc, err := json.Marshal(ch.KeyConcepts)
	if err != nil {
		return err
	}
	fj, err := json.Marshal(ch.Formulas)
	if err != nil {
		return err
	}
	qj, err := json.Marshal(ch.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO chapters (id,subject,chapter_number,title,introduction,key_concepts_json,formulas_json,notes,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET subject=EXCLUDED.subject, chapter_number=EXCLUDED.chapter_number,
		title=EXCLUDED.title, introduction=EXCLUDED.introduction, key_concepts_json=EXCLUDED.key_concepts_json,
		formulas_json=EXCLUDED.formulas_json, notes=EXCLUDED.notes, questions_json=EXCLUDED.questions_json`,
		ch.ID, ch.Subject, ch.ChapterNumber, ch.Title, ch.Introduction,
		string(kc), string(fj), ch.Notes, string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetChapter(id string) (Chapter, error) {
	row := s.db.QueryRow(`SELECT id,subject,chapter_number,title,introduction,key_concepts_json,formulas_json,notes,questions_json,created_at
		FROM chapters WHERE id=$1`, id)
	var ch Chapter
	var kc, fj, qj string
	if err := row.Scan(&ch.ID, &ch.Subject, &ch.ChapterNumber, &ch.Title, &ch.Introduction,
		&kc, &fj, &ch.Notes, &qj, &ch.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Chapter{}, ErrNotFound
		}
		return Chapter{}, err
	}
	if err := json.Unmarshal([]byte(kc), &ch.KeyConcepts); err != nil {
		return Chapter{}, err
	}
	if err := json.Unmarshal([]byte(fj), &ch.Formulas); err != nil {
		return Chapter{}, err
	}
	if err := json.Unmarshal([]byte(qj), &ch.Questions); err != nil {
		return Chapter{}, err
	}
	return ch, nil
}

func (s *SQLStore) ListChapters(subject string) ([]Summary, error) {
	q := `SELECT id,subject,chapter_number,title,questions_json FROM chapters`
	args := []any{}
	if subject != "" {
		q += ` WHERE subject=$1`
		args = append(args, subject)
	}
	q += ` ORDER BY subject, chapter_number`
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var sm Summary
		var qj string
		if err := rows.Scan(&sm.ID, &sm.Subject, &sm.ChapterNumber, &sm.Title, &qj); err != nil {
			return nil, err
		}
		var raws []quiz.RawQuestion
		if err := json.Unmarshal([]byte(qj), &raws); err == nil {
			sm.QuestionCount = len(raws)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetQuestions(chapterID string, includeAnswers bool) ([]quiz.Question, error) {
	row := s.db.QueryRow(`SELECT questions_json FROM chapters WHERE id=$1`, chapterID)
	var qj string
	if err := row.Scan(&qj); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var raws []quiz.RawQuestion
	if err := json.Unmarshal([]byte(qj), &raws); err != nil {
		return nil, err
	}
	qs, err := quiz.Normalize(raws)
	if err != nil {
		// Malformed questions are skipped, not fatal for the chapter.
		log.Printf("content: chapter %s has malformed questions: %v", chapterID, err)
	}
	if !includeAnswers {
		for i := range qs {
			qs[i].CorrectOptionID = ""
			qs[i].Explanation = ""
		}
	}
	return qs, nil
}

func (s *SQLStore) DeleteChapter(id string) error {
	res, err := s.db.Exec(`DELETE FROM chapters WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
