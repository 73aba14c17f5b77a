package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/kitzur/internal/errs"
	"github.com/roach88/kitzur/internal/qa"
)

// createdAtLayout is fixed width so created_at sorts chronologically as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type questionRow struct {
	ID              string         `db:"id"`
	Text            string         `db:"text"`
	Category        string         `db:"category"`
	AskedBy         string         `db:"asked_by"`
	CreatedAt       string         `db:"created_at"`
	AnswerText      sql.NullString `db:"answer_text"`
	AnswerReference sql.NullString `db:"answer_reference"`
	AnsweredBy      sql.NullString `db:"answered_by"`
	AnswerSource    sql.NullString `db:"answer_source"`
}

type tagRow struct {
	QuestionID string `db:"question_id"`
	Tag        string `db:"tag"`
}

const selectQuestions = `
	SELECT id, text, category, asked_by, created_at,
	       answer_text, answer_reference, answered_by, answer_source
	FROM questions`

// SaveQuestion inserts q or replaces the stored question with the same ID,
// tags included.
func (s *Store) SaveQuestion(ctx context.Context, q qa.Question) error {
	if q.ID == "" {
		return errs.InvalidArgument("question id is empty")
	}

	row := questionRow{
		ID:        q.ID,
		Text:      q.Text,
		Category:  string(q.Category),
		AskedBy:   q.AskedBy,
		CreatedAt: q.CreatedAt.UTC().Format(createdAtLayout),
	}
	if q.Answer != nil {
		row.AnswerText = sql.NullString{String: q.Answer.Text, Valid: true}
		row.AnswerReference = sql.NullString{String: q.Answer.Reference, Valid: true}
		row.AnsweredBy = sql.NullString{String: q.Answer.AnsweredBy, Valid: true}
		row.AnswerSource = sql.NullString{String: string(q.Answer.Source), Valid: true}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save question: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO questions
			(id, text, category, asked_by, created_at,
			 answer_text, answer_reference, answered_by, answer_source)
		VALUES
			(:id, :text, :category, :asked_by, :created_at,
			 :answer_text, :answer_reference, :answered_by, :answer_source)
	`, row); err != nil {
		return fmt.Errorf("save question %s: %w", q.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM question_tags WHERE question_id = ?", q.ID); err != nil {
		return fmt.Errorf("clear tags of %s: %w", q.ID, err)
	}
	for i, tag := range q.Tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO question_tags (question_id, position, tag) VALUES (?, ?, ?)",
			q.ID, i, tag,
		); err != nil {
			return fmt.Errorf("save tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit question %s: %w", q.ID, err)
	}
	return nil
}

// Questions returns every stored question, oldest first.
func (s *Store) Questions(ctx context.Context) ([]qa.Question, error) {
	var rows []questionRow
	if err := s.db.SelectContext(ctx, &rows, selectQuestions+" ORDER BY created_at ASC, id ASC"); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	var tags []tagRow
	if err := s.db.SelectContext(ctx, &tags,
		"SELECT question_id, tag FROM question_tags ORDER BY question_id, position",
	); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	byQuestion := make(map[string][]string)
	for _, t := range tags {
		byQuestion[t.QuestionID] = append(byQuestion[t.QuestionID], t.Tag)
	}

	out := make([]qa.Question, 0, len(rows))
	for _, r := range rows {
		q, err := r.question()
		if err != nil {
			return nil, err
		}
		q.Tags = byQuestion[r.ID]
		out = append(out, q)
	}
	return out, nil
}

// Question returns the stored question with id.
func (s *Store) Question(ctx context.Context, id string) (qa.Question, error) {
	var r questionRow
	err := s.db.GetContext(ctx, &r, selectQuestions+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return qa.Question{}, errs.NotFound("question %q not found", id)
	}
	if err != nil {
		return qa.Question{}, fmt.Errorf("load question %s: %w", id, err)
	}

	q, err := r.question()
	if err != nil {
		return qa.Question{}, err
	}
	if err := s.db.SelectContext(ctx, &q.Tags,
		"SELECT tag FROM question_tags WHERE question_id = ? ORDER BY position", id,
	); err != nil {
		return qa.Question{}, fmt.Errorf("load tags: %w", err)
	}
	if len(q.Tags) == 0 {
		q.Tags = nil
	}
	return q, nil
}

func (r questionRow) question() (qa.Question, error) {
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return qa.Question{}, fmt.Errorf("question %s: bad created_at %q: %w", r.ID, r.CreatedAt, err)
	}
	q := qa.Question{
		ID:        r.ID,
		Text:      r.Text,
		Category:  qa.Category(r.Category),
		AskedBy:   r.AskedBy,
		CreatedAt: created,
	}
	if r.AnswerText.Valid {
		q.Answer = &qa.Answer{
			Text:       r.AnswerText.String,
			Reference:  r.AnswerReference.String,
			AnsweredBy: r.AnsweredBy.String,
			Source:     qa.AnswerSource(r.AnswerSource.String),
		}
	}
	return q, nil
}
