package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/askhub/askhub/ports"
)

// QuestionStore implements ports.QuestionStore using SQLite.
type QuestionStore struct {
	db *DB
}

// NewQuestionStore creates a new SQLite question store.
func NewQuestionStore(db *DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// Get retrieves a question by ID.
func (s *QuestionStore) Get(ctx context.Context, id string) (ports.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, author_id, tags, views, is_activate, created_at
		FROM questions
		WHERE id = ?
	`, id)
	return scanQuestion(row)
}

// Create stores a new question.
func (s *QuestionStore) Create(ctx context.Context, q ports.Question) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO questions (id, title, author_id, tags, views, is_activate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, q.ID, q.Title, q.AuthorID, strings.Join(q.Tags, ","), q.Views, q.Active, q.CreatedAt)

	if isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a question.
func (s *QuestionStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetActive sets the visibility flag on a question.
func (s *QuestionStore) SetActive(ctx context.Context, id string, active bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE questions SET is_activate = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// List returns all questions, newest first.
func (s *QuestionStore) List(ctx context.Context) ([]ports.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, author_id, tags, views, is_activate, created_at
		FROM questions
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []ports.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func scanQuestion(row scanner) (ports.Question, error) {
	var q ports.Question
	var tags string
	err := row.Scan(&q.ID, &q.Title, &q.AuthorID, &tags, &q.Views, &q.Active, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Question{}, ErrNotFound
	}
	if err != nil {
		return ports.Question{}, err
	}
	if tags != "" {
		q.Tags = strings.Split(tags, ",")
	}
	return q, nil
}

// Ensure interface compliance.
var _ ports.QuestionStore = (*QuestionStore)(nil)
