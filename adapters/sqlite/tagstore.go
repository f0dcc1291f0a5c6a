package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/askhub/askhub/ports"
)

// TagStore implements ports.TagStore using SQLite.
type TagStore struct {
	db *DB
}

// NewTagStore creates a new SQLite tag store.
func NewTagStore(db *DB) *TagStore {
	return &TagStore{db: db}
}

// Get retrieves a tag by ID.
func (s *TagStore) Get(ctx context.Context, id string) (ports.Tag, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, is_activate, created_at
		FROM tags
		WHERE id = ?
	`, id)
	return scanTag(row)
}

// Create stores a new tag.
func (s *TagStore) Create(ctx context.Context, t ports.Tag) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, description, is_activate, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Description, t.Active, t.CreatedAt)

	if isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a tag.
func (s *TagStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetActive sets the activation flag on a tag.
func (s *TagStore) SetActive(ctx context.Context, id string, active bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE tags SET is_activate = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// List returns all tags ordered by name.
func (s *TagStore) List(ctx context.Context) ([]ports.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, is_activate, created_at
		FROM tags
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []ports.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func scanTag(row scanner) (ports.Tag, error) {
	var t ports.Tag
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Active, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Tag{}, ErrNotFound
	}
	if err != nil {
		return ports.Tag{}, err
	}
	return t, nil
}

// Ensure interface compliance.
var _ ports.TagStore = (*TagStore)(nil)
