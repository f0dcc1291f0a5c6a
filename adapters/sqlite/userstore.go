package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/askhub/askhub/domain/session"
	"github.com/askhub/askhub/ports"
)

// UserStore implements ports.UserStore using SQLite.
type UserStore struct {
	db *DB
}

// NewUserStore creates a new SQLite user store.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, username, email, avatar, password_hash, role, is_activate, created_at"

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, id string) (ports.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?
	`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (ports.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = ?
	`, email)
	return scanUser(row)
}

// Create stores a new user.
func (s *UserStore) Create(ctx context.Context, u ports.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.Avatar, u.PasswordHash, string(u.Role), u.Active, u.CreatedAt)

	if isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetActive sets the activation flag on a user.
func (s *UserStore) SetActive(ctx context.Context, id string, active bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET is_activate = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// List returns all users ordered by creation time.
func (s *UserStore) List(ctx context.Context) ([]ports.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []ports.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (ports.User, error) {
	var u ports.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Avatar, &u.PasswordHash, &role, &u.Active, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.User{}, ErrNotFound
	}
	if err != nil {
		return ports.User{}, err
	}
	u.Role = session.ParseRole(role)
	return u, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ensure interface compliance.
var _ ports.UserStore = (*UserStore)(nil)
