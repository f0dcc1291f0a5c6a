// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/ and backend/.
package ports

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/askhub/askhub/domain/resource"
	"github.com/askhub/askhub/domain/session"
)

// ErrNotFound is returned by stores when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by stores when a unique constraint is violated.
var ErrDuplicate = errors.New("already exists")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) bool
}

// -----------------------------------------------------------------------------
// Session Port
// -----------------------------------------------------------------------------

// SessionSource reads the session fact for a request. The mechanism that
// establishes the session is external; route evaluation only consumes the
// facts and never mutates them.
type SessionSource interface {
	Session(r *http.Request) session.Session
}

// -----------------------------------------------------------------------------
// Remote Collection Port
// -----------------------------------------------------------------------------

// Collection is the remote collection API admin list views reconcile
// against. A failure the collection itself reported arrives as
// *EnvelopeError; anything else is a transport failure.
type Collection interface {
	// List returns the full remote collection.
	List(ctx context.Context) ([]resource.Record, error)

	// Delete removes one record by id.
	Delete(ctx context.Context, id string) error

	// Toggle inverts a boolean field on one record.
	Toggle(ctx context.Context, id, field string) error
}

// EnvelopeError is a failure the remote collection reported in its response
// envelope, as opposed to a transport failure. Message may be empty.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return "remote operation failed"
	}
	return e.Message
}

// Notifier raises transient user-visible notices for list operations.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// -----------------------------------------------------------------------------
// Built-in Backend Store Ports
// -----------------------------------------------------------------------------

// User is a platform account.
type User struct {
	ID           string
	Username     string
	Email        string
	Avatar       string
	PasswordHash []byte // bcrypt
	Role         session.Role
	Active       bool
	CreatedAt    time.Time
}

// UserStore persists user accounts.
type UserStore interface {
	Get(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context) ([]User, error)
}

// Tag is a question topic label.
type Tag struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
}

// TagStore persists tags.
type TagStore interface {
	Get(ctx context.Context, id string) (Tag, error)
	Create(ctx context.Context, t Tag) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context) ([]Tag, error)
}

// Question is a posted question. Tags carries the tag names the question
// was filed under, denormalized onto the record.
type Question struct {
	ID        string
	Title     string
	AuthorID  string
	Tags      []string
	Views     int
	Active    bool // hidden questions stay stored but are not served publicly
	CreatedAt time.Time
}

// QuestionStore persists questions.
type QuestionStore interface {
	Get(ctx context.Context, id string) (Question, error)
	Create(ctx context.Context, q Question) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context) ([]Question, error)
}
