package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/askhub/askhub/ports"
)

// UserStore is an in-memory implementation of ports.UserStore.
type UserStore struct {
	mu      sync.RWMutex
	users   map[string]ports.User // by ID
	byEmail map[string]string     // email -> ID
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[string]ports.User),
		byEmail: make(map[string]string),
	}
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, id string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return ports.User{}, ErrNotFound
	}
	return u, nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return ports.User{}, ErrNotFound
	}
	return s.users[id], nil
}

// Create stores a new user.
func (s *UserStore) Create(ctx context.Context, u ports.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return ports.ErrDuplicate
	}
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return nil
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byEmail, u.Email)
	delete(s.users, id)
	return nil
}

// SetActive sets the activation flag on a user.
func (s *UserStore) SetActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Active = active
	s.users[id] = u
	return nil
}

// List returns all users ordered by creation time, then id.
func (s *UserStore) List(ctx context.Context) ([]ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Ensure interface compliance.
var _ ports.UserStore = (*UserStore)(nil)
