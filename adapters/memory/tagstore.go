package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/askhub/askhub/ports"
)

// TagStore is an in-memory implementation of ports.TagStore.
type TagStore struct {
	mu   sync.RWMutex
	tags map[string]ports.Tag
}

// NewTagStore creates a new in-memory tag store.
func NewTagStore() *TagStore {
	return &TagStore{tags: make(map[string]ports.Tag)}
}

// Get retrieves a tag by ID.
func (s *TagStore) Get(ctx context.Context, id string) (ports.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tags[id]
	if !ok {
		return ports.Tag{}, ErrNotFound
	}
	return t, nil
}

// Create stores a new tag.
func (s *TagStore) Create(ctx context.Context, t ports.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[t.ID] = t
	return nil
}

// Delete removes a tag.
func (s *TagStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[id]; !ok {
		return ErrNotFound
	}
	delete(s.tags, id)
	return nil
}

// SetActive sets the activation flag on a tag.
func (s *TagStore) SetActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[id]
	if !ok {
		return ErrNotFound
	}
	t.Active = active
	s.tags[id] = t
	return nil
}

// List returns all tags ordered by name.
func (s *TagStore) List(ctx context.Context) ([]ports.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Ensure interface compliance.
var _ ports.TagStore = (*TagStore)(nil)
