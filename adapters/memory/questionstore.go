package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/askhub/askhub/ports"
)

// QuestionStore is an in-memory implementation of ports.QuestionStore.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[string]ports.Question
}

// NewQuestionStore creates a new in-memory question store.
func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[string]ports.Question)}
}

// Get retrieves a question by ID.
func (s *QuestionStore) Get(ctx context.Context, id string) (ports.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return ports.Question{}, ErrNotFound
	}
	return q, nil
}

// Create stores a new question.
func (s *QuestionStore) Create(ctx context.Context, q ports.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	return nil
}

// Delete removes a question.
func (s *QuestionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

// SetActive sets the visibility flag on a question.
func (s *QuestionStore) SetActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return ErrNotFound
	}
	q.Active = active
	s.questions[id] = q
	return nil
}

// List returns all questions, newest first.
func (s *QuestionStore) List(ctx context.Context) ([]ports.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Ensure interface compliance.
var _ ports.QuestionStore = (*QuestionStore)(nil)
